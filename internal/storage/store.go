package storage

import (
	"errors"

	"github.com/lebonmot/reviews-backend/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

var storeInstance Store

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations
type Store interface {
	// Client operations
	GetOrCreateClient(phone string) (*models.Client, error)
	GetClientByID(clientID string) (*models.Client, error)
	UpdateClientUsername(phone, username string) error

	// Order operations
	CreateOrder(order *models.Order) (*models.Order, error)
	GetOrder(orderID string) (*models.Order, error)
	GetClientOrders(clientID string) ([]*models.Order, error)
	GetAllOrders() ([]*models.Order, error)
	UpdateOrderStatus(orderID, status string) error
	DeleteOrder(orderID string) error

	// Review operations
	AddReview(review *models.Review) (*models.Review, error)
	GetOrderReviews(orderID string) ([]*models.Review, error)
	DeleteReview(id uint) error

	// Worker operations
	CreateWorker(worker *models.Worker) (*models.Worker, error)
	GetWorker(workerID string) (*models.Worker, error)
	GetAllWorkers() ([]*models.Worker, error)
	UpdateWorkerStatus(workerID, status string) error
	CreditWorker(workerID string, amount float64) (*models.Worker, error)

	// Task operations
	CreateTask(task *models.Task) (*models.Task, error)
	GetTask(taskID string) (*models.Task, error)
	GetTasksByStatus(status string) ([]*models.Task, error)
	UpdateTaskStatus(taskID, status string) error

	// Support operations
	SaveSupportMessage(msg *models.SupportMessage) error
	GetSupportMessages(clientID string) ([]*models.SupportMessage, error)
	GetAllSupportMessages() ([]*models.SupportMessage, error)

	// Dashboard
	GetStats() (*models.Stats, error)
}
