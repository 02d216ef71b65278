package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lebonmot/reviews-backend/internal/models"
)

// DatabaseStore implements Store on top of PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Client operations

func (d *DatabaseStore) GetOrCreateClient(phone string) (*models.Client, error) {
	var client models.Client
	err := d.db.Where("phone = ?", phone).First(&client).Error
	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{Phone: phone}
	if err := d.db.Create(&client).Error; err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &client, nil
}

func (d *DatabaseStore) GetClientByID(clientID string) (*models.Client, error) {
	var client models.Client
	if err := d.db.Where("client_id = ?", clientID).First(&client).Error; err != nil {
		return nil, translateError(err)
	}
	return &client, nil
}

func (d *DatabaseStore) UpdateClientUsername(phone, username string) error {
	result := d.db.Model(&models.Client{}).Where("phone = ?", phone).Update("username", username)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Order operations

func (d *DatabaseStore) CreateOrder(order *models.Order) (*models.Order, error) {
	if err := d.db.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func (d *DatabaseStore) GetOrder(orderID string) (*models.Order, error) {
	var order models.Order
	if err := d.db.Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

func (d *DatabaseStore) GetClientOrders(clientID string) ([]*models.Order, error) {
	var orders []*models.Order
	err := d.db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (d *DatabaseStore) GetAllOrders() ([]*models.Order, error) {
	var orders []*models.Order
	err := d.db.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (d *DatabaseStore) UpdateOrderStatus(orderID, status string) error {
	result := d.db.Model(&models.Order{}).Where("order_id = ?", orderID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStore) DeleteOrder(orderID string) error {
	result := d.db.Where("order_id = ?", orderID).Delete(&models.Order{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Review operations

func (d *DatabaseStore) AddReview(review *models.Review) (*models.Review, error) {
	if err := d.db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to add review: %w", err)
	}
	return review, nil
}

func (d *DatabaseStore) GetOrderReviews(orderID string) ([]*models.Review, error) {
	var reviews []*models.Review
	err := d.db.Where("order_id = ?", orderID).Order("id ASC").Find(&reviews).Error
	return reviews, err
}

func (d *DatabaseStore) DeleteReview(id uint) error {
	result := d.db.Delete(&models.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Worker operations

func (d *DatabaseStore) CreateWorker(worker *models.Worker) (*models.Worker, error) {
	if err := d.db.Create(worker).Error; err != nil {
		return nil, fmt.Errorf("failed to create worker: %w", err)
	}
	return worker, nil
}

func (d *DatabaseStore) GetWorker(workerID string) (*models.Worker, error) {
	var worker models.Worker
	if err := d.db.Where("worker_id = ?", workerID).First(&worker).Error; err != nil {
		return nil, translateError(err)
	}
	return &worker, nil
}

func (d *DatabaseStore) GetAllWorkers() ([]*models.Worker, error) {
	var workers []*models.Worker
	err := d.db.Order("worker_id ASC").Find(&workers).Error
	return workers, err
}

func (d *DatabaseStore) UpdateWorkerStatus(workerID, status string) error {
	result := d.db.Model(&models.Worker{}).Where("worker_id = ?", workerID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStore) CreditWorker(workerID string, amount float64) (*models.Worker, error) {
	var worker models.Worker
	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("worker_id = ?", workerID).First(&worker).Error; err != nil {
			return translateError(err)
		}
		worker.Balance += amount
		return tx.Model(&worker).Update("balance", worker.Balance).Error
	})
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

// Task operations

func (d *DatabaseStore) CreateTask(task *models.Task) (*models.Task, error) {
	if err := d.db.Create(task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (d *DatabaseStore) GetTask(taskID string) (*models.Task, error) {
	var task models.Task
	if err := d.db.Where("task_id = ?", taskID).First(&task).Error; err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

func (d *DatabaseStore) GetTasksByStatus(status string) ([]*models.Task, error) {
	var tasks []*models.Task
	err := d.db.Where("status = ?", status).Order("task_id ASC").Find(&tasks).Error
	return tasks, err
}

func (d *DatabaseStore) UpdateTaskStatus(taskID, status string) error {
	result := d.db.Model(&models.Task{}).Where("task_id = ?", taskID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Support operations

func (d *DatabaseStore) SaveSupportMessage(msg *models.SupportMessage) error {
	return d.db.Create(msg).Error
}

func (d *DatabaseStore) GetSupportMessages(clientID string) ([]*models.SupportMessage, error) {
	var messages []*models.SupportMessage
	err := d.db.Where("client_id = ?", clientID).Order("created_at ASC").Find(&messages).Error
	return messages, err
}

func (d *DatabaseStore) GetAllSupportMessages() ([]*models.SupportMessage, error) {
	var messages []*models.SupportMessage
	err := d.db.Order("created_at DESC").Find(&messages).Error
	return messages, err
}

// Dashboard

func (d *DatabaseStore) GetStats() (*models.Stats, error) {
	stats := &models.Stats{}

	var clients, workers, activeWorkers, orders, pending, completed, pendingTasks int64

	if err := d.db.Model(&models.Client{}).Count(&clients).Error; err != nil {
		return nil, err
	}
	d.db.Model(&models.Worker{}).Count(&workers)
	d.db.Model(&models.Worker{}).Where("status = ?", models.WorkerStatusActive).Count(&activeWorkers)
	d.db.Model(&models.Order{}).Count(&orders)
	d.db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pending)
	d.db.Model(&models.Order{}).Where("status = ?", models.OrderStatusCompleted).Count(&completed)
	d.db.Model(&models.Task{}).Where("status = ?", models.TaskStatusSubmitted).Count(&pendingTasks)

	var revenue float64
	d.db.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(price), 0)").Scan(&revenue)

	stats.TotalClients = int(clients)
	stats.TotalWorkers = int(workers)
	stats.ActiveWorkers = int(activeWorkers)
	stats.TotalOrders = int(orders)
	stats.PendingOrders = int(pending)
	stats.CompletedOrders = int(completed)
	stats.PendingTasks = int(pendingTasks)
	stats.TotalRevenue = revenue

	return stats, nil
}
