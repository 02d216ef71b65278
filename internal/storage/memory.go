package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lebonmot/reviews-backend/internal/models"
)

// MemoryStore holds all data in memory, used for tests and local development
type MemoryStore struct {
	clients  map[string]*models.Client // keyed by phone
	orders   map[string]*models.Order
	reviews  map[uint]*models.Review
	workers  map[string]*models.Worker
	tasks    map[string]*models.Task
	messages []*models.SupportMessage

	// Mutexes for thread safety
	clientMu  sync.RWMutex
	orderMu   sync.RWMutex
	reviewMu  sync.RWMutex
	workerMu  sync.RWMutex
	taskMu    sync.RWMutex
	messageMu sync.RWMutex

	// Counters for ID generation
	clientCounter int
	orderCounter  int
	reviewCounter uint
	workerCounter int
	taskCounter   int
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clients: make(map[string]*models.Client),
		orders:  make(map[string]*models.Order),
		reviews: make(map[uint]*models.Review),
		workers: make(map[string]*models.Worker),
		tasks:   make(map[string]*models.Task),
	}
}

// Client operations

func (m *MemoryStore) GetOrCreateClient(phone string) (*models.Client, error) {
	m.clientMu.Lock()
	defer m.clientMu.Unlock()

	if client, exists := m.clients[phone]; exists {
		return client, nil
	}

	m.clientCounter++
	client := &models.Client{
		ClientID: fmt.Sprintf("CL%05d", m.clientCounter),
		Phone:    phone,
	}
	client.CreatedAt = time.Now()
	m.clients[phone] = client
	return client, nil
}

func (m *MemoryStore) GetClientByID(clientID string) (*models.Client, error) {
	m.clientMu.RLock()
	defer m.clientMu.RUnlock()

	for _, client := range m.clients {
		if client.ClientID == clientID {
			return client, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateClientUsername(phone, username string) error {
	m.clientMu.Lock()
	defer m.clientMu.Unlock()

	client, exists := m.clients[phone]
	if !exists {
		return ErrNotFound
	}
	client.Username = username
	return nil
}

// Order operations

func (m *MemoryStore) CreateOrder(order *models.Order) (*models.Order, error) {
	m.orderMu.Lock()
	defer m.orderMu.Unlock()

	m.orderCounter++
	if order.OrderID == "" {
		order.OrderID = fmt.Sprintf("OR%05d", m.orderCounter)
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	m.orders[order.OrderID] = order
	return order, nil
}

func (m *MemoryStore) GetOrder(orderID string) (*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	order, exists := m.orders[orderID]
	if !exists {
		return nil, ErrNotFound
	}
	return order, nil
}

func (m *MemoryStore) GetClientOrders(clientID string) ([]*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	var orders []*models.Order
	for _, order := range m.orders {
		if order.ClientID == clientID {
			orders = append(orders, order)
		}
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (m *MemoryStore) GetAllOrders() ([]*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	orders := make([]*models.Order, 0, len(m.orders))
	for _, order := range m.orders {
		orders = append(orders, order)
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (m *MemoryStore) UpdateOrderStatus(orderID, status string) error {
	m.orderMu.Lock()
	defer m.orderMu.Unlock()

	order, exists := m.orders[orderID]
	if !exists {
		return ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) DeleteOrder(orderID string) error {
	m.orderMu.Lock()
	defer m.orderMu.Unlock()

	if _, exists := m.orders[orderID]; !exists {
		return ErrNotFound
	}
	delete(m.orders, orderID)
	return nil
}

// Review operations

func (m *MemoryStore) AddReview(review *models.Review) (*models.Review, error) {
	m.reviewMu.Lock()
	defer m.reviewMu.Unlock()

	m.reviewCounter++
	review.ID = m.reviewCounter
	review.CreatedAt = time.Now()
	m.reviews[review.ID] = review
	return review, nil
}

func (m *MemoryStore) GetOrderReviews(orderID string) ([]*models.Review, error) {
	m.reviewMu.RLock()
	defer m.reviewMu.RUnlock()

	var reviews []*models.Review
	for _, review := range m.reviews {
		if review.OrderID == orderID {
			reviews = append(reviews, review)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

func (m *MemoryStore) DeleteReview(id uint) error {
	m.reviewMu.Lock()
	defer m.reviewMu.Unlock()

	if _, exists := m.reviews[id]; !exists {
		return ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

// Worker operations

func (m *MemoryStore) CreateWorker(worker *models.Worker) (*models.Worker, error) {
	m.workerMu.Lock()
	defer m.workerMu.Unlock()

	m.workerCounter++
	if worker.WorkerID == "" {
		worker.WorkerID = fmt.Sprintf("WK%05d", m.workerCounter)
	}
	if worker.Status == "" {
		worker.Status = models.WorkerStatusPending
	}
	worker.CreatedAt = time.Now()

	m.workers[worker.WorkerID] = worker
	return worker, nil
}

func (m *MemoryStore) GetWorker(workerID string) (*models.Worker, error) {
	m.workerMu.RLock()
	defer m.workerMu.RUnlock()

	worker, exists := m.workers[workerID]
	if !exists {
		return nil, ErrNotFound
	}
	return worker, nil
}

func (m *MemoryStore) GetAllWorkers() ([]*models.Worker, error) {
	m.workerMu.RLock()
	defer m.workerMu.RUnlock()

	workers := make([]*models.Worker, 0, len(m.workers))
	for _, worker := range m.workers {
		workers = append(workers, worker)
	}
	sort.Slice(workers, func(i, j int) bool { return workers[i].WorkerID < workers[j].WorkerID })
	return workers, nil
}

func (m *MemoryStore) UpdateWorkerStatus(workerID, status string) error {
	m.workerMu.Lock()
	defer m.workerMu.Unlock()

	worker, exists := m.workers[workerID]
	if !exists {
		return ErrNotFound
	}
	worker.Status = status
	worker.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) CreditWorker(workerID string, amount float64) (*models.Worker, error) {
	m.workerMu.Lock()
	defer m.workerMu.Unlock()

	worker, exists := m.workers[workerID]
	if !exists {
		return nil, ErrNotFound
	}
	worker.Balance += amount
	worker.UpdatedAt = time.Now()
	return worker, nil
}

// Task operations

func (m *MemoryStore) CreateTask(task *models.Task) (*models.Task, error) {
	m.taskMu.Lock()
	defer m.taskMu.Unlock()

	m.taskCounter++
	if task.TaskID == "" {
		task.TaskID = fmt.Sprintf("TA%05d", m.taskCounter)
	}
	if task.Status == "" {
		task.Status = models.TaskStatusAvailable
	}
	if task.Reward == 0 {
		task.Reward = models.DefaultTaskReward
	}
	task.CreatedAt = time.Now()

	m.tasks[task.TaskID] = task
	return task, nil
}

func (m *MemoryStore) GetTask(taskID string) (*models.Task, error) {
	m.taskMu.RLock()
	defer m.taskMu.RUnlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return nil, ErrNotFound
	}
	return task, nil
}

func (m *MemoryStore) GetTasksByStatus(status string) ([]*models.Task, error) {
	m.taskMu.RLock()
	defer m.taskMu.RUnlock()

	var tasks []*models.Task
	for _, task := range m.tasks {
		if task.Status == status {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].TaskID < tasks[j].TaskID })
	return tasks, nil
}

func (m *MemoryStore) UpdateTaskStatus(taskID, status string) error {
	m.taskMu.Lock()
	defer m.taskMu.Unlock()

	task, exists := m.tasks[taskID]
	if !exists {
		return ErrNotFound
	}
	task.Status = status
	task.UpdatedAt = time.Now()
	return nil
}

// Support operations

func (m *MemoryStore) SaveSupportMessage(msg *models.SupportMessage) error {
	m.messageMu.Lock()
	defer m.messageMu.Unlock()

	msg.CreatedAt = time.Now()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *MemoryStore) GetSupportMessages(clientID string) ([]*models.SupportMessage, error) {
	m.messageMu.RLock()
	defer m.messageMu.RUnlock()

	var messages []*models.SupportMessage
	for _, msg := range m.messages {
		if msg.ClientID == clientID {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

func (m *MemoryStore) GetAllSupportMessages() ([]*models.SupportMessage, error) {
	m.messageMu.RLock()
	defer m.messageMu.RUnlock()

	messages := make([]*models.SupportMessage, len(m.messages))
	copy(messages, m.messages)
	return messages, nil
}

// Dashboard

func (m *MemoryStore) GetStats() (*models.Stats, error) {
	stats := &models.Stats{}

	m.clientMu.RLock()
	stats.TotalClients = len(m.clients)
	m.clientMu.RUnlock()

	m.workerMu.RLock()
	stats.TotalWorkers = len(m.workers)
	for _, worker := range m.workers {
		if worker.Status == models.WorkerStatusActive {
			stats.ActiveWorkers++
		}
	}
	m.workerMu.RUnlock()

	m.orderMu.RLock()
	stats.TotalOrders = len(m.orders)
	for _, order := range m.orders {
		switch order.Status {
		case models.OrderStatusPending:
			stats.PendingOrders++
		case models.OrderStatusCompleted:
			stats.CompletedOrders++
		}
		if order.Status != models.OrderStatusCancelled {
			stats.TotalRevenue += order.Price
		}
	}
	m.orderMu.RUnlock()

	m.taskMu.RLock()
	for _, task := range m.tasks {
		if task.Status == models.TaskStatusSubmitted {
			stats.PendingTasks++
		}
	}
	m.taskMu.RUnlock()

	return stats, nil
}

func sortOrdersNewestFirst(orders []*models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
