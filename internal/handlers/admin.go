package handlers

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lebonmot/reviews-backend/internal/models"
	"github.com/lebonmot/reviews-backend/internal/services"
	"github.com/lebonmot/reviews-backend/internal/storage"
)

// AdminHandler exposes the back-office JSON API. User-facing notifications
// triggered here never touch the transport directly; they go through the
// bridge and are sent by the conversation runtime.
type AdminHandler struct {
	store  storage.Store
	bridge *services.NotificationBridge
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store storage.Store, bridge *services.NotificationBridge) *AdminHandler {
	return &AdminHandler{
		store:  store,
		bridge: bridge,
	}
}

// Login exchanges the admin password for a bearer token valid 24 hours.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Password == "" || req.Password != os.Getenv("ADMIN_PASSWORD") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("ADMIN_SECRET_KEY")))
	if err != nil {
		log.Printf("Failed to sign admin token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create token",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   signed,
	})
}

// GetOrders lists orders, optionally filtered by status (?status=pending).
func (h *AdminHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.store.GetAllOrders()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch orders",
		})
	}

	if status := c.Query("status"); status != "" {
		filtered := make([]*models.Order, 0, len(orders))
		for _, order := range orders {
			if order.Status == status {
				filtered = append(filtered, order)
			}
		}
		orders = filtered
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
		"count":   len(orders),
	})
}

// GetOrder returns one order with its reviews.
func (h *AdminHandler) GetOrder(c *fiber.Ctx) error {
	orderID := c.Params("orderID")

	order, err := h.store.GetOrder(orderID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}

	reviews, err := h.store.GetOrderReviews(orderID)
	if err != nil {
		reviews = nil
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
		"reviews": reviews,
	})
}

// UpdateOrderStatus moves an order to a new status.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("orderID")

	var req struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !validOrderStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown order status",
		})
	}

	if err := h.store.UpdateOrderStatus(orderID, req.Status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update order",
		})
	}

	log.Printf("Order %s moved to %s", orderID, req.Status)

	return c.JSON(fiber.Map{
		"success": true,
		"order": fiber.Map{
			"id":     orderID,
			"status": req.Status,
		},
	})
}

// DeleteOrder removes an order.
func (h *AdminHandler) DeleteOrder(c *fiber.Ctx) error {
	orderID := c.Params("orderID")

	if err := h.store.DeleteOrder(orderID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Order not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete order",
		})
	}

	log.Printf("Order %s deleted by admin", orderID)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order deleted",
	})
}

// AddReview attaches prepared review content to an order.
func (h *AdminHandler) AddReview(c *fiber.Ctx) error {
	orderID := c.Params("orderID")

	var req struct {
		Content string  `json:"content"`
		Rating  float64 `json:"rating"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Review content is required",
		})
	}

	if _, err := h.store.GetOrder(orderID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}

	review := &models.Review{
		OrderID: orderID,
		Content: req.Content,
		Rating:  req.Rating,
	}
	if review.Rating == 0 {
		review.Rating = 5.0
	}

	created, err := h.store.AddReview(review)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save review",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"review":  created,
	})
}

// DeleteReview removes one prepared review.
func (h *AdminHandler) DeleteReview(c *fiber.Ctx) error {
	reviewID, err := c.ParamsInt("reviewID")
	if err != nil || reviewID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid review id",
		})
	}

	if err := h.store.DeleteReview(uint(reviewID)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Review not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete review",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Review deleted",
	})
}

// DistributeOrder turns an order's prepared reviews into worker tasks.
// When there are fewer reviews than ordered, the order is still distributed
// and the shortfall is reported in the response.
func (h *AdminHandler) DistributeOrder(c *fiber.Ctx) error {
	orderID := c.Params("orderID")

	order, err := h.store.GetOrder(orderID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}

	if order.Status == models.OrderStatusDistributed || order.Status == models.OrderStatusCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Order is already " + order.Status,
		})
	}

	reviews, err := h.store.GetOrderReviews(orderID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch reviews",
		})
	}

	if len(reviews) > order.Quantity {
		reviews = reviews[:order.Quantity]
	}

	created := 0
	for _, review := range reviews {
		task := &models.Task{
			OrderID:  orderID,
			ReviewID: review.ID,
			Reward:   models.DefaultTaskReward,
		}
		if _, err := h.store.CreateTask(task); err != nil {
			log.Printf("Failed to create task for order %s review %d: %v", orderID, review.ID, err)
			continue
		}
		created++
	}

	if err := h.store.UpdateOrderStatus(orderID, models.OrderStatusDistributed); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update order status",
		})
	}

	shortfall := order.Quantity - created
	if shortfall < 0 {
		shortfall = 0
	}
	if shortfall > 0 {
		log.Printf("⚠️ Order %s distributed with shortfall: %d tasks for %d ordered reviews",
			orderID, created, order.Quantity)
	} else {
		log.Printf("Order %s distributed: %d tasks created", orderID, created)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"tasks_created": created,
		"ordered":       order.Quantity,
		"shortfall":     shortfall,
	})
}

// GetWorkers lists all workers.
func (h *AdminHandler) GetWorkers(c *fiber.Ctx) error {
	workers, err := h.store.GetAllWorkers()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch workers",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"workers": workers,
		"count":   len(workers),
	})
}

// UpdateWorkerStatus approves or blocks a worker and queues the matching
// notification for the runtime to deliver.
func (h *AdminHandler) UpdateWorkerStatus(c *fiber.Ctx) error {
	workerID := c.Params("workerID")

	var req struct {
		Status string `json:"status"` // "active" or "blocked"
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Status != models.WorkerStatusActive && req.Status != models.WorkerStatusBlocked {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be 'active' or 'blocked'",
		})
	}

	worker, err := h.store.GetWorker(workerID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Worker not found",
		})
	}

	if err := h.store.UpdateWorkerStatus(workerID, req.Status); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update worker",
		})
	}

	if req.Status == models.WorkerStatusActive {
		h.bridge.Enqueue(worker.Phone, services.WorkerApprovedText())
	} else {
		h.bridge.Enqueue(worker.Phone, services.WorkerBlockedText())
	}

	log.Printf("Worker %s moved to %s", workerID, req.Status)

	return c.JSON(fiber.Map{
		"success": true,
		"worker": fiber.Map{
			"id":     workerID,
			"status": req.Status,
		},
	})
}

// GetTasks lists tasks, optionally filtered by status (?status=submitted).
func (h *AdminHandler) GetTasks(c *fiber.Ctx) error {
	status := c.Query("status", models.TaskStatusSubmitted)

	tasks, err := h.store.GetTasksByStatus(status)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tasks",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

// ValidateTask accepts a worker submission, credits the reward and queues
// the confirmation notification.
func (h *AdminHandler) ValidateTask(c *fiber.Ctx) error {
	taskID := c.Params("taskID")

	task, err := h.store.GetTask(taskID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	if task.Status != models.TaskStatusSubmitted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only submitted tasks can be validated",
		})
	}

	if err := h.store.UpdateTaskStatus(taskID, models.TaskStatusValidated); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task",
		})
	}

	worker, err := h.store.CreditWorker(task.WorkerID, task.Reward)
	if err != nil {
		log.Printf("Failed to credit worker %s for task %s: %v", task.WorkerID, taskID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Task validated but crediting failed",
		})
	}

	h.bridge.Enqueue(worker.Phone, services.TaskValidatedText(taskID, task.Reward, worker.Balance))

	log.Printf("Task %s validated, %s credited to worker %s", taskID, services.FormatPrice(task.Reward), task.WorkerID)

	return c.JSON(fiber.Map{
		"success": true,
		"task": fiber.Map{
			"id":     taskID,
			"status": models.TaskStatusValidated,
		},
		"worker_balance": worker.Balance,
	})
}

// RejectTask refuses a worker submission and reopens the task.
func (h *AdminHandler) RejectTask(c *fiber.Ctx) error {
	taskID := c.Params("taskID")

	task, err := h.store.GetTask(taskID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	if task.Status != models.TaskStatusSubmitted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only submitted tasks can be rejected",
		})
	}

	workerID := task.WorkerID

	if err := h.store.UpdateTaskStatus(taskID, models.TaskStatusAvailable); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task",
		})
	}

	if workerID != "" {
		if worker, err := h.store.GetWorker(workerID); err == nil {
			h.bridge.Enqueue(worker.Phone, services.TaskRejectedText(taskID))
		}
	}

	log.Printf("Task %s rejected, returned to available pool", taskID)

	return c.JSON(fiber.Map{
		"success": true,
		"task": fiber.Map{
			"id":     taskID,
			"status": models.TaskStatusAvailable,
		},
	})
}

// ReplyToClient queues a support reply for delivery to the client.
func (h *AdminHandler) ReplyToClient(c *fiber.Ctx) error {
	clientID := c.Params("clientID")

	var req struct {
		Message string `json:"message"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	client, err := h.store.GetClientByID(clientID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Client not found",
		})
	}

	msg := &models.SupportMessage{
		ClientID: clientID,
		Text:     req.Message,
		Author:   models.SupportAuthorAdmin,
	}
	if err := h.store.SaveSupportMessage(msg); err != nil {
		log.Printf("Failed to save admin reply for %s: %v", clientID, err)
	}

	h.bridge.Enqueue(client.Phone, services.SupportReplyText(req.Message))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Reply queued for delivery",
	})
}

// GetStats returns the platform overview.
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.store.GetStats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute stats",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// GetMessages lists support messages, for one client (?client_id=) or all.
func (h *AdminHandler) GetMessages(c *fiber.Ctx) error {
	var (
		messages []*models.SupportMessage
		err      error
	)

	if clientID := c.Query("client_id"); clientID != "" {
		messages, err = h.store.GetSupportMessages(clientID)
	} else {
		messages, err = h.store.GetAllSupportMessages()
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch messages",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"messages": messages,
		"count":    len(messages),
	})
}

func validOrderStatus(status string) bool {
	switch status {
	case models.OrderStatusPending,
		models.OrderStatusPaid,
		models.OrderStatusDistributed,
		models.OrderStatusCompleted,
		models.OrderStatusCancelled:
		return true
	}
	return false
}
