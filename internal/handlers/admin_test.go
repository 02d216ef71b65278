package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/lebonmot/reviews-backend/internal/middleware"
	"github.com/lebonmot/reviews-backend/internal/models"
	"github.com/lebonmot/reviews-backend/internal/services"
	"github.com/lebonmot/reviews-backend/internal/storage"
)

func newAdminTestApp(t *testing.T) (*fiber.App, *storage.MemoryStore, *services.NotificationBridge) {
	t.Helper()

	store := storage.NewMemoryStore()
	bridge := services.NewNotificationBridge()
	handler := NewAdminHandler(store, bridge)

	app := fiber.New()
	app.Post("/admin/login", handler.Login)
	app.Get("/admin/orders", handler.GetOrders)
	app.Get("/admin/orders/:orderID", handler.GetOrder)
	app.Put("/admin/orders/:orderID/status", handler.UpdateOrderStatus)
	app.Post("/admin/orders/:orderID/reviews", handler.AddReview)
	app.Post("/admin/orders/:orderID/distribute", handler.DistributeOrder)
	app.Put("/admin/workers/:workerID/status", handler.UpdateWorkerStatus)
	app.Post("/admin/tasks/:taskID/validate", handler.ValidateTask)
	app.Post("/admin/tasks/:taskID/reject", handler.RejectTask)
	app.Post("/admin/clients/:clientID/reply", handler.ReplyToClient)
	app.Get("/admin/stats", handler.GetStats)

	return app, store, bridge
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestAdminLogin(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("ADMIN_SECRET_KEY", "test-secret")

	app, _, _ := newAdminTestApp(t)

	resp, body := doJSON(t, app, "POST", "/admin/login", fiber.Map{"password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = doJSON(t, app, "POST", "/admin/login", fiber.Map{"password": "hunter2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["token"])
}

func TestRequireAdminMiddleware(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("ADMIN_SECRET_KEY", "test-secret")

	store := storage.NewMemoryStore()
	bridge := services.NewNotificationBridge()
	handler := NewAdminHandler(store, bridge)

	app := fiber.New()
	app.Post("/admin/login", handler.Login)
	protected := app.Group("/admin", middleware.RequireAdmin())
	protected.Get("/stats", handler.GetStats)

	// No token
	resp, _ := doJSON(t, app, "GET", "/admin/stats", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Garbage token
	req := httptest.NewRequest("GET", "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Real token from login
	_, body := doJSON(t, app, "POST", "/admin/login", fiber.Map{"password": "hunter2"})
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	req = httptest.NewRequest("GET", "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDistributeOrderWithShortfall(t *testing.T) {
	app, store, _ := newAdminTestApp(t)

	order, err := store.CreateOrder(&models.Order{
		ClientID: "CL00001",
		Platform: models.PlatformGoogleReviews,
		Quantity: 5,
		Price:    25.0,
	})
	require.NoError(t, err)

	// Only three of the five ordered reviews are prepared
	for i := 0; i < 3; i++ {
		_, err := store.AddReview(&models.Review{OrderID: order.OrderID, Content: fmt.Sprintf("review %d", i)})
		require.NoError(t, err)
	}

	resp, body := doJSON(t, app, "POST", "/admin/orders/"+order.OrderID+"/distribute", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(3), body["tasks_created"])
	require.Equal(t, float64(5), body["ordered"])
	require.Equal(t, float64(2), body["shortfall"])

	updated, err := store.GetOrder(order.OrderID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusDistributed, updated.Status)

	tasks, err := store.GetTasksByStatus(models.TaskStatusAvailable)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	// Re-distributing a distributed order is refused
	resp, _ = doJSON(t, app, "POST", "/admin/orders/"+order.OrderID+"/distribute", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidateTaskCreditsWorkerAndNotifies(t *testing.T) {
	app, store, bridge := newAdminTestApp(t)

	worker, err := store.CreateWorker(&models.Worker{Phone: "+33611111111", Status: models.WorkerStatusActive})
	require.NoError(t, err)

	task, err := store.CreateTask(&models.Task{
		OrderID:  "OR00001",
		WorkerID: worker.WorkerID,
		Status:   models.TaskStatusSubmitted,
	})
	require.NoError(t, err)

	resp, body := doJSON(t, app, "POST", "/admin/tasks/"+task.TaskID+"/validate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, models.DefaultTaskReward, body["worker_balance"])

	credited, err := store.GetWorker(worker.WorkerID)
	require.NoError(t, err)
	require.Equal(t, models.DefaultTaskReward, credited.Balance)

	// The worker notification went through the bridge, not the transport
	notifications := bridge.Drain()
	require.Len(t, notifications, 1)
	require.Equal(t, "+33611111111", notifications[0].Phone)
	require.Contains(t, notifications[0].Text, "Task validated")

	// A validated task cannot be validated twice
	resp, _ = doJSON(t, app, "POST", "/admin/tasks/"+task.TaskID+"/validate", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRejectTaskReopensAndNotifies(t *testing.T) {
	app, store, bridge := newAdminTestApp(t)

	worker, _ := store.CreateWorker(&models.Worker{Phone: "+33622222222", Status: models.WorkerStatusActive})
	task, _ := store.CreateTask(&models.Task{
		OrderID:  "OR00001",
		WorkerID: worker.WorkerID,
		Status:   models.TaskStatusSubmitted,
	})

	resp, _ := doJSON(t, app, "POST", "/admin/tasks/"+task.TaskID+"/reject", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reopened, err := store.GetTask(task.TaskID)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusAvailable, reopened.Status)

	notifications := bridge.Drain()
	require.Len(t, notifications, 1)
	require.Contains(t, notifications[0].Text, "Task rejected")
}

func TestUpdateWorkerStatusNotifies(t *testing.T) {
	app, store, bridge := newAdminTestApp(t)

	worker, _ := store.CreateWorker(&models.Worker{Phone: "+33633333333"})

	resp, _ := doJSON(t, app, "PUT", "/admin/workers/"+worker.WorkerID+"/status", fiber.Map{"status": "active"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	notifications := bridge.Drain()
	require.Len(t, notifications, 1)
	require.Contains(t, notifications[0].Text, "approved")

	resp, _ = doJSON(t, app, "PUT", "/admin/workers/"+worker.WorkerID+"/status", fiber.Map{"status": "retired"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReplyToClientQueuesNotification(t *testing.T) {
	app, store, bridge := newAdminTestApp(t)

	client, err := store.GetOrCreateClient("+33644444444")
	require.NoError(t, err)

	resp, _ := doJSON(t, app, "POST", "/admin/clients/"+client.ClientID+"/reply", fiber.Map{"message": "it ships tomorrow"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	notifications := bridge.Drain()
	require.Len(t, notifications, 1)
	require.Equal(t, "+33644444444", notifications[0].Phone)
	require.Contains(t, notifications[0].Text, "Support: it ships tomorrow")

	saved, err := store.GetSupportMessages(client.ClientID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.Equal(t, models.SupportAuthorAdmin, saved[0].Author)

	resp, _ = doJSON(t, app, "POST", "/admin/clients/CL99999/reply", fiber.Map{"message": "hello"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrderStatusValidation(t *testing.T) {
	app, store, _ := newAdminTestApp(t)

	order, _ := store.CreateOrder(&models.Order{ClientID: "CL00001", Quantity: 1, Price: 5.0})

	resp, _ := doJSON(t, app, "PUT", "/admin/orders/"+order.OrderID+"/status", fiber.Map{"status": "paid"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT", "/admin/orders/"+order.OrderID+"/status", fiber.Map{"status": "bogus"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT", "/admin/orders/OR99999/status", fiber.Map{"status": "paid"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
