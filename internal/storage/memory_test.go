package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lebonmot/reviews-backend/internal/models"
)

func TestGetOrCreateClientIsIdempotent(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.GetOrCreateClient("+33612345678")
	require.NoError(t, err)
	require.NotEmpty(t, first.ClientID)

	second, err := store.GetOrCreateClient("+33612345678")
	require.NoError(t, err)
	require.Equal(t, first.ClientID, second.ClientID)

	other, err := store.GetOrCreateClient("+33687654321")
	require.NoError(t, err)
	require.NotEqual(t, first.ClientID, other.ClientID)

	byID, err := store.GetClientByID(first.ClientID)
	require.NoError(t, err)
	require.Equal(t, "+33612345678", byID.Phone)
}

func TestOrderLifecycle(t *testing.T) {
	store := NewMemoryStore()

	created, err := store.CreateOrder(&models.Order{
		ClientID:   "CL00001",
		Platform:   models.PlatformGoogleReviews,
		Quantity:   10,
		TargetLink: "https://maps.google.com/place/1",
		Price:      50.0,
		TrackingID: "LB123456",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.OrderID)
	require.Equal(t, models.OrderStatusPending, created.Status)

	got, err := store.GetOrder(created.OrderID)
	require.NoError(t, err)
	require.Equal(t, "LB123456", got.TrackingID)

	require.NoError(t, store.UpdateOrderStatus(created.OrderID, models.OrderStatusPaid))
	got, _ = store.GetOrder(created.OrderID)
	require.Equal(t, models.OrderStatusPaid, got.Status)

	require.ErrorIs(t, store.UpdateOrderStatus("OR99999", "paid"), ErrNotFound)

	clientOrders, err := store.GetClientOrders("CL00001")
	require.NoError(t, err)
	require.Len(t, clientOrders, 1)

	require.NoError(t, store.DeleteOrder(created.OrderID))
	_, err = store.GetOrder(created.OrderID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReviewOperations(t *testing.T) {
	store := NewMemoryStore()

	r1, err := store.AddReview(&models.Review{OrderID: "OR00001", Content: "Great service", Rating: 5})
	require.NoError(t, err)
	require.NotZero(t, r1.ID)

	r2, err := store.AddReview(&models.Review{OrderID: "OR00001", Content: "Very professional", Rating: 4.5})
	require.NoError(t, err)
	require.Greater(t, r2.ID, r1.ID)

	_, err = store.AddReview(&models.Review{OrderID: "OR00002", Content: "Other order"})
	require.NoError(t, err)

	reviews, err := store.GetOrderReviews("OR00001")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	require.Equal(t, "Great service", reviews[0].Content)

	require.NoError(t, store.DeleteReview(r1.ID))
	reviews, _ = store.GetOrderReviews("OR00001")
	require.Len(t, reviews, 1)

	require.ErrorIs(t, store.DeleteReview(999), ErrNotFound)
}

func TestWorkerCredit(t *testing.T) {
	store := NewMemoryStore()

	worker, err := store.CreateWorker(&models.Worker{Phone: "+33611111111"})
	require.NoError(t, err)
	require.Equal(t, models.WorkerStatusPending, worker.Status)
	require.Zero(t, worker.Balance)

	require.NoError(t, store.UpdateWorkerStatus(worker.WorkerID, models.WorkerStatusActive))

	credited, err := store.CreditWorker(worker.WorkerID, 1.0)
	require.NoError(t, err)
	require.Equal(t, 1.0, credited.Balance)

	credited, err = store.CreditWorker(worker.WorkerID, 2.5)
	require.NoError(t, err)
	require.Equal(t, 3.5, credited.Balance)

	_, err = store.CreditWorker("WK99999", 1.0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTasksByStatus(t *testing.T) {
	store := NewMemoryStore()

	t1, err := store.CreateTask(&models.Task{OrderID: "OR00001", ReviewID: 1})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusAvailable, t1.Status)
	require.Equal(t, models.DefaultTaskReward, t1.Reward)

	t2, _ := store.CreateTask(&models.Task{OrderID: "OR00001", ReviewID: 2})
	require.NoError(t, store.UpdateTaskStatus(t2.TaskID, models.TaskStatusSubmitted))

	available, err := store.GetTasksByStatus(models.TaskStatusAvailable)
	require.NoError(t, err)
	require.Len(t, available, 1)
	require.Equal(t, t1.TaskID, available[0].TaskID)

	submitted, err := store.GetTasksByStatus(models.TaskStatusSubmitted)
	require.NoError(t, err)
	require.Len(t, submitted, 1)
}

func TestSupportMessages(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.SaveSupportMessage(&models.SupportMessage{
		ClientID: "CL00001",
		Text:     "where is my order?",
		Author:   models.SupportAuthorClient,
	}))
	require.NoError(t, store.SaveSupportMessage(&models.SupportMessage{
		ClientID: "CL00001",
		Text:     "it ships tomorrow",
		Author:   models.SupportAuthorAdmin,
	}))
	require.NoError(t, store.SaveSupportMessage(&models.SupportMessage{
		ClientID: "CL00002",
		Text:     "hello",
		Author:   models.SupportAuthorClient,
	}))

	messages, err := store.GetSupportMessages("CL00001")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, models.SupportAuthorAdmin, messages[1].Author)

	all, err := store.GetAllSupportMessages()
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestStats(t *testing.T) {
	store := NewMemoryStore()

	_, _ = store.GetOrCreateClient("+33611111111")
	_, _ = store.GetOrCreateClient("+33622222222")

	worker, _ := store.CreateWorker(&models.Worker{Phone: "+33633333333"})
	_ = store.UpdateWorkerStatus(worker.WorkerID, models.WorkerStatusActive)
	_, _ = store.CreateWorker(&models.Worker{Phone: "+33644444444"})

	o1, _ := store.CreateOrder(&models.Order{ClientID: "CL00001", Quantity: 5, Price: 25.0})
	o2, _ := store.CreateOrder(&models.Order{ClientID: "CL00002", Quantity: 2, Price: 11.0})
	_ = store.UpdateOrderStatus(o2.OrderID, models.OrderStatusCancelled)
	_ = o1

	task, _ := store.CreateTask(&models.Task{OrderID: o1.OrderID})
	_ = store.UpdateTaskStatus(task.TaskID, models.TaskStatusSubmitted)

	stats, err := store.GetStats()
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalClients)
	require.Equal(t, 2, stats.TotalWorkers)
	require.Equal(t, 1, stats.ActiveWorkers)
	require.Equal(t, 2, stats.TotalOrders)
	require.Equal(t, 1, stats.PendingOrders)
	require.Equal(t, 25.0, stats.TotalRevenue)
	require.Equal(t, 1, stats.PendingTasks)
}
