package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lebonmot/reviews-backend/internal/storage"
)

// recordingSender captures outbound messages for assertions.
type recordingSender struct {
	mu       sync.Mutex
	messages []sentMessage
}

type sentMessage struct {
	To   string
	Body string
}

func (r *recordingSender) SendMessage(to, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, sentMessage{To: to, Body: body})
	return nil
}

func (r *recordingSender) sent() []sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sentMessage, len(r.messages))
	copy(out, r.messages)
	return out
}

func newTestRuntime(t *testing.T) (*ConversationRuntime, *NotificationBridge, *recordingSender) {
	t.Helper()
	store := storage.NewMemoryStore()
	engine := NewOrderFlowEngine(store, NewSessionStore())
	bridge := NewNotificationBridge()
	sender := &recordingSender{}
	return NewConversationRuntime(engine, bridge, sender), bridge, sender
}

func TestRuntimeRepliesToInboundEvents(t *testing.T) {
	runtime, _, sender := newTestRuntime(t)
	runtime.Start()
	defer runtime.Stop()

	require.True(t, runtime.Submit("+33612345678", "order:start"))

	require.Eventually(t, func() bool {
		return len(sender.sent()) == 1
	}, time.Second, 10*time.Millisecond)

	msg := sender.sent()[0]
	require.Equal(t, "+33612345678", msg.To)
	require.Contains(t, msg.Body, "Step 1/6")
	require.Contains(t, msg.Body, "order:platform_google")
}

func TestRuntimeDeliversBridgeNotifications(t *testing.T) {
	runtime, bridge, sender := newTestRuntime(t)
	runtime.Start()
	defer runtime.Stop()

	for i := 0; i < 10; i++ {
		bridge.Enqueue("+33699999999", fmt.Sprintf("notification %d", i))
	}

	require.Eventually(t, func() bool {
		return len(sender.sent()) == 10
	}, time.Second, 10*time.Millisecond)

	messages := sender.sent()
	for i, msg := range messages {
		require.Equal(t, "+33699999999", msg.To)
		require.Equal(t, fmt.Sprintf("notification %d", i), msg.Body)
	}
}

func TestRuntimeInterleavesEventsAndNotifications(t *testing.T) {
	runtime, bridge, sender := newTestRuntime(t)
	runtime.Start()
	defer runtime.Stop()

	require.True(t, runtime.Submit("+33612345678", "order:start"))
	bridge.Enqueue("+33687654321", "your task was validated")

	require.Eventually(t, func() bool {
		return len(sender.sent()) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestRuntimeSilentEventsSendNothing(t *testing.T) {
	runtime, bridge, sender := newTestRuntime(t)
	runtime.Start()
	defer runtime.Stop()

	require.True(t, runtime.Submit("+33612345678", "foo:bar"))

	// Prove the silent event was processed by following with a loud one
	bridge.Enqueue("+33612345678", "marker")
	require.Eventually(t, func() bool {
		return len(sender.sent()) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, "marker", sender.sent()[0].Body)
}

func TestRuntimeStopFlushesNotifications(t *testing.T) {
	runtime, bridge, sender := newTestRuntime(t)
	runtime.Start()

	runtime.Stop()
	require.False(t, runtime.Submit("+33612345678", "order:start"))
	require.Empty(t, sender.sent())

	// The loop is gone; anything enqueued now stays buffered
	bridge.Enqueue("+33611111111", "late notification")
	drained := bridge.Drain()
	require.Len(t, drained, 1)
	require.Equal(t, "late notification", drained[0].Text)

	// Stop is idempotent
	runtime.Stop()
}
