package services

import (
	"log"
	"sync"
)

// Sender pushes one outbound message to a user. The Twilio service satisfies
// this; tests substitute a recorder.
type Sender interface {
	SendMessage(to, body string) error
}

// InboundEvent is one user message handed to the runtime by the webhook.
type InboundEvent struct {
	Phone string
	Text  string
}

// ConversationRuntime serializes all conversation work on a single goroutine.
// Inbound events and admin notifications are interleaved on that goroutine,
// so the flow engine and the transport never see concurrent sends for the
// same loop iteration.
type ConversationRuntime struct {
	engine *OrderFlowEngine
	bridge *NotificationBridge
	sender Sender

	events chan InboundEvent
	done   chan struct{}
	wg     sync.WaitGroup

	stopOnce sync.Once
}

// NewConversationRuntime creates a runtime over the given engine and bridge
func NewConversationRuntime(engine *OrderFlowEngine, bridge *NotificationBridge, sender Sender) *ConversationRuntime {
	return &ConversationRuntime{
		engine: engine,
		bridge: bridge,
		sender: sender,
		events: make(chan InboundEvent, 256),
		done:   make(chan struct{}),
	}
}

// Submit queues one inbound user message. It blocks only while the event
// buffer is full and returns false once the runtime has been stopped.
func (r *ConversationRuntime) Submit(phone, text string) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.events <- InboundEvent{Phone: phone, Text: text}:
		return true
	case <-r.done:
		return false
	}
}

// Start launches the runtime loop.
func (r *ConversationRuntime) Start() {
	r.wg.Add(1)
	go r.loop()
	log.Println("💬 Conversation runtime started")
}

// Stop halts the loop and flushes buffered notifications before returning.
func (r *ConversationRuntime) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
}

func (r *ConversationRuntime) loop() {
	defer r.wg.Done()
	for {
		select {
		case event := <-r.events:
			r.handleInbound(event)
		case notification := <-r.bridge.Notifications():
			r.deliver(notification)
		case <-r.done:
			r.flush()
			return
		}
	}
}

// handleInbound runs one event through the flow engine and sends the reply.
// Send failures are logged and swallowed; the session state has already
// advanced and the user can re-trigger the prompt.
func (r *ConversationRuntime) handleInbound(event InboundEvent) {
	reply, err := r.engine.HandleEvent(event.Phone, event.Text)
	if err != nil {
		log.Printf("Flow error for %s: %v", event.Phone, err)
	}
	if reply.Empty() {
		return
	}
	if err := r.sender.SendMessage(event.Phone, reply.Render()); err != nil {
		log.Printf("Failed to send reply to %s: %v", event.Phone, err)
	}
}

func (r *ConversationRuntime) deliver(n PendingNotification) {
	if err := r.sender.SendMessage(n.Phone, n.Text); err != nil {
		log.Printf("Failed to deliver notification to %s: %v", n.Phone, err)
	}
}

// flush delivers whatever is still buffered at shutdown. Events left in the
// inbound queue are dropped; notifications get a final delivery attempt.
func (r *ConversationRuntime) flush() {
	for _, n := range r.bridge.Drain() {
		r.deliver(n)
	}
}
