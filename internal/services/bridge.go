package services

import "log"

// bridgeCapacity bounds the pending notification buffer. Enqueues beyond
// this drop the notification rather than block the admin request.
const bridgeCapacity = 256

// PendingNotification is one admin-originated message waiting to be pushed
// to a user through the conversation transport.
type PendingNotification struct {
	Phone string
	Text  string
}

// NotificationBridge carries notifications from the admin API goroutines to
// the single conversation runtime goroutine, which owns all outbound sends.
// Delivery is best effort and at most once.
type NotificationBridge struct {
	pending chan PendingNotification
}

// NewNotificationBridge creates a bridge with the default buffer
func NewNotificationBridge() *NotificationBridge {
	return &NotificationBridge{
		pending: make(chan PendingNotification, bridgeCapacity),
	}
}

// Enqueue hands a notification to the conversation runtime. It never blocks;
// when the buffer is full the notification is dropped and logged.
func (b *NotificationBridge) Enqueue(phone, text string) {
	select {
	case b.pending <- PendingNotification{Phone: phone, Text: text}:
	default:
		log.Printf("⚠️ Notification buffer full, dropping message for %s", phone)
	}
}

// Notifications exposes the receive side for the runtime loop.
func (b *NotificationBridge) Notifications() <-chan PendingNotification {
	return b.pending
}

// Drain removes and returns everything currently buffered. Used on shutdown
// so pending notifications are flushed before the transport goes away.
func (b *NotificationBridge) Drain() []PendingNotification {
	var out []PendingNotification
	for {
		select {
		case n := <-b.pending:
			out = append(out, n)
		default:
			return out
		}
	}
}

// Len returns the number of buffered notifications (for monitoring).
func (b *NotificationBridge) Len() int {
	return len(b.pending)
}
