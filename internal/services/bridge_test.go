package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBridgeEnqueueAndDrain(t *testing.T) {
	bridge := NewNotificationBridge()

	for i := 0; i < 5; i++ {
		bridge.Enqueue(fmt.Sprintf("+336000000%02d", i), fmt.Sprintf("message %d", i))
	}
	require.Equal(t, 5, bridge.Len())

	drained := bridge.Drain()
	require.Len(t, drained, 5)
	require.Equal(t, "+33600000000", drained[0].Phone)
	require.Equal(t, "message 0", drained[0].Text)
	require.Equal(t, "message 4", drained[4].Text)
	require.Zero(t, bridge.Len())
}

func TestBridgeOverflowDropsInsteadOfBlocking(t *testing.T) {
	bridge := NewNotificationBridge()

	// Fill beyond capacity; the surplus must be dropped, not block
	for i := 0; i < bridgeCapacity+10; i++ {
		bridge.Enqueue("+33600000000", fmt.Sprintf("message %d", i))
	}
	require.Equal(t, bridgeCapacity, bridge.Len())

	drained := bridge.Drain()
	require.Len(t, drained, bridgeCapacity)
	require.Equal(t, "message 0", drained[0].Text)
}

func TestBridgeNotificationsChannelOrder(t *testing.T) {
	bridge := NewNotificationBridge()

	bridge.Enqueue("+33611111111", "first")
	bridge.Enqueue("+33622222222", "second")

	n := <-bridge.Notifications()
	require.Equal(t, "first", n.Text)
	n = <-bridge.Notifications()
	require.Equal(t, "+33622222222", n.Phone)
}
