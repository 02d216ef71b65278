package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionDefaults(t *testing.T) {
	store := NewSessionStore()

	s := store.Snapshot("+33612345678")
	require.Equal(t, "+33612345678", s.UserID)
	require.Equal(t, StepIdle, s.CurrentStep)
	require.Equal(t, AwaitingNone, s.Awaiting)
	require.False(t, s.SupportMode)
	require.Equal(t, OrderDraft{}, s.Draft)
}

func TestSessionUpdateAndReset(t *testing.T) {
	store := NewSessionStore()

	store.Update("u1", func(s *ClientSession) {
		s.CurrentStep = StepQuantity
		s.Draft.Platform = "trustpilot"
		s.SupportMode = true
	})

	s := store.Snapshot("u1")
	require.Equal(t, StepQuantity, s.CurrentStep)
	require.Equal(t, "trustpilot", s.Draft.Platform)

	store.Reset("u1")
	s = store.Snapshot("u1")
	require.Equal(t, StepIdle, s.CurrentStep)
	require.Equal(t, OrderDraft{}, s.Draft)
	require.False(t, s.SupportMode)
}

func TestSessionIsolationBetweenUsers(t *testing.T) {
	store := NewSessionStore()

	store.Update("u1", func(s *ClientSession) { s.CurrentStep = StepRecap })
	store.Update("u2", func(s *ClientSession) { s.CurrentStep = StepPlatform })

	require.Equal(t, StepRecap, store.Snapshot("u1").CurrentStep)
	require.Equal(t, StepPlatform, store.Snapshot("u2").CurrentStep)
	require.Equal(t, 2, store.ActiveCount())
}

func TestSessionConcurrentUpdates(t *testing.T) {
	store := NewSessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update("u1", func(s *ClientSession) {
				s.Draft.Quantity++
			})
		}()
	}
	wg.Wait()

	require.Equal(t, 100, store.Snapshot("u1").Draft.Quantity)
}

func TestReadyForContentChoice(t *testing.T) {
	d := OrderDraft{}
	require.False(t, d.ReadyForContentChoice())

	d.Platform = "google_reviews"
	d.Quantity = 10
	require.False(t, d.ReadyForContentChoice())

	d.TargetLink = "https://maps.google.com/place/123"
	require.True(t, d.ReadyForContentChoice())
}
