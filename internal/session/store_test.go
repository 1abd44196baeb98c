package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tiendabot/internal/catalog"
)

func testItem(name string) *catalog.Item {
	return &catalog.Item{Category: "libreria", Subcategory: "x", Name: name, DisplayName: name, Price: 100, InStock: true}
}

func TestMemoryStore_LazyExpiry(t *testing.T) {
	store := NewMemoryStore(30*time.Minute, time.Hour)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	require.Nil(t, store.Get("549111"), "unknown customer is fresh state")

	s := store.Touch("549111")
	require.NotNil(t, s)
	require.NotNil(t, store.Get("549111"))

	now = now.Add(29 * time.Minute)
	require.NotNil(t, store.Get("549111"), "still inside TTL")

	now = now.Add(2 * time.Minute)
	require.Nil(t, store.Get("549111"), "expired on read")
}

func TestMemoryStore_TouchRenewsTTL(t *testing.T) {
	store := NewMemoryStore(30*time.Minute, time.Hour)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	store.Touch("c")
	now = now.Add(25 * time.Minute)
	store.Touch("c")
	now = now.Add(25 * time.Minute)
	require.NotNil(t, store.Get("c"), "each turn renews activeUntil")
}

func TestMemoryStore_HandoffIndependentLifecycle(t *testing.T) {
	store := NewMemoryStore(30*time.Minute, time.Hour)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	store.Touch("c")
	store.MarkHandoff("c")
	require.True(t, store.IsHandoff("c"))

	// Clearing the session must not release the handoff.
	store.Clear("c")
	require.Nil(t, store.Get("c"))
	require.True(t, store.IsHandoff("c"))

	// Handoff has its own TTL, longer than the session's.
	now = now.Add(59 * time.Minute)
	require.True(t, store.IsHandoff("c"))
	now = now.Add(2 * time.Minute)
	require.False(t, store.IsHandoff("c"), "handoff auto-releases after its TTL")

	store.MarkHandoff("c")
	store.ReleaseHandoff("c")
	require.False(t, store.IsHandoff("c"))
}

func TestMemoryStore_SweepEvicts(t *testing.T) {
	store := NewMemoryStore(30*time.Minute, time.Hour)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	store.Touch("a")
	store.Touch("b")
	store.MarkHandoff("a")
	now = now.Add(2 * time.Hour)
	store.sweepOnce()

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Empty(t, store.sessions)
	require.Empty(t, store.handoffs)
}

func TestSession_PendingAndCandidatesMutuallyExclusive(t *testing.T) {
	s := &Session{CustomerID: "c"}

	s.SetCandidates(&Candidates{Items: []*catalog.Item{testItem("a"), testItem("b")}, Quantity: 1})
	require.NotNil(t, s.Candidates())
	require.Nil(t, s.Pending())

	s.SetPending(&Pending{Item: testItem("a"), Quantity: 1})
	require.NotNil(t, s.Pending())
	require.Nil(t, s.Candidates(), "opening pending closes candidates")

	s.SetCandidates(&Candidates{Items: []*catalog.Item{testItem("b")}, Quantity: 2})
	require.Nil(t, s.Pending(), "opening candidates closes pending")

	s.ClearChoices()
	require.Nil(t, s.Pending())
	require.Nil(t, s.Candidates())
}
