// ABOUTME: Test suite for session store and session operations
// ABOUTME: Covers creation, seeding, capacity eviction, TTL cleanup, and drag interplay

package editor

import (
	"errors"
	"testing"
	"time"

	"github.com/2389-research/patchbay/config"
	"github.com/2389-research/patchbay/drag"
	"github.com/2389-research/patchbay/geom"
	"github.com/2389-research/patchbay/graph"
	"github.com/2389-research/patchbay/render"
)

// newTestStore returns a store with a controllable clock.
func newTestStore(t *testing.T, maxSessions int) (*Store, *time.Time) {
	t.Helper()
	cfg := config.Default()
	cfg.Server.MaxSessions = maxSessions
	cfg.Server.SessionTTL = time.Hour
	store := NewStore(cfg)
	now := time.Unix(1700000000, 0)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestCreateEmptySession(t *testing.T) {
	store, _ := newTestStore(t, 10)
	sess, err := store.Create("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected session ID to be set")
	}
	if sess.CreatedAt.IsZero() || sess.LastAccess.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
	if snap := sess.Snapshot(); len(snap.Nodes) != 0 || len(snap.Connections) != 0 {
		t.Errorf("expected an empty graph, got %+v", snap)
	}
}

func TestCreateSeededSession(t *testing.T) {
	store, _ := newTestStore(t, 10)
	sess, err := store.Create(DemoBlueprint)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	snap := sess.Snapshot()
	if len(snap.Nodes) != 4 || len(snap.Connections) != 6 {
		t.Errorf("expected demo graph, got %d nodes and %d connections", len(snap.Nodes), len(snap.Connections))
	}
}

func TestCreateUnknownSeed(t *testing.T) {
	store, _ := newTestStore(t, 10)
	if _, err := store.Create("spaceship"); !errors.Is(err, ErrUnknownSeed) {
		t.Fatalf("expected ErrUnknownSeed, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("failed create should not store a session")
	}
}

func TestGetUpdatesLastAccess(t *testing.T) {
	store, now := newTestStore(t, 10)
	sess, _ := store.Create("")
	created := sess.LastAccess

	*now = now.Add(time.Minute)
	got, ok := store.Get(sess.ID)
	if !ok || got != sess {
		t.Fatalf("expected to find session %s", sess.ID)
	}
	if !got.LastAccess.After(created) {
		t.Errorf("LastAccess not updated")
	}
	if _, ok := store.Get("nonexistent"); ok {
		t.Errorf("expected miss for unknown id")
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	store, now := newTestStore(t, 2)
	first, _ := store.Create("")
	*now = now.Add(time.Second)
	second, _ := store.Create("")
	*now = now.Add(time.Second)
	third, _ := store.Create("")

	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}
	if _, ok := store.Get(first.ID); ok {
		t.Errorf("oldest session should be evicted")
	}
	for _, s := range []*Session{second, third} {
		if _, ok := store.Get(s.ID); !ok {
			t.Errorf("session %s should survive", s.ID)
		}
	}
}

func TestCleanupRemovesIdleSessions(t *testing.T) {
	store, now := newTestStore(t, 10)
	idle, _ := store.Create("")
	*now = now.Add(50 * time.Minute)
	active, _ := store.Create("")
	*now = now.Add(20 * time.Minute)

	store.Cleanup()

	if _, ok := store.Get(idle.ID); ok {
		t.Errorf("idle session should be removed")
	}
	if _, ok := store.Get(active.ID); !ok {
		t.Errorf("active session should remain")
	}
}

func TestDeleteSession(t *testing.T) {
	store, _ := newTestStore(t, 10)
	sess, _ := store.Create("")
	if !store.Delete(sess.ID) {
		t.Fatal("expected delete to succeed")
	}
	if store.Delete(sess.ID) {
		t.Error("second delete should report false")
	}
}

func TestStartCleanupStops(t *testing.T) {
	store, _ := newTestStore(t, 10)
	stop := store.StartCleanup(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	stop()
}

func TestSessionRemoveNodeCancelsItsDrag(t *testing.T) {
	sess := NewSession("s", config.Default(), render.PixelLayout)
	var ids map[string]graph.NodeID
	if err := sess.Seed(func(reg *graph.Registry) error {
		var err error
		ids, err = SeedBlueprint(reg)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	split := ids["split"]
	if _, err := sess.Drag(drag.Event{Type: drag.EventStart, NodeID: split, Pointer: geom.Pt(60, 200)}); err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Drag(drag.Event{Type: drag.EventMove, Pointer: geom.Pt(90, 230)}); err != nil {
		t.Fatal(err)
	}
	if got := sess.DragStatus(); got.State != drag.Dragging.String() || got.NodeID != split {
		t.Fatalf("unexpected drag status %+v", got)
	}

	removal, err := sess.RemoveNode(split)
	if err != nil {
		t.Fatal(err)
	}
	if len(removal.ConnectionIDs) != 3 {
		t.Errorf("expected 3 removed connections, got %d", len(removal.ConnectionIDs))
	}
	if got := sess.DragStatus(); got.State != drag.Cancelled.String() {
		t.Errorf("expected cancelled drag, got %+v", got)
	}
	if err := sess.Verify(); err != nil {
		t.Errorf("registry inconsistent: %v", err)
	}
	if _, err := sess.Drag(drag.Event{Type: drag.EventEnd}); !errors.Is(err, drag.ErrNoGesture) {
		t.Errorf("expected ErrNoGesture, got %v", err)
	}
}

func TestSessionNodeAtUsesHeaders(t *testing.T) {
	sess := NewSession("s", config.Default(), render.PixelLayout)
	n, err := sess.AddNode(graph.NodeSpec{Name: "A", Position: graph.Position{Top: 100, Left: 100}})
	if err != nil {
		t.Fatal(err)
	}
	if id, ok := sess.NodeAt(geom.Pt(150, 110)); !ok || id != n.ID {
		t.Errorf("header hit = %q, %v", id, ok)
	}
	if _, ok := sess.NodeAt(geom.Pt(150, 140)); ok {
		t.Errorf("body should not count as a header hit")
	}
}
