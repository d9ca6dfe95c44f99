package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/gael-paolo/st-parts-track/model"
)

func newTestSessionStore(max int) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*Session),
		maxSessions: max,
	}
}

func TestSessionStoreDefaultsToIdle(t *testing.T) {
	store := newTestSessionStore(0)
	if got := store.Panel("never-seen"); got != model.PanelIdle {
		t.Errorf("Panel() = %q, want %q", got, model.PanelIdle)
	}
}

func TestSessionStoreSetAndGet(t *testing.T) {
	store := newTestSessionStore(0)
	store.SetPanel("s1", model.PanelReferenceLookup)

	if got := store.Panel("s1"); got != model.PanelReferenceLookup {
		t.Errorf("Panel() = %q, want %q", got, model.PanelReferenceLookup)
	}

	store.SetPanel("s1", model.PanelSimilaritySearch)
	if got := store.Panel("s1"); got != model.PanelSimilaritySearch {
		t.Errorf("Panel() after update = %q, want %q", got, model.PanelSimilaritySearch)
	}
}

func TestSessionStoreDelete(t *testing.T) {
	store := newTestSessionStore(0)
	store.SetPanel("s1", model.PanelTransitLookup)
	store.Delete("s1")

	if got := store.Panel("s1"); got != model.PanelIdle {
		t.Errorf("deleted session should default to idle, got %q", got)
	}
	if store.Count() != 0 {
		t.Errorf("Count() = %d, want 0", store.Count())
	}
}

func TestSessionStoreEvictsStalest(t *testing.T) {
	store := newTestSessionStore(3)

	for i := 0; i < 5; i++ {
		store.SetPanel(fmt.Sprintf("s%d", i), model.PanelReferenceLookup)
		// Distinct timestamps so eviction order is stable.
		time.Sleep(2 * time.Millisecond)
	}

	if store.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", store.Count())
	}
	if store.Panel("s0") != model.PanelIdle || store.Panel("s1") != model.PanelIdle {
		t.Error("oldest sessions should have been evicted")
	}
	if store.Panel("s4") != model.PanelReferenceLookup {
		t.Error("newest session should survive eviction")
	}
}

func TestGetSessionStoreFallback(t *testing.T) {
	if GetSessionStore() == nil {
		t.Error("expected non-nil fallback store")
	}
}
