package session

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCheckout_CreatesAndGenerates(t *testing.T) {
	store := NewStore(time.Hour, time.Minute)

	sess, release := store.Checkout("")
	if sess.ID == "" {
		t.Fatal("empty id must allocate a fresh session id")
	}
	release()

	again, release := store.Checkout(sess.ID)
	release()

	if again != sess {
		t.Error("checkout of same id returned a different session")
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestCheckout_SerializesSameSession(t *testing.T) {
	store := NewStore(time.Hour, time.Minute)

	sess, release := store.Checkout("alice")
	release()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			s, release := store.Checkout("alice")
			defer release()

			// Unsynchronized append: the per-session lock is the only
			// thing keeping this race-free.
			s.Turns = append(s.Turns, Turn{UserMessage: "ping", AgentResponse: "pong"})
		}()
	}
	wg.Wait()

	if len(sess.Turns) != 20 {
		t.Errorf("turns = %d, want 20", len(sess.Turns))
	}
}

func TestSweep_RemovesIdleKeepsFresh(t *testing.T) {
	store := NewStore(time.Hour, time.Minute)

	stale, release := store.Checkout("stale")
	release()
	stale.LastActivity = time.Now().Add(-2 * time.Hour)

	_, release = store.Checkout("fresh")
	release()

	removed := store.Sweep(time.Hour)

	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if store.Get("stale") != nil {
		t.Error("stale session still present after sweep")
	}
	if store.Get("fresh") == nil {
		t.Error("fresh session removed by sweep")
	}
}

func TestSweep_SkipsCheckedOutSession(t *testing.T) {
	store := NewStore(time.Hour, time.Minute)

	sess, release := store.Checkout("busy")
	sess.LastActivity = time.Now().Add(-2 * time.Hour)

	if removed := store.Sweep(time.Hour); removed != 0 {
		t.Errorf("removed = %d, want 0 while checked out", removed)
	}

	release()

	if removed := store.Sweep(time.Hour); removed != 1 {
		t.Errorf("removed = %d, want 1 after release", removed)
	}
}

func TestSweep_ConcurrentWithCheckout(t *testing.T) {
	store := NewStore(time.Hour, time.Minute)

	done := make(chan struct{})
	go func() {
		defer close(done)

		for range 200 {
			sess, release := store.Checkout("busy")
			sess.AddTurn("ping", "pong", "general_chat", nil, "general_chat", 0.8)
			release()
		}
	}()

	for range 100 {
		store.Sweep(time.Hour)
	}

	<-done

	if store.Get("busy") == nil {
		t.Error("active session swept")
	}
}

func TestDelete(t *testing.T) {
	store := NewStore(time.Hour, time.Minute)

	_, release := store.Checkout("gone")
	release()

	if !store.Delete("gone") {
		t.Error("Delete returned false for existing session")
	}
	if store.Delete("gone") {
		t.Error("Delete returned true for missing session")
	}
}

func TestAddTurn_AccumulatesEntities(t *testing.T) {
	sess := newSession("s1")

	sess.AddTurn("check TKT-12345", "It's in progress.", "ticket_status",
		map[string]string{"ticket_id": "TKT-12345"}, "ticket_status", 0.95)
	sess.AddTurn("my name is Sam", "Thanks Sam!", "general_chat",
		map[string]string{"user_name": "Sam", "ticket_id": "TKT-12345"}, "general_chat", 0.8)

	if len(sess.Turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(sess.Turns))
	}
	if sess.Entities["ticket_id"] != "TKT-12345" || sess.Entities["user_name"] != "Sam" {
		t.Errorf("entities = %v", sess.Entities)
	}
	if len(sess.Entities) != 2 {
		t.Errorf("entities = %d, want 2 (idempotent fold)", len(sess.Entities))
	}
}

func TestRecentTurns(t *testing.T) {
	sess := newSession("s1")
	for i := range 5 {
		sess.AddTurn(string(rune('a'+i)), "ok", "general_chat", nil, "general_chat", 0.8)
	}

	recent := sess.RecentTurns(3)
	if len(recent) != 3 {
		t.Fatalf("recent = %d, want 3", len(recent))
	}
	if recent[0].UserMessage != "c" || recent[2].UserMessage != "e" {
		t.Errorf("window wrong: %q..%q", recent[0].UserMessage, recent[2].UserMessage)
	}

	if got := sess.RecentTurns(0); got != nil {
		t.Errorf("RecentTurns(0) = %v, want nil", got)
	}
}

func TestContextSummary(t *testing.T) {
	sess := newSession("s1")

	if got := sess.ContextSummary(); got != "This is the start of a new conversation." {
		t.Errorf("empty summary = %q", got)
	}

	sess.AddTurn("how do I reset my password?", "Use the portal.", "password_reset",
		map[string]string{"topic": "password"}, "retrieve", 0.85)

	summary := sess.ContextSummary()

	for _, want := range []string{
		"Recent topics: password_reset",
		"Known information: topic=password",
		"User: how do I reset my password?",
		"Agent: Use the portal.",
		"Conversation length: 1 turns",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}
