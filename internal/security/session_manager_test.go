package security

import (
	"errors"
	"sync"
	"testing"
	"time"

	"clipo/clipoterm/internal/models"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(t *testing.T) (*SessionManager, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	sm := NewSessionManager(&SessionConfig{
		DefaultTimeout:  5 * time.Minute,
		MaxSessions:     2,
		CleanupInterval: time.Hour,
	}, WithClock(clock.Now))
	t.Cleanup(sm.Shutdown)
	return sm, clock
}

func testAccount(id string) *models.Account {
	return &models.Account{ID: id, Email: id + "@example.com"}
}

func TestSessionManager_CreateSession(t *testing.T) {
	sm, clock := newTestManager(t)

	session, err := sm.CreateSession(testAccount("acc-1"))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if session.AccountID != "acc-1" {
		t.Errorf("Expected account ID acc-1, got %s", session.AccountID)
	}
	if session.SessionToken == "" {
		t.Error("Session token should not be empty")
	}
	if !session.IsActive {
		t.Error("Session should be active")
	}
	if !session.ExpiresAt.Equal(clock.Now().Add(5 * time.Minute)) {
		t.Errorf("Unexpected expiry %v", session.ExpiresAt)
	}
}

func TestSessionManager_ValidateSession(t *testing.T) {
	sm, _ := newTestManager(t)

	session, err := sm.CreateSession(testAccount("acc-1"))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if !sm.ValidateSession("acc-1", session.SessionToken) {
		t.Error("Session validation should succeed")
	}
	if sm.ValidateSession("acc-1", "invalid-token") {
		t.Error("Session validation should fail with invalid token")
	}
	if sm.ValidateSession("other", session.SessionToken) {
		t.Error("Session validation should fail with invalid account ID")
	}
}

func TestSessionManager_ExtendSession(t *testing.T) {
	sm, clock := newTestManager(t)

	if _, err := sm.CreateSession(testAccount("acc-1")); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	clock.Advance(4 * time.Minute)
	if err := sm.ExtendSession("acc-1"); err != nil {
		t.Fatalf("Failed to extend session: %v", err)
	}

	clock.Advance(4 * time.Minute)
	if _, ok := sm.GetSession("acc-1"); !ok {
		t.Fatal("Extended session should still be active")
	}
	if remaining := sm.GetTimeRemaining("acc-1"); remaining != time.Minute {
		t.Errorf("Expected 1m remaining, got %v", remaining)
	}

	if err := sm.ExtendSession("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionManager_Timeout(t *testing.T) {
	sm, clock := newTestManager(t)

	if _, err := sm.CreateSession(testAccount("acc-1")); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	tests := []struct {
		advance time.Duration
		want    SessionStatus
	}{
		{0, SessionStatusActive},
		{4*time.Minute + 30*time.Second, SessionStatusExpiring},
		{time.Minute, SessionStatusExpired},
	}

	for _, tt := range tests {
		clock.Advance(tt.advance)
		if got := sm.GetSessionStatus("acc-1"); got != tt.want {
			t.Errorf("After %v: expected %s, got %s", tt.advance, tt.want, got)
		}
	}

	if _, ok := sm.GetSession("acc-1"); ok {
		t.Error("Expired session should not be returned")
	}
	if err := sm.ExtendSession("acc-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expired session should not be extended, got %v", err)
	}

	sm.cleanupExpiredSessions()
	if got := sm.GetSessionStatus("acc-1"); got != SessionStatusInactive {
		t.Errorf("Expected inactive after cleanup, got %s", got)
	}
}

func TestSessionManager_CloseSession(t *testing.T) {
	sm, _ := newTestManager(t)

	session, err := sm.CreateSession(testAccount("acc-1"))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if err := sm.CloseSession("acc-1"); err != nil {
		t.Fatalf("Failed to close session: %v", err)
	}
	if _, ok := sm.GetSession("acc-1"); ok {
		t.Error("Session should not exist after closing")
	}
	if session.SessionToken != "" || session.Account != nil {
		t.Error("Closed session should not keep its token or account")
	}

	if err := sm.CloseSession("acc-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionManager_MaxSessions(t *testing.T) {
	sm, _ := newTestManager(t)

	for _, id := range []string{"acc-1", "acc-2"} {
		if _, err := sm.CreateSession(testAccount(id)); err != nil {
			t.Fatalf("Failed to create session %s: %v", id, err)
		}
	}

	if _, err := sm.CreateSession(testAccount("acc-3")); !errors.Is(err, ErrTooManySessions) {
		t.Errorf("Expected ErrTooManySessions, got %v", err)
	}

	// signing in again replaces the existing session
	if _, err := sm.CreateSession(testAccount("acc-1")); err != nil {
		t.Errorf("Re-creating an existing session should succeed: %v", err)
	}
}
