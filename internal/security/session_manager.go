package security

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"clipo/clipoterm/internal/models"
)

var (
	ErrTooManySessions = goerr.New("maximum number of sessions reached")
	ErrSessionNotFound = goerr.New("session not found or inactive")
)

// SessionManager tracks signed in accounts. A session expires after
// DefaultTimeout without activity.
type SessionManager struct {
	sessions      map[string]*AccountSession
	config        *SessionConfig
	now           func() time.Time
	mu            sync.RWMutex
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

type AccountSession struct {
	AccountID    string
	Account      *models.Account
	CreatedAt    time.Time
	LastActivity time.Time
	ExpiresAt    time.Time
	SessionToken string
	IsActive     bool
}

type SessionConfig struct {
	DefaultTimeout  time.Duration
	MaxSessions     int
	CleanupInterval time.Duration
}

func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		DefaultTimeout:  5 * time.Minute,
		MaxSessions:     5,
		CleanupInterval: 30 * time.Second,
	}
}

type SessionOption func(*SessionManager)

// WithClock replaces time.Now
func WithClock(now func() time.Time) SessionOption {
	return func(sm *SessionManager) {
		sm.now = now
	}
}

func NewSessionManager(config *SessionConfig, opts ...SessionOption) *SessionManager {
	if config == nil {
		config = DefaultSessionConfig()
	}

	sm := &SessionManager{
		sessions:    make(map[string]*AccountSession),
		config:      config,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(sm)
	}

	sm.startCleanupRoutine()
	return sm
}

// CreateSession opens a session for account, replacing any previous one
func (sm *SessionManager) CreateSession(account *models.Account) (*AccountSession, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[account.ID]; !exists && len(sm.sessions) >= sm.config.MaxSessions {
		return nil, goerr.Wrap(ErrTooManySessions, "cannot create session",
			goerr.V("max_sessions", sm.config.MaxSessions))
	}

	now := sm.now()
	session := &AccountSession{
		AccountID:    account.ID,
		Account:      account,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(sm.config.DefaultTimeout),
		SessionToken: uuid.NewString(),
		IsActive:     true,
	}

	sm.sessions[account.ID] = session
	return session, nil
}

func (sm *SessionManager) GetSession(accountID string) (*AccountSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[accountID]
	if !exists || !session.IsActive || sm.now().After(session.ExpiresAt) {
		return nil, false
	}

	return session, true
}

func (sm *SessionManager) ValidateSession(accountID, token string) bool {
	session, ok := sm.GetSession(accountID)
	return ok && session.SessionToken == token
}

// ExtendSession records activity and pushes the expiry back
func (sm *SessionManager) ExtendSession(accountID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[accountID]
	if !exists || !session.IsActive || sm.now().After(session.ExpiresAt) {
		return goerr.Wrap(ErrSessionNotFound, "cannot extend session", goerr.V("account_id", accountID))
	}

	now := sm.now()
	session.LastActivity = now
	session.ExpiresAt = now.Add(sm.config.DefaultTimeout)

	return nil
}

func (sm *SessionManager) CloseSession(accountID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[accountID]
	if !exists {
		return goerr.Wrap(ErrSessionNotFound, "cannot close session", goerr.V("account_id", accountID))
	}

	sm.clear(session)
	delete(sm.sessions, accountID)

	return nil
}

func (sm *SessionManager) CloseAllSessions() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for accountID, session := range sm.sessions {
		sm.clear(session)
		delete(sm.sessions, accountID)
	}
}

func (sm *SessionManager) GetSessionStatus(accountID string) SessionStatus {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[accountID]
	if !exists || !session.IsActive {
		return SessionStatusInactive
	}

	remaining := session.ExpiresAt.Sub(sm.now())
	switch {
	case remaining <= 0:
		return SessionStatusExpired
	case remaining < time.Minute:
		return SessionStatusExpiring
	default:
		return SessionStatusActive
	}
}

func (sm *SessionManager) GetTimeRemaining(accountID string) time.Duration {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[accountID]
	if !exists || !session.IsActive {
		return 0
	}

	remaining := session.ExpiresAt.Sub(sm.now())
	if remaining < 0 {
		return 0
	}

	return remaining
}

func (sm *SessionManager) Shutdown() {
	sm.stopOnce.Do(func() {
		close(sm.stopCleanup)
		sm.cleanupTicker.Stop()
	})
	sm.CloseAllSessions()
}

// clear drops the account reference and token so a closed session cannot
// be revalidated
func (sm *SessionManager) clear(session *AccountSession) {
	session.IsActive = false
	session.Account = nil
	session.SessionToken = ""
}

func (sm *SessionManager) startCleanupRoutine() {
	sm.cleanupTicker = time.NewTicker(sm.config.CleanupInterval)

	go func() {
		for {
			select {
			case <-sm.cleanupTicker.C:
				sm.cleanupExpiredSessions()
			case <-sm.stopCleanup:
				return
			}
		}
	}()
}

func (sm *SessionManager) cleanupExpiredSessions() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := sm.now()
	for accountID, session := range sm.sessions {
		if now.After(session.ExpiresAt) {
			sm.clear(session)
			delete(sm.sessions, accountID)
		}
	}
}

type SessionStatus string

const (
	SessionStatusActive   SessionStatus = "active"
	SessionStatusExpiring SessionStatus = "expiring"
	SessionStatusExpired  SessionStatus = "expired"
	SessionStatusInactive SessionStatus = "inactive"
)
