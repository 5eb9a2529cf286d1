package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"clipo/clipoterm/internal/audit"
	"clipo/clipoterm/internal/logging"
	"clipo/clipoterm/internal/models"
	"clipo/clipoterm/internal/storage"
)

// Store persists accounts. Lookups return storage.ErrAccountNotFound when
// nothing matches.
type Store interface {
	SaveAccount(account *models.Account) error
	FindByEmail(email string) (*models.Account, error)
	FindByActivationKey(key string) (*models.Account, error)
}

// Recorder receives the audit trail
type Recorder interface {
	LogAccountAction(action audit.AuditAction, accountID string, details map[string]any) error
}

type RegisterRequest struct {
	FirstName      string
	LastName       string
	Email          string
	Password       string
	RecoveryEmails []string
}

type Service struct {
	store    Store
	recorder Recorder
	hashCost int
	now      func() time.Time
}

type Option func(*Service)

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithHashCost sets the bcrypt cost; zero keeps bcrypt.DefaultCost
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an inactive account. The returned account carries the
// activation key.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.Account, error) {
	logger := logging.From(ctx)

	existing, err := s.store.FindByEmail(req.Email)
	if err == nil {
		return nil, goerr.Wrap(ErrEmailTaken, "cannot register", goerr.V("email", existing.Email))
	}
	if !errors.Is(err, storage.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := storage.HashPassword(req.Password, s.hashCost)
	if err != nil {
		return nil, err
	}

	account := models.NewAccount(req.Email, req.FirstName, req.LastName, req.RecoveryEmails, s.now())
	account.PasswordHash = hash

	if err := s.store.SaveAccount(account); err != nil {
		return nil, goerr.Wrap(err, "failed to save account", goerr.V("email", account.Email))
	}

	s.record(ctx, audit.AuditActionRegister, account.ID, map[string]any{"email": account.Email})
	logger.Info("account registered", slog.String("account_id", account.ID))

	return account, nil
}

func (s *Service) Activate(ctx context.Context, key string) (*models.Account, error) {
	account, err := s.store.FindByActivationKey(key)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, goerr.Wrap(ErrInvalidActivationKey, "cannot activate")
		}
		return nil, err
	}

	account.Activated = true
	account.ActivationKey = ""
	if err := s.store.SaveAccount(account); err != nil {
		return nil, goerr.Wrap(err, "failed to save account", goerr.V("account_id", account.ID))
	}

	s.record(ctx, audit.AuditActionActivate, account.ID, nil)
	logging.From(ctx).Info("account activated", slog.String("account_id", account.ID))

	return account, nil
}

// Login checks the credentials of an activated account. An unknown email
// and a wrong password both fail with ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.store.FindByEmail(email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			s.record(ctx, audit.AuditActionLoginFailed, "", map[string]any{"email": models.NormalizeEmail(email)})
			return nil, goerr.Wrap(ErrInvalidCredentials, "cannot sign in")
		}
		return nil, err
	}

	if !storage.ValidatePassword(account.PasswordHash, password) {
		s.record(ctx, audit.AuditActionLoginFailed, account.ID, nil)
		return nil, goerr.Wrap(ErrInvalidCredentials, "cannot sign in", goerr.V("account_id", account.ID))
	}

	if !account.Activated {
		return nil, goerr.Wrap(ErrNotActivated, "cannot sign in", goerr.V("account_id", account.ID))
	}

	now := s.now()
	account.LastLogin = &now
	if err := s.store.SaveAccount(account); err != nil {
		return nil, goerr.Wrap(err, "failed to save account", goerr.V("account_id", account.ID))
	}

	s.record(ctx, audit.AuditActionLogin, account.ID, nil)
	return account, nil
}

// RequestPasswordReset issues a reset key for the account owning email
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.store.FindByEmail(email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, goerr.Wrap(ErrUnknownAccount, "cannot reset password")
		}
		return nil, err
	}

	now := s.now()
	account.ResetKey = models.NewKey()
	account.ResetRequested = &now
	if err := s.store.SaveAccount(account); err != nil {
		return nil, goerr.Wrap(err, "failed to save account", goerr.V("account_id", account.ID))
	}

	s.record(ctx, audit.AuditActionResetRequest, account.ID, nil)
	logging.From(ctx).Info("password reset requested", slog.String("account_id", account.ID))

	return account, nil
}

func (s *Service) record(ctx context.Context, action audit.AuditAction, accountID string, details map[string]any) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.LogAccountAction(action, accountID, details); err != nil {
		logging.From(ctx).Warn("failed to record audit log",
			slog.String("action", string(action)),
			slog.Any("error", err))
	}
}
