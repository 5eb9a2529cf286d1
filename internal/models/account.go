package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	RecoveryEmails []string   `json:"recovery_emails,omitempty"`
	PasswordHash   string     `json:"password_hash"`
	Activated      bool       `json:"activated"`
	ActivationKey  string     `json:"activation_key,omitempty"`
	ResetKey       string     `json:"reset_key,omitempty"`
	ResetRequested *time.Time `json:"reset_requested,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// NewAccount creates an inactive account with a fresh activation key
func NewAccount(email, firstName, lastName string, recoveryEmails []string, createdAt time.Time) *Account {
	recovery := make([]string, 0, len(recoveryEmails))
	for _, e := range recoveryEmails {
		if e = NormalizeEmail(e); e != "" {
			recovery = append(recovery, e)
		}
	}

	return &Account{
		ID:             uuid.NewString(),
		Email:          NormalizeEmail(email),
		FirstName:      strings.TrimSpace(firstName),
		LastName:       strings.TrimSpace(lastName),
		RecoveryEmails: recovery,
		ActivationKey:  NewKey(),
		CreatedAt:      createdAt,
	}
}

// NewKey returns a random key for activation and reset links
func NewKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *Account) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Email
	}
	return name
}
