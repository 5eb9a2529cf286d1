package audit

import (
	"time"
)

// AuditAction represents the type of action performed on an account
type AuditAction string

const (
	AuditActionRegister     AuditAction = "register"
	AuditActionActivate     AuditAction = "activate"
	AuditActionLogin        AuditAction = "login"
	AuditActionLoginFailed  AuditAction = "login_failed"
	AuditActionResetRequest AuditAction = "reset_request"
)

// AuditLog represents a single audit log entry
type AuditLog struct {
	ID        string         `json:"id"`
	AccountID string         `json:"account_id,omitempty"`
	Action    AuditAction    `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}
