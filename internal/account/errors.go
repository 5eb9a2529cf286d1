package account

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrEmailTaken           = goerr.New("email already registered")
	ErrInvalidActivationKey = goerr.New("invalid activation key")
	ErrInvalidCredentials   = goerr.New("invalid email or password")
	ErrNotActivated         = goerr.New("account not activated")
	ErrUnknownAccount       = goerr.New("unknown account")
)

// Error codes the views attach to controls
const (
	CodeEmailTaken           = "emailTaken"
	CodeInvalidActivationKey = "invalidActivationKey"
	CodeInvalidCredentials   = "invalidCredentials"
	CodeNotActivated         = "notActivated"
	CodeUnknownAccount       = "unknownAccount"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrEmailTaken, CodeEmailTaken},
	{ErrInvalidActivationKey, CodeInvalidActivationKey},
	{ErrInvalidCredentials, CodeInvalidCredentials},
	{ErrNotActivated, CodeNotActivated},
	{ErrUnknownAccount, CodeUnknownAccount},
}

// ErrorCode maps a service error to the control error code displayed for it
func ErrorCode(err error) (string, bool) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code, true
		}
	}
	return "", false
}
