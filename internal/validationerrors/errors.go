package validationerrors

import "github.com/m-mizutani/goerr/v2"

// Setup errors. Both abort composition of the view that owns the container.
var (
	ErrControlNotFound    = goerr.New("no control registered with container")
	ErrMissingControlName = goerr.New("bound control has no name")
	ErrInvalidMessages    = goerr.New("invalid message table")
)

// Keys for goerr values
const (
	KindKey        = "kind"
	ControlNameKey = "control_name"
	PathKey        = "path"
)
