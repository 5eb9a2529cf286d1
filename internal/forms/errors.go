package forms

// ErrorParams carries the data attached to a validation failure, e.g.
// {"requiredLength": 6, "actualLength": 3} for minLength.
type ErrorParams map[string]any

// ValidationError is a single active error on a control
type ValidationError struct {
	Code   string
	Params ErrorParams
}

// Errors is the set of active errors on a control. Codes are unique and the
// slice keeps the order in which the errors were raised.
type Errors []ValidationError

// Len returns the number of active errors
func (e Errors) Len() int {
	return len(e)
}

// Has reports whether code is active
func (e Errors) Has(code string) bool {
	_, ok := e.Get(code)
	return ok
}

// Get returns the params for code
func (e Errors) Get(code string) (ErrorParams, bool) {
	for _, ve := range e {
		if ve.Code == code {
			return ve.Params, true
		}
	}
	return nil, false
}

// Codes returns the active codes in insertion order
func (e Errors) Codes() []string {
	codes := make([]string, 0, len(e))
	for _, ve := range e {
		codes = append(codes, ve.Code)
	}
	return codes
}

// With returns e with code appended. An already active code keeps its
// original position and params.
func (e Errors) With(code string, params ErrorParams) Errors {
	if e.Has(code) {
		return e
	}
	if params == nil {
		params = ErrorParams{}
	}
	return append(e, ValidationError{Code: code, Params: params})
}
