package forms

// AbstractControl is the state a form control exposes to the rest of the
// application. Control, Array and Group-held values all satisfy it.
type AbstractControl interface {
	Name() string
	Value() any
	Errors() Errors
	Valid() bool
	Touched() bool
	Dirty() bool
	Enabled() bool
	MarkAsTouched()
	Validate()
}

// Validator inspects a control value and returns a non-nil error when the
// value fails. Control validators receive a string, Array validators a
// []string.
type Validator func(value any) *ValidationError

type namer interface {
	SetName(name string)
}

// Control is a single text-valued form field
type Control struct {
	name       string
	value      string
	validators []Validator

	errors   Errors
	external Errors

	touched  bool
	dirty    bool
	disabled bool

	// parent is re-validated when the value changes
	parent *Array
}

func NewControl(initial string, validators ...Validator) *Control {
	c := &Control{
		value:      initial,
		validators: validators,
	}
	c.Validate()
	return c
}

func (c *Control) Name() string {
	return c.name
}

func (c *Control) SetName(name string) {
	c.name = name
}

func (c *Control) Value() any {
	return c.value
}

// Text returns the value as a string
func (c *Control) Text() string {
	return c.value
}

// SetValue replaces the value, marks the control dirty and re-runs the
// validators.
func (c *Control) SetValue(value string) {
	if value == c.value {
		return
	}
	c.value = value
	c.dirty = true
	c.Validate()
	if c.parent != nil {
		c.parent.Validate()
	}
}

// SetErrors replaces the validator errors with errors that did not come
// from a validator, typically a rejected submit. They stay active until the
// control is validated again.
func (c *Control) SetErrors(errs Errors) {
	c.external = errs
}

// Validate re-runs the validators and drops errors set through SetErrors
func (c *Control) Validate() {
	c.external = nil
	var errs Errors
	for _, v := range c.validators {
		if ve := v(c.value); ve != nil {
			errs = errs.With(ve.Code, ve.Params)
		}
	}
	c.errors = errs
}

func (c *Control) Errors() Errors {
	if c.disabled {
		return nil
	}
	if len(c.external) > 0 {
		return c.external
	}
	return c.errors
}

func (c *Control) Valid() bool {
	return len(c.Errors()) == 0
}

func (c *Control) Touched() bool {
	return c.touched
}

func (c *Control) Dirty() bool {
	return c.dirty
}

func (c *Control) Enabled() bool {
	return !c.disabled
}

func (c *Control) MarkAsTouched() {
	c.touched = true
}

func (c *Control) MarkAsUntouched() {
	c.touched = false
}

func (c *Control) Enable() {
	c.disabled = false
}

func (c *Control) Disable() {
	c.disabled = true
}

// Reset clears the value and interaction state
func (c *Control) Reset() {
	c.value = ""
	c.touched = false
	c.dirty = false
	c.external = nil
	c.Validate()
}
