package forms

import (
	"fmt"
)

// Array is an ordered list of text controls validated as a whole. Its own
// errors come from the array validators; item errors stay on the items.
type Array struct {
	name       string
	controls   []*Control
	validators []Validator

	errors   Errors
	touched  bool
	dirty    bool
	disabled bool
}

func NewArray(validators ...Validator) *Array {
	a := &Array{validators: validators}
	a.Validate()
	return a
}

func (a *Array) Name() string {
	return a.name
}

func (a *Array) SetName(name string) {
	a.name = name
	a.renameItems()
}

// Push appends an item and re-validates the array
func (a *Array) Push(c *Control) {
	c.parent = a
	a.controls = append(a.controls, c)
	a.dirty = true
	a.renameItems()
	a.Validate()
}

// RemoveAt drops the item at index i
func (a *Array) RemoveAt(i int) {
	if i < 0 || i >= len(a.controls) {
		return
	}
	a.controls[i].parent = nil
	a.controls = append(a.controls[:i], a.controls[i+1:]...)
	a.dirty = true
	a.renameItems()
	a.Validate()
}

func (a *Array) At(i int) *Control {
	if i < 0 || i >= len(a.controls) {
		return nil
	}
	return a.controls[i]
}

func (a *Array) Len() int {
	return len(a.controls)
}

func (a *Array) Controls() []*Control {
	return a.controls
}

func (a *Array) Value() any {
	return a.Values()
}

// Values returns the item values in order
func (a *Array) Values() []string {
	values := make([]string, 0, len(a.controls))
	for _, c := range a.controls {
		values = append(values, c.Text())
	}
	return values
}

func (a *Array) Validate() {
	values := a.Values()
	var errs Errors
	for _, v := range a.validators {
		if ve := v(values); ve != nil {
			errs = errs.With(ve.Code, ve.Params)
		}
	}
	a.errors = errs
}

// Errors returns the array level errors
func (a *Array) Errors() Errors {
	if a.disabled {
		return nil
	}
	return a.errors
}

// Valid reports whether the array and every item are valid
func (a *Array) Valid() bool {
	if a.disabled {
		return true
	}
	if len(a.errors) > 0 {
		return false
	}
	for _, c := range a.controls {
		if !c.Valid() {
			return false
		}
	}
	return true
}

// Touched reports whether the array or any of its items was touched
func (a *Array) Touched() bool {
	if a.touched {
		return true
	}
	for _, c := range a.controls {
		if c.Touched() {
			return true
		}
	}
	return false
}

func (a *Array) Dirty() bool {
	if a.dirty {
		return true
	}
	for _, c := range a.controls {
		if c.Dirty() {
			return true
		}
	}
	return false
}

func (a *Array) Enabled() bool {
	return !a.disabled
}

func (a *Array) MarkAsTouched() {
	a.touched = true
}

// MarkAllAsTouched marks the array and every item as touched
func (a *Array) MarkAllAsTouched() {
	a.touched = true
	for _, c := range a.controls {
		c.MarkAsTouched()
	}
}

func (a *Array) Enable() {
	a.disabled = false
	for _, c := range a.controls {
		c.Enable()
	}
}

func (a *Array) Disable() {
	a.disabled = true
	for _, c := range a.controls {
		c.Disable()
	}
}

func (a *Array) renameItems() {
	for i, c := range a.controls {
		c.SetName(fmt.Sprintf("%s.%d", a.name, i))
	}
}
