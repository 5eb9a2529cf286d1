package validationerrors

import (
	"github.com/m-mizutani/goerr/v2"

	"clipo/clipoterm/internal/forms"
)

// Kind tells the two container variants apart
type Kind int

const (
	KindField Kind = iota
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindField:
		return "field"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Element is the widget hosting the control. Containers flag it while a
// message is shown.
type Element interface {
	SetInvalid(invalid bool)
}

// Registration is what a child hands to its container before the
// container binds.
type Registration struct {
	kind    Kind
	control forms.AbstractControl
	element Element
}

// Field registers a single control. el may be nil.
func Field(c forms.AbstractControl, el Element) Registration {
	return Registration{kind: KindField, control: c, element: el}
}

// ArrayGroup registers a control array. el may be nil.
func ArrayGroup(a forms.AbstractControl, el Element) Registration {
	return Registration{kind: KindArray, control: a, element: el}
}

func (r Registration) Kind() Kind {
	return r.kind
}

// Binding is the located association between a container and its control
type Binding struct {
	kind    Kind
	control forms.AbstractControl
	element Element
}

// Locate finds the first registration of the given kind. Registrations of
// the other kind are ignored, like a field container ignoring a nested
// array.
func Locate(kind Kind, children []Registration) (*Binding, error) {
	for _, child := range children {
		if child.kind != kind || child.control == nil {
			continue
		}
		if child.control.Name() == "" {
			return nil, goerr.Wrap(ErrMissingControlName, "cannot bind control",
				goerr.V(KindKey, kind.String()))
		}
		return &Binding{
			kind:    kind,
			control: child.control,
			element: child.element,
		}, nil
	}
	return nil, goerr.Wrap(ErrControlNotFound, "cannot bind container",
		goerr.V(KindKey, kind.String()),
		goerr.V("registered", len(children)))
}

func (b *Binding) Kind() Kind {
	return b.kind
}

func (b *Binding) Control() forms.AbstractControl {
	return b.control
}

// ControlName reads the name live; array items are renamed on removal
func (b *Binding) ControlName() string {
	return b.control.Name()
}

func (b *Binding) Element() Element {
	return b.element
}
