package validationerrors

import (
	"github.com/m-mizutani/goerr/v2"

	"clipo/clipoterm/internal/forms"
)

// State is the lifecycle position of a container
type State int

const (
	StateUnbound State = iota
	StateBound
	StateClean
	StateShowing
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBound:
		return "bound"
	case StateClean:
		return "clean"
	case StateShowing:
		return "showing"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Container is the capability set shared by FieldContainer and
// ArrayContainer.
type Container interface {
	Kind() Kind
	Register(child Registration)
	AfterContentInit() error
	Check()
	Destroy()
	FormControl() forms.AbstractControl
	FormControlName() (string, error)
	El() Element
	Target() RenderTarget
	State() State
}

// display holds the check logic both variants run
type display struct {
	kind     Kind
	resolver *Resolver
	context  ContextSource
	target   RenderTarget

	children []Registration
	binding  *Binding
	state    State
	shown    string
}

func newDisplay(kind Kind, cfg Config, resolver *Resolver, ctx ContextSource) display {
	if ctx == nil {
		ctx = StaticContext(cfg.DefaultContext)
	}
	return display{
		kind:     kind,
		resolver: resolver,
		context:  ctx,
		target:   cfg.ErrorComponentFactory(),
	}
}

func (d *display) register(child Registration) {
	if d.state == StateDestroyed {
		return
	}
	d.children = append(d.children, child)
	if d.binding == nil || child.kind != d.kind {
		return
	}
	// already bound: the newest child replaces the live binding
	if b, err := Locate(d.kind, []Registration{child}); err == nil {
		d.rebind(b)
	}
}

func (d *display) afterContentInit() error {
	if d.state == StateDestroyed {
		return goerr.New("container destroyed", goerr.V(KindKey, d.kind.String()))
	}
	if d.binding != nil {
		return nil
	}
	b, err := Locate(d.kind, d.children)
	if err != nil {
		return err
	}
	d.binding = b
	d.state = StateBound
	return nil
}

func (d *display) rebind(b *Binding) {
	if old := d.binding.element; old != nil {
		old.SetInvalid(false)
	}
	d.binding = b
	d.state = StateBound
	d.shown = ""
}

func (d *display) check() {
	if d.binding == nil || d.state == StateDestroyed {
		return
	}

	ctrl := d.binding.control
	if !ctrl.Enabled() || !ctrl.Touched() {
		d.clear()
		return
	}

	msg, ok := d.resolver.Message(ctrl.Errors(), d.context.Context())
	if !ok {
		d.clear()
		return
	}
	d.show(msg)
}

func (d *display) show(msg string) {
	if d.state == StateShowing && d.shown == msg {
		return
	}
	d.target.Show(msg)
	d.shown = msg
	d.state = StateShowing
	if el := d.binding.element; el != nil {
		el.SetInvalid(true)
	}
}

func (d *display) clear() {
	if d.state == StateClean {
		return
	}
	d.target.Clear()
	d.shown = ""
	d.state = StateClean
	if el := d.binding.element; el != nil {
		el.SetInvalid(false)
	}
}

func (d *display) destroy() {
	if d.state == StateDestroyed {
		return
	}
	d.target.Clear()
	if d.binding != nil && d.binding.element != nil {
		d.binding.element.SetInvalid(false)
	}
	d.binding = nil
	d.children = nil
	d.shown = ""
	d.state = StateDestroyed
}

func (d *display) formControl() forms.AbstractControl {
	if d.binding == nil {
		return nil
	}
	return d.binding.control
}

func (d *display) formControlName() (string, error) {
	if d.binding == nil {
		return "", goerr.Wrap(ErrControlNotFound, "container is not bound", goerr.V(KindKey, d.kind.String()))
	}
	return d.binding.ControlName(), nil
}

func (d *display) el() Element {
	if d.binding == nil {
		return nil
	}
	return d.binding.element
}

// FieldContainer shows the error of a single control
type FieldContainer struct {
	d display
}

func NewFieldContainer(cfg Config, resolver *Resolver, ctx ContextSource) *FieldContainer {
	return &FieldContainer{d: newDisplay(KindField, cfg, resolver, ctx)}
}

func (c *FieldContainer) Kind() Kind {
	return KindField
}

func (c *FieldContainer) Register(child Registration) {
	c.d.register(child)
}

func (c *FieldContainer) AfterContentInit() error {
	return c.d.afterContentInit()
}

func (c *FieldContainer) Check() {
	c.d.check()
}

func (c *FieldContainer) Destroy() {
	c.d.destroy()
}

func (c *FieldContainer) FormControl() forms.AbstractControl {
	return c.d.formControl()
}

func (c *FieldContainer) FormControlName() (string, error) {
	return c.d.formControlName()
}

func (c *FieldContainer) El() Element {
	return c.d.el()
}

func (c *FieldContainer) Target() RenderTarget {
	return c.d.target
}

func (c *FieldContainer) State() State {
	return c.d.state
}

// ArrayContainer shows the array level error of a control array
type ArrayContainer struct {
	d display
}

func NewArrayContainer(cfg Config, resolver *Resolver, ctx ContextSource) *ArrayContainer {
	return &ArrayContainer{d: newDisplay(KindArray, cfg, resolver, ctx)}
}

func (c *ArrayContainer) Kind() Kind {
	return KindArray
}

func (c *ArrayContainer) Register(child Registration) {
	c.d.register(child)
}

func (c *ArrayContainer) AfterContentInit() error {
	return c.d.afterContentInit()
}

func (c *ArrayContainer) Check() {
	c.d.check()
}

func (c *ArrayContainer) Destroy() {
	c.d.destroy()
}

func (c *ArrayContainer) FormControl() forms.AbstractControl {
	return c.d.formControl()
}

func (c *ArrayContainer) FormControlName() (string, error) {
	return c.d.formControlName()
}

func (c *ArrayContainer) El() Element {
	return c.d.el()
}

func (c *ArrayContainer) Target() RenderTarget {
	return c.d.target
}

func (c *ArrayContainer) State() State {
	return c.d.state
}

var (
	_ Container = (*FieldContainer)(nil)
	_ Container = (*ArrayContainer)(nil)
)
