package validationerrors_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"clipo/clipoterm/internal/forms"
	ve "clipo/clipoterm/internal/validationerrors"
)

type recordingTarget struct {
	message string
	shows   int
	clears  int
}

func (r *recordingTarget) Show(message string) {
	r.message = message
	r.shows++
}

func (r *recordingTarget) Clear() {
	r.message = ""
	r.clears++
}

type fakeElement struct {
	invalid bool
}

func (f *fakeElement) SetInvalid(invalid bool) {
	f.invalid = invalid
}

func newModule(t *testing.T, priority ...string) (*ve.Module, *[]*recordingTarget) {
	t.Helper()
	var targets []*recordingTarget
	m := ve.NewModule(&ve.Config{
		Messages: testTable(),
		Priority: priority,
		ErrorComponentFactory: func() ve.RenderTarget {
			target := &recordingTarget{}
			targets = append(targets, target)
			return target
		},
	})
	return m, &targets
}

func namedControl(name, value string, validators ...forms.Validator) *forms.Control {
	c := forms.NewControl(value, validators...)
	c.SetName(name)
	return c
}

func bind(t *testing.T, c ve.Container, reg ve.Registration) {
	t.Helper()
	c.Register(reg)
	gt.NoError(t, c.AfterContentInit()).Required()
}

func TestFieldContainerLifecycle(t *testing.T) {
	m, targets := newModule(t)
	ctrl := namedControl("email", "", forms.Required(), forms.Email())
	el := &fakeElement{}

	c := m.NewFieldContainer(nil)
	gt.Value(t, c.State()).Equal(ve.StateUnbound)
	c.Check()
	gt.Number(t, (*targets)[0].shows).Equal(0)

	bind(t, c, ve.Field(ctrl, el))
	gt.Value(t, c.State()).Equal(ve.StateBound)
	name, err := c.FormControlName()
	gt.NoError(t, err).Required()
	gt.Value(t, name).Equal("email")

	t.Run("untouched control shows nothing", func(t *testing.T) {
		c.Check()
		gt.Value(t, c.State()).Equal(ve.StateClean)
		gt.Value(t, (*targets)[0].message).Equal("")
		gt.Bool(t, el.invalid).False()
	})

	t.Run("touched invalid control shows message", func(t *testing.T) {
		ctrl.MarkAsTouched()
		c.Check()
		gt.Value(t, c.State()).Equal(ve.StateShowing)
		gt.Value(t, (*targets)[0].message).Equal("This field is required")
		gt.Bool(t, el.invalid).True()
	})

	t.Run("writes are idempotent", func(t *testing.T) {
		shows := (*targets)[0].shows
		c.Check()
		c.Check()
		gt.Number(t, (*targets)[0].shows).Equal(shows)
	})

	t.Run("message follows the first active error", func(t *testing.T) {
		ctrl.SetValue("nope")
		c.Check()
		gt.Value(t, (*targets)[0].message).Equal("Must be a valid email address")
	})

	t.Run("disabled control is cleared", func(t *testing.T) {
		ctrl.Disable()
		c.Check()
		gt.Value(t, c.State()).Equal(ve.StateClean)
		gt.Value(t, (*targets)[0].message).Equal("")
		ctrl.Enable()
	})

	t.Run("valid control is cleared", func(t *testing.T) {
		ctrl.SetValue("a@example.com")
		c.Check()
		gt.Value(t, c.State()).Equal(ve.StateClean)
		gt.Bool(t, el.invalid).False()
	})

	t.Run("destroy", func(t *testing.T) {
		c.Destroy()
		gt.Value(t, c.State()).Equal(ve.StateDestroyed)
		ctrl.SetValue("")
		c.Check()
		gt.Value(t, (*targets)[0].message).Equal("")
		gt.Value(t, c.FormControl()).Nil()
	})
}

func TestZeroErrorsAlwaysClear(t *testing.T) {
	contexts := []string{ve.GeneralContext, "LOGIN", "SIGNUP", "UNKNOWN"}
	for _, ctx := range contexts {
		t.Run(ctx, func(t *testing.T) {
			m, targets := newModule(t, "required")
			ctrl := namedControl("name", "value", forms.Required())
			ctrl.MarkAsTouched()

			c := m.NewFieldContainer(ve.StaticContext(ctx))
			bind(t, c, ve.Field(ctrl, nil))
			c.Check()

			gt.Value(t, c.State()).Equal(ve.StateClean)
			gt.Value(t, (*targets)[0].message).Equal("")
		})
	}
}

func TestLocateFailures(t *testing.T) {
	m, _ := newModule(t)

	t.Run("nothing registered", func(t *testing.T) {
		c := m.NewFieldContainer(nil)
		err := c.AfterContentInit()
		gt.Error(t, err).Is(ve.ErrControlNotFound)
		gt.Value(t, c.State()).Equal(ve.StateUnbound)
	})

	t.Run("field container ignores arrays", func(t *testing.T) {
		c := m.NewFieldContainer(nil)
		arr := forms.NewArray()
		arr.SetName("items")
		c.Register(ve.ArrayGroup(arr, nil))
		gt.Error(t, c.AfterContentInit()).Is(ve.ErrControlNotFound)
	})

	t.Run("missing control name", func(t *testing.T) {
		c := m.NewFieldContainer(nil)
		c.Register(ve.Field(forms.NewControl(""), nil))
		gt.Error(t, c.AfterContentInit()).Is(ve.ErrMissingControlName)
	})

	t.Run("unbound name lookup", func(t *testing.T) {
		c := m.NewArrayContainer(nil)
		_, err := c.FormControlName()
		gt.Bool(t, errors.Is(err, ve.ErrControlNotFound)).True()
	})
}

func TestRebindingReplacesBinding(t *testing.T) {
	m, targets := newModule(t)
	first := namedControl("first", "", forms.Required())
	second := namedControl("second", "x", forms.Required())
	first.MarkAsTouched()
	second.MarkAsTouched()
	firstEl := &fakeElement{}

	c := m.NewFieldContainer(nil)
	bind(t, c, ve.Field(first, firstEl))
	c.Check()
	gt.Bool(t, firstEl.invalid).True()

	c.Register(ve.Field(second, nil))
	gt.Value(t, c.FormControl()).Equal(forms.AbstractControl(second))
	gt.Bool(t, firstEl.invalid).False()

	c.Check()
	gt.Value(t, (*targets)[0].message).Equal("")
	gt.Value(t, c.State()).Equal(ve.StateClean)
}

func TestContextShadowing(t *testing.T) {
	m, targets := newModule(t)
	login := m.Root().Child("LOGIN")
	inherit := login.Child("")
	signup := login.Child("SIGNUP")

	gt.Value(t, inherit.Context()).Equal("LOGIN")
	gt.Value(t, signup.Context()).Equal("SIGNUP")
	gt.Bool(t, signup.Parent() == login).True()
	gt.Bool(t, m.Root().Parent() == nil).True()

	ctrl := namedControl("email", "", forms.Required())
	ctrl.MarkAsTouched()

	c := m.NewFieldContainer(signup)
	bind(t, c, ve.Field(ctrl, nil))
	c.Check()
	// SIGNUP has no required template: GENERAL, never the LOGIN ancestor
	gt.Value(t, (*targets)[0].message).Equal("This field is required")

	signup.SetName("")
	c.Check()
	gt.Value(t, (*targets)[0].message).Equal("Required to sign in")
}

func TestScopeDefaults(t *testing.T) {
	gt.Value(t, ve.NewScope("").Context()).Equal(ve.GeneralContext)
	gt.Value(t, ve.NewScope("ADMIN").Child("").Child("").Context()).Equal("ADMIN")
	gt.Value(t, ve.StaticContext("").Context()).Equal(ve.GeneralContext)
}

func TestArrayContainer(t *testing.T) {
	m, targets := newModule(t)
	table := m.Config().Messages
	table[ve.GeneralContext][forms.CodeMaxItems] = "No more than {requiredItems}"
	m = ve.NewModule(&ve.Config{Messages: table, ErrorComponentFactory: m.Config().ErrorComponentFactory})

	arr := forms.NewArray(forms.MaxItems(1))
	forms.NewGroup().Add("recoveryEmails", arr)
	arr.Push(forms.NewControl("a@example.com"))
	arr.Push(forms.NewControl("b@example.com"))

	c := m.NewArrayContainer(nil)
	c.Register(ve.Field(arr.At(0), nil))
	bind(t, c, ve.ArrayGroup(arr, nil))
	name, err := c.FormControlName()
	gt.NoError(t, err).Required()
	gt.Value(t, name).Equal("recoveryEmails")

	c.Check()
	gt.Value(t, c.State()).Equal(ve.StateClean)

	arr.At(1).MarkAsTouched()
	c.Check()
	target := (*targets)[len(*targets)-1]
	gt.Value(t, target.message).Equal("No more than 1")

	arr.RemoveAt(1)
	c.Check()
	gt.Value(t, target.message).Equal("")
}

func TestFormControlNameFollowsArrayRename(t *testing.T) {
	m, _ := newModule(t)

	arr := forms.NewArray()
	forms.NewGroup().Add("recoveryEmails", arr)
	arr.Push(forms.NewControl("a@example.com"))
	arr.Push(forms.NewControl("b@example.com"))

	c := m.NewFieldContainer(nil)
	bind(t, c, ve.Field(arr.At(1), nil))
	name, err := c.FormControlName()
	gt.NoError(t, err).Required()
	gt.Value(t, name).Equal("recoveryEmails.1")

	arr.RemoveAt(0)
	name, err = c.FormControlName()
	gt.NoError(t, err).Required()
	gt.Value(t, name).Equal("recoveryEmails.0")
}

func TestUnresolvedCodeShowsNothing(t *testing.T) {
	m, targets := newModule(t)
	ctrl := namedControl("email", "")
	ctrl.SetErrors(forms.Errors{}.With("serverOnly", nil))
	ctrl.MarkAsTouched()

	c := m.NewFieldContainer(nil)
	bind(t, c, ve.Field(ctrl, nil))
	c.Check()
	gt.Value(t, c.State()).Equal(ve.StateClean)
	gt.Value(t, (*targets)[0].message).Equal("")
}

func TestInputErrors(t *testing.T) {
	e := ve.NewInputErrors()
	gt.Value(t, e.View()).Equal("")

	e.Show("This field is required")
	gt.Bool(t, e.Visible()).True()
	gt.String(t, e.View()).Contains("This field is required")

	e.Clear()
	gt.Bool(t, e.Visible()).False()
	gt.Value(t, e.Message()).Equal("")
}
