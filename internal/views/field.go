package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"clipo/clipoterm/internal/forms"
	"clipo/clipoterm/internal/utils"
	"clipo/clipoterm/internal/validationerrors"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Text)).
			Bold(true)

	validPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(utils.Colours.Blue))

	invalidPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(utils.Colours.Red))
)

// Field is a text input bound to a form control. The field registers itself
// with its error container and is the element the container flags.
type Field struct {
	label     string
	input     textinput.Model
	control   *forms.Control
	container *validationerrors.FieldContainer
	invalid   bool
}

func NewField(module *validationerrors.Module, scope validationerrors.ContextSource, label, placeholder string, control *forms.Control) (*Field, error) {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 64
	input.PromptStyle = validPromptStyle
	input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Colours.Text))
	input.SetValue(control.Text())

	f := &Field{
		label:     label,
		input:     input,
		control:   control,
		container: module.NewFieldContainer(scope),
	}

	f.container.Register(validationerrors.Field(control, f))
	if err := f.container.AfterContentInit(); err != nil {
		return nil, err
	}

	return f, nil
}

// Masked hides the typed characters
func (f *Field) Masked() *Field {
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '*'
	return f
}

func (f *Field) SetInvalid(invalid bool) {
	f.invalid = invalid
	if invalid {
		f.input.PromptStyle = invalidPromptStyle
	} else {
		f.input.PromptStyle = validPromptStyle
	}
}

func (f *Field) Invalid() bool {
	return f.invalid
}

func (f *Field) Control() *forms.Control {
	return f.control
}

func (f *Field) Container() *validationerrors.FieldContainer {
	return f.container
}

func (f *Field) Focus() tea.Cmd {
	return f.input.Focus()
}

// Blur leaves the field and marks its control as touched
func (f *Field) Blur() {
	f.input.Blur()
	f.control.MarkAsTouched()
}

func (f *Field) Focused() bool {
	return f.input.Focused()
}

func (f *Field) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	f.control.SetValue(f.input.Value())
	return cmd
}

// SetValue replaces the input text and the control value
func (f *Field) SetValue(value string) {
	f.input.SetValue(value)
	f.control.SetValue(value)
}

func (f *Field) Check() {
	f.container.Check()
}

func (f *Field) Destroy() {
	f.container.Destroy()
}

func (f *Field) View() string {
	var b strings.Builder
	b.WriteString(fieldLabelStyle.Render(f.label) + "\n")
	b.WriteString(f.input.View() + "\n")
	b.WriteString(targetView(f.container.Target()))
	return b.String()
}

func targetView(target validationerrors.RenderTarget) string {
	v, ok := target.(validationerrors.Viewer)
	if !ok {
		return ""
	}
	if view := v.View(); view != "" {
		return view + "\n"
	}
	return ""
}

// ArrayField renders a control array as a list of fields with a single
// array level error line.
type ArrayField struct {
	label       string
	itemLabel   string
	placeholder string
	array       *forms.Array
	container   *validationerrors.ArrayContainer
	items       []*Field
	invalid     bool

	module     *validationerrors.Module
	scope      validationerrors.ContextSource
	validators func() []forms.Validator
}

func NewArrayField(module *validationerrors.Module, scope validationerrors.ContextSource, label, itemLabel, placeholder string, array *forms.Array, validators func() []forms.Validator) (*ArrayField, error) {
	a := &ArrayField{
		label:       label,
		itemLabel:   itemLabel,
		placeholder: placeholder,
		array:       array,
		container:   module.NewArrayContainer(scope),
		module:      module,
		scope:       scope,
		validators:  validators,
	}

	a.container.Register(validationerrors.ArrayGroup(array, a))
	if err := a.container.AfterContentInit(); err != nil {
		return nil, err
	}

	for _, ctrl := range array.Controls() {
		if _, err := a.bindItem(ctrl); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Add appends an empty item and returns its field
func (a *ArrayField) Add() (*Field, error) {
	ctrl := forms.NewControl("", a.validators()...)
	a.array.Push(ctrl)
	return a.bindItem(ctrl)
}

func (a *ArrayField) bindItem(ctrl *forms.Control) (*Field, error) {
	field, err := NewField(a.module, a.scope, "", a.placeholder, ctrl)
	if err != nil {
		return nil, err
	}
	a.items = append(a.items, field)
	return field, nil
}

// RemoveAt drops the item at index i and its container. Removing an item
// counts as touching the array.
func (a *ArrayField) RemoveAt(i int) {
	if i < 0 || i >= len(a.items) {
		return
	}
	a.items[i].Destroy()
	a.items = append(a.items[:i], a.items[i+1:]...)
	a.array.RemoveAt(i)
	a.array.MarkAsTouched()
}

func (a *ArrayField) Items() []*Field {
	return a.items
}

func (a *ArrayField) IndexOf(f *Field) int {
	for i, item := range a.items {
		if item == f {
			return i
		}
	}
	return -1
}

func (a *ArrayField) SetInvalid(invalid bool) {
	a.invalid = invalid
}

func (a *ArrayField) Invalid() bool {
	return a.invalid
}

func (a *ArrayField) Container() *validationerrors.ArrayContainer {
	return a.container
}

func (a *ArrayField) Check() {
	a.container.Check()
	for _, item := range a.items {
		item.Check()
	}
}

func (a *ArrayField) Destroy() {
	for _, item := range a.items {
		item.Destroy()
	}
	a.container.Destroy()
}

func (a *ArrayField) View() string {
	var b strings.Builder

	labelStyle := fieldLabelStyle
	if a.invalid {
		labelStyle = labelStyle.Foreground(lipgloss.Color(utils.Colours.Red))
	}
	b.WriteString(labelStyle.Render(a.label) + "\n")

	if len(a.items) == 0 {
		b.WriteString(helpStyle.Render("None added") + "\n")
	}
	for i, item := range a.items {
		item.label = fmt.Sprintf("%s %d", a.itemLabel, i+1)
		b.WriteString(item.View())
	}

	b.WriteString(targetView(a.container.Target()))
	return b.String()
}
