package views

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"clipo/clipoterm/internal/forms"
	"clipo/clipoterm/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Blue)).
			Bold(true).
			Padding(1, 0)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Subtext0)).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Green))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Yellow)).
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Green)).
			Background(lipgloss.Color(utils.Colours.Surface0)).
			Padding(0, 1)
)

type spinnerTickMsg struct{}

func tickSpinner() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// form owns a control group and the fields showing it. Every view built on
// it calls check at the end of Update so error lines follow control state.
type form struct {
	group  *forms.Group
	fields []*Field
	array  *ArrayField

	focus      int
	submitting bool
	spinner    *utils.Spinner
}

func newForm(group *forms.Group, fields ...*Field) *form {
	return &form{
		group:   group,
		fields:  fields,
		spinner: utils.NewSpinner(),
	}
}

// focusables lists the fields in tab order, array items last
func (f *form) focusables() []*Field {
	list := append([]*Field{}, f.fields...)
	if f.array != nil {
		list = append(list, f.array.Items()...)
	}
	return list
}

func (f *form) focused() *Field {
	list := f.focusables()
	if f.focus < 0 || f.focus >= len(list) {
		return nil
	}
	return list[f.focus]
}

func (f *form) focusFirst() tea.Cmd {
	f.focus = 0
	if field := f.focused(); field != nil {
		return field.Focus()
	}
	return nil
}

func (f *form) focusAt(i int) tea.Cmd {
	list := f.focusables()
	if len(list) == 0 {
		return nil
	}
	if current := f.focused(); current != nil && current.Focused() {
		current.Blur()
	}
	f.focus = (i + len(list)) % len(list)
	return list[f.focus].Focus()
}

func (f *form) focusNext() tea.Cmd {
	return f.focusAt(f.focus + 1)
}

func (f *form) focusPrev() tea.Cmd {
	return f.focusAt(f.focus - 1)
}

func (f *form) focusField(target *Field) tea.Cmd {
	for i, field := range f.focusables() {
		if field == target {
			return f.focusAt(i)
		}
	}
	return nil
}

// update forwards msg to the focused field
func (f *form) update(msg tea.Msg) tea.Cmd {
	if f.submitting {
		return nil
	}
	if field := f.focused(); field != nil {
		return field.Update(msg)
	}
	return nil
}

// check runs every container against the current control state
func (f *form) check() {
	for _, field := range f.fields {
		field.Check()
	}
	if f.array != nil {
		f.array.Check()
	}
}

// submit touches every control and reports whether the group is valid
func (f *form) submit() bool {
	f.group.MarkAllAsTouched()
	f.group.Validate()
	f.check()
	return f.group.Valid()
}

// setServerError attaches a server side error to the named control
func (f *form) setServerError(name, code string) {
	ctrl := f.group.Control(name)
	if ctrl == nil {
		return
	}
	ctrl.SetErrors(forms.Errors{}.With(code, nil))
	ctrl.MarkAsTouched()
}

func (f *form) tick() tea.Cmd {
	if !f.submitting {
		f.spinner.Reset()
		return nil
	}
	f.spinner.Tick()
	return tickSpinner()
}

func (f *form) destroy() {
	for _, field := range f.fields {
		field.Destroy()
	}
	if f.array != nil {
		f.array.Destroy()
	}
}

func (f *form) view() string {
	var b strings.Builder
	for _, field := range f.fields {
		b.WriteString(field.View() + "\n")
	}
	if f.array != nil {
		b.WriteString(f.array.View() + "\n")
	}
	return b.String()
}

func (f *form) statusView(action string) string {
	if !f.submitting {
		return ""
	}
	return helpStyle.Render(f.spinner.View()+" "+action) + "\n"
}
