package views

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"clipo/clipoterm/internal/account"
	"clipo/clipoterm/internal/forms"
	"clipo/clipoterm/internal/models"
	"clipo/clipoterm/internal/validationerrors"
)

const maxRecoveryEmails = 3

type RegisterModel struct {
	ctx     context.Context
	service *account.Service
	form    *form
}

type RegisterResultMsg struct {
	Account *models.Account
	Err     error
}

func recoveryEmailValidators() []forms.Validator {
	return []forms.Validator{forms.Required(), forms.Email(), forms.MaxLength(32)}
}

func NewRegisterModel(ctx context.Context, module *validationerrors.Module, service *account.Service) (*RegisterModel, error) {
	scope := module.Root().Child(validationerrors.SignupContext)

	recovery := forms.NewArray(forms.MaxItems(maxRecoveryEmails), forms.Unique())
	group := forms.NewGroup().
		Add("firstName", forms.NewControl("", forms.Required(), forms.MaxLength(32))).
		Add("lastName", forms.NewControl("", forms.Required(), forms.MaxLength(32))).
		Add("email", forms.NewControl("", forms.Required(), forms.Email(), forms.MaxLength(32))).
		Add("password", forms.NewControl("", forms.Required(), forms.Password(), forms.MaxLength(20))).
		Add("recoveryEmails", recovery)
	group.Add("confirmPassword", forms.NewControl("", forms.Required(), forms.EqualTo(group.Control("password"))))

	inputs := []struct {
		name, label, placeholder string
		masked                   bool
	}{
		{"firstName", "First name", "Ada", false},
		{"lastName", "Last name", "Lovelace", false},
		{"email", "Email", "you@example.com", false},
		{"password", "Password", "At least 6 characters and a number", true},
		{"confirmPassword", "Confirm password", "Repeat your password", true},
	}

	fields := make([]*Field, 0, len(inputs))
	for _, in := range inputs {
		field, err := NewField(module, scope, in.label, in.placeholder, group.Control(in.name))
		if err != nil {
			return nil, err
		}
		if in.masked {
			field.Masked()
		}
		fields = append(fields, field)
	}

	array, err := NewArrayField(module, scope, "Recovery emails", "Recovery email", "backup@example.com", recovery, recoveryEmailValidators)
	if err != nil {
		return nil, err
	}

	f := newForm(group, fields...)
	f.array = array

	return &RegisterModel{
		ctx:     ctx,
		service: service,
		form:    f,
	}, nil
}

func (m RegisterModel) Init() tea.Cmd {
	return m.form.focusFirst()
}

func (m RegisterModel) Update(msg tea.Msg) (RegisterModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			cmd = m.form.focusNext()
		case "shift+tab", "up":
			cmd = m.form.focusPrev()
		case "esc":
			cmd = NavigateTo(ViewLogin, nil)
		case "ctrl+n":
			cmd = m.addRecoveryEmail()
		case "ctrl+d":
			cmd = m.removeRecoveryEmail()
		case "enter":
			if !m.form.submitting && m.form.submit() {
				m.form.submitting = true
				cmd = tea.Batch(m.register(), tickSpinner())
			}
		default:
			cmd = m.form.update(msg)
		}

	case RegisterResultMsg:
		m.form.submitting = false
		cmd = m.handleResult(msg)

	case spinnerTickMsg:
		cmd = m.form.tick()

	default:
		cmd = m.form.update(msg)
	}

	// confirmation depends on the password value
	m.form.group.Control("confirmPassword").Validate()
	m.form.check()
	return m, cmd
}

// addRecoveryEmail appends a recovery email even past the limit so the
// array error explains why the form cannot be submitted.
func (m RegisterModel) addRecoveryEmail() tea.Cmd {
	field, err := m.form.array.Add()
	if err != nil {
		return NotifyUnexpected(m.ctx, err)
	}
	return m.form.focusField(field)
}

func (m RegisterModel) removeRecoveryEmail() tea.Cmd {
	focused := m.form.focused()
	i := m.form.array.IndexOf(focused)
	if i < 0 {
		return nil
	}

	m.form.array.RemoveAt(i)
	return m.form.focusAt(len(m.form.fields) + i - 1)
}

func (m RegisterModel) handleResult(msg RegisterResultMsg) tea.Cmd {
	if msg.Err == nil {
		return NavigateTo(ViewActivationInstruction, msg.Account)
	}

	code, ok := account.ErrorCode(msg.Err)
	if !ok {
		return NotifyUnexpected(m.ctx, msg.Err)
	}
	m.form.setServerError("email", code)
	return nil
}

func (m RegisterModel) register() tea.Cmd {
	group := m.form.group
	req := account.RegisterRequest{
		FirstName:      group.Control("firstName").Text(),
		LastName:       group.Control("lastName").Text(),
		Email:          group.Control("email").Text(),
		Password:       group.Control("password").Text(),
		RecoveryEmails: group.Array("recoveryEmails").Values(),
	}
	ctx := m.ctx
	service := m.service

	return func() tea.Msg {
		acc, err := service.Register(ctx, req)
		return RegisterResultMsg{Account: acc, Err: err}
	}
}

func (m RegisterModel) Destroy() {
	m.form.destroy()
}

func (m RegisterModel) View() string {
	var content string
	content += titleStyle.Render("Create Account") + "\n\n"
	content += m.form.view()
	content += m.form.statusView("Creating your account...")
	content += "\n" + helpStyle.Render("Tab to move between fields, Enter to register")
	content += "\n" + helpStyle.Render("Ctrl+N add recovery email • Ctrl+D remove focused recovery email • Esc back to sign in")
	return content
}
