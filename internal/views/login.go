package views

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"clipo/clipoterm/internal/account"
	"clipo/clipoterm/internal/forms"
	"clipo/clipoterm/internal/models"
	"clipo/clipoterm/internal/validationerrors"
)

type LoginModel struct {
	ctx     context.Context
	service *account.Service
	form    *form
}

type LoginResultMsg struct {
	Account *models.Account
	Err     error
}

func NewLoginModel(ctx context.Context, module *validationerrors.Module, service *account.Service) (*LoginModel, error) {
	scope := module.Root().Child(validationerrors.LoginContext)

	group := forms.NewGroup().
		Add("email", forms.NewControl("", forms.Required(), forms.Email())).
		Add("password", forms.NewControl("", forms.Required()))

	email, err := NewField(module, scope, "Email", "you@example.com", group.Control("email"))
	if err != nil {
		return nil, err
	}
	password, err := NewField(module, scope, "Password", "Your password", group.Control("password"))
	if err != nil {
		return nil, err
	}
	password.Masked()

	return &LoginModel{
		ctx:     ctx,
		service: service,
		form:    newForm(group, email, password),
	}, nil
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.focusFirst()
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			cmd = m.form.focusNext()
		case "shift+tab", "up":
			cmd = m.form.focusPrev()
		case "ctrl+r":
			cmd = NavigateTo(ViewRegister, nil)
		case "ctrl+p":
			cmd = NavigateTo(ViewResetPasswordInit, nil)
		case "ctrl+a":
			cmd = NavigateTo(ViewActivate, "")
		case "enter":
			if !m.form.submitting && m.form.submit() {
				m.form.submitting = true
				cmd = tea.Batch(m.login(), tickSpinner())
			}
		default:
			cmd = m.form.update(msg)
		}

	case LoginResultMsg:
		m.form.submitting = false
		cmd = m.handleResult(msg)

	case spinnerTickMsg:
		cmd = m.form.tick()

	default:
		cmd = m.form.update(msg)
	}

	m.form.check()
	return m, cmd
}

func (m LoginModel) handleResult(msg LoginResultMsg) tea.Cmd {
	if msg.Err == nil {
		return tea.Batch(
			Notify(LevelSuccess, "Signed in as "+msg.Account.DisplayName()),
			NavigateTo(ViewHome, msg.Account),
		)
	}

	code, ok := account.ErrorCode(msg.Err)
	if !ok {
		return NotifyUnexpected(m.ctx, msg.Err)
	}

	switch {
	case errors.Is(msg.Err, account.ErrNotActivated):
		m.form.setServerError("email", code)
		return Notify(LevelWarn, "Activate your account before signing in")
	default:
		m.form.setServerError("password", code)
	}
	return nil
}

func (m LoginModel) login() tea.Cmd {
	email := m.form.group.Control("email").Text()
	password := m.form.group.Control("password").Text()
	ctx := m.ctx
	service := m.service

	return func() tea.Msg {
		acc, err := service.Login(ctx, email, password)
		return LoginResultMsg{Account: acc, Err: err}
	}
}

func (m LoginModel) Destroy() {
	m.form.destroy()
}

func (m LoginModel) View() string {
	var content string
	content += titleStyle.Render("Sign In") + "\n\n"
	content += m.form.view()
	content += m.form.statusView("Signing in...")
	content += "\n" + helpStyle.Render("Tab to move between fields, Enter to sign in")
	content += "\n" + helpStyle.Render("Ctrl+R register • Ctrl+A activate account • Ctrl+P forgot password • Ctrl+C quit")
	return content
}
