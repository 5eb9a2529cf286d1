package views

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"clipo/clipoterm/internal/account"
	"clipo/clipoterm/internal/forms"
	"clipo/clipoterm/internal/models"
	"clipo/clipoterm/internal/validationerrors"
)

type ResetPasswordInitModel struct {
	ctx     context.Context
	service *account.Service
	form    *form

	// requested holds the account once a reset key was issued
	requested *models.Account
}

type ResetRequestResultMsg struct {
	Account *models.Account
	Err     error
}

func NewResetPasswordInitModel(ctx context.Context, module *validationerrors.Module, service *account.Service) (*ResetPasswordInitModel, error) {
	group := forms.NewGroup().
		Add("email", forms.NewControl("", forms.Required(), forms.Email()))

	field, err := NewField(module, nil, "Email", "you@example.com", group.Control("email"))
	if err != nil {
		return nil, err
	}

	return &ResetPasswordInitModel{
		ctx:     ctx,
		service: service,
		form:    newForm(group, field),
	}, nil
}

func (m ResetPasswordInitModel) Init() tea.Cmd {
	return m.form.focusFirst()
}

func (m ResetPasswordInitModel) Update(msg tea.Msg) (ResetPasswordInitModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			cmd = NavigateTo(ViewLogin, nil)
		case "enter":
			if m.requested != nil {
				cmd = NavigateTo(ViewLogin, nil)
				break
			}
			if !m.form.submitting && m.form.submit() {
				m.form.submitting = true
				cmd = tea.Batch(m.requestReset(), tickSpinner())
			}
		default:
			cmd = m.form.update(msg)
		}

	case ResetRequestResultMsg:
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

func (m *ResetPasswordInitModel) handleResult(msg ResetRequestResultMsg) tea.Cmd {
	if msg.Err == nil {
		m.requested = msg.Account
		return Notify(LevelInfo, "Check your email for reset instructions")
	}

	code, ok := account.ErrorCode(msg.Err)
	if !ok {
		return NotifyUnexpected(m.ctx, msg.Err)
	}
	m.form.setServerError("email", code)
	return nil
}

func (m ResetPasswordInitModel) requestReset() tea.Cmd {
	email := m.form.group.Control("email").Text()
	ctx := m.ctx
	service := m.service

	return func() tea.Msg {
		acc, err := service.RequestPasswordReset(ctx, email)
		return ResetRequestResultMsg{Account: acc, Err: err}
	}
}

func (m ResetPasswordInitModel) Destroy() {
	m.form.destroy()
}

func (m ResetPasswordInitModel) View() string {
	var content string
	content += titleStyle.Render("Reset Password") + "\n\n"

	if m.requested != nil {
		content += successStyle.Render("✓ Reset requested for "+m.requested.Email) + "\n\n"
		content += "Your reset key:\n\n"
		content += keyStyle.Render(m.requested.ResetKey) + "\n\n"
		content += helpStyle.Render("Press Enter to return to sign in")
		return content
	}

	content += helpStyle.Render("Enter the email address you registered with") + "\n\n"
	content += m.form.view()
	content += m.form.statusView("Requesting reset...")
	content += "\n" + helpStyle.Render("Enter to request a reset, Esc to go back")
	return content
}
