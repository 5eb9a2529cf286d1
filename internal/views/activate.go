package views

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"clipo/clipoterm/internal/account"
	"clipo/clipoterm/internal/forms"
	"clipo/clipoterm/internal/models"
	"clipo/clipoterm/internal/validationerrors"
)

const missingKeyText = "Activation key is missing. Did you copy the right key?" +
	" Please contact support if you think this could be an error."

type ActivateModel struct {
	ctx     context.Context
	service *account.Service
	form    *form

	// autoSubmit activates on Init when the key was handed over
	autoSubmit bool
}

type ActivateResultMsg struct {
	Account *models.Account
	Err     error
}

func NewActivateModel(ctx context.Context, module *validationerrors.Module, service *account.Service, key string) (*ActivateModel, error) {
	group := forms.NewGroup().
		Add("activationKey", forms.NewControl(key, forms.Required(), forms.Pattern("[0-9a-f]{32}")))

	field, err := NewField(module, nil, "Activation key", "32 character key", group.Control("activationKey"))
	if err != nil {
		return nil, err
	}

	return &ActivateModel{
		ctx:        ctx,
		service:    service,
		form:       newForm(group, field),
		autoSubmit: key != "",
	}, nil
}

func (m ActivateModel) Init() tea.Cmd {
	focus := m.form.focusFirst()
	if m.autoSubmit && m.form.submit() {
		m.form.submitting = true
		return tea.Batch(focus, m.activate(), tickSpinner())
	}
	return focus
}

func (m ActivateModel) Update(msg tea.Msg) (ActivateModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			cmd = NavigateTo(ViewLogin, nil)
		case "enter":
			if m.form.submitting {
				break
			}
			if m.form.group.Control("activationKey").Text() == "" {
				m.form.submit()
				cmd = Notify(LevelWarn, missingKeyText)
				break
			}
			if m.form.submit() {
				m.form.submitting = true
				cmd = tea.Batch(m.activate(), tickSpinner())
			}
		default:
			cmd = m.form.update(msg)
		}

	case ActivateResultMsg:
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

func (m ActivateModel) handleResult(msg ActivateResultMsg) tea.Cmd {
	if msg.Err == nil {
		return tea.Batch(
			Notify(LevelSuccess, "Account activated successfully"),
			NavigateTo(ViewLogin, nil),
		)
	}

	code, ok := account.ErrorCode(msg.Err)
	if !ok {
		return NotifyUnexpected(m.ctx, msg.Err)
	}
	m.form.setServerError("activationKey", code)
	return nil
}

func (m ActivateModel) activate() tea.Cmd {
	key := m.form.group.Control("activationKey").Text()
	ctx := m.ctx
	service := m.service

	return func() tea.Msg {
		acc, err := service.Activate(ctx, key)
		return ActivateResultMsg{Account: acc, Err: err}
	}
}

func (m ActivateModel) Destroy() {
	m.form.destroy()
}

func (m ActivateModel) View() string {
	var content string
	content += titleStyle.Render("Activate Account") + "\n\n"
	content += m.form.view()
	content += m.form.statusView("Activating...")
	content += "\n" + helpStyle.Render("Enter to activate, Esc to go back")
	return content
}
