package views

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"clipo/clipoterm/internal/account"
	"clipo/clipoterm/internal/logging"
	"clipo/clipoterm/internal/models"
	"clipo/clipoterm/internal/security"
	"clipo/clipoterm/internal/utils"
	"clipo/clipoterm/internal/validationerrors"
)

type ViewState int

const (
	ViewLogin ViewState = iota
	ViewRegister
	ViewActivationInstruction
	ViewActivate
	ViewResetPasswordInit
	ViewHome
)

func (s ViewState) String() string {
	switch s {
	case ViewLogin:
		return "login"
	case ViewRegister:
		return "register"
	case ViewActivationInstruction:
		return "activation_instruction"
	case ViewActivate:
		return "activate"
	case ViewResetPasswordInit:
		return "reset_password_init"
	case ViewHome:
		return "home"
	default:
		return "unknown"
	}
}

const (
	sessionCheckInterval = 10 * time.Second
	sessionExpiredText   = "Your session expired; please sign in again"
)

type AppModel struct {
	ctx      context.Context
	state    ViewState
	width    int
	height   int
	module   *validationerrors.Module
	service  *account.Service
	sessions *security.SessionManager

	notifications *Notifications
	account       *models.Account

	login                 *LoginModel
	register              *RegisterModel
	activationInstruction *ActivationInstructionModel
	activate              *ActivateModel
	resetPasswordInit     *ResetPasswordInitModel
	home                  *HomeModel

	err error
}

type NavigateMsg struct {
	State ViewState
	Data  interface{}
}

type sessionCheckMsg struct{}

func checkSession() tea.Cmd {
	return tea.Tick(sessionCheckInterval, func(time.Time) tea.Msg {
		return sessionCheckMsg{}
	})
}

// NewAppModel builds the shell and its first view. A view whose error
// containers cannot bind fails here, before the program starts.
func NewAppModel(ctx context.Context, module *validationerrors.Module, service *account.Service, sessions *security.SessionManager) (*AppModel, error) {
	login, err := NewLoginModel(ctx, module, service)
	if err != nil {
		return nil, fmt.Errorf("failed to build login view: %w", err)
	}

	return &AppModel{
		ctx:           ctx,
		state:         ViewLogin,
		module:        module,
		service:       service,
		sessions:      sessions,
		notifications: NewNotifications(),
		login:         login,
	}, nil
}

func (m AppModel) Init() tea.Cmd {
	return m.login.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.closeSession()
			m.destroyCurrent()
			return m, tea.Quit
		case "esc":
			// a view that failed to build leaves only the error on screen
			if m.err != nil {
				return m.navigateTo(ViewLogin, nil)
			}
		}
		if m.state == ViewHome && m.account != nil {
			// any key counts as activity; an expired session is handled by the next check
			_ = m.sessions.ExtendSession(m.account.ID)
		}

	case sessionCheckMsg:
		return m.handleSessionCheck()

	case NavigateMsg:
		return m.navigateTo(msg.State, msg.Data)

	case NotifyMsg, notificationExpiredMsg:
		return m, m.notifications.Update(msg)
	}

	switch m.state {
	case ViewLogin:
		if m.login != nil {
			*m.login, cmd = m.login.Update(msg)
		}
	case ViewRegister:
		if m.register != nil {
			*m.register, cmd = m.register.Update(msg)
		}
	case ViewActivationInstruction:
		if m.activationInstruction != nil {
			*m.activationInstruction, cmd = m.activationInstruction.Update(msg)
		}
	case ViewActivate:
		if m.activate != nil {
			*m.activate, cmd = m.activate.Update(msg)
		}
	case ViewResetPasswordInit:
		if m.resetPasswordInit != nil {
			*m.resetPasswordInit, cmd = m.resetPasswordInit.Update(msg)
		}
	case ViewHome:
		if m.home != nil {
			*m.home, cmd = m.home.Update(msg)
		}
	}

	return m, cmd
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content string

	switch m.state {
	case ViewLogin:
		if m.login != nil {
			content = m.login.View()
		}
	case ViewRegister:
		if m.register != nil {
			content = m.register.View()
		}
	case ViewActivationInstruction:
		if m.activationInstruction != nil {
			content = m.activationInstruction.View()
		}
	case ViewActivate:
		if m.activate != nil {
			content = m.activate.View()
		}
	case ViewResetPasswordInit:
		if m.resetPasswordInit != nil {
			content = m.resetPasswordInit.View()
		}
	case ViewHome:
		if m.home != nil {
			content = m.home.View()
		}
	default:
		content = "Unknown view"
	}

	if m.state == ViewHome && m.account != nil {
		remaining := m.sessions.GetTimeRemaining(m.account.ID)
		content += "\n" + helpStyle.Render("Session expires in "+utils.FormatDuration(remaining))
	}

	if toast := m.notifications.View(); toast != "" {
		content += "\n\n" + toast
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Red)).
			Bold(true).
			Padding(1)
		content += "\n" + errorStyle.Render(fmt.Sprintf("Error: %s", m.err.Error()))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(0, 2).
		Render(content)
}

// navigateTo replaces the current view with a freshly built one. The old
// view's error containers are destroyed first.
func (m AppModel) navigateTo(state ViewState, data interface{}) (tea.Model, tea.Cmd) {
	logging.From(m.ctx).Debug("navigate",
		slog.String("from", m.state.String()),
		slog.String("to", state.String()))

	m.destroyCurrent()
	m.err = nil

	var (
		cmd tea.Cmd
		err error
	)

	switch state {
	case ViewLogin:
		m.closeSession()
		if m.login, err = NewLoginModel(m.ctx, m.module, m.service); err == nil {
			cmd = m.login.Init()
		}
	case ViewRegister:
		if m.register, err = NewRegisterModel(m.ctx, m.module, m.service); err == nil {
			cmd = m.register.Init()
		}
	case ViewActivationInstruction:
		acc, _ := data.(*models.Account)
		m.activationInstruction = NewActivationInstructionModel(acc)
		cmd = m.activationInstruction.Init()
	case ViewActivate:
		key, _ := data.(string)
		if m.activate, err = NewActivateModel(m.ctx, m.module, m.service, key); err == nil {
			cmd = m.activate.Init()
		}
	case ViewResetPasswordInit:
		if m.resetPasswordInit, err = NewResetPasswordInitModel(m.ctx, m.module, m.service); err == nil {
			cmd = m.resetPasswordInit.Init()
		}
	case ViewHome:
		acc, _ := data.(*models.Account)
		if _, err = m.sessions.CreateSession(acc); err == nil {
			m.account = acc
			m.home = NewHomeModel(acc)
			cmd = tea.Batch(m.home.Init(), checkSession())
		}
	}

	if err != nil {
		logging.From(m.ctx).Error("failed to build view",
			slog.String("view", state.String()),
			slog.Any("error", err))
		m.err = err
		m.state = state
		return m, nil
	}

	m.state = state
	return m, cmd
}

func (m *AppModel) destroyCurrent() {
	switch m.state {
	case ViewLogin:
		if m.login != nil {
			m.login.Destroy()
			m.login = nil
		}
	case ViewRegister:
		if m.register != nil {
			m.register.Destroy()
			m.register = nil
		}
	case ViewActivate:
		if m.activate != nil {
			m.activate.Destroy()
			m.activate = nil
		}
	case ViewResetPasswordInit:
		if m.resetPasswordInit != nil {
			m.resetPasswordInit.Destroy()
			m.resetPasswordInit = nil
		}
	}
}

// handleSessionCheck signs out once the session has expired
func (m AppModel) handleSessionCheck() (tea.Model, tea.Cmd) {
	if m.state != ViewHome || m.account == nil {
		return m, nil
	}

	if _, ok := m.sessions.GetSession(m.account.ID); ok {
		return m, checkSession()
	}

	logging.From(m.ctx).Info("session expired", slog.String("account_id", m.account.ID))
	next, cmd := m.navigateTo(ViewLogin, nil)
	return next, tea.Batch(cmd, Notify(LevelWarn, sessionExpiredText))
}

func (m *AppModel) closeSession() {
	if m.account == nil {
		return
	}
	if err := m.sessions.CloseSession(m.account.ID); err != nil {
		logging.From(m.ctx).Debug("session already closed", slog.Any("error", err))
	}
	m.account = nil
}

func (m AppModel) State() ViewState {
	return m.state
}

func (m AppModel) Account() *models.Account {
	return m.account
}

func NavigateTo(state ViewState, data interface{}) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{State: state, Data: data}
	}
}
