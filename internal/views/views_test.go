package views

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"golang.org/x/crypto/bcrypt"

	"clipo/clipoterm/internal/account"
	"clipo/clipoterm/internal/models"
	"clipo/clipoterm/internal/security"
	"clipo/clipoterm/internal/storage"
	"clipo/clipoterm/internal/validationerrors"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyAdd   = tea.KeyMsg{Type: tea.KeyCtrlN}
	keyDrop  = tea.KeyMsg{Type: tea.KeyCtrlD}
)

func typeText(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func newTestDeps(t *testing.T) (*validationerrors.Module, *account.Service) {
	t.Helper()
	store, err := storage.NewStorage(t.TempDir())
	gt.NoError(t, err).Required()
	return validationerrors.NewModule(nil), account.NewService(store, account.WithHashCost(bcrypt.MinCost))
}

func shown(f *Field) string {
	return f.Container().Target().(*validationerrors.InputErrors).Message()
}

func TestLoginShowsLoginMessages(t *testing.T) {
	module, svc := newTestDeps(t)
	m, err := NewLoginModel(context.Background(), module, svc)
	gt.NoError(t, err).Required()
	m.Init()

	email, password := m.form.fields[0], m.form.fields[1]
	gt.Value(t, shown(email)).Equal("")

	t.Run("typing does not show errors before blur", func(t *testing.T) {
		*m, _ = m.Update(typeText("bad"))
		gt.Value(t, email.Control().Text()).Equal("bad")
		gt.Value(t, shown(email)).Equal("")
	})

	t.Run("blur shows the general email message", func(t *testing.T) {
		*m, _ = m.Update(keyTab)
		gt.Value(t, shown(email)).Equal("Must be a valid email address")
		gt.Bool(t, email.Invalid()).True()
		gt.Value(t, shown(password)).Equal("")
	})

	t.Run("submit shows the login required message", func(t *testing.T) {
		var cmd tea.Cmd
		*m, cmd = m.Update(keyEnter)
		gt.Value(t, cmd).Nil()
		gt.Value(t, shown(password)).Equal("Required to sign in")
	})
}

func TestLoginMapsServiceErrors(t *testing.T) {
	ctx := context.Background()
	module, svc := newTestDeps(t)

	acc, err := svc.Register(ctx, account.RegisterRequest{Email: "ada@example.com", Password: "secret1"})
	gt.NoError(t, err).Required()

	m, err := NewLoginModel(ctx, module, svc)
	gt.NoError(t, err).Required()
	m.Init()
	m.form.fields[0].SetValue("ada@example.com")
	m.form.fields[1].SetValue("secret1")

	gt.Bool(t, m.form.submit()).True()
	msg := m.login()()
	*m, _ = m.Update(msg)
	gt.Value(t, shown(m.form.fields[0])).Equal("This account has not been activated yet")

	_, err = svc.Activate(ctx, acc.ActivationKey)
	gt.NoError(t, err).Required()

	m.form.fields[1].SetValue("wrong12")
	*m, _ = m.Update(m.login()())
	gt.Value(t, shown(m.form.fields[1])).Equal("Incorrect email or password")

	// editing the field drops the server error
	*m, _ = m.Update(keyTab)
	*m, _ = m.Update(typeText("3"))
	gt.Value(t, shown(m.form.fields[1])).Equal("")

	m.form.fields[1].SetValue("secret1")
	result := m.login()()
	gt.NoError(t, result.(LoginResultMsg).Err).Required()
}

func TestRegisterUsesSignupContext(t *testing.T) {
	module, svc := newTestDeps(t)
	m, err := NewRegisterModel(context.Background(), module, svc)
	gt.NoError(t, err).Required()
	m.Init()

	*m, _ = m.Update(keyEnter)

	firstName := m.form.fields[0]
	email := m.form.fields[2]
	password := m.form.fields[3]

	// SIGNUP has no required template, so GENERAL applies, never LOGIN
	gt.Value(t, shown(firstName)).Equal("This field is required")

	email.SetValue("not-an-email")
	password.SetValue("abc")
	*m, _ = m.Update(nil)
	gt.Value(t, shown(email)).Equal("Enter the email address you will sign in with")
	gt.Value(t, shown(password)).Equal("Choose a password of at least 6 characters with a number")

	confirm := m.form.fields[4]
	confirm.SetValue("abc")
	password.SetValue("abc123")
	*m, _ = m.Update(nil)
	gt.Value(t, shown(confirm)).Equal("Must match password")
}

func TestRegisterRecoveryEmails(t *testing.T) {
	module, svc := newTestDeps(t)
	m, err := NewRegisterModel(context.Background(), module, svc)
	gt.NoError(t, err).Required()
	m.Init()

	arrayLine := func() string {
		return m.form.array.Container().Target().(*validationerrors.InputErrors).Message()
	}

	for i := 0; i < maxRecoveryEmails+1; i++ {
		*m, _ = m.Update(keyAdd)
		*m, _ = m.Update(typeText("backup@example.com"))
	}

	gt.Array(t, m.form.array.Items()).Length(maxRecoveryEmails + 1)
	gt.Value(t, arrayLine()).Equal("No more than 3 allowed")
	gt.Bool(t, m.form.array.Invalid()).True()

	*m, _ = m.Update(keyDrop)
	gt.Array(t, m.form.array.Items()).Length(maxRecoveryEmails)
	gt.Value(t, arrayLine()).Equal("backup@example.com is listed more than once")

	items := m.form.array.Items()
	items[1].SetValue("second@example.com")
	items[2].SetValue("third@example.com")
	*m, _ = m.Update(nil)
	gt.Value(t, arrayLine()).Equal("")
	gt.Bool(t, m.form.array.Invalid()).False()
}

func TestRegisterEmailTaken(t *testing.T) {
	module, svc := newTestDeps(t)
	m, err := NewRegisterModel(context.Background(), module, svc)
	gt.NoError(t, err).Required()
	m.Init()

	*m, _ = m.Update(RegisterResultMsg{Err: goerr.Wrap(account.ErrEmailTaken, "cannot register")})
	gt.Value(t, shown(m.form.fields[2])).Equal("An account with this email already exists")
}

func TestActivateMissingKey(t *testing.T) {
	module, svc := newTestDeps(t)
	m, err := NewActivateModel(context.Background(), module, svc, "")
	gt.NoError(t, err).Required()
	m.Init()

	var cmd tea.Cmd
	*m, cmd = m.Update(keyEnter)
	gt.Value(t, cmd).NotNil()
	gt.Value(t, cmd().(NotifyMsg).Level).Equal(LevelWarn)
	gt.Value(t, shown(m.form.fields[0])).Equal("This field is required")

	m.form.fields[0].SetValue("0123456789abcdef0123456789abcdef")
	*m, _ = m.Update(ActivateResultMsg{Err: goerr.Wrap(account.ErrInvalidActivationKey, "cannot activate")})
	gt.Value(t, shown(m.form.fields[0])).Equal("Activation key is invalid or already used")
}

func TestResetPasswordUnknownAccount(t *testing.T) {
	module, svc := newTestDeps(t)
	m, err := NewResetPasswordInitModel(context.Background(), module, svc)
	gt.NoError(t, err).Required()
	m.Init()

	m.form.fields[0].SetValue("ghost@example.com")
	gt.Bool(t, m.form.submit()).True()
	*m, _ = m.Update(m.requestReset()())
	gt.Value(t, shown(m.form.fields[0])).Equal("No account is registered with this email")
	gt.Value(t, m.requested).Nil()
}

func TestNotifications(t *testing.T) {
	gt.Value(t, LevelDefault.Duration()).Equal(2 * time.Second)
	gt.Value(t, LevelSuccess.Duration()).Equal(2 * time.Second)
	gt.Value(t, LevelWarn.Duration()).Equal(2500 * time.Millisecond)
	gt.Value(t, LevelError.Duration()).Equal(3 * time.Second)

	n := NewNotifications()
	n.Update(NotifyMsg{Level: LevelInfo, Text: "first"})
	n.Update(NotifyMsg{Level: LevelError, Text: "second"})

	current, ok := n.Current()
	gt.Bool(t, ok).True()
	gt.Value(t, current.Text).Equal("second")

	// the first message's timer must not clear its replacement
	n.Update(notificationExpiredMsg{id: 1})
	_, ok = n.Current()
	gt.Bool(t, ok).True()

	n.Update(notificationExpiredMsg{id: 2})
	_, ok = n.Current()
	gt.Bool(t, ok).False()
}

func newTestSessions(t *testing.T, now func() time.Time) *security.SessionManager {
	t.Helper()
	sessions := security.NewSessionManager(&security.SessionConfig{
		DefaultTimeout:  time.Minute,
		MaxSessions:     1,
		CleanupInterval: time.Hour,
	}, security.WithClock(now))
	t.Cleanup(sessions.Shutdown)
	return sessions
}

func TestAppNavigationDestroysContainers(t *testing.T) {
	module, svc := newTestDeps(t)
	app, err := NewAppModel(context.Background(), module, svc, newTestSessions(t, time.Now))
	gt.NoError(t, err).Required()

	login := app.login
	model, _ := app.Update(NavigateMsg{State: ViewRegister})
	next := model.(AppModel)

	gt.Value(t, next.State()).Equal(ViewRegister)
	gt.Value(t, next.register).NotNil()
	gt.Value(t, login.form.fields[0].Container().State()).Equal(validationerrors.StateDestroyed)
}

func TestAppSignsOutExpiredSession(t *testing.T) {
	module, svc := newTestDeps(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions := newTestSessions(t, func() time.Time { return now })

	app, err := NewAppModel(context.Background(), module, svc, sessions)
	gt.NoError(t, err).Required()

	acc := &models.Account{ID: "acc-1", Email: "ada@example.com", FirstName: "Ada", CreatedAt: now}
	model, _ := app.Update(NavigateMsg{State: ViewHome, Data: acc})
	home := model.(AppModel)
	gt.Value(t, home.State()).Equal(ViewHome)
	gt.Value(t, home.Account()).Equal(acc)

	model, cmd := home.Update(sessionCheckMsg{})
	gt.Value(t, model.(AppModel).State()).Equal(ViewHome)
	gt.Value(t, cmd).NotNil()

	now = now.Add(2 * time.Minute)
	model, _ = home.Update(sessionCheckMsg{})
	next := model.(AppModel)
	gt.Value(t, next.State()).Equal(ViewLogin)
	gt.Value(t, next.Account()).Nil()
	_, ok := sessions.GetSession(acc.ID)
	gt.Bool(t, ok).False()
}
