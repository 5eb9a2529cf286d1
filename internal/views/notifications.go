package views

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"clipo/clipoterm/internal/logging"
	"clipo/clipoterm/internal/utils"
)

type NotificationLevel int

const (
	LevelDefault NotificationLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarn
	LevelError
)

// unexpectedErrorText is shown for failures the forms cannot attribute to a field
const unexpectedErrorText = "Something bad happened; please try again later."

func (l NotificationLevel) Duration() time.Duration {
	switch l {
	case LevelWarn:
		return 2500 * time.Millisecond
	case LevelError:
		return 3 * time.Second
	default:
		return 2 * time.Second
	}
}

func (l NotificationLevel) colour() string {
	switch l {
	case LevelInfo:
		return utils.Colours.Sky
	case LevelSuccess:
		return utils.Colours.Green
	case LevelWarn:
		return utils.Colours.Yellow
	case LevelError:
		return utils.Colours.Red
	default:
		return utils.Colours.Text
	}
}

type NotifyMsg struct {
	Level NotificationLevel
	Text  string
}

type notificationExpiredMsg struct {
	id int
}

func Notify(level NotificationLevel, text string) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{Level: level, Text: text}
	}
}

// NotifyUnexpected logs err and shows the generic error notification
func NotifyUnexpected(ctx context.Context, err error) tea.Cmd {
	logging.From(ctx).Error("unexpected error", slog.Any("error", err))
	return Notify(LevelError, unexpectedErrorText)
}

// Notifications shows one message at a time. A new message replaces the
// current one and each disappears after its level's duration.
type Notifications struct {
	current *NotifyMsg
	id      int
}

func NewNotifications() *Notifications {
	return &Notifications{}
}

func (n *Notifications) Push(level NotificationLevel, text string) tea.Cmd {
	n.id++
	id := n.id
	n.current = &NotifyMsg{Level: level, Text: text}

	return tea.Tick(level.Duration(), func(time.Time) tea.Msg {
		return notificationExpiredMsg{id: id}
	})
}

func (n *Notifications) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotifyMsg:
		return n.Push(msg.Level, msg.Text)
	case notificationExpiredMsg:
		if msg.id == n.id {
			n.current = nil
		}
	}
	return nil
}

func (n *Notifications) Current() (NotifyMsg, bool) {
	if n.current == nil {
		return NotifyMsg{}, false
	}
	return *n.current, true
}

func (n *Notifications) View() string {
	if n.current == nil {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(n.current.Level.colour())).
		Background(lipgloss.Color(utils.Colours.Surface0)).
		Padding(0, 1)

	return style.Render(utils.TruncateString(n.current.Text, 80))
}
