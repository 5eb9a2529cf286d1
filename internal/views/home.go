package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"clipo/clipoterm/internal/models"
	"clipo/clipoterm/internal/utils"
)

// HomeModel is the signed in landing screen
type HomeModel struct {
	account *models.Account
}

func NewHomeModel(account *models.Account) *HomeModel {
	return &HomeModel{account: account}
}

func (m HomeModel) Init() tea.Cmd {
	return nil
}

func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "l":
			return m, tea.Batch(
				Notify(LevelDefault, "Signed out"),
				NavigateTo(ViewLogin, nil),
			)
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m HomeModel) View() string {
	var content string
	content += titleStyle.Render("Welcome") + "\n\n"

	if m.account == nil {
		return content + helpStyle.Render("Not signed in")
	}

	content += fieldLabelStyle.Render(m.account.DisplayName()) + "\n"
	content += m.account.Email + "\n\n"
	content += fmt.Sprintf("Joined %s\n", utils.FormatTimeAgo(m.account.CreatedAt))
	if len(m.account.RecoveryEmails) > 0 {
		content += fmt.Sprintf("Recovery emails: %d\n", len(m.account.RecoveryEmails))
	}

	content += "\n" + helpStyle.Render("Press l to sign out, q to quit")
	return content
}
