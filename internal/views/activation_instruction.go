package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"clipo/clipoterm/internal/models"
)

// ActivationInstructionModel is shown after registration. Without a mail
// transport the activation key is displayed directly.
type ActivationInstructionModel struct {
	account *models.Account
}

func NewActivationInstructionModel(account *models.Account) *ActivationInstructionModel {
	return &ActivationInstructionModel{account: account}
}

func (m ActivationInstructionModel) Init() tea.Cmd {
	return nil
}

func (m ActivationInstructionModel) Update(msg tea.Msg) (ActivationInstructionModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			key := ""
			if m.account != nil {
				key = m.account.ActivationKey
			}
			return m, NavigateTo(ViewActivate, key)
		case "esc":
			return m, NavigateTo(ViewLogin, nil)
		}
	}
	return m, nil
}

func (m ActivationInstructionModel) View() string {
	var content string
	content += titleStyle.Render("Activate Your Account") + "\n\n"

	if m.account == nil {
		content += warningStyle.Render("No pending registration.") + "\n"
		content += "\n" + helpStyle.Render("Press Esc to go back")
		return content
	}

	content += successStyle.Render("✓ Registration complete") + "\n\n"
	content += fmt.Sprintf("An activation link was issued for %s.\n", m.account.Email)
	content += "Your activation key:\n\n"
	content += keyStyle.Render(m.account.ActivationKey) + "\n\n"
	content += helpStyle.Render("Press Enter to activate now, Esc to return to sign in")
	return content
}
