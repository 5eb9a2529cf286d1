package validationerrors

import (
	"github.com/charmbracelet/lipgloss"

	"clipo/clipoterm/internal/utils"
)

// RenderTarget displays the message chosen by a container. Each target is
// owned by exactly one container.
type RenderTarget interface {
	Show(message string)
	Clear()
}

// Viewer is implemented by targets that draw themselves in a bubbletea view
type Viewer interface {
	View() string
}

// InputErrors is the default render target: a single red line under the
// input that collapses when there is nothing to show.
type InputErrors struct {
	message string
	visible bool
	style   lipgloss.Style
}

func NewInputErrors() *InputErrors {
	return &InputErrors{
		style: lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Red)),
	}
}

func (e *InputErrors) Show(message string) {
	e.message = message
	e.visible = true
}

func (e *InputErrors) Clear() {
	e.message = ""
	e.visible = false
}

func (e *InputErrors) Message() string {
	return e.message
}

func (e *InputErrors) Visible() bool {
	return e.visible
}

func (e *InputErrors) View() string {
	if !e.visible {
		return ""
	}
	return e.style.Render("✗ " + e.message)
}
