package styles

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModel is a yes/no confirmation dialog.
type ConfirmModel struct {
	Title       string
	Message     string
	OKLabel     string
	CancelLabel string
	Yes         bool // Current selection
	Confirmed   bool // User pressed enter
	Canceled    bool // User pressed escape
	theme       *Theme
}

// ConfirmKeyMap defines keybindings for the confirm dialog.
type ConfirmKeyMap struct {
	Yes     key.Binding
	No      key.Binding
	Left    key.Binding
	Right   key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeyMap returns the default keybindings.
func DefaultConfirmKeyMap() ConfirmKeyMap {
	return ConfirmKeyMap{
		Yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		No:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "no")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "yes")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// NewConfirm creates a confirmation dialog defaulting to "no".
func NewConfirm(theme *Theme, message string) ConfirmModel {
	return ConfirmModel{
		Message:     message,
		OKLabel:     "Yes",
		CancelLabel: "No",
		theme:       theme,
	}
}

// Update handles a key press.
func (m ConfirmModel) Update(msg tea.Msg) (ConfirmModel, tea.Cmd) {
	keys := DefaultConfirmKeyMap()

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Yes):
			m.Yes = true
			m.Confirmed = true
		case key.Matches(msg, keys.No):
			m.Yes = false
			m.Confirmed = true
		case key.Matches(msg, keys.Left):
			m.Yes = false
		case key.Matches(msg, keys.Right):
			m.Yes = true
		case key.Matches(msg, keys.Confirm):
			m.Confirmed = true
		case key.Matches(msg, keys.Cancel):
			m.Canceled = true
		}
	}

	return m, nil
}

// View renders the dialog box.
func (m ConfirmModel) View() string {
	t := m.theme

	yesStyle := t.InactiveButton
	noStyle := t.InactiveButton
	if m.Yes {
		yesStyle = t.ActiveButton
	} else {
		noStyle = t.ActiveButton
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		noStyle.Render(" "+m.CancelLabel+" "),
		"  ",
		yesStyle.Render(" "+m.OKLabel+" "),
	)

	parts := make([]string, 0, 6)
	if m.Title != "" {
		parts = append(parts, t.Highlight.Render(m.Title), "")
	}
	parts = append(parts,
		t.Title.Render(m.Message),
		"",
		buttons,
		"",
		t.Subtle.Render("y/n or ←/→ to select • enter to confirm • esc to cancel"),
	)

	return t.Box.Render(lipgloss.JoinVertical(lipgloss.Center, parts...))
}

// Done returns true if the dialog is complete.
func (m ConfirmModel) Done() bool {
	return m.Confirmed || m.Canceled
}

// Result returns true if user confirmed "Yes".
func (m ConfirmModel) Result() bool {
	return m.Confirmed && m.Yes
}
