package styles

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// NewStyledTable creates a themed table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	// The table is printed once, nothing is selected.
	s.Selected = lipgloss.NewStyle()
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// AppTableColumns returns columns for the webxdc app listing.
func AppTableColumns() []table.Column {
	return []table.Column{
		{Title: "Account", Width: 8},
		{Title: "Address", Width: 28},
		{Title: "Message", Width: 8},
		{Title: "App", Width: 24},
		{Title: "Chat", Width: 20},
	}
}

// AppRow is one webxdc message of the listing.
type AppRow struct {
	AccountID uint32
	Address   string
	MessageID uint32
	Name      string
	Chat      string
}

// ToRow converts to table.Row.
func (r AppRow) ToRow() table.Row {
	return table.Row{
		strconv.FormatUint(uint64(r.AccountID), 10),
		r.Address,
		strconv.FormatUint(uint64(r.MessageID), 10),
		r.Name,
		r.Chat,
	}
}

// TableWidth sums column widths plus cell padding.
func TableWidth(columns []table.Column) int {
	w := 0
	for _, c := range columns {
		w += c.Width + 2
	}
	return w
}
