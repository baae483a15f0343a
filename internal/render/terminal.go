package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal draws views as styled text blocks.
type Terminal struct {
	badge      lipgloss.Style
	badgeFlash lipgloss.Style
	name       lipgloss.Style
	selected   lipgloss.Style
	price      lipgloss.Style
	controls   lipgloss.Style
	empty      lipgloss.Style
	total      lipgloss.Style
	panel      lipgloss.Style
}

func NewTerminal() *Terminal {
	return &Terminal{
		badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("166")).
			Bold(true).
			Padding(0, 1),
		badgeFlash: lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("220")).
			Bold(true).
			Padding(0, 2),
		name:     lipgloss.NewStyle().Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("166")),
		price:    lipgloss.NewStyle().Foreground(lipgloss.Color("108")),
		controls: lipgloss.NewStyle().Faint(true),
		empty:    lipgloss.NewStyle().Italic(true).Faint(true),
		total:    lipgloss.NewStyle().Bold(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("166")).
			Padding(0, 1),
	}
}

// Badge renders the cart button. A zero count shows no counter.
func (t *Terminal) Badge(v View, flashing bool) string {
	label := "Cart"
	if v.Badge.Visible {
		label = fmt.Sprintf("Cart %d", v.Badge.Count)
	}
	if flashing {
		return t.badgeFlash.Render(label)
	}
	return t.badge.Render(label)
}

// Cart renders the item list (or the empty placeholder) and the total.
// selected is the highlighted line, -1 for none.
func (t *Terminal) Cart(v View, selected int) string {
	var b strings.Builder

	if v.Empty {
		b.WriteString(t.empty.Render(v.Placeholder))
	} else {
		for i, ln := range v.Lines {
			name := t.name.Render(ln.Name)
			cursor := "  "
			if i == selected {
				name = t.selected.Render(ln.Name)
				cursor = "> "
			}
			fmt.Fprintf(&b, "%s%s  x%d  %s  %s\n",
				cursor, name, ln.Quantity,
				t.price.Render(ln.Price),
				t.controls.Render("[-] [+] [remove]"))
		}
	}

	b.WriteString("\n")
	b.WriteString(t.total.Render("Total: " + v.Currency + v.Total))

	return t.panel.Render(b.String())
}
