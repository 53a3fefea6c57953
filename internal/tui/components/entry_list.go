// Package components holds the render surfaces and widgets of the
// workspace TUI. The two entry surfaces (tabular list, card grid) are
// pure functions of the projected entry slice and shared cursor, so
// switching between them can never lose or duplicate state.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sharedeck/internal/api"
	"sharedeck/internal/tui/styles"
)

// FormatSize renders a byte count for humans.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func icon(e api.Entry) string {
	if e.IsDir {
		return "▸"
	}
	return " "
}

// window returns the half-open row range to draw so the cursor stays
// visible within height rows.
func window(total, cursor, height int) (int, int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > total {
		start = total - height
	}
	return start, start + height
}

// RenderList draws the tabular surface. selection is the relPath marked
// for command generation, highlighted with a marker column.
func RenderList(entries []api.Entry, cursor int, selection string, width, height int) string {
	if len(entries) == 0 {
		return styles.Status.Render("  (nothing to show)")
	}

	nameWidth := width - 34
	if nameWidth < 12 {
		nameWidth = 12
	}

	var b strings.Builder
	start, end := window(len(entries), cursor, height)
	for i := start; i < end; i++ {
		e := entries[i]
		name := e.Name
		if e.IsDir {
			name += "/"
		}
		if runeLen(name) > nameWidth {
			name = truncate(name, nameWidth)
		}

		size := "-"
		if !e.IsDir {
			size = FormatSize(e.Size)
		}
		mark := " "
		if e.RelPath == selection {
			mark = "*"
		}
		row := fmt.Sprintf("%s %s %-*s %10s  %s", mark, icon(e), nameWidth, name, size, e.ModTime.Format("2006-01-02 15:04"))

		switch {
		case i == cursor:
			b.WriteString(styles.Selected.Render("> " + row))
		case e.Hidden():
			b.WriteString("  " + styles.Hidden.Render(row))
		case e.IsDir:
			b.WriteString("  " + styles.Dir.Render(row))
		default:
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderGrid draws the card surface: same entries, same cursor, laid out
// as bordered cards.
func RenderGrid(entries []api.Entry, cursor int, selection string, width, height int) string {
	if len(entries) == 0 {
		return styles.Status.Render("  (nothing to show)")
	}

	const cardWidth = 22
	cols := width / (cardWidth + 2)
	if cols < 1 {
		cols = 1
	}
	rowsVisible := height / 4
	if rowsVisible < 1 {
		rowsVisible = 1
	}
	startRow, endRow := window((len(entries)+cols-1)/cols, cursor/cols, rowsVisible)

	var rows []string
	for r := startRow; r < endRow; r++ {
		var cards []string
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(entries) {
				break
			}
			cards = append(cards, renderCard(entries[i], i == cursor, entries[i].RelPath == selection, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(e api.Entry, focused, selected bool, width int) string {
	name := e.Name
	if runeLen(name) > width-2 {
		name = truncate(name, width-2)
	}
	kind := "file"
	detail := FormatSize(e.Size)
	if e.IsDir {
		kind = "dir"
		detail = ""
	}
	if selected {
		kind += " *"
	}
	if e.Hidden() {
		kind += " ·hidden"
	}
	body := lipgloss.NewStyle().Width(width).Render(name + "\n" + styles.Status.Render(kind+" "+detail))
	if focused {
		return styles.CardSelected.Render(body)
	}
	return styles.Card.Render(body)
}

func runeLen(s string) int { return len([]rune(s)) }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n <= 1 {
		return s
	}
	return string(r[:n-1]) + "…"
}
