package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jh2023at0610/telefondomino/internal/domino"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	playableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	turnStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

func faceText(first, second int) string {
	return fmt.Sprintf("[%d|%d]", first, second)
}

// halves returns the half touching the neighbour and the exposed half.
func halves(p domino.PlacedTile) (touch, exposed int) {
	if p.Flipped {
		return p.Tile.A, p.Tile.B
	}
	return p.Tile.B, p.Tile.A
}

// placedText formats a placed tile so that it reads left to right (or top
// to bottom) in the direction it was laid.
func placedText(p domino.PlacedTile) string {
	if p.Seq == 1 {
		return faceText(p.Tile.A, p.Tile.B)
	}
	touch, exposed := halves(p)
	switch p.Side {
	case domino.SideLeft, domino.SideUp:
		return faceText(exposed, touch)
	default:
		return faceText(touch, exposed)
	}
}

func rowText(tiles []domino.PlacedTile) string {
	var b strings.Builder
	for _, p := range tiles {
		b.WriteString(placedText(p))
	}
	return b.String()
}

// boardLines lays out the board as plain text. A cross layout puts the
// vertical arms in a column over and under the anchor.
func boardLines(board domino.Board) []string {
	switch board.Mode() {
	case domino.ModeLinear:
		return []string{rowText(board.Linear.Chain)}

	case domino.ModeCross:
		c := board.Cross
		left := make([]domino.PlacedTile, 0, len(c.Left.Tiles))
		for i := len(c.Left.Tiles) - 1; i >= 0; i-- {
			left = append(left, c.Left.Tiles[i])
		}
		leftText := rowText(left)
		pad := strings.Repeat(" ", len(leftText))

		var lines []string
		for i := len(c.Up.Tiles) - 1; i >= 0; i-- {
			lines = append(lines, pad+placedText(c.Up.Tiles[i]))
		}
		lines = append(lines, leftText+placedText(c.Anchor)+rowText(c.Right.Tiles))
		for _, p := range c.Down.Tiles {
			lines = append(lines, pad+placedText(p))
		}
		return lines
	}
	return nil
}

func renderBoard(board domino.Board) string {
	lines := boardLines(board)
	if len(lines) == 0 {
		return dimStyle.Render("(empty table, waiting for the opening tile)")
	}
	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = boardStyle.Render(l)
	}
	return strings.Join(rendered, "\n")
}

// endsText lists the open ends with their values. Ends that do not count
// towards the score yet are marked.
func endsText(ends []domino.OpenEnd) string {
	if len(ends) == 0 {
		return "no open ends"
	}
	parts := make([]string, len(ends))
	for i, e := range ends {
		v := fmt.Sprintf("%s %d", e.Side, e.End.Value)
		if e.End.Double {
			v += "x2"
		}
		if !e.Scored {
			v += "*"
		}
		parts[i] = v
	}
	return strings.Join(parts, "  ")
}

func renderHand(hand domino.Hand, cursor int, legal []domino.Move) string {
	if len(hand) == 0 {
		return dimStyle.Render("(no tiles)")
	}
	parts := make([]string, len(hand))
	for i, t := range hand {
		style := dimStyle
		if len(sidesFor(legal, t)) > 0 {
			style = playableStyle
		}
		if i == cursor {
			style = selectedStyle
		}
		parts[i] = style.Render(t.String())
	}
	return strings.Join(parts, " ")
}

// sidesFor returns the sides tile may be played on.
func sidesFor(legal []domino.Move, tile domino.Tile) []domino.Side {
	var sides []domino.Side
	for _, m := range legal {
		if m.Tile.Equal(tile) {
			sides = append(sides, m.Side)
		}
	}
	return sides
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
