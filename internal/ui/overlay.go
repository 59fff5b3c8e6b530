package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"

	"ticketdash/internal/ui/textutil"
)

// placeCentered draws fg in the middle of bg, a width x height screen.
// Cells of bg outside fg's box are kept.
func placeCentered(bg, fg string, width, height int) string {
	if width <= 0 || height <= 0 {
		return bg
	}
	buf := cellbuf.NewBuffer(width, height)
	cellbuf.SetContent(buf, padLines(bg, width, height))

	w := min(lipgloss.Width(fg), width)
	h := min(lipgloss.Height(fg), height)
	if w <= 0 || h <= 0 {
		return renderBuffer(buf)
	}
	rect := cellbuf.Rect((width-w)/2, (height-h)/2, w, h)
	blank := strings.Repeat(strings.Repeat(" ", w)+"\n", h-1) + strings.Repeat(" ", w)
	cellbuf.SetContentRect(buf, blank, rect)
	cellbuf.SetContentRect(buf, fg, rect)
	return renderBuffer(buf)
}

func padLines(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = textutil.Fit(l, width)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func renderBuffer(buf *cellbuf.Buffer) string {
	height := buf.Bounds().Dy()
	lines := make([]string, height)
	for y := range height {
		_, lines[y] = cellbuf.RenderLine(buf, y)
	}
	return strings.Join(lines, "\n")
}
