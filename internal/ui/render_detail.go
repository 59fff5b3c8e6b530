package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"ticketdash/internal/pr"
	"ticketdash/internal/ui/textutil"
)

const (
	maxStatusLines = 10
	// creationTail is how many init-script lines the detail pane shows.
	creationTail = 12
)

// markdownCache keeps the last rendered description; glamour is too slow
// to run on every frame.
type markdownCache struct {
	width    int
	renderer *glamour.TermRenderer
	key      string
	out      string
}

func (c *markdownCache) render(key, md string, width int) string {
	if strings.TrimSpace(md) == "" || width <= 0 {
		return ""
	}
	if c.renderer == nil || c.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			slog.Debug("markdown renderer unavailable", "err", err)
			return wrapText(md, width)
		}
		c.renderer, c.width, c.key = r, width, ""
	}
	if c.key == key {
		return c.out
	}
	out, err := c.renderer.Render(md)
	if err != nil {
		slog.Debug("render description failed", "err", err)
		return wrapText(md, width)
	}
	c.key, c.out = key, strings.Trim(out, "\n")
	return c.out
}

// wrapText word-wraps s, hard-wrapping words longer than width.
func wrapText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return wrap.String(wordwrap.String(s, width), width)
}

// renderDetail renders the visible window of the detail pane and records
// how far it can scroll.
func (m *Model) renderDetail(width, height int) []string {
	lines := m.detailLines(width)
	start := min(m.state.DetailScroll, max(0, len(lines)-height))
	end := min(len(lines), start+height)

	out := make([]string, 0, height)
	for _, l := range lines[start:end] {
		out = append(out, textutil.Fit(l, width))
	}
	for len(out) < height {
		out = append(out, strings.Repeat(" ", width))
	}
	return out
}

// detailMaxScroll is the largest useful detail offset for the current
// selection and terminal size.
func (m *Model) detailMaxScroll() int {
	return max(0, len(m.detailLines(m.detailWidth()))-m.bodyHeight())
}

func (m *Model) detailLines(width int) []string {
	is, ok := m.state.SelectedIssue()
	if !ok {
		return []string{Styles.Muted.Render("No assigned tickets.")}
	}
	// One column of left padding.
	inner := max(1, width-1)
	var lines []string
	add := func(style func(...string) string, s string) {
		for _, l := range strings.Split(wrapText(s, inner), "\n") {
			lines = append(lines, " "+style(l))
		}
	}
	blank := func() { lines = append(lines, "") }
	plain := func(strs ...string) string { return strings.Join(strs, " ") }

	t := is.Ticket
	add(Styles.Title.Render, t.ID+"  "+t.Title)
	if is.Orphaned() {
		add(Styles.Muted.Render, "Worktree with no assigned ticket.")
	} else {
		meta := []string{t.State.Name}
		if t.PriorityLabel != "" {
			meta = append(meta, "Priority: "+t.PriorityLabel)
		}
		if t.ProjectName != "" {
			meta = append(meta, "Project: "+t.ProjectName)
		}
		add(Styles.Muted.Render, strings.Join(meta, " · "))
		if len(t.Labels) > 0 {
			add(Styles.Muted.Render, "Labels: "+strings.Join(t.Labels, ", "))
		}
		if t.URL != "" {
			add(Styles.Muted.Render, t.URL)
		}
	}

	if m.state.CreatingFor == is.ID() {
		blank()
		add(Styles.Header.Render, m.spin.View()+" Creating worktree")
		log := m.state.CreationLog
		if len(log) > creationTail {
			log = log[len(log)-creationTail:]
		}
		for _, l := range log {
			style := Styles.Muted.Render
			if strings.HasPrefix(l, "warning:") {
				style = Styles.Warning.Render
			}
			add(style, l)
		}
	}
	if m.state.DeletingFor == is.ID() {
		blank()
		add(Styles.Warning.Render, m.spin.View()+" Deleting worktree")
	}

	blank()
	add(Styles.Header.Render, "Worktree")
	if wt := is.Worktree; wt == nil {
		add(Styles.Muted.Render, "none, press w to start work")
	} else {
		add(plain, wt.Path)
		branch := wt.Branch
		if wt.BaseBranch != "" {
			branch += fmt.Sprintf(" (base %s, %d ahead)", wt.BaseBranch, wt.Ahead)
		}
		add(plain, branch)
		switch {
		case wt.SessionLive:
			add(Styles.Success.Render, "Agent session running")
		case wt.SessionID != "":
			add(Styles.Muted.Render, "Agent session "+wt.SessionID+" (not running)")
		}
		if wt.Dirty {
			add(Styles.Warning.Render, "Uncommitted changes:")
			status := strings.Split(strings.TrimRight(wt.Status, "\n"), "\n")
			if len(status) > maxStatusLines {
				more := len(status) - maxStatusLines
				status = append(status[:maxStatusLines], fmt.Sprintf("… %d more", more))
			}
			for _, l := range status {
				add(Styles.Muted.Render, "  "+l)
			}
		} else {
			add(Styles.Muted.Render, "Clean")
		}
	}

	if p := is.PR; p != nil {
		blank()
		add(Styles.Header.Render, fmt.Sprintf("Pull request #%d %s", p.Number, prStateLabel(p)))
		add(plain, p.Title)
		add(Styles.Muted.Render, p.URL)
		for _, c := range is.Checks {
			add(checkStyle(c.Bucket), checkGlyph([]pr.Check{c})+" "+c.Name)
		}
		for _, r := range is.Reviews {
			add(reviewStyle(r.State), r.Author+": "+strings.ToLower(strings.ReplaceAll(r.State, "_", " ")))
			if body := strings.TrimSpace(r.Body); body != "" {
				add(Styles.Muted.Render, "  "+body)
			}
		}
	}

	if md := m.md.render(t.ID+"\x00"+t.Description, t.Description, inner); md != "" {
		blank()
		for _, l := range strings.Split(md, "\n") {
			lines = append(lines, " "+l)
		}
	}
	return lines
}

func prStateLabel(p *pr.PullRequest) string {
	if p.Draft && p.State == pr.StateOpen {
		return "[draft]"
	}
	return "[" + strings.ToLower(p.State) + "]"
}

func checkStyle(bucket string) func(...string) string {
	switch bucket {
	case pr.BucketFail, pr.BucketCancel:
		return Styles.Error.Render
	case pr.BucketPending:
		return Styles.Warning.Render
	case pr.BucketPass:
		return Styles.Success.Render
	}
	return Styles.Muted.Render
}

func reviewStyle(state string) func(...string) string {
	switch state {
	case "APPROVED":
		return Styles.Success.Render
	case "CHANGES_REQUESTED":
		return Styles.Error.Render
	}
	return Styles.Text.Render
}
