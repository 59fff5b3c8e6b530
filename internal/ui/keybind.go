package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap is the dashboard's key bindings. It implements help.KeyMap for
// the footer.
type KeyMap struct {
	Quit         key.Binding
	Up           key.Binding
	Down         key.Binding
	DetailUp     key.Binding
	DetailDown   key.Binding
	Work         key.Binding
	Switch       key.Binding
	OpenTicket   key.Binding
	OpenPR       key.Binding
	CreatePR     key.Binding
	Review       key.Binding
	Editor       key.Binding
	Workspace    key.Binding
	Commit       key.Binding
	Fix          key.Binding
	Delete       key.Binding
	Refresh      key.Binding
	CopyBranch   key.Binding
	Help         key.Binding
	Cancel       key.Binding
	Confirm      key.Binding
	Deny         key.Binding
	Submit       key.Binding
	FillPR       key.Binding
	WebPR        key.Binding
	ModeShortcut key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		DetailUp:   key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("⇧↑", "scroll detail")),
		DetailDown: key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("⇧↓", "scroll detail")),
		Work:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "work")),
		Switch:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "switch")),
		OpenTicket: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open ticket")),
		OpenPR:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "open PR")),
		CreatePR:   key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "create PR")),
		Review:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "review")),
		Editor:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "editor")),
		Workspace:  key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "workspace")),
		Commit:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "commit")),
		Fix:        key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fix PR")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		CopyBranch: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy branch")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

		Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm:      key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "yes")),
		Deny:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		FillPR:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fill with agent")),
		WebPR:        key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "open in browser")),
		ModeShortcut: key.NewBinding(key.WithKeys("1", "2", "3")),
	}
}

// ShortHelp is the one-line footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Work, k.Switch, k.Commit, k.CreatePR, k.Refresh, k.Help, k.Quit}
}

// FullHelp is shown after "?".
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.DetailUp, k.DetailDown},
		{k.Work, k.Switch, k.Review, k.Fix},
		{k.OpenTicket, k.OpenPR, k.Editor, k.Workspace},
		{k.Commit, k.CreatePR, k.Delete, k.CopyBranch},
		{k.Refresh, k.Help, k.Quit},
	}
}

func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = Styles.Key
	h.Styles.FullKey = Styles.Key
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
	h.Styles.FullDesc = h.Styles.ShortDesc
	h.Styles.ShortSeparator = h.Styles.ShortDesc
	h.Styles.FullSeparator = h.Styles.ShortDesc
	return h
}
