package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keybindings for the TUI.
type keyMap struct {
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	Enter      key.Binding
	Back       key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Scope      key.Binding
	Install    key.Binding
	SyncLatest key.Binding
	Tree       key.Binding
	Delete     key.Binding
	Sync       key.Binding
	Copy       key.Binding
	New        key.Binding
	Edit       key.Binding
	Save       key.Binding
	Refresh    key.Binding
	Settings   key.Binding
	Filter     key.Binding
	Swap       key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("k/up", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/down", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next tab"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev tab"),
	),
	Scope: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "agent"),
	),
	Install: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "install"),
	),
	SyncLatest: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "sync latest"),
	),
	Tree: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "tree"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	Sync: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "sync agents"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Settings: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "settings"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Swap: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "swap"),
	),
}

// ---------------------------------------------------------------------------
// Per-view help keymaps for the help.Model component.
// Each implements help.KeyMap (ShortHelp + FullHelp).
// ---------------------------------------------------------------------------

// skillsHelpKeyMap is shown on the skills tab.
type skillsHelpKeyMap struct {
	canSync bool
}

func (k skillsHelpKeyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{
		keys.Enter, keys.Tree, keys.Install, keys.SyncLatest,
		keys.Delete, keys.Copy, keys.Scope,
	}
	if k.canSync {
		bindings = append(bindings, keys.Sync)
	}
	return append(bindings, keys.Tab, keys.Quit)
}

func (k skillsHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// mcpHelpKeyMap is shown on the MCP tab.
type mcpHelpKeyMap struct {
	canSync bool
}

func (k mcpHelpKeyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{
		keys.New, keys.Edit, keys.Delete, keys.Copy, keys.Scope,
	}
	if k.canSync {
		bindings = append(bindings, keys.Sync)
	}
	return append(bindings, keys.Tab, keys.Quit)
}

func (k mcpHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// pickerHelpKeyMap is shown in the agent scope picker.
type pickerHelpKeyMap struct{}

func (k pickerHelpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		keys.Up, keys.Down, keys.Enter, keys.Filter, keys.Back,
	}
}

func (k pickerHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// viewportHelpKeyMap is shown in the preview and tree views.
type viewportHelpKeyMap struct{}

func (k viewportHelpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		keys.Up, keys.Down, keys.Back,
	}
}

func (k viewportHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// inputHelpKeyMap is shown by single-line input dialogs.
type inputHelpKeyMap struct{}

func (k inputHelpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Enter, keys.Back}
}

func (k inputHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// credentialHelpKeyMap is shown in the credential prompt.
type credentialHelpKeyMap struct {
	retrying bool
}

func (k credentialHelpKeyMap) ShortHelp() []key.Binding {
	if k.retrying {
		return []key.Binding{}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "retry")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k credentialHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// syncHelpKeyMap is shown in the bulk sync dialog.
type syncHelpKeyMap struct {
	running bool
}

func (k syncHelpKeyMap) ShortHelp() []key.Binding {
	if k.running {
		return []key.Binding{}
	}
	return []key.Binding{
		keys.Up, keys.Down,
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "source/target")),
		keys.Swap,
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sync")),
		keys.Back,
	}
}

func (k syncHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// editorHelpKeyMap is shown in the MCP JSON editor.
type editorHelpKeyMap struct{}

func (k editorHelpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Save, keys.Back}
}

func (k editorHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// settingsHelpKeyMap is shown in the settings view.
type settingsHelpKeyMap struct {
	editing bool
}

func (k settingsHelpKeyMap) ShortHelp() []key.Binding {
	if k.editing {
		return []key.Binding{keys.Enter, keys.Back}
	}
	return []key.Binding{
		keys.Up, keys.Down,
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		keys.Back,
	}
}

func (k settingsHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
