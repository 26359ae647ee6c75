package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	// Navigation
	Up       Key
	Down     Key
	PageUp   Key
	PageDown Key
	Home     Key
	End      Key
	Tab      Key

	// Actions
	Select Key
	Back   Key
	Quit   Key

	// Function keys for module navigation
	F1  Key
	F2  Key
	F3  Key
	F4  Key
	F5  Key
	F10 Key
}

// Key represents a key binding.
type Key struct {
	Keys    []string
	Help    string
	Enabled bool
}

func bind(help string, keys ...string) Key {
	return Key{Keys: keys, Help: help, Enabled: true}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       bind("вверх", "up", "k"),
		Down:     bind("вниз", "down", "j"),
		PageUp:   bind("пред. страница", "pgup", "ctrl+u"),
		PageDown: bind("след. страница", "pgdown", "ctrl+d"),
		Home:     bind("в начало", "home", "g"),
		End:      bind("в конец", "end", "G"),
		Tab:      bind("переключить панель", "tab"),

		Select: bind("выбрать", "enter"),
		Back:   bind("назад", "esc"),
		Quit:   bind("выход", "q", "ctrl+c"),

		F1:  bind("Справка", "f1", "?"),
		F2:  bind("Сводка", "f2"),
		F3:  bind("Склад", "f3"),
		F4:  bind("Производство", "f4"),
		F5:  bind("Журнал", "f5"),
		F10: bind("Выход", "f10"),
	}
}

// Matches checks if a key message matches this key binding.
func (k Key) Matches(msg tea.KeyMsg) bool {
	if !k.Enabled {
		return false
	}

	keyStr := msg.String()
	for _, key := range k.Keys {
		if keyStr == key {
			return true
		}
	}
	return false
}

// MatchesAny checks if a key message matches any of the provided key bindings.
func MatchesAny(msg tea.KeyMsg, keys ...Key) bool {
	for _, k := range keys {
		if k.Matches(msg) {
			return true
		}
	}
	return false
}

// IsQuit checks if the key message is a quit command.
func (km KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return km.Quit.Matches(msg) || km.F10.Matches(msg)
}

// IsFunctionKey checks if the key message switches modules.
func (km KeyMap) IsFunctionKey(msg tea.KeyMsg) bool {
	return MatchesAny(msg, km.F1, km.F2, km.F3, km.F4, km.F5, km.F10)
}

// GetFunctionKeyModule returns the module a function key opens.
func (km KeyMap) GetFunctionKeyModule(msg tea.KeyMsg) Module {
	switch {
	case km.F1.Matches(msg):
		return ModuleHelp
	case km.F2.Matches(msg):
		return ModuleDashboard
	case km.F3.Matches(msg):
		return ModuleInventory
	case km.F4.Matches(msg):
		return ModuleProduction
	case km.F5.Matches(msg):
		return ModuleJournal
	case km.F10.Matches(msg):
		return moduleQuit
	default:
		return ""
	}
}

// StatusBarHelp returns the help text for the status bar.
func (km KeyMap) StatusBarHelp() string {
	keys := []Key{km.F1, km.F2, km.F3, km.F4, km.F5, km.F10}
	labels := []string{"F1", "F2", "F3", "F4", "F5", "F10"}

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		out += "[" + labels[i] + "]" + k.Help
	}
	return out
}
