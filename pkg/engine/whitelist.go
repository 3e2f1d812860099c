package engine

import (
	"sort"
	"strings"
	"sync"
)

// baselineProcesses are common system and application process names exempted
// from resource-usage anomaly flags out of the box.
var baselineProcesses = []string{
	"explorer.exe", "dwm.exe", "winlogon.exe", "csrss.exe",
	"lsass.exe", "services.exe", "svchost.exe", "chrome.exe",
	"firefox.exe", "notepad.exe", "calculator.exe", "taskmgr.exe",
	"code.exe", "spotify.exe", "slack.exe", "discord.exe",
	"python.exe", "pythonw.exe", "conhost.exe", "cmd.exe",
}

// Whitelist is a mutable, case-insensitive set of process names exempted
// from CPU/memory anomaly flags.
type Whitelist struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// NewWhitelist returns a whitelist seeded with the baseline process names.
func NewWhitelist() *Whitelist {
	w := &Whitelist{names: make(map[string]struct{}, len(baselineProcesses))}
	for _, name := range baselineProcesses {
		w.names[name] = struct{}{}
	}
	return w
}

// Add exempts a process name.
func (w *Whitelist) Add(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.names[strings.ToLower(name)] = struct{}{}
}

// Remove drops a process name from the whitelist. It reports whether the
// name was present.
func (w *Whitelist) Remove(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := w.names[key]; !ok {
		return false
	}
	delete(w.names, key)
	return true
}

// Contains reports whether the process name is whitelisted.
func (w *Whitelist) Contains(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.names[strings.ToLower(name)]
	return ok
}

// Names returns the whitelisted names in sorted order.
func (w *Whitelist) Names() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]string, 0, len(w.names))
	for name := range w.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
