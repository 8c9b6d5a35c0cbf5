package logger

import (
	"sync"
)

var (
	namedMu sync.RWMutex
	named   map[string]*Logger
)

// Register stores a named logger so later Get calls share it.
func Register(name string, l *Logger) {
	namedMu.Lock()
	defer namedMu.Unlock()
	if named == nil {
		named = make(map[string]*Logger)
	}
	named[name] = l
}

// Get retrieves a named logger. Unregistered names fall back to the global
// logger tagged with the requested component name, so call sites never need
// to care whether a dedicated logger was configured.
func Get(name string) *Logger {
	namedMu.RLock()
	l, ok := named[name]
	namedMu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}
