package log

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	PvmModule     = "pvm"       // interpreter and compiled backend
	MemoryModule  = "pvm_mem"   // paging, sbrk
	PoolModule    = "pvm_pool"  // instance manager and machine registry
	StoreModule   = "pvm_store" // program store
	CLIModule     = "pvm_cli"   // command line tool
	VectorsModule = "pvm_vec"   // conformance vectors
)

var root atomic.Value

func init() {
	root.Store(NewLogger(DiscardHandler()))
}

func ParseLevel(lvl string) (slog.Level, error) {
	switch strings.ToUpper(lvl) {
	case "MAX", "MAXVERBOSITY":
		return levelMaxVerbosity, nil
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("invalid level: %s", lvl)
	}
}

// InitLogger installs a stderr logger at logLevel, as JSON when asJSON is
// set. An unknown level leaves the current logger in place.
func InitLogger(logLevel string, asJSON bool) error {
	lvl, err := ParseLevel(logLevel)
	if err != nil {
		return err
	}
	if asJSON {
		SetDefault(NewLogger(JSONHandlerWithLevel(os.Stderr, lvl)))
	} else {
		SetDefault(NewLogger(NewTerminalHandlerWithLevel(os.Stderr, lvl, true)))
	}
	return nil
}

// SetDefault sets the default global logger
func SetDefault(l Logger) {
	root.Store(l)
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger
func Root() Logger {
	return root.Load().(Logger)
}

// --- Module management ---
// moduleEnabled keeps track of whether a module's Trace/Debug output is enabled.
var (
	moduleMu      sync.RWMutex
	moduleEnabled = map[string]bool{
		PvmModule:     false,
		MemoryModule:  false,
		PoolModule:    false,
		StoreModule:   false,
		CLIModule:     false,
		VectorsModule: false,
	}
)

// EnableModule enables logging for the specified module.
func EnableModule(module string) {
	moduleMu.Lock()
	moduleEnabled[module] = true
	moduleMu.Unlock()
}

// DisableModule disables logging for the specified module.
func DisableModule(module string) {
	moduleMu.Lock()
	moduleEnabled[module] = false
	moduleMu.Unlock()
}

// EnableModules enables a comma separated list of modules.
func EnableModules(modules string) {
	for _, m := range strings.Split(modules, ",") {
		if m = strings.TrimSpace(m); m != "" {
			EnableModule(m)
		}
	}
}

// IsModuleEnabled checks if logging is enabled for the given module.
func IsModuleEnabled(module string) bool {
	moduleMu.RLock()
	defer moduleMu.RUnlock()
	return moduleEnabled[module]
}

// Trace logs a message at the trace level for a specific module.
func Trace(module string, msg string, ctx ...any) {
	if !IsModuleEnabled(module) {
		return
	}
	Root().Write(LevelTrace, module, msg, ctx...)
}

// Debug logs a message at the debug level for a specific module.
func Debug(module string, msg string, ctx ...any) {
	if !IsModuleEnabled(module) {
		return
	}
	Root().Write(slog.LevelDebug, module, msg, ctx...)
}

// Info, Warn and Error are not filtered by module.
func Info(module string, msg string, ctx ...any) {
	Root().Write(slog.LevelInfo, module, msg, ctx...)
}

func Warn(module string, msg string, ctx ...any) {
	Root().Write(slog.LevelWarn, module, msg, ctx...)
}

func Error(module string, msg string, ctx ...any) {
	Root().Write(slog.LevelError, module, msg, ctx...)
}

// New returns the root logger with ctx attached to every record.
func New(ctx ...any) Logger {
	return Root().With(ctx...)
}
