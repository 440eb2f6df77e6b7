package logging

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Manager hands out named loggers backed by a console sink and a rotating file sink.
//
// Loggers are cached by name, so repeated calls with the same name share the same sink chain and underlying log
// file. All console sinks share a single [slog.LevelVar] (as do all file sinks), so [Manager.SetLevel] affects
// every logger the manager has handed out, for subsequent records only.
type Manager struct {
	// unexported variables
	config       Config                  // manager configuration
	consoleLevel *slog.LevelVar          // level shared by all console sinks
	fileLevel    *slog.LevelVar          // level shared by all file sinks
	loggers      map[string]*managerEntry // cached sink chains by logger name
	mu           sync.Mutex              // protects the logger cache
}

// managerEntry holds the cached sink chain for a single logger name.
type managerEntry struct {
	// unexported variables
	fanout *FanoutHandler // sink chain shared by all loggers with this name
	logger *slog.Logger   // logger handed out by Get
}

// NewManager creates a new [Manager] object with the given configuration.
func NewManager(config Config) *Manager {
	consoleLevel := &slog.LevelVar{}
	consoleLevel.Set(config.ConsoleLevel)
	fileLevel := &slog.LevelVar{}
	fileLevel.Set(config.FileLevel)
	return &Manager{
		config:       config,
		consoleLevel: consoleLevel,
		fileLevel:    fileLevel,
		loggers:      map[string]*managerEntry{},
	}
}

// Get returns the logger with the given name, creating it on first use.
//
// The logger writes to both the console and a rotating file named after the logger. If the file sink cannot be
// created (eg: the log directory is not writable), the failure is reported through [DefaultErrorHandler] and a
// console-only logger is returned instead, so the caller always gets a usable logger.
func (m *Manager) Get(name string) *slog.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(name).logger
}

// GetWithCorrelationID returns the logger with the given name with the given correlation ID bound to every
// record it emits.
//
// The returned logger shares the named logger's sink chain, so records still land in the same file and honor the
// same levels. A correlation ID bound to the record's context still takes precedence over the given ID.
func (m *Manager) GetWithCorrelationID(name string, id string) *slog.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slog.New(NewCorrelationHandler(m.get(name).fanout, id))
}

// SetLevel adjusts the minimum console level for every logger the manager has handed out.
//
// Only records emitted after the call are affected.
func (m *Manager) SetLevel(level slog.Level) {
	m.consoleLevel.Set(level)
}

// SetFileLevel adjusts the minimum file level for every logger the manager has handed out.
//
// Only records emitted after the call are affected.
func (m *Manager) SetFileLevel(level slog.Level) {
	m.fileLevel.Set(level)
}

// Close closes the file sinks of every logger the manager has handed out and empties the cache.
//
// Loggers obtained before the call must not be used afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, entry := range m.loggers {
		if err := entry.fanout.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	m.loggers = map[string]*managerEntry{}
	return errors.Join(errs...)
}

// get returns the cached entry for the name, creating it if necessary. The caller must hold the mutex.
func (m *Manager) get(name string) *managerEntry {
	if entry, ok := m.loggers[name]; ok {
		return entry
	}

	handlers := []slog.Handler{}
	console, err := NewConsoleHandler(ConsoleHandlerOptions{
		Format: m.config.Format,
		Level:  m.consoleLevel,
		Name:   name,
	})
	if err != nil {
		DefaultErrorHandler(context.Background(), err, nil)
	} else {
		handlers = append(handlers, console)
	}
	file, err := NewFileHandler(FileHandlerOptions{
		BackupCount: m.config.BackupCount,
		Dir:         m.config.Dir,
		Level:       m.fileLevel,
		MaxSize:     m.config.MaxFileSize,
		Name:        name,
	})
	if err != nil {
		DefaultErrorHandler(context.Background(), err, nil)
	} else {
		handlers = append(handlers, file)
	}

	fanout, _ := NewFanoutHandler(FanoutHandlerOptions{
		Handlers: handlers,
	})
	entry := &managerEntry{
		fanout: fanout,
		logger: slog.New(NewCorrelationHandler(fanout, "")),
	}
	m.loggers[name] = entry
	return entry
}

var (
	_defaultManager     *Manager
	_defaultManagerOnce sync.Once
)

// Default returns the process-wide default manager, configured from the environment on first use.
func Default() *Manager {
	_defaultManagerOnce.Do(func() {
		_defaultManager = NewManager(FromEnv())
	})
	return _defaultManager
}

// Get returns the named logger from the default manager.
func Get(name string) *slog.Logger {
	return Default().Get(name)
}

// GetWithCorrelationID returns the named logger from the default manager with the given correlation ID bound.
func GetWithCorrelationID(name string, id string) *slog.Logger {
	return Default().GetWithCorrelationID(name, id)
}

// SetLevel adjusts the minimum console level on the default manager.
func SetLevel(level slog.Level) {
	Default().SetLevel(level)
}

// Close closes the default manager's loggers.
func Close() error {
	return Default().Close()
}
