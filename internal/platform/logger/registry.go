package logger

import (
	"log/slog"
	"sort"
	"sync"
)

// RootLoggerName is the name of the logger installed as slog.Default by Setup.
const RootLoggerName = "root"

// Registry owns the shared sinks and hands out one logger per name. Every
// logger it returns writes through the same sink set, so a record is written
// exactly once to each sink no matter how often a name is requested.
type Registry struct {
	mu      sync.Mutex
	sinks   *sinkSet
	base    *ECSHandler
	loggers map[string]*slog.Logger
}

// NewRegistry creates a registry writing to sinks at the given minimum level.
func NewRegistry(level slog.Leveler, sinks ...Sink) *Registry {
	set := &sinkSet{sinks: sinks}
	return &Registry{
		sinks:   set,
		base:    NewECSHandler(set, RootLoggerName, level),
		loggers: make(map[string]*slog.Logger),
	}
}

// Get returns the logger registered under name, creating it on first use.
func (r *Registry) Get(name string) *slog.Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[name]; ok {
		return l
	}

	l := slog.New(r.base.named(name))
	r.loggers[name] = l
	return l
}

// Names returns the registered logger names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shutdown closes every sink and forgets all registered loggers. It is safe
// to call when no logger was ever requested and safe to call more than once;
// loggers obtained earlier silently drop their output afterwards.
func (r *Registry) Shutdown() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.loggers)
	return r.sinks.close()
}
