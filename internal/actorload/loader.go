// Package actorload implements actor loading: given a filesystem path,
// load it as a fresh module, register it under a stable id, and hand back
// the factory whose instances serve requests. On-disk modules are Go
// plugins loaded via the standard plugin package; a process-wide static
// registry covers actors compiled directly into the binary (the common
// case, and the only one that works without buildmode=plugin support,
// e.g. on Windows).
package actorload

import (
	"fmt"
	"plugin"
	"sync"

	"github.com/actorwire/actorwire/internal/actorinfo"
	"github.com/actorwire/actorwire/internal/wireerr"
	"github.com/google/uuid"
)

// moduleNamespace seeds the UUIDv5 derivation below, so the same path
// always yields the same ModuleID across process restarts.
var moduleNamespace = uuid.NewSHA1(uuid.Nil, []byte("actorwire/actorload"))

// Factory constructs a fresh actor descriptor. Builtins register one
// directly; a loaded plugin must export a symbol named "NewActor" with
// this exact type.
type Factory func() actorinfo.Descriptor

// Module is the process-wide record created the first time a path (or
// builtin name) is loaded.
type Module struct {
	// Path is the filesystem path for a plugin module, or the builtin
	// name prefixed with "builtin:" for a statically registered one.
	Path string

	// ID is a stable identifier shared by every actor loaded from this
	// module.
	ID string

	factory Factory
}

// Loader is the process-wide module table. The zero value is not usable;
// call NewLoader.
type Loader struct {
	mu       sync.Mutex
	modules  map[string]*Module
	builtins map[string]Factory
}

// NewLoader creates an empty Loader.
func NewLoader() *Loader {
	return &Loader{
		modules:  make(map[string]*Module),
		builtins: make(map[string]Factory),
	}
}

// RegisterBuiltin makes an in-process actor factory loadable under
// "builtin:<name>" without touching the plugin package. This is how
// actors compiled directly into the server binary (the common case) get
// the same load-once-per-path treatment as a true plugin.
func (l *Loader) RegisterBuiltin(name string, factory Factory) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.builtins[name] = factory
}

// Load loads path at most once per process lifetime. Subsequent calls with
// the same path return the cached Module. path may be a real plugin
// (".so") file or "builtin:<name>" for a statically registered actor.
func (l *Loader) Load(path string) (*Module, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if m, ok := l.modules[path]; ok {
		return m, nil
	}

	factory, err := l.resolveFactory(path)
	if err != nil {
		return nil, wireerr.New(wireerr.ActorError, fmt.Sprintf(
			"LOAD_ERROR: %v", err))
	}

	m := &Module{
		Path:    path,
		ID:      stableModuleID(path),
		factory: factory,
	}
	l.modules[path] = m
	return m, nil
}

// Reload forces path to be loaded again, discarding any cached Module.
func (l *Loader) Reload(path string) (*Module, error) {
	l.mu.Lock()
	delete(l.modules, path)
	l.mu.Unlock()
	return l.Load(path)
}

func (l *Loader) resolveFactory(path string) (Factory, error) {
	if name, ok := builtinName(path); ok {
		factory, ok := l.builtins[name]
		if !ok {
			return nil, fmt.Errorf("no builtin actor registered as %q", name)
		}
		return factory, nil
	}

	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening plugin %s: %w", path, err)
	}

	sym, err := p.Lookup("NewActor")
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", path, err)
	}

	factory, ok := sym.(func() actorinfo.Descriptor)
	if !ok {
		return nil, fmt.Errorf(
			"plugin %s: NewActor has the wrong signature", path)
	}

	return factory, nil
}

// New instantiates a fresh actor instance from an already-loaded module.
func (m *Module) New() actorinfo.Descriptor {
	return m.factory()
}

func builtinName(path string) (string, bool) {
	const prefix = "builtin:"
	if len(path) > len(prefix) && path[:len(prefix)] == prefix {
		return path[len(prefix):], true
	}
	return "", false
}

func stableModuleID(path string) string {
	return uuid.NewSHA1(moduleNamespace, []byte(path)).String()
}
