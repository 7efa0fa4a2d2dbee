// Package sysactor implements the two built-in actors: core (always
// mounted) and system (mounted only when the server is configured to
// accept runtime registration). Both are plain Go structs implementing
// actorinfo.Descriptor so the introspector and dispatcher treat them
// exactly like a user actor's loaded module.
package sysactor

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/actorwire/actorwire/internal/actorinfo"
	"github.com/actorwire/actorwire/internal/actorload"
	"github.com/actorwire/actorwire/internal/registry"
	"github.com/actorwire/actorwire/internal/wireerr"
)

// identifierPattern: letters, digits, underscore, not starting with a
// digit.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Core exposes list_actors, info, and the actors_registered table.
type Core struct {
	reg *registry.Registry
}

// NewCore builds the core actor over reg.
func NewCore(reg *registry.Registry) *Core {
	return &Core{reg: reg}
}

// ActorMethods implements actorinfo.Descriptor.
func (c *Core) ActorMethods() map[string]actorinfo.MethodSpec {
	return map[string]actorinfo.MethodSpec{
		"list_actors": {
			Doc:       "List the names of every currently loaded actor.",
			ResultTag: actorinfo.TagList,
			Handler: func(args []any) (any, error) {
				names := c.reg.Names()
				out := make([]any, len(names))
				for i, n := range names {
					out[i] = n
				}
				return out, nil
			},
		},
		"info": {
			Doc:       "Return the ActorInfo descriptor for a loaded actor, as a mapping.",
			Params:    []actorinfo.ParamSpec{{Name: "name", Tag: actorinfo.TagStr}},
			ResultTag: actorinfo.TagDict,
			Handler: func(args []any) (any, error) {
				name, _ := args[0].(string)
				info, ok := c.reg.Get(name)
				if !ok {
					return nil, fmt.Errorf("actor %q is not loaded", name)
				}
				return info.ToMapping(), nil
			},
		},
		"actors_registered": {
			Doc:       "Return the declarative name -> path registration table.",
			ResultTag: actorinfo.TagDict,
			Handler: func(args []any) (any, error) {
				paths := c.reg.RegisteredPaths()
				out := make(map[string]any, len(paths))
				for name, path := range paths {
					out[name] = path
				}
				return out, nil
			},
		},
	}
}

// DTOTypes implements actorinfo.Descriptor; core uses no DTO types.
func (c *Core) DTOTypes() map[string]actorinfo.DTOFactory { return nil }

// System exposes register_actor/unregister_actor. Only mounted when the
// server config enables runtime registration.
type System struct {
	reg    *registry.Registry
	loader *actorload.Loader
}

// NewSystem builds the system actor over reg and loader.
func NewSystem(reg *registry.Registry, loader *actorload.Loader) *System {
	return &System{reg: reg, loader: loader}
}

// ActorMethods implements actorinfo.Descriptor.
func (s *System) ActorMethods() map[string]actorinfo.MethodSpec {
	return map[string]actorinfo.MethodSpec{
		"register_actor": {
			Doc: "Load an actor module from path and register it as name.",
			Params: []actorinfo.ParamSpec{
				{Name: "name", Tag: actorinfo.TagStr},
				{Name: "path", Tag: actorinfo.TagStr},
			},
			ResultTag: actorinfo.TagBool,
			Handler:   s.registerActor,
		},
		"unregister_actor": {
			Doc:       "Remove a previously registered actor. Idempotent.",
			Params:    []actorinfo.ParamSpec{{Name: "name", Tag: actorinfo.TagStr}},
			ResultTag: actorinfo.TagBool,
			Handler: func(args []any) (any, error) {
				name, _ := args[0].(string)
				// No existence check: unregistering an absent actor is
				// a silent no-op that still reports success.
				s.reg.Unregister(name)
				return true, nil
			},
		},
	}
}

// DTOTypes implements actorinfo.Descriptor; system uses no DTO types.
func (s *System) DTOTypes() map[string]actorinfo.DTOFactory { return nil }

func (s *System) registerActor(args []any) (any, error) {
	name, _ := args[0].(string)
	path, _ := args[1].(string)
	return Register(s.reg, s.loader, name, path)
}

// Register loads path via loader, validates the resulting actor, and
// installs it into reg as name. It is the same operation register_actor
// exposes over the wire, factored out so cmd/actorwired can restore
// declaratively-configured and persisted actors at startup without a
// loopback client connection.
func Register(reg *registry.Registry, loader *actorload.Loader, name, path string) (bool, error) {
	if name == registry.ReservedCore || name == registry.ReservedSystem {
		return false, wireerr.New(wireerr.BadRequest,
			fmt.Sprintf("actor name %q is reserved", name))
	}
	if !identifierPattern.MatchString(name) {
		return false, wireerr.New(wireerr.BadRequest,
			fmt.Sprintf("actor name %q is not a valid identifier", name))
	}

	module, err := loader.Load(path)
	if err != nil {
		return false, err
	}

	desc := module.New()
	info, report := actorinfo.Build(name, module.Path, module.ID, desc)
	if !report.OK() {
		return false, wireerr.New(wireerr.BadRequest, fmt.Sprintf(
			"actor %s is not valid, check the following errors: %v",
			name, report))
	}

	if err := reg.Register(name, info, module.Path); err != nil {
		return false, err
	}

	slog.Info("actor registered", "name", name, "path", path)
	return true, nil
}
