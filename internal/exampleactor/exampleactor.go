// Package exampleactor bundles two first-party actors used as the system's
// own integration fixtures and as a worked example of the Descriptor/DTO
// contract a third-party actor author must implement.
package exampleactor

import (
	"encoding/json"
	"fmt"

	"github.com/actorwire/actorwire/internal/actorinfo"
)

// Greeter is the "hello world" fixture.
type Greeter struct{}

// NewGreeter builds the greeter actor.
func NewGreeter() *Greeter { return &Greeter{} }

// ActorMethods implements actorinfo.Descriptor.
func (g *Greeter) ActorMethods() map[string]actorinfo.MethodSpec {
	return map[string]actorinfo.MethodSpec{
		"hi": {
			Doc:       "Returns hello world.",
			ResultTag: actorinfo.TagStr,
			Handler: func(args []any) (any, error) {
				return "hello world", nil
			},
		},
		"ping": {
			Doc:       `Returns "pong no?".`,
			ResultTag: actorinfo.TagStr,
			Handler: func(args []any) (any, error) {
				return "pong no?", nil
			},
		},
		"add_two_ints": {
			Doc: "Adds two ints.",
			Params: []actorinfo.ParamSpec{
				{Name: "x", Tag: actorinfo.TagInt},
				{Name: "y", Tag: actorinfo.TagInt},
			},
			ResultTag: actorinfo.TagInt,
			Handler: func(args []any) (any, error) {
				x := args[0].(int64)
				y := args[1].(int64)
				return x + y, nil
			},
		},
	}
}

// DTOTypes implements actorinfo.Descriptor; the greeter uses no DTO types.
func (g *Greeter) DTOTypes() map[string]actorinfo.DTOFactory { return nil }

// Item is the DTO round-trip fixture: a single mutable attribute,
// reconstructed via FromMapping and serialized via ToMapping.
type Item struct {
	Attr int64
}

// ToMapping implements actorinfo.DTO.
func (i Item) ToMapping() (map[string]any, error) {
	return map[string]any{"attr": i.Attr}, nil
}

// FromMapping implements actorinfo.FromMappingDTO. It must run on a pointer
// receiver so the binder can populate a fresh zero value in place. Numbers
// arrive as json.Number (the server decodes payloads with UseNumber), but int64 and
// float64 are accepted too so a Item built locally via ToMapping/FromMapping
// round-trips without going through JSON at all.
func (i *Item) FromMapping(m map[string]any) error {
	switch v := m["attr"].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return fmt.Errorf("attr %q is not a valid integer", v.String())
		}
		i.Attr = n
	case int64:
		i.Attr = v
	case float64:
		i.Attr = int64(v)
	case nil:
		i.Attr = 0
	}
	return nil
}

// Example exercises string handling and the Item DTO round-trip.
type Example struct{}

// NewExample builds the example actor.
func NewExample() *Example { return &Example{} }

// ActorMethods implements actorinfo.Descriptor.
func (e *Example) ActorMethods() map[string]actorinfo.MethodSpec {
	return map[string]actorinfo.MethodSpec{
		"concate_two_strings": {
			Doc: "Concatenates two strings.",
			Params: []actorinfo.ParamSpec{
				{Name: "x", Tag: actorinfo.TagStr},
				{Name: "y", Tag: actorinfo.TagStr},
			},
			ResultTag: actorinfo.TagStr,
			Handler: func(args []any) (any, error) {
				return args[0].(string) + args[1].(string), nil
			},
		},
		"modify": {
			Doc: "Sets attr on the given Item and returns it.",
			Params: []actorinfo.ParamSpec{
				{Name: "obj", Tag: "Item"},
				{Name: "n", Tag: actorinfo.TagInt},
			},
			ResultTag: "Item",
			Handler: func(args []any) (any, error) {
				item := args[0].(*Item)
				n := args[1].(int64)
				item.Attr = n
				return *item, nil
			},
		},
	}
}

// DTOTypes implements actorinfo.Descriptor.
func (e *Example) DTOTypes() map[string]actorinfo.DTOFactory {
	return map[string]actorinfo.DTOFactory{
		"Item": func() actorinfo.FromMappingDTO { return &Item{} },
	}
}
