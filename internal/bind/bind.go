// Package bind implements the argument binder and result serializer: it
// checks a decoded {args, kwargs} payload against a method's declared
// parameter list before invocation, and checks the return value against
// the declared result tag after.
package bind

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/actorwire/actorwire/internal/actorinfo"
	"github.com/actorwire/actorwire/internal/wireerr"
)

// Args binds a decoded {args, kwargs} request against a method's declared
// parameter list:
//  1. positional args bind in order to the first parameters; named args
//     bind by name,
//  2. excess args, missing required args, and duplicate bindings fail,
//  3. DTO-tagged parameters given a mapping are reconstructed via
//     FromMapping; everything else must already match its scalar tag.
//
// The returned slice is ordered to match params and is ready to pass to
// MethodInfo.Invoke.
func Args(params []actorinfo.Param, args []any, kwargs map[string]any,
	dtoTypes map[string]actorinfo.DTOFactory) ([]any, error) {

	if len(args) > len(params) {
		return nil, wireerr.New(wireerr.BadRequest, fmt.Sprintf(
			"too many positional arguments: got %d, expected at most %d",
			len(args), len(params)))
	}

	bound := make([]any, len(params))
	set := make([]bool, len(params))

	for i, v := range args {
		bound[i] = v
		set[i] = true
	}

	for name, v := range kwargs {
		idx := indexOf(params, name)
		if idx < 0 {
			return nil, wireerr.New(wireerr.BadRequest, fmt.Sprintf(
				"unknown parameter (%s)", name))
		}
		if set[idx] {
			return nil, wireerr.New(wireerr.BadRequest, fmt.Sprintf(
				"parameter (%s) bound more than once", name))
		}
		bound[idx] = v
		set[idx] = true
	}

	for i, p := range params {
		if !set[i] {
			return nil, wireerr.New(wireerr.BadRequest, fmt.Sprintf(
				"missing required parameter (%s)", p.Name))
		}
	}

	for i, p := range params {
		converted, err := bindOne(p, bound[i], dtoTypes)
		if err != nil {
			return nil, err
		}
		bound[i] = converted
	}

	return bound, nil
}

func indexOf(params []actorinfo.Param, name string) int {
	for i, p := range params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func bindOne(p actorinfo.Param, v any,
	dtoTypes map[string]actorinfo.DTOFactory) (any, error) {

	if !p.Tag.IsScalar() {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, wireerr.New(wireerr.BadRequest, fmt.Sprintf(
				"parameter (%s) supposed to be of type (%s), but found (%s)",
				p.Name, p.Tag, observedTag(v)))
		}

		factory, ok := dtoTypes[string(p.Tag)]
		if !ok {
			return nil, wireerr.New(wireerr.InternalServerError, fmt.Sprintf(
				"no dto factory registered for type (%s)", p.Tag))
		}

		dto := factory()
		if err := dto.FromMapping(m); err != nil {
			return nil, wireerr.New(wireerr.BadRequest, fmt.Sprintf(
				"parameter (%s) failed to reconstruct as (%s): %v",
				p.Name, p.Tag, err))
		}
		return dto, nil
	}

	if !scalarMatches(p.Tag, v) {
		return nil, wireerr.New(wireerr.BadRequest, fmt.Sprintf(
			"parameter (%s) supposed to be of type (%s), but found (%s)",
			p.Name, p.Tag, observedTag(v)))
	}

	return convertScalar(p.Tag, v)
}

// scalarMatches reports whether v, as decoded from the JSON envelope,
// satisfies tag. Numbers arrive as json.Number (the server decodes
// request payloads with UseNumber so int and float can be told apart).
func scalarMatches(tag actorinfo.TypeTag, v any) bool {
	switch tag {
	case actorinfo.TagInt:
		n, ok := v.(json.Number)
		return ok && !strings.ContainsAny(string(n), ".eE")
	case actorinfo.TagFloat:
		_, ok := v.(json.Number)
		return ok
	case actorinfo.TagStr, actorinfo.TagBytes:
		_, ok := v.(string)
		return ok
	case actorinfo.TagBool:
		_, ok := v.(bool)
		return ok
	case actorinfo.TagList, actorinfo.TagTuple:
		_, ok := v.([]any)
		return ok
	case actorinfo.TagDict:
		_, ok := v.(map[string]any)
		return ok
	case actorinfo.TagNull:
		return v == nil
	default:
		return false
	}
}

// convertScalar turns a matched raw value into its canonical Go
// representation: json.Number becomes int64 or float64, and a TagBytes
// string is base64-decoded (JSON has no native bytes type).
func convertScalar(tag actorinfo.TypeTag, v any) (any, error) {
	switch tag {
	case actorinfo.TagInt:
		n := v.(json.Number)
		i, err := n.Int64()
		if err != nil {
			return nil, wireerr.New(wireerr.BadRequest, fmt.Sprintf(
				"value %q is not a valid integer", n.String()))
		}
		return i, nil
	case actorinfo.TagFloat:
		n := v.(json.Number)
		f, err := n.Float64()
		if err != nil {
			return nil, wireerr.New(wireerr.BadRequest, fmt.Sprintf(
				"value %q is not a valid float", n.String()))
		}
		return f, nil
	case actorinfo.TagBytes:
		s := v.(string)
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, wireerr.New(wireerr.BadRequest,
				"bytes parameter is not valid base64")
		}
		return decoded, nil
	default:
		return v, nil
	}
}

// observedTag names the wire-level type of an already-decoded JSON value,
// for use in BAD_REQUEST messages.
func observedTag(v any) actorinfo.TypeTag {
	switch vv := v.(type) {
	case nil:
		return actorinfo.TagNull
	case bool:
		return actorinfo.TagBool
	case json.Number:
		if strings.ContainsAny(string(vv), ".eE") {
			return actorinfo.TagFloat
		}
		return actorinfo.TagInt
	case string:
		return actorinfo.TagStr
	case []any:
		return actorinfo.TagList
	case map[string]any:
		return actorinfo.TagDict
	default:
		return actorinfo.TypeTag(fmt.Sprintf("%T", v))
	}
}
