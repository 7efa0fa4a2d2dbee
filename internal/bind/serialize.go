package bind

import (
	"fmt"
	"log/slog"

	"github.com/actorwire/actorwire/internal/actorinfo"
	"github.com/actorwire/actorwire/internal/wireerr"
)

// Result serializes a method's return value against its declared result
// tag:
//   - a null-tagged result is always sent as JSON null, regardless of what
//     the method actually returned (a warning is logged if it returned
//     something),
//   - a value already matching a scalar tag is sent as-is,
//   - a value of the declared DTO type is serialized via ToMapping,
//   - a DTO-tagged result that's actually a matching scalar is tolerated
//     and logged,
//   - anything else is a return-type violation: ACTOR_ERROR, result null.
func Result(tag actorinfo.TypeTag, value any) (any, error) {
	if tag == actorinfo.TagNull {
		if value != nil {
			slog.Warn("method declared a null result but returned a value",
				"value", value)
		}
		return nil, nil
	}

	if tag.IsScalar() {
		if scalarMatchesGo(tag, value) {
			return value, nil
		}
		return nil, wireerr.New(wireerr.ActorError, fmt.Sprintf(
			"return-type violation: declared (%s), got (%T)", tag, value))
	}

	if dto, ok := value.(actorinfo.DTO); ok {
		mapping, err := dto.ToMapping()
		if err != nil {
			return nil, wireerr.New(wireerr.ActorError, fmt.Sprintf(
				"failed to serialize (%s) result: %v", tag, err))
		}
		return mapping, nil
	}

	if goScalarTag(value).IsScalar() {
		slog.Warn("method declared a DTO result but returned a scalar",
			"declared_tag", tag, "value", value)
		return value, nil
	}

	return nil, wireerr.New(wireerr.ActorError, fmt.Sprintf(
		"return-type violation: declared (%s), got (%T)", tag, value))
}

// scalarMatchesGo checks a result value already in native Go
// representation (int64/float64/string/bool/[]byte/[]any/map[string]any),
// as opposed to bind.scalarMatches which checks raw decoded JSON input.
func scalarMatchesGo(tag actorinfo.TypeTag, v any) bool {
	switch tag {
	case actorinfo.TagInt:
		switch v.(type) {
		case int, int64, int32:
			return true
		}
		return false
	case actorinfo.TagFloat:
		_, ok := v.(float64)
		return ok
	case actorinfo.TagStr:
		_, ok := v.(string)
		return ok
	case actorinfo.TagBool:
		_, ok := v.(bool)
		return ok
	case actorinfo.TagBytes:
		_, ok := v.([]byte)
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

func goScalarTag(v any) actorinfo.TypeTag {
	switch v.(type) {
	case nil:
		return actorinfo.TagNull
	case int, int64, int32:
		return actorinfo.TagInt
	case float64:
		return actorinfo.TagFloat
	case string:
		return actorinfo.TagStr
	case bool:
		return actorinfo.TagBool
	case []byte:
		return actorinfo.TagBytes
	case []any:
		return actorinfo.TagList
	case map[string]any:
		return actorinfo.TagDict
	default:
		return actorinfo.TypeTag(fmt.Sprintf("%T", v))
	}
}
