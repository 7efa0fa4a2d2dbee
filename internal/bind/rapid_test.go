package bind

import (
	"encoding/json"
	"testing"

	"github.com/actorwire/actorwire/internal/actorinfo"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestDTORoundTripProperty checks that, for any int pair, binding a
// pointDTO-shaped mapping and then serializing the bound value back
// reproduces the original pair. This exercises the same FromMapping/
// ToMapping path a real argument → invoke → result cycle would.
func TestDTORoundTripProperty(t *testing.T) {
	dtoTypes := map[string]actorinfo.DTOFactory{
		"pointDTO": func() actorinfo.FromMappingDTO { return &pointDTO{} },
	}
	params := []actorinfo.Param{{Name: "p", Tag: "pointDTO"}}

	rapid.Check(t, func(rt *rapid.T) {
		x := rapid.Int64Range(-1_000_000, 1_000_000).Draw(rt, "x")
		y := rapid.Int64Range(-1_000_000, 1_000_000).Draw(rt, "y")

		raw := map[string]any{
			"x": json.Number(jsonInt(x)),
			"y": json.Number(jsonInt(y)),
		}

		bound, err := Args(params, []any{raw}, nil, dtoTypes)
		require.NoError(rt, err)

		got := bound[0].(*pointDTO)
		require.Equal(rt, x, got.X)
		require.Equal(rt, y, got.Y)

		serialized, err := Result("pointDTO", *got)
		require.NoError(rt, err)
		require.Equal(rt, map[string]any{"x": x, "y": y}, serialized)
	})
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
