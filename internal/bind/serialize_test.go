package bind

import (
	"testing"

	"github.com/actorwire/actorwire/internal/actorinfo"
	"github.com/actorwire/actorwire/internal/wireerr"
	"github.com/stretchr/testify/require"
)

func TestResultNullTagAlwaysNull(t *testing.T) {
	out, err := Result(actorinfo.TagNull, "unexpected")
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestResultScalarMatch(t *testing.T) {
	out, err := Result(actorinfo.TagInt, int64(42))
	require.NoError(t, err)
	require.Equal(t, int64(42), out)
}

func TestResultScalarMismatch(t *testing.T) {
	_, err := Result(actorinfo.TagInt, "not an int")
	require.Error(t, err)
	require.Equal(t, wireerr.ActorError, err.(*wireerr.Error).Type)
}

func TestResultDTOSerialized(t *testing.T) {
	out, err := Result("pointDTO", pointDTO{X: 1, Y: 2})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"x": int64(1), "y": int64(2)}, out)
}

func TestResultDTOTagButScalarValueTolerated(t *testing.T) {
	out, err := Result("pointDTO", "a raw string")
	require.NoError(t, err)
	require.Equal(t, "a raw string", out)
}

type unrelatedType struct{ N int }

func TestResultViolation(t *testing.T) {
	_, err := Result("pointDTO", unrelatedType{N: 7})
	require.Error(t, err)
	require.Contains(t, err.Error(), "return-type violation")
}
