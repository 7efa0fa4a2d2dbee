package docs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/actorwire/actorwire/internal/actorinfo"
)

func TestRenderMethodHTMLEmpty(t *testing.T) {
	html, err := RenderMethodHTML("   ")
	require.NoError(t, err)
	require.Empty(t, html)
}

func TestRenderMethodHTMLRenders(t *testing.T) {
	html, err := RenderMethodHTML("Returns **hello world**.")
	require.NoError(t, err)
	require.Contains(t, html, "<strong>hello world</strong>")
}

func TestPageListsMethodsSorted(t *testing.T) {
	info := &actorinfo.ActorInfo{
		Name:       "greeter",
		ModulePath: "builtin:greeter",
		Methods: map[string]*actorinfo.MethodInfo{
			"ping": {Doc: "Returns pong.", ResultTag: actorinfo.TagStr},
			"hi":   {Doc: "Returns hello world.", ResultTag: actorinfo.TagStr},
			"add_two_ints": {
				Doc: "Adds two ints.",
				Params: []actorinfo.Param{
					{Name: "x", Tag: actorinfo.TagInt},
					{Name: "y", Tag: actorinfo.TagInt},
				},
				ResultTag: actorinfo.TagInt,
			},
		},
	}

	page := Page(info)
	require.Contains(t, page, "# greeter")
	require.Contains(t, page, "module: builtin:greeter")

	hiIdx := indexOf(page, "## hi")
	pingIdx := indexOf(page, "## ping")
	addIdx := indexOf(page, "## add_two_ints")
	require.True(t, addIdx < hiIdx && hiIdx < pingIdx, "methods should be sorted alphabetically")

	require.Contains(t, page, "## add_two_ints(x: int, y: int) -> int")
}

func TestSelectNarrowsToOneMethod(t *testing.T) {
	info := &actorinfo.ActorInfo{
		Name: "greeter",
		Methods: map[string]*actorinfo.MethodInfo{
			"hi":   {Doc: "Returns hello world.", ResultTag: actorinfo.TagStr},
			"ping": {Doc: "Returns pong.", ResultTag: actorinfo.TagStr},
		},
	}

	narrowed, ok := Select(info, "hi")
	require.True(t, ok)
	require.Len(t, narrowed.Methods, 1)
	require.Contains(t, narrowed.Methods, "hi")

	// The original is untouched.
	require.Len(t, info.Methods, 2)

	_, ok = Select(info, "nope")
	require.False(t, ok)
}

func TestPageHTMLRendersDocstringMarkdown(t *testing.T) {
	info := &actorinfo.ActorInfo{
		Name:       "greeter",
		ModulePath: "builtin:greeter",
		Methods: map[string]*actorinfo.MethodInfo{
			"hi": {
				Doc:       "Returns **hello world**.",
				ResultTag: actorinfo.TagStr,
			},
		},
	}

	page, err := PageHTML(info)
	require.NoError(t, err)
	require.Contains(t, page, "<h1>greeter</h1>")
	require.Contains(t, page, "hi() -&gt; str")
	require.Contains(t, page, "<strong>hello world</strong>")
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
