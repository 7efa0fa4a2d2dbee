// Package docs renders a loaded actor's method docstrings (MethodInfo.Doc)
// as Markdown via goldmark. Docstrings written with an "Arguments:" /
// "Returns:" convention render as a readable list without this package
// needing to parse the convention itself.
package docs

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/actorwire/actorwire/internal/actorinfo"
)

// RenderMethodHTML renders one method's docstring to HTML. Empty docs
// render to an empty string rather than an empty <p></p>, so callers can
// tell "no doc" apart from "doc that rendered to nothing."
func RenderMethodHTML(doc string) (string, error) {
	if strings.TrimSpace(doc) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(doc), &buf); err != nil {
		return "", fmt.Errorf("rendering docstring: %w", err)
	}
	return buf.String(), nil
}

// Select returns a copy of info narrowed to a single method, for the
// `doc <actor>.<method>` form. The second return is false if the actor
// has no such method.
func Select(info *actorinfo.ActorInfo, method string) (*actorinfo.ActorInfo, bool) {
	m, ok := info.Methods[method]
	if !ok {
		return nil, false
	}
	narrowed := *info
	narrowed.Methods = map[string]*actorinfo.MethodInfo{method: m}
	return &narrowed, true
}

// Page is a reference page covering every method of one loaded actor,
// suitable for terminal or plain-text display (cmd/actorwire's `doc`
// command) — a rendering of the same ActorInfo that core.info() sends over
// the wire.
func Page(info *actorinfo.ActorInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", info.Name)
	fmt.Fprintf(&b, "module: %s\n\n", info.ModulePath)

	names := make([]string, 0, len(info.Methods))
	for name := range info.Methods {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := info.Methods[name]
		fmt.Fprintf(&b, "## %s(%s) -> %s\n\n", name, paramList(m.Params), m.ResultTag)
		if m.Doc != "" {
			fmt.Fprintf(&b, "%s\n\n", m.Doc)
		}
	}

	return b.String()
}

// PageHTML is the HTML counterpart of Page: each method's docstring is
// rendered from Markdown via goldmark, so multi-line docs with emphasis,
// lists, and "Arguments:"/"Returns:" sections come out as real markup
// rather than raw text. cmd/actorwire's `doc --html` emits this page.
func PageHTML(info *actorinfo.ActorInfo) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "<h1>%s</h1>\n", info.Name)
	fmt.Fprintf(&b, "<p>module: <code>%s</code></p>\n", info.ModulePath)

	names := make([]string, 0, len(info.Methods))
	for name := range info.Methods {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := info.Methods[name]
		fmt.Fprintf(&b, "<h2><code>%s(%s) -&gt; %s</code></h2>\n",
			name, paramList(m.Params), m.ResultTag)

		html, err := RenderMethodHTML(m.Doc)
		if err != nil {
			return "", fmt.Errorf("rendering doc for %s: %w", name, err)
		}
		b.WriteString(html)
	}

	return b.String(), nil
}

func paramList(params []actorinfo.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Tag)
	}
	return strings.Join(parts, ", ")
}
