package compounddoc

import (
	"fmt"
	"strconv"
	"strings"
)

// Path builds JSON Pointer paths in a chain-safe way and creates Issues.
// The zero value addresses the document root.
type Path struct {
	parts []string
}

// Root returns the Path addressing the document root ("/").
func Root() Path { return Path{} }

// At parses a JSON Pointer string into a Path. An empty pointer or "/"
// addresses the root.
func At(pointer string) Path {
	if pointer == "" || pointer == "/" {
		return Path{}
	}
	// naive split on '/', ignoring first empty due to leading '/'
	parts := []string{}
	for _, p := range strings.Split(pointer, "/") {
		if p == "" {
			continue
		}
		parts = append(parts, p)
	}
	return Path{parts: parts}
}

// Field returns a child Path extended with the given member name.
func (p Path) Field(name string) Path {
	if name == "" {
		return p
	}
	return Path{parts: append(append([]string{}, p.parts...), escapeToken(name))}
}

// Index returns a child Path extended with an array index.
func (p Path) Index(i int) Path {
	return Path{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

// Pointer renders the Path as a JSON Pointer string.
func (p Path) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// Issue creates an Issue anchored at this Path. kv pairs become Params.
func (p Path) Issue(code, msg string, kv ...any) Issue {
	var m map[string]any
	if len(kv) > 1 {
		m = map[string]any{}
		for i := 0; i+1 < len(kv); i += 2 {
			m[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: m}
}

// escape '~' -> '~0', '/' -> '~1' per RFC6901
func escapeToken(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
}

func unescapeToken(tok string) string {
	return strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
}

// lookup walks a decoded JSON tree (maps, slices, scalars) along the Path,
// returning the addressed value. The second result is false when any segment
// does not resolve.
func (p Path) lookup(root any) (any, bool) {
	cur := root
	for _, tok := range p.parts {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[unescapeToken(tok)]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
