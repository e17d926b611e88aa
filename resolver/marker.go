package resolver

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/oaserrors"
)

// Kind classifies why a reference could not be replaced by its target.
type Kind string

const (
	// KindCircular marks a ref that points back into its own expansion path.
	KindCircular Kind = "circular"
	// KindNotFound marks a ref whose pointer does not lead to a value.
	KindNotFound Kind = "notFound"
	// KindExternal marks a ref that does not start with "#/" and is not followed.
	KindExternal Kind = "external"
)

// Marker stands in for a $ref that could not be resolved.
//
// Markers are ordinary values inside resolved trees. Consumers detect them with
// [AsMarker] and render a placeholder; resolving a marker again returns it unchanged.
type Marker struct {
	Ref  string
	Kind Kind
}

// AsMarker reports whether v is a resolution marker.
func AsMarker(v any) (*Marker, bool) {
	m, ok := v.(*Marker)
	return m, ok && m != nil
}

// Err converts the marker into a *oaserrors.ReferenceError.
func (m *Marker) Err() error {
	return &oaserrors.ReferenceError{
		Ref:        m.Ref,
		IsCircular: m.Kind == KindCircular,
		IsExternal: m.Kind == KindExternal,
		IsNotFound: m.Kind == KindNotFound,
	}
}

func (m *Marker) String() string {
	return fmt.Sprintf("%s (%s)", m.Ref, m.Kind)
}

// Object returns the marker in its object form: {"$ref": ref, "<kind>": true}.
func (m *Marker) Object() *document.Object {
	o := document.NewObject()
	o.Set(document.RefKey, m.Ref)
	o.Set(string(m.Kind), true)
	return o.Freeze()
}

// Plain implements document.Plainer.
func (m *Marker) Plain() any {
	return map[string]any{document.RefKey: m.Ref, string(m.Kind): true}
}

// MarshalJSON writes the object form of the marker.
func (m *Marker) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Object())
}

// MarshalYAML writes the object form of the marker.
func (m *Marker) MarshalYAML() (any, error) {
	return m.Object(), nil
}

// Markers returns the distinct markers inside a resolved value, in the order
// a depth-first walk meets them.
func Markers(v any) []*Marker {
	var out []*Marker
	seen := make(map[Marker]bool)
	visited := make(map[any]bool)

	var visit func(any)
	visit = func(v any) {
		switch t := v.(type) {
		case *Marker:
			if t != nil && !seen[*t] {
				seen[*t] = true
				out = append(out, t)
			}
		case *document.Object:
			if t == nil || visited[t] {
				return
			}
			visited[t] = true
			for _, child := range t.All() {
				visit(child)
			}
		case *document.Array:
			if t == nil || visited[t] {
				return
			}
			visited[t] = true
			for _, child := range t.All() {
				visit(child)
			}
		}
	}
	visit(v)
	return out
}
