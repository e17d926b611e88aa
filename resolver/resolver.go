package resolver

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"

	"github.com/erraggy/oasexplorer/document"
)

// noLow means no circular hit has been seen in the current frame.
const noLow = math.MaxInt

// Stats counts resolver activity since creation.
type Stats struct {
	RefHits     int `json:"refHits"`
	RefMisses   int `json:"refMisses"`
	NodeHits    int `json:"nodeHits"`
	NodeMisses  int `json:"nodeMisses"`
	Circular    int `json:"circular"`
	NotFound    int `json:"notFound"`
	External    int `json:"external"`
	CachedRefs  int `json:"cachedRefs"`
	CachedNodes int `json:"cachedNodes"`
}

// Resolver replaces $ref pointers in values drawn from one document.
//
// A Resolver owns its caches; they are valid only for the document it was
// created with. It is not safe for concurrent use.
type Resolver struct {
	doc     *document.Document
	logger  document.Logger
	noCache bool

	// stack maps each ref being expanded to its position on the expansion path.
	stack map[string]int
	depth int
	// low is the smallest stack position hit by a circular ref in the current frame.
	low int

	refs  map[string]any
	nodes map[document.NodeID]any
	stats Stats
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to report unresolvable refs.
func WithLogger(l document.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithoutCache disables memoization. Every call then expands refs from scratch,
// which can be exponential on documents that share fragments heavily.
func WithoutCache() Option {
	return func(r *Resolver) { r.noCache = true }
}

// New creates a resolver bound to doc.
func New(doc *document.Document, opts ...Option) *Resolver {
	r := &Resolver{
		doc:   doc,
		stack: make(map[string]int),
		low:   noLow,
		refs:  make(map[string]any),
		nodes: make(map[document.NodeID]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = document.LoggerOrNop(r.logger)
	return r
}

// Document returns the document refs are resolved against.
func (r *Resolver) Document() *document.Document { return r.doc }

// Stats returns a snapshot of the resolver counters.
func (r *Resolver) Stats() Stats {
	s := r.stats
	s.CachedRefs = len(r.refs)
	s.CachedNodes = len(r.nodes)
	return s
}

// Reset discards every cached resolution.
func (r *Resolver) Reset() {
	clear(r.refs)
	clear(r.nodes)
	r.logger.Debug("resolver caches cleared")
}

// Resolve returns v with every $ref replaced by its resolved target.
//
// Scalars and markers are returned unchanged, as are objects and arrays with no
// $ref anywhere below them. Unresolvable refs become *Marker values; Resolve
// never fails.
func (r *Resolver) Resolve(v any) any {
	r.low = noLow
	return r.resolve(v)
}

// ResolveRef resolves a single pointer such as "#/components/schemas/Pet".
func (r *Resolver) ResolveRef(ref string) any {
	r.low = noLow
	return r.resolveRef(ref)
}

func (r *Resolver) resolve(v any) any {
	switch t := v.(type) {
	case *document.Object:
		return r.resolveObject(t)
	case *document.Array:
		return r.resolveArray(t)
	}
	return v
}

func (r *Resolver) resolveObject(o *document.Object) any {
	if o == nil || !o.HasRef() {
		return o
	}
	raw, isRef := o.Get(document.RefKey)
	if ref, ok := raw.(string); isRef && ok {
		return r.resolveRef(ref)
	}

	cacheable := !r.noCache && o.ID() != 0 && o.Document() == r.doc
	if cacheable {
		if v, ok := r.nodes[o.ID()]; ok {
			r.stats.NodeHits++
			return v
		}
		r.stats.NodeMisses++
	}

	outer := r.low
	r.low = noLow
	out := o.Derive()
	for k, v := range o.All() {
		if k == document.RefKey {
			// a non-string $ref is not a pointer; drop it
			continue
		}
		out.Set(k, r.resolve(v))
	}
	out.Freeze()

	if cacheable && r.low >= r.depth {
		r.nodes[o.ID()] = out
	}
	r.low = min(outer, r.low)
	return out
}

func (r *Resolver) resolveArray(a *document.Array) any {
	if a == nil || !a.HasRef() {
		return a
	}
	out := document.NewArray(a.Len())
	for _, v := range a.All() {
		out.Append(r.resolve(v))
	}
	return out.Freeze()
}

func (r *Resolver) resolveRef(ref string) any {
	if !r.noCache {
		if v, ok := r.refs[ref]; ok {
			r.stats.RefHits++
			return v
		}
		r.stats.RefMisses++
	}

	if pos, ok := r.stack[ref]; ok {
		r.stats.Circular++
		r.low = min(r.low, pos)
		return &Marker{Ref: ref, Kind: KindCircular}
	}

	target, marker := r.lookup(ref)
	if marker != nil {
		if marker.Kind == KindExternal {
			r.stats.External++
		} else {
			r.stats.NotFound++
		}
		r.logger.Debug("unresolvable reference", "ref", ref, "kind", string(marker.Kind))
		if !r.noCache {
			r.refs[ref] = marker
		}
		return marker
	}

	pos := r.depth
	r.stack[ref] = pos
	r.depth++
	outer := r.low
	r.low = noLow

	out := r.resolve(target)

	r.depth--
	delete(r.stack, ref)
	if !r.noCache && r.low >= pos {
		r.refs[ref] = out
	}
	r.low = min(outer, r.low)
	return out
}

// lookup walks a local JSON pointer from the document root.
func (r *Resolver) lookup(ref string) (any, *Marker) {
	segments := strings.Split(ref, "/")
	if segments[0] != "#" {
		return nil, &Marker{Ref: ref, Kind: KindExternal}
	}
	notFound := &Marker{Ref: ref, Kind: KindNotFound}
	if r.doc == nil {
		return nil, notFound
	}

	var cur any = r.doc.Root()
	for _, seg := range segments[1:] {
		tok := decodeToken(seg)
		switch c := cur.(type) {
		case *document.Object:
			v, ok := c.Get(tok)
			if !ok {
				return nil, notFound
			}
			cur = v
		case *document.Array:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= c.Len() {
				return nil, notFound
			}
			cur = c.Index(i)
		default:
			return nil, notFound
		}
	}
	if cur == nil {
		return nil, notFound
	}
	return cur, nil
}

// decodeToken undoes URI fragment percent-encoding and then RFC 6901 escaping.
func decodeToken(seg string) string {
	if strings.Contains(seg, "%") {
		if u, err := url.PathUnescape(seg); err == nil {
			seg = u
		}
	}
	return jsonpointer.Unescape(seg)
}

// HasRef reports whether v is an object carrying a string $ref.
func HasRef(v any) bool {
	o, ok := v.(*document.Object)
	if !ok {
		return false
	}
	_, ok = o.String(document.RefKey)
	return ok
}

// RefName returns the last pointer segment of ref, unescaped.
// "#/components/schemas/Pet" yields "Pet".
func RefName(ref string) string {
	i := strings.LastIndex(ref, "/")
	if i < 0 {
		return strings.TrimPrefix(ref, "#")
	}
	return decodeToken(ref[i+1:])
}
