// Package workspace holds one explorer session: the loaded documents, their
// resolvers, the tag tree built from them and the privacy cache.
//
// Loading replaces all of it at once, so nothing computed for a previous set of
// documents survives into the next:
//
//	ws := workspace.New(workspace.WithLogger(logger))
//	ws.Load(indexer.Source{Document: doc})
//	tree := ws.Tree()
//	pet := ws.ResolveRef(doc, "#/components/schemas/Pet")
//
// A Workspace is safe for concurrent use.
package workspace

import (
	"sync"

	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/indexer"
	"github.com/erraggy/oasexplorer/query"
	"github.com/erraggy/oasexplorer/resolver"
	"github.com/erraggy/oasexplorer/security"
)

// Workspace is an explorer session over one or more documents.
type Workspace struct {
	mu           sync.Mutex
	logger       document.Logger
	resolverOpts []resolver.Option

	sources    []indexer.Source
	resolvers  map[*document.Document]*resolver.Resolver
	tree       *indexer.TagNode
	privacy    *security.Cache
	generation uint64
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger for the workspace and its resolvers.
func WithLogger(l document.Logger) Option {
	return func(w *Workspace) { w.logger = l }
}

// WithResolverOptions passes options to every resolver the workspace creates.
func WithResolverOptions(opts ...resolver.Option) Option {
	return func(w *Workspace) { w.resolverOpts = append(w.resolverOpts, opts...) }
}

// New returns an empty workspace.
func New(opts ...Option) *Workspace {
	w := &Workspace{
		resolvers: make(map[*document.Document]*resolver.Resolver),
		tree:      indexer.NewRoot(),
		privacy:   security.NewCache(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = document.LoggerOrNop(w.logger)
	return w
}

// Load replaces the workspace contents with sources. One source is indexed on
// its own; several are grafted under their display titles. Nil documents are
// skipped.
func (w *Workspace) Load(sources ...indexer.Source) {
	kept := make([]indexer.Source, 0, len(sources))
	for _, s := range sources {
		if s.Document != nil {
			kept = append(kept, s)
		}
	}

	var tree *indexer.TagNode
	switch len(kept) {
	case 0:
		tree = indexer.NewRoot()
	case 1:
		tree = indexer.Index(kept[0].Document)
	default:
		tree = indexer.IndexAll(kept)
	}

	resolvers := make(map[*document.Document]*resolver.Resolver, len(kept))
	for _, s := range kept {
		if _, ok := resolvers[s.Document]; ok {
			continue
		}
		opts := append([]resolver.Option{resolver.WithLogger(w.logger.With("document", s.DisplayTitle()))}, w.resolverOpts...)
		resolvers[s.Document] = resolver.New(s.Document, opts...)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.sources = kept
	w.resolvers = resolvers
	w.tree = tree
	w.privacy.Clear()
	w.generation++
	w.logger.Info("workspace loaded",
		"documents", len(kept),
		"operations", tree.OperationCount(),
		"generation", w.generation)
}

// Generation counts Load calls. Consumers holding derived data compare it to
// detect that the workspace changed underneath them.
func (w *Workspace) Generation() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.generation
}

// Tree returns the tag tree. The tree must not be modified.
func (w *Workspace) Tree() *indexer.TagNode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tree
}

// Sources returns the loaded sources in load order.
func (w *Workspace) Sources() []indexer.Source {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]indexer.Source(nil), w.sources...)
}

// Document returns the first loaded document, or nil.
func (w *Workspace) Document() *document.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.sources) == 0 {
		return nil
	}
	return w.sources[0].Document
}

// resolverFor picks the resolver for doc, falling back to the document v was
// decoded from and then to the only loaded document. w.mu must be held.
func (w *Workspace) resolverFor(doc *document.Document, v any) *resolver.Resolver {
	if doc == nil {
		if o, ok := v.(*document.Object); ok {
			doc = o.Document()
		}
	}
	if doc == nil && len(w.sources) == 1 {
		doc = w.sources[0].Document
	}
	return w.resolvers[doc]
}

// Resolve resolves v against doc. When doc is nil the document v was decoded
// from is used. Values from documents that are not loaded are returned unchanged.
func (w *Workspace) Resolve(doc *document.Document, v any) any {
	w.mu.Lock()
	defer w.mu.Unlock()
	r := w.resolverFor(doc, v)
	if r == nil {
		w.logger.Warn("resolve against a document that is not loaded")
		return v
	}
	return r.Resolve(v)
}

// ResolveRef resolves a pointer against doc, or against the only loaded
// document when doc is nil. It returns nil when no such document is loaded.
func (w *Workspace) ResolveRef(doc *document.Document, ref string) any {
	w.mu.Lock()
	defer w.mu.Unlock()
	r := w.resolverFor(doc, nil)
	if r == nil {
		w.logger.Warn("resolve against a document that is not loaded", "ref", ref)
		return nil
	}
	return r.ResolveRef(ref)
}

// ResolveOperation returns the fully resolved operation object of op.
func (w *Workspace) ResolveOperation(op indexer.OperationRef) any {
	return w.Resolve(op.Document, op.Operation)
}

// Search returns the tree pruned to operations matching q, the tree itself for
// a blank query, or nil when nothing matches.
func (w *Workspace) Search(q string) *indexer.TagNode {
	return query.Search(w.Tree(), q)
}

// SearchAll returns a flat list of matching operations across every document.
func (w *Workspace) SearchAll(q string) []query.Hit {
	return query.SearchAll(w.Sources(), q)
}

// Filter returns the tree pruned by method and security mode, using the
// workspace privacy cache.
func (w *Workspace) Filter(mode query.SecurityMode, methods query.MethodSet) *indexer.TagNode {
	return query.Filter(w.Tree(), mode, methods, query.CachedPrivacy(w.privacy))
}

// IsPrivate reports whether op requires authentication.
func (w *Workspace) IsPrivate(op indexer.OperationRef) bool {
	return w.privacy.IsPrivate(op.Document, op.Method, op.Path, op.Webhook)
}

// Security returns the effective security of op.
func (w *Workspace) Security(op indexer.OperationRef) security.Effective {
	return security.Resolve(op.Operation, op.PathItem, op.Document)
}

// FindOperation finds the operation with method and path in the tree.
func (w *Workspace) FindOperation(method, path string) (indexer.OperationRef, bool) {
	_, op, ok := query.FindOperation(w.Tree(), method, path)
	return op, ok
}

// Invalidate drops cached privacy for method and path.
func (w *Workspace) Invalidate(method, path string) {
	w.privacy.Invalidate(method, path)
}

// Stats describes the workspace contents and cache activity.
type Stats struct {
	Generation     uint64         `json:"generation"`
	Documents      int            `json:"documents"`
	Operations     int            `json:"operations"`
	Nodes          int            `json:"nodes"`
	Objects        int            `json:"objects"`
	SourceBytes    int            `json:"sourceBytes"`
	Resolver       resolver.Stats `json:"resolver"`
	PrivacyEntries int            `json:"privacyEntries"`
	PrivacyHits    int            `json:"privacyHits"`
	PrivacyMisses  int            `json:"privacyMisses"`
}

// Stats returns a snapshot of the workspace counters. Resolver counters are
// summed over all documents.
func (w *Workspace) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Stats{
		Generation: w.generation,
		Documents:  len(w.sources),
		Operations: w.tree.OperationCount(),
	}
	query.Walk(w.tree, func(*indexer.TagNode, int) bool {
		s.Nodes++
		return true
	})
	for doc, r := range w.resolvers {
		s.Objects += doc.NodeCount()
		s.SourceBytes += len(doc.Source())
		rs := r.Stats()
		s.Resolver.RefHits += rs.RefHits
		s.Resolver.RefMisses += rs.RefMisses
		s.Resolver.NodeHits += rs.NodeHits
		s.Resolver.NodeMisses += rs.NodeMisses
		s.Resolver.Circular += rs.Circular
		s.Resolver.NotFound += rs.NotFound
		s.Resolver.External += rs.External
		s.Resolver.CachedRefs += rs.CachedRefs
		s.Resolver.CachedNodes += rs.CachedNodes
	}
	s.PrivacyEntries = w.privacy.Len()
	s.PrivacyHits, s.PrivacyMisses = w.privacy.Counters()
	return s
}
