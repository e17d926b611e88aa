package indexer

import (
	json "github.com/goccy/go-json"

	"github.com/erraggy/oasexplorer/document"
)

// OperationRef places one operation of one document in the tag tree.
type OperationRef struct {
	// Method is the upper-cased HTTP method.
	Method string
	// Path is the URL template, or the webhook name.
	Path string
	// Operation is the operation object as stored in the document, unresolved.
	Operation *document.Object
	// PathItem is the path item that holds the operation.
	PathItem *document.Object
	// Document is the document the operation comes from.
	Document *document.Document
	// Webhook is set for operations taken from the webhooks section.
	Webhook bool
}

// OperationID returns the operationId, or "" when the operation has none.
func (o OperationRef) OperationID() string {
	return o.Operation.StringOr("operationId", "")
}

// EffectiveID returns the operationId, falling back to "METHOD path".
func (o OperationRef) EffectiveID() string {
	if id := o.OperationID(); id != "" {
		return id
	}
	return o.Method + " " + o.Path
}

// Summary returns the operation summary.
func (o OperationRef) Summary() string {
	return o.Operation.StringOr("summary", "")
}

// Key returns the dedup key of the operation.
func (o OperationRef) Key() OperationKey {
	return OperationKey{Method: o.Method, Path: o.Path, ID: o.EffectiveID()}
}

// MarshalJSON writes a compact description of the operation without its body.
func (o OperationRef) MarshalJSON() ([]byte, error) {
	out := struct {
		Method      string `json:"method"`
		Path        string `json:"path"`
		OperationID string `json:"operationId,omitempty"`
		Summary     string `json:"summary,omitempty"`
		Deprecated  bool   `json:"deprecated,omitempty"`
		Webhook     bool   `json:"webhook,omitempty"`
	}{
		Method:      o.Method,
		Path:        o.Path,
		OperationID: o.OperationID(),
		Summary:     o.Summary(),
		Deprecated:  o.Operation.Value("deprecated") == true,
		Webhook:     o.Webhook,
	}
	return json.Marshal(out)
}

// OperationKey identifies an operation within one node: method, path and
// effective operation id.
type OperationKey struct {
	Method string
	Path   string
	ID     string
}

// TagNode is one level of the tag hierarchy.
//
// Operations are attached to the deepest node of their tag chain, never to an
// ancestor. Children keep insertion order.
type TagNode struct {
	Name       string
	FullPath   string
	Operations []OperationRef

	children []*TagNode
	byName   map[string]int
	seen     map[OperationKey]struct{}
}

// NewRoot returns an empty tree root.
func NewRoot() *TagNode {
	return &TagNode{Name: RootName}
}

// NewNode returns a detached node. FullPath is used as given.
func NewNode(name, fullPath string) *TagNode {
	return &TagNode{Name: name, FullPath: fullPath}
}

// IsRoot reports whether n is a tree root.
func (n *TagNode) IsRoot() bool {
	return n.FullPath == "" && n.Name == RootName
}

// Children returns the child nodes in insertion order.
func (n *TagNode) Children() []*TagNode {
	return n.children
}

// Child returns the child called name, or nil.
func (n *TagNode) Child(name string) *TagNode {
	if i, ok := n.byName[name]; ok {
		return n.children[i]
	}
	return nil
}

// AddChild appends child, replacing any existing child with the same name.
func (n *TagNode) AddChild(child *TagNode) {
	if n.byName == nil {
		n.byName = make(map[string]int)
	}
	if i, ok := n.byName[child.Name]; ok {
		n.children[i] = child
		return
	}
	n.byName[child.Name] = len(n.children)
	n.children = append(n.children, child)
}

// Ensure returns the child called name, creating it with a derived FullPath.
func (n *TagNode) Ensure(name string) *TagNode {
	if c := n.Child(name); c != nil {
		return c
	}
	fullPath := name
	if n.FullPath != "" {
		fullPath = n.FullPath + PathSeparator + name
	}
	c := NewNode(name, fullPath)
	n.AddChild(c)
	return c
}

// EnsurePath walks segments from n, creating missing nodes, and returns the last one.
func (n *TagNode) EnsurePath(segments []string) *TagNode {
	cur := n
	for _, s := range segments {
		cur = cur.Ensure(s)
	}
	return cur
}

// AddOperation attaches op unless an operation with the same key is already here.
// It reports whether op was added.
func (n *TagNode) AddOperation(op OperationRef) bool {
	key := op.Key()
	if n.seen == nil {
		n.seen = make(map[OperationKey]struct{}, len(n.Operations)+1)
		for _, existing := range n.Operations {
			n.seen[existing.Key()] = struct{}{}
		}
	}
	if _, dup := n.seen[key]; dup {
		return false
	}
	n.seen[key] = struct{}{}
	n.Operations = append(n.Operations, op)
	return true
}

// OperationCount returns the number of operations at n and below.
func (n *TagNode) OperationCount() int {
	total := len(n.Operations)
	for _, c := range n.children {
		total += c.OperationCount()
	}
	return total
}

// Clone returns a copy of n with the given operations and children. The copy
// shares nothing mutable with n.
func (n *TagNode) Clone(ops []OperationRef, children []*TagNode) *TagNode {
	c := NewNode(n.Name, n.FullPath)
	for _, op := range ops {
		c.AddOperation(op)
	}
	for _, child := range children {
		c.AddChild(child)
	}
	return c
}

// String returns the FullPath, or the name for roots.
func (n *TagNode) String() string {
	if n.FullPath == "" {
		return n.Name
	}
	return n.FullPath
}

// MarshalJSON writes the node with its children in order.
func (n *TagNode) MarshalJSON() ([]byte, error) {
	ops := n.Operations
	if ops == nil {
		ops = []OperationRef{}
	}
	children := n.children
	if children == nil {
		children = []*TagNode{}
	}
	return json.Marshal(struct {
		Name       string         `json:"name"`
		FullPath   string         `json:"fullPath"`
		Operations []OperationRef `json:"operations"`
		Children   []*TagNode     `json:"children"`
	}{n.Name, n.FullPath, ops, children})
}
