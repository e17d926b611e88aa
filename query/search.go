package query

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/erraggy/oasexplorer/document"
	"github.com/erraggy/oasexplorer/indexer"
)

// matcher tests operations against one case-folded query. A cases.Caser is not
// safe for concurrent use, so each search builds its own matcher.
type matcher struct {
	fold  cases.Caser
	query string
}

func newMatcher(query string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.query = m.fold.String(strings.TrimSpace(query))
	return m
}

func (m *matcher) contains(s string) bool {
	return s != "" && strings.Contains(m.fold.String(s), m.query)
}

func (m *matcher) containsField(o *document.Object, key string) bool {
	s, ok := o.String(key)
	return ok && m.contains(s)
}

func (m *matcher) match(op indexer.OperationRef) bool {
	if m.contains(op.Method) || m.contains(op.Path) {
		return true
	}
	o := op.Operation
	for _, key := range []string{"summary", "description", "operationId"} {
		if m.containsField(o, key) {
			return true
		}
	}
	for _, tag := range o.Array("tags").Strings() {
		if m.contains(tag) {
			return true
		}
	}
	for _, p := range o.Array("parameters").All() {
		param, ok := p.(*document.Object)
		if !ok {
			continue
		}
		if m.containsField(param, "name") || m.containsField(param, "description") {
			return true
		}
	}
	if m.containsField(o.Object("requestBody"), "description") {
		return true
	}
	for code, r := range o.Object("responses").All() {
		if m.contains(code) {
			return true
		}
		if resp, ok := r.(*document.Object); ok && m.containsField(resp, "description") {
			return true
		}
	}
	return false
}

// MatchOperation reports whether query occurs, ignoring case, in the operation's
// method, path, summary, description, operationId, tags, parameter names and
// descriptions, request body description, or response codes and descriptions.
//
// Referenced parameters and responses are not followed. A blank query matches
// every operation.
func MatchOperation(op indexer.OperationRef, query string) bool {
	m := newMatcher(query)
	return m.query == "" || m.match(op)
}

// Search returns a pruned copy of node holding only matching operations and the
// nodes needed to reach them. It returns node itself for a blank query and nil
// when nothing matches. node is never modified.
func Search(node *indexer.TagNode, query string) *indexer.TagNode {
	if node == nil {
		return nil
	}
	m := newMatcher(query)
	if m.query == "" {
		return node
	}
	return prune(node, m.match)
}

// prune copies node keeping the operations accepted by keep, dropping nodes
// that end up with neither operations nor children.
func prune(node *indexer.TagNode, keep func(indexer.OperationRef) bool) *indexer.TagNode {
	var ops []indexer.OperationRef
	for _, op := range node.Operations {
		if keep(op) {
			ops = append(ops, op)
		}
	}
	var children []*indexer.TagNode
	for _, c := range node.Children() {
		if pc := prune(c, keep); pc != nil {
			children = append(children, pc)
		}
	}
	if len(ops) == 0 && len(children) == 0 {
		return nil
	}
	return node.Clone(ops, children)
}

// Hit is one result of a flat search across documents.
type Hit struct {
	// SpecIndex is the position of the document in the searched sources.
	SpecIndex int `json:"specIndex"`
	// SpecTitle is the document's display title.
	SpecTitle string `json:"specTitle"`
	// Operation is the matching operation.
	Operation indexer.OperationRef `json:"operation"`
}

// SearchAll searches every operation and webhook of every source, in document
// order, and returns a flat list. A blank query returns nil.
func SearchAll(sources []indexer.Source, query string) []Hit {
	m := newMatcher(query)
	if m.query == "" {
		return nil
	}
	var hits []Hit
	for i, src := range sources {
		if src.Document == nil {
			continue
		}
		title := src.DisplayTitle()
		for op := range Operations(src.Document) {
			if m.match(op) {
				hits = append(hits, Hit{SpecIndex: i, SpecTitle: title, Operation: op})
			}
		}
	}
	return hits
}
