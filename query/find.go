package query

import (
	"strings"

	"github.com/erraggy/oasexplorer/indexer"
)

// Walk visits node and its descendants depth-first in insertion order. When fn
// returns false the children of that node are skipped.
func Walk(node *indexer.TagNode, fn func(n *indexer.TagNode, depth int) bool) {
	walk(node, 0, fn)
}

func walk(node *indexer.TagNode, depth int, fn func(*indexer.TagNode, int) bool) {
	if node == nil || !fn(node, depth) {
		return
	}
	for _, c := range node.Children() {
		walk(c, depth+1, fn)
	}
}

// find returns the first node, depth-first, for which match is true.
func find(node *indexer.TagNode, match func(*indexer.TagNode) bool) *indexer.TagNode {
	if node == nil {
		return nil
	}
	if match(node) {
		return node
	}
	for _, c := range node.Children() {
		if n := find(c, match); n != nil {
			return n
		}
	}
	return nil
}

// FindNodeByPath returns the first node whose FullPath equals fullPath, or nil.
func FindNodeByPath(root *indexer.TagNode, fullPath string) *indexer.TagNode {
	return find(root, func(n *indexer.TagNode) bool { return n.FullPath == fullPath })
}

// FindNodeBySlug returns the first node whose NodeSlug equals slug, or nil.
// Leading and trailing slashes in slug are ignored.
func FindNodeBySlug(root *indexer.TagNode, slug string) *indexer.TagNode {
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return nil
	}
	return find(root, func(n *indexer.TagNode) bool {
		return n.FullPath != "" && NodeSlug(n.FullPath) == slug
	})
}

// FindOperation returns the first node holding the operation with method and
// path, and the operation itself.
func FindOperation(root *indexer.TagNode, method, path string) (*indexer.TagNode, indexer.OperationRef, bool) {
	method = strings.ToUpper(method)
	return findOperation(root, func(op indexer.OperationRef) bool {
		return op.Method == method && op.Path == path
	})
}

// FindOperationByID returns the first node holding an operation whose
// operationId equals id, and the operation itself.
func FindOperationByID(root *indexer.TagNode, id string) (*indexer.TagNode, indexer.OperationRef, bool) {
	if id == "" {
		return nil, indexer.OperationRef{}, false
	}
	return findOperation(root, func(op indexer.OperationRef) bool {
		return op.OperationID() == id
	})
}

func findOperation(root *indexer.TagNode, match func(indexer.OperationRef) bool) (*indexer.TagNode, indexer.OperationRef, bool) {
	var found indexer.OperationRef
	node := find(root, func(n *indexer.TagNode) bool {
		for _, op := range n.Operations {
			if match(op) {
				found = op
				return true
			}
		}
		return false
	})
	return node, found, node != nil
}
