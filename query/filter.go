package query

import (
	"strings"

	"github.com/erraggy/oasexplorer/indexer"
	"github.com/erraggy/oasexplorer/internal/httputil"
	"github.com/erraggy/oasexplorer/oaserrors"
	"github.com/erraggy/oasexplorer/security"
)

// SecurityMode selects operations by whether they require authentication.
type SecurityMode string

const (
	// ModeAll keeps every operation.
	ModeAll SecurityMode = "all"
	// ModePrivate keeps operations that require authentication.
	ModePrivate SecurityMode = "private"
	// ModePublic keeps operations that do not.
	ModePublic SecurityMode = "public"
)

// ParseSecurityMode parses "all", "private" or "public". An empty string means all.
func ParseSecurityMode(s string) (SecurityMode, error) {
	switch mode := SecurityMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "", ModeAll:
		return ModeAll, nil
	case ModePrivate, ModePublic:
		return mode, nil
	}
	return "", &oaserrors.ConfigError{Option: "security", Value: s, Message: "must be all, private or public"}
}

// MethodSet is a set of upper-cased HTTP methods. A nil set allows every method.
type MethodSet map[string]struct{}

// NewMethodSet builds a set from method names in any case. Blank names are
// ignored; with no names the result is nil and allows everything.
func NewMethodSet(methods ...string) MethodSet {
	var s MethodSet
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if s == nil {
			s = make(MethodSet)
		}
		s[m] = struct{}{}
	}
	return s
}

// ParseMethodSet builds a set from a comma-separated list and rejects names that
// are not HTTP methods of a path item.
func ParseMethodSet(list string) (MethodSet, error) {
	var names []string
	for _, m := range strings.Split(list, ",") {
		name, ok := httputil.NormalizeMethod(m)
		if name == "" {
			continue
		}
		if !ok {
			return nil, &oaserrors.ConfigError{Option: "methods", Value: strings.TrimSpace(m), Message: "unknown HTTP method"}
		}
		names = append(names, name)
	}
	return NewMethodSet(names...), nil
}

// Has reports whether method is allowed.
func (s MethodSet) Has(method string) bool {
	if s == nil {
		return true
	}
	_, ok := s[strings.ToUpper(method)]
	return ok
}

// PrivacyFunc reports whether an operation requires authentication.
type PrivacyFunc func(indexer.OperationRef) bool

// DocumentPrivacy computes privacy from the operation's own document.
func DocumentPrivacy(op indexer.OperationRef) bool {
	return security.IsPrivate(op.Operation, op.PathItem, op.Document)
}

// CachedPrivacy computes privacy through c.
func CachedPrivacy(c *security.Cache) PrivacyFunc {
	return func(op indexer.OperationRef) bool {
		return c.IsPrivate(op.Document, op.Method, op.Path, op.Webhook)
	}
}

// Filter returns a pruned copy of node keeping operations whose method is in
// methods and whose privacy matches mode. Nodes left empty are dropped; nil is
// returned when nothing survives. A nil privacy uses DocumentPrivacy.
func Filter(node *indexer.TagNode, mode SecurityMode, methods MethodSet, privacy PrivacyFunc) *indexer.TagNode {
	if node == nil {
		return nil
	}
	if privacy == nil {
		privacy = DocumentPrivacy
	}
	return prune(node, func(op indexer.OperationRef) bool {
		if !methods.Has(op.Method) {
			return false
		}
		switch mode {
		case ModePrivate:
			return privacy(op)
		case ModePublic:
			return !privacy(op)
		}
		return true
	})
}
