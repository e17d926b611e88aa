// Package security computes the effective security requirements of operations.
//
// OpenAPI lets security be declared on the document, on a path item and on an
// operation. The most specific level that declares it wins outright; levels are
// never merged. An explicitly empty list means the operation needs no
// authentication, even when an outer level requires it:
//
//	eff := security.Resolve(op, pathItem, doc)
//	if !eff.Private() {
//		// show the operation as public
//	}
package security

import (
	"github.com/erraggy/oasexplorer/document"
)

// Level names the scope an effective security list came from.
type Level int

const (
	// LevelNone means no level declares security.
	LevelNone Level = iota
	// LevelOperation means the operation declares security.
	LevelOperation
	// LevelPath means the path item declares security.
	LevelPath
	// LevelDocument means the document declares security.
	LevelDocument
)

func (l Level) String() string {
	switch l {
	case LevelOperation:
		return "operation"
	case LevelPath:
		return "path"
	case LevelDocument:
		return "document"
	}
	return "none"
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Scheme is one security scheme named in a requirement, with its scopes.
type Scheme struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
}

// Requirement is one security requirement object. All of its schemes must be
// satisfied together; an empty requirement allows anonymous access.
type Requirement struct {
	Schemes []Scheme `json:"schemes"`
}

// Effective is the security that applies to an operation.
type Effective struct {
	Requirements []Requirement `json:"requirements"`
	Level        Level         `json:"level"`

	// entries is the length of the declared list, counting entries that are
	// not requirement objects.
	entries int
}

// Defined reports whether any level declares security.
func (e Effective) Defined() bool {
	return e.Level != LevelNone
}

// Private reports whether the operation requires authentication.
func (e Effective) Private() bool {
	return e.entries > 0
}

// Anonymous reports whether one of the alternatives is the empty requirement,
// which makes authentication optional.
func (e Effective) Anonymous() bool {
	for _, r := range e.Requirements {
		if len(r.Schemes) == 0 {
			return true
		}
	}
	return false
}

// SchemeNames returns the distinct scheme names across all requirements in order.
func (e Effective) SchemeNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, r := range e.Requirements {
		for _, s := range r.Schemes {
			if !seen[s.Name] {
				seen[s.Name] = true
				names = append(names, s.Name)
			}
		}
	}
	return names
}

// Resolve returns the security of op: the operation's list if declared, else
// the path item's, else the document's. A level declares security when its
// object has a security key, even one whose value is null; such a value stops
// inheritance and yields no requirements. Any argument may be nil.
func Resolve(op, pathItem *document.Object, doc *document.Document) Effective {
	if v, ok := op.Get("security"); ok {
		return effective(v, LevelOperation)
	}
	if v, ok := pathItem.Get("security"); ok {
		return effective(v, LevelPath)
	}
	if doc != nil {
		if v, ok := doc.Root().Get("security"); ok {
			return effective(v, LevelDocument)
		}
	}
	return Effective{}
}

// IsPrivate reports whether op requires authentication.
func IsPrivate(op, pathItem *document.Object, doc *document.Document) bool {
	return Resolve(op, pathItem, doc).Private()
}

// ForOperation looks up the operation at method and path in doc and resolves its security.
func ForOperation(doc *document.Document, method, path string, webhook bool) Effective {
	if doc == nil {
		return Effective{}
	}
	return Resolve(doc.Operation(method, path, webhook), doc.PathItem(path, webhook), doc)
}

func effective(v any, level Level) Effective {
	eff := Effective{Requirements: []Requirement{}, Level: level}
	if list, ok := v.(*document.Array); ok {
		eff.Requirements = requirements(list)
		eff.entries = list.Len()
	}
	return eff
}

// requirements converts a security list, skipping entries that are not objects.
func requirements(list *document.Array) []Requirement {
	out := make([]Requirement, 0, list.Len())
	for _, item := range list.All() {
		obj, ok := item.(*document.Object)
		if !ok {
			continue
		}
		req := Requirement{Schemes: make([]Scheme, 0, obj.Len())}
		for name, scopes := range obj.All() {
			s := Scheme{Name: name, Scopes: []string{}}
			if arr, ok := scopes.(*document.Array); ok {
				s.Scopes = arr.Strings()
			}
			req.Schemes = append(req.Schemes, s)
		}
		out = append(out, req)
	}
	return out
}
