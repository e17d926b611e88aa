package document

import (
	"iter"
	"slices"
)

// NodeID identifies an object inside the document it was decoded from.
// Ids are assigned in decode order starting at 1; zero means the object was
// built in memory and has no identity in any document.
type NodeID uint32

// RefKey is the key that marks an object as a JSON reference.
const RefKey = "$ref"

// Object is an ordered JSON object.
//
// Objects decoded from a source are frozen: their keys can no longer change, and
// Set panics. A frozen object knows whether any value below it carries a $ref,
// which lets the resolver return ref-free subtrees without copying them.
type Object struct {
	id     NodeID
	doc    *Document
	keys   []string
	fields map[string]any
	frozen bool
	hasRef bool
}

// NewObject returns an empty, unfrozen object with no document identity.
func NewObject() *Object {
	return &Object{fields: make(map[string]any)}
}

// Derive returns an empty, unfrozen object that shares o's identity. The
// resolver uses it to build the resolved form of o.
func (o *Object) Derive() *Object {
	return &Object{id: o.id, doc: o.doc, fields: make(map[string]any, len(o.keys))}
}

// ID returns the object's node id, or zero for in-memory objects.
func (o *Object) ID() NodeID {
	if o == nil {
		return 0
	}
	return o.id
}

// Document returns the document the object was decoded from, or nil.
func (o *Object) Document() *Document {
	if o == nil {
		return nil
	}
	return o.doc
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in source order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.fields[key]
	return v, ok
}

// Has reports whether key is present, even with a null value.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Value returns the value stored under key, or nil.
func (o *Object) Value(key string) any {
	v, _ := o.Get(key)
	return v
}

// String returns the value under key when it is a string.
func (o *Object) String(key string) (string, bool) {
	s, ok := o.Value(key).(string)
	return s, ok
}

// StringOr returns the string under key, or def when it is missing or not a string.
func (o *Object) StringOr(key, def string) string {
	if s, ok := o.String(key); ok {
		return s
	}
	return def
}

// Object returns the value under key when it is an object.
func (o *Object) Object(key string) *Object {
	obj, _ := o.Value(key).(*Object)
	return obj
}

// Array returns the value under key when it is an array.
func (o *Object) Array(key string) *Array {
	arr, _ := o.Value(key).(*Array)
	return arr
}

// All iterates over the key-value pairs in source order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if o == nil {
			return
		}
		for _, k := range o.keys {
			if !yield(k, o.fields[k]) {
				return
			}
		}
	}
}

// Set stores v under key, appending key if it is new.
// Set panics if the object is frozen.
func (o *Object) Set(key string, v any) {
	if o.frozen {
		panic("document: Set on frozen object")
	}
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

// Frozen reports whether the object can no longer be modified.
func (o *Object) Frozen() bool {
	return o != nil && o.frozen
}

// HasRef reports whether the object or any value below it holds a $ref key.
// Unfrozen objects always report true because their contents may still change.
func (o *Object) HasRef() bool {
	if o == nil {
		return false
	}
	return !o.frozen || o.hasRef
}

// Freeze makes the object and everything below it immutable and records
// whether the subtree contains a $ref.
func (o *Object) Freeze() *Object {
	if o == nil || o.frozen {
		return o
	}
	_, ref := o.fields[RefKey]
	for _, k := range o.keys {
		if freezeValue(o.fields[k]) {
			ref = true
		}
	}
	o.hasRef = ref
	o.frozen = true
	return o
}

// Array is an ordered JSON array.
type Array struct {
	items  []any
	frozen bool
	hasRef bool
}

// NewArray returns an empty, unfrozen array with room for n items.
func NewArray(n int) *Array {
	return &Array{items: make([]any, 0, n)}
}

// Len returns the number of items.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// Index returns the item at i, or nil when i is out of range.
func (a *Array) Index(i int) any {
	if a == nil || i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// All iterates over the items in order.
func (a *Array) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		if a == nil {
			return
		}
		for i, v := range a.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Strings returns every string item, skipping values of other types.
func (a *Array) Strings() []string {
	if a == nil {
		return nil
	}
	out := make([]string, 0, len(a.items))
	for _, v := range a.items {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Append adds v to the end of the array.
// Append panics if the array is frozen.
func (a *Array) Append(v any) {
	if a.frozen {
		panic("document: Append on frozen array")
	}
	a.items = append(a.items, v)
}

// HasRef reports whether any item holds a $ref key.
func (a *Array) HasRef() bool {
	if a == nil {
		return false
	}
	return !a.frozen || a.hasRef
}

// Freeze makes the array and everything below it immutable.
func (a *Array) Freeze() *Array {
	if a == nil || a.frozen {
		return a
	}
	ref := false
	for _, v := range a.items {
		if freezeValue(v) {
			ref = true
		}
	}
	a.hasRef = ref
	a.frozen = true
	return a
}

// freezeValue freezes containers and reports whether v holds a $ref.
func freezeValue(v any) bool {
	switch t := v.(type) {
	case *Object:
		return t != nil && t.Freeze().hasRef
	case *Array:
		return t != nil && t.Freeze().hasRef
	}
	return false
}

// IsContainer reports whether v is an *Object or *Array.
func IsContainer(v any) bool {
	switch v.(type) {
	case *Object, *Array:
		return true
	}
	return false
}
