package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasexplorer/oaserrors"
)

// detectFormat attempts to detect the format from the content bytes.
// JSON starts with '{' or '[', anything else is treated as YAML.
func detectFormat(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\n\r\ufeff")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}

// decoder turns source bytes into frozen values, numbering objects as it goes.
type decoder struct {
	doc     *Document
	next    NodeID
	anchors map[*yaml.Node]any
	active  map[*yaml.Node]bool
}

func (d *decoder) newObject(n int) *Object {
	d.next++
	return &Object{id: d.next, doc: d.doc, keys: make([]string, 0, n), fields: make(map[string]any, n)}
}

// ---- JSON ----

func (d *decoder) decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := d.jsonValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

func (d *decoder) jsonValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := d.newObject(8)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				v, err := d.jsonValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := NewArray(4)
			for dec.More() {
				v, err := d.jsonValue(dec)
				if err != nil {
					return nil, err
				}
				arr.Append(v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
	case json.Number:
		return jsonNumber(t), nil
	case float64:
		return t, nil
	case string, bool, nil:
		return t, nil
	}
	return nil, fmt.Errorf("unexpected token %T", tok)
}

func jsonNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// ---- YAML ----

func (d *decoder) decodeYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return nil, nil
	}
	d.anchors = make(map[*yaml.Node]any)
	d.active = make(map[*yaml.Node]bool)
	return d.yamlValue(&root)
}

func (d *decoder) yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.yamlValue(n.Content[0])
	case yaml.AliasNode:
		return d.yamlAlias(n)
	case yaml.MappingNode:
		return d.anchored(n, d.yamlMapping)
	case yaml.SequenceNode:
		return d.anchored(n, d.yamlSequence)
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, &oaserrors.ParseError{Line: n.Line, Column: n.Column, Message: fmt.Sprintf("unsupported YAML node kind %d", n.Kind)}
}

// anchored decodes n once; aliases pointing at it share the decoded value.
func (d *decoder) anchored(n *yaml.Node, fn func(*yaml.Node) (any, error)) (any, error) {
	if n.Anchor == "" {
		return fn(n)
	}
	if v, ok := d.anchors[n]; ok {
		return v, nil
	}
	d.active[n] = true
	v, err := fn(n)
	delete(d.active, n)
	if err != nil {
		return nil, err
	}
	d.anchors[n] = v
	return v, nil
}

func (d *decoder) yamlAlias(n *yaml.Node) (any, error) {
	target := n.Alias
	if target == nil {
		return nil, &oaserrors.ParseError{Line: n.Line, Column: n.Column, Message: "unknown alias " + n.Value}
	}
	if d.active[target] {
		return nil, &oaserrors.ParseError{Line: n.Line, Column: n.Column, Message: "recursive alias *" + target.Anchor}
	}
	return d.yamlValue(target)
}

func (d *decoder) yamlMapping(n *yaml.Node) (any, error) {
	obj := d.newObject(len(n.Content) / 2)
	var merges []*Object
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, vn := n.Content[i], n.Content[i+1]
		if isMergeKey(k) {
			m, err := d.yamlMerge(vn)
			if err != nil {
				return nil, err
			}
			merges = append(merges, m...)
			continue
		}
		v, err := d.yamlValue(vn)
		if err != nil {
			return nil, err
		}
		obj.Set(k.Value, v)
	}
	// Explicit keys win over merged ones; earlier merge sources win over later ones.
	for _, m := range merges {
		for key, v := range m.All() {
			if !obj.Has(key) {
				obj.Set(key, v)
			}
		}
	}
	return obj, nil
}

func (d *decoder) yamlMerge(n *yaml.Node) ([]*Object, error) {
	v, err := d.yamlValue(n)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case *Object:
		return []*Object{t}, nil
	case *Array:
		out := make([]*Object, 0, t.Len())
		for _, item := range t.All() {
			obj, ok := item.(*Object)
			if !ok {
				return nil, &oaserrors.ParseError{Line: n.Line, Column: n.Column, Message: "merge sequence must contain mappings"}
			}
			out = append(out, obj)
		}
		return out, nil
	}
	return nil, &oaserrors.ParseError{Line: n.Line, Column: n.Column, Message: "merge value must be a mapping"}
}

func (d *decoder) yamlSequence(n *yaml.Node) (any, error) {
	arr := NewArray(len(n.Content))
	for _, c := range n.Content {
		v, err := d.yamlValue(c)
		if err != nil {
			return nil, err
		}
		arr.Append(v)
	}
	return arr, nil
}

// yamlScalar maps a scalar onto nil, bool, int64, float64 or string.
func yamlScalar(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, &oaserrors.ParseError{Line: n.Line, Column: n.Column, Message: "invalid scalar", Cause: err}
	}
	switch t := v.(type) {
	case nil, bool, string, int64, float64:
		return t, nil
	case int:
		return int64(t), nil
	case uint64:
		if t <= math.MaxInt64 {
			return int64(t), nil
		}
		return float64(t), nil
	case time.Time:
		return n.Value, nil
	case []byte:
		return string(t), nil
	}
	return n.Value, nil
}

func isMergeKey(k *yaml.Node) bool {
	if k.Kind != yaml.ScalarNode {
		return false
	}
	if k.Tag == "!!merge" {
		return true
	}
	return k.Value == "<<" && k.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) == 0
}
