package document

import (
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// Plainer is implemented by values that are not part of the document model but
// can appear inside resolved trees, such as resolver markers.
type Plainer interface {
	Plain() any
}

// Plain converts a document value into map[string]any, []any and scalars.
// Key order is lost; use MarshalJSON or MarshalYAML to keep it.
func Plain(v any) any {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		m := make(map[string]any, len(t.keys))
		for _, k := range t.keys {
			m[k] = Plain(t.fields[k])
		}
		return m
	case *Array:
		if t == nil {
			return nil
		}
		out := make([]any, len(t.items))
		for i, item := range t.items {
			out[i] = Plain(item)
		}
		return out
	case Plainer:
		return t.Plain()
	}
	return v
}

// MarshalJSON writes the object with keys in source order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		b, err := json.Marshal(o.fields[k])
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes the array items in order.
func (a *Array) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range a.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalYAML returns a mapping node with keys in source order.
func (o *Object) MarshalYAML() (any, error) {
	return yamlNode(o)
}

// MarshalYAML returns a sequence node.
func (a *Array) MarshalYAML() (any, error) {
	return yamlNode(a)
}

func yamlNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nullNode(), nil
		}
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range t.keys {
			child, err := yamlNode(t.fields[k])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, child)
		}
		return n, nil
	case *Array:
		if t == nil {
			return nullNode(), nil
		}
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t.items {
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case nil:
		return nullNode(), nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(t)}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(t, 10)}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(t, 'g', -1, 64)}, nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
