package value

import (
	"bytes"
	"encoding/json"
	"math"

	"gopkg.in/yaml.v3"
)

// MarshalJSON writes keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits a mapping node so key order survives encoding.
func (o *Object) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range o.keys {
		valNode := &yaml.Node{}
		if err := valNode.Encode(o.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			valNode,
		)
	}
	return node, nil
}

func (Null) MarshalJSON() ([]byte, error)     { return []byte("null"), nil }
func (Null) MarshalYAML() (interface{}, error) { return nil, nil }

// MarshalJSON encodes non-finite numbers as null, which JSON cannot carry.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (d *Document) MarshalJSON() ([]byte, error) { return ToObject(d).MarshalJSON() }
func (h *Heading) MarshalJSON() ([]byte, error)  { return ToObject(h).MarshalJSON() }
func (c *Code) MarshalJSON() ([]byte, error)     { return ToObject(c).MarshalJSON() }
func (l *Link) MarshalJSON() ([]byte, error)     { return ToObject(l).MarshalJSON() }
func (i *Image) MarshalJSON() ([]byte, error)    { return ToObject(i).MarshalJSON() }
func (t *Table) MarshalJSON() ([]byte, error)    { return ToObject(t).MarshalJSON() }
func (l *List) MarshalJSON() ([]byte, error)     { return ToObject(l).MarshalJSON() }

func (d *Document) MarshalYAML() (interface{}, error) { return ToObject(d).MarshalYAML() }
func (h *Heading) MarshalYAML() (interface{}, error)  { return ToObject(h).MarshalYAML() }
func (c *Code) MarshalYAML() (interface{}, error)     { return ToObject(c).MarshalYAML() }
func (l *Link) MarshalYAML() (interface{}, error)     { return ToObject(l).MarshalYAML() }
func (i *Image) MarshalYAML() (interface{}, error)    { return ToObject(i).MarshalYAML() }
func (t *Table) MarshalYAML() (interface{}, error)    { return ToObject(t).MarshalYAML() }
func (l *List) MarshalYAML() (interface{}, error)     { return ToObject(l).MarshalYAML() }

// MarshalJSON encodes a nil Array as [] rather than null.
func (a Array) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Value(a))
}
