package merge

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

type field struct {
	key string
	raw string
}

// Record is a JSON object that keeps its keys in source order.
type Record struct {
	fields []field
}

// Set replaces the value of key in place, or appends it when absent.
// raw must be a valid JSON value.
func (r *Record) Set(key, raw string) {
	for i := range r.fields {
		if r.fields[i].key == key {
			r.fields[i].raw = raw
			return
		}
	}
	r.fields = append(r.fields, field{key: key, raw: raw})
}

// Get returns the raw JSON value stored under key.
func (r Record) Get(key string) (string, bool) {
	for _, f := range r.fields {
		if f.key == key {
			return f.raw, true
		}
	}
	return "", false
}

// Keys returns the keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.key
	}
	return keys
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(f.raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r Record) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range r.fields {
		var value yaml.Node
		if err := value.Encode(gjson.Parse(f.raw).Value()); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.key},
			&value,
		)
	}
	return node, nil
}

// ParseRecords parses a JSON array of objects. Anything else is rejected.
func ParseRecords(data []byte) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("expected a JSON array, got %s", doc.Type)
	}

	var records []Record
	var err error
	doc.ForEach(func(_, elem gjson.Result) bool {
		if !elem.IsObject() {
			err = fmt.Errorf("array element %s is not an object", elem.Raw)
			return false
		}
		var rec Record
		elem.ForEach(func(key, value gjson.Result) bool {
			rec.Set(key.String(), value.Raw)
			return true
		})
		records = append(records, rec)
		return true
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
