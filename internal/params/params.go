// Package params decodes plugin parameter blobs.
//
// A parameter blob is a JSON object whose values are strings. Struct and array
// values are themselves JSON documents encoded into those strings, nested to
// any depth:
//
//	{"gridSize":"48","formationList":"[\"{\\\"name\\\":\\\"Guardian\\\"}\"]"}
//
// A Schema maps keys to type tags. Keys without a tag are decoded by
// predicting their type from the text.
package params

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrUnknownType is returned when a schema refers to an unsupported type tag
	// or to a struct that was never registered.
	ErrUnknownType = errors.New("unknown parameter type")
	// ErrMalformed is returned for text that does not decode as its declared type.
	ErrMalformed = errors.New("malformed parameter")
)

// Fields maps parameter keys to type tags.
//
// Supported tags:
//   - string, multiline_string, note, file, select, combo, text
//   - number, switch, variable, state, actor, icon, animation, common_event
//   - boolean
//   - struct<Name>
//   - any of the above followed by "[]" for an array
type Fields map[string]string

// Schema describes a parameter blob: the root fields plus named struct layouts.
type Schema struct {
	Root    Fields
	Structs map[string]Fields
}

type kind int

const (
	kindString kind = iota
	kindNumber
	kindBoolean
	kindStruct
)

type typeTag struct {
	kind   kind
	name   string // struct name
	array  int    // array nesting depth
	source string
}

var scalarKinds = map[string]kind{
	"string":           kindString,
	"multiline_string": kindString,
	"note":             kindString,
	"file":             kindString,
	"select":           kindString,
	"combo":            kindString,
	"text":             kindString,
	"number":           kindNumber,
	"switch":           kindNumber,
	"variable":         kindNumber,
	"state":            kindNumber,
	"actor":            kindNumber,
	"icon":             kindNumber,
	"animation":        kindNumber,
	"common_event":     kindNumber,
	"boolean":          kindBoolean,
}

func parseTag(s string) (typeTag, error) {
	tag := typeTag{source: s}
	base := strings.TrimSpace(s)
	for strings.HasSuffix(base, "[]") {
		tag.array++
		base = strings.TrimSuffix(base, "[]")
	}

	if strings.HasPrefix(base, "struct<") && strings.HasSuffix(base, ">") {
		tag.kind = kindStruct
		tag.name = strings.TrimSuffix(strings.TrimPrefix(base, "struct<"), ">")
		if tag.name == "" {
			return tag, fmt.Errorf("%w: %q", ErrUnknownType, s)
		}
		return tag, nil
	}

	k, ok := scalarKinds[base]
	if !ok {
		return tag, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	tag.kind = k
	return tag, nil
}

// Validate checks every tag in the schema and every struct reference.
func (s Schema) Validate() error {
	check := func(owner string, fields Fields) error {
		for _, key := range sortedKeys(fields) {
			tag, err := parseTag(fields[key])
			if err != nil {
				return fmt.Errorf("%s.%s: %w", owner, key, err)
			}
			if tag.kind == kindStruct {
				if _, ok := s.Structs[tag.name]; !ok {
					return fmt.Errorf("%s.%s: %w: struct<%s> is not registered", owner, key, ErrUnknownType, tag.name)
				}
			}
		}
		return nil
	}

	if err := check("root", s.Root); err != nil {
		return err
	}
	for _, name := range sortedKeys(s.Structs) {
		if err := check(name, s.Structs[name]); err != nil {
			return err
		}
	}
	return nil
}

// Parse decodes a parameter blob according to schema. The result contains
// string, float64, bool, []any and map[string]any values.
func Parse(blob []byte, schema Schema) (map[string]any, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(blob) {
		return nil, fmt.Errorf("%w: parameter blob is not valid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(blob)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: parameter blob must be a JSON object", ErrMalformed)
	}
	d := &decoder{schema: schema}
	return d.object(root, schema.Root, "")
}

// ParseStrings decodes parameters that were already split into a key/value map,
// which is how a host runtime usually hands them over.
func ParseStrings(values map[string]string, schema Schema) (map[string]any, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	d := &decoder{schema: schema}
	out := make(map[string]any, len(values))
	for _, key := range sortedKeys(values) {
		v, err := d.field(values[key], schema.Root, key, key)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

type decoder struct {
	schema Schema
}

func (d *decoder) object(obj gjson.Result, fields Fields, path string) (map[string]any, error) {
	out := make(map[string]any)
	var firstErr error
	obj.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		val, err := d.field(rawText(v), fields, key, joinPath(path, key))
		if err != nil {
			firstErr = err
			return false
		}
		out[key] = val
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func (d *decoder) field(text string, fields Fields, key, path string) (any, error) {
	tagSrc, ok := fields[key]
	if !ok {
		return d.predict(text, path)
	}
	tag, err := parseTag(tagSrc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d.typed(text, tag, tag.array, path)
}

func (d *decoder) typed(text string, tag typeTag, depth int, path string) (any, error) {
	if depth > 0 {
		if strings.TrimSpace(text) == "" {
			return []any{}, nil
		}
		arr := gjson.Parse(text)
		if !gjson.Valid(text) || !arr.IsArray() {
			return nil, fmt.Errorf("%w: %s: expected %s, got %q", ErrMalformed, path, tag.source, text)
		}
		items := arr.Array()
		out := make([]any, 0, len(items))
		for i, item := range items {
			v, err := d.typed(rawText(item), tag, depth-1, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	switch tag.kind {
	case kindString:
		return text, nil
	case kindNumber:
		s := strings.TrimSpace(text)
		if s == "" {
			return float64(0), nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: expected number, got %q", ErrMalformed, path, text)
		}
		return n, nil
	case kindBoolean:
		return strings.TrimSpace(text) == "true", nil
	case kindStruct:
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}
		obj := gjson.Parse(text)
		if !gjson.Valid(text) || !obj.IsObject() {
			return nil, fmt.Errorf("%w: %s: expected struct<%s>, got %q", ErrMalformed, path, tag.name, text)
		}
		return d.object(obj, d.schema.Structs[tag.name], path)
	}
	return nil, fmt.Errorf("%s: %w: %q", path, ErrUnknownType, tag.source)
}

// predict guesses the type of an untagged value.
func (d *decoder) predict(text, path string) (any, error) {
	s := strings.TrimSpace(text)
	switch {
	case s == "":
		return text, nil
	case s == "true":
		return true, nil
	case s == "false":
		return false, nil
	case (s[0] == '{' || s[0] == '[') && gjson.Valid(s):
		doc := gjson.Parse(s)
		if doc.IsObject() {
			return d.object(doc, nil, path)
		}
		items := doc.Array()
		out := make([]any, 0, len(items))
		for i, item := range items {
			v, err := d.predict(rawText(item), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n, nil
	}
	return text, nil
}

// rawText returns the string payload of a JSON string, or the raw JSON text
// for any other value (numbers, booleans, inline objects).
func rawText(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.Str
	}
	if v.Type == gjson.Null {
		return ""
	}
	return v.Raw
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
