package params

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"
)

// Encode builds a parameter blob from decoded values. Nested maps and slices
// are encoded into strings the same way the host editor stores them, so
// Parse(Encode(v)) reproduces v for values produced by Parse.
func Encode(values map[string]any) ([]byte, error) {
	doc, err := encodeObject(values)
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

func encodeObject(values map[string]any) (string, error) {
	doc := "{}"
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s, err := encodeValue(values[k])
		if err != nil {
			return "", fmt.Errorf("%s: %w", k, err)
		}
		doc, err = sjson.Set(doc, escapePath(k), s)
		if err != nil {
			return "", fmt.Errorf("%s: %w", k, err)
		}
	}
	return doc, nil
}

func encodeArray(items []any) (string, error) {
	doc := "[]"
	for i, item := range items {
		s, err := encodeValue(item)
		if err != nil {
			return "", fmt.Errorf("[%d]: %w", i, err)
		}
		doc, err = sjson.Set(doc, "-1", s)
		if err != nil {
			return "", fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return doc, nil
}

// encodeValue renders one value as the string stored in its parent document.
func encodeValue(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case []any:
		return encodeArray(t)
	case []string:
		items := make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
		return encodeArray(items)
	case map[string]any:
		return encodeObject(t)
	}
	return "", fmt.Errorf("%w: cannot encode %T", ErrUnknownType, v)
}

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
	`:`, `\:`,
)

func escapePath(key string) string {
	return pathEscaper.Replace(key)
}
