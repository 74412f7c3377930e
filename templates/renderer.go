// Package templates renders label layouts from JSON templates whose string
// leaves carry {{name}} placeholders.
package templates

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"labelprint-service/models"
)

var placeholder = regexp.MustCompile(`\{\{\s*([^{}\s]+)\s*\}\}`)

// Fields maps placeholder names to the values substituted for them.
type Fields map[string]interface{}

// Template is an immutable layout template. A single Template may be rendered
// concurrently with different field maps.
type Template struct {
	name string
	root map[string]interface{}
}

// New decodes raw JSON into a Template. The top level value must be an object.
func New(name string, raw []byte) (*Template, error) {
	var root map[string]interface{}
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", name, err)
	}
	if root == nil {
		return nil, fmt.Errorf("decode template %s: top level value must be an object", name)
	}
	return &Template{name: name, root: root}, nil
}

// MustNew is like New but panics on error. Intended for embedded assets.
func MustNew(name string, raw []byte) *Template {
	t, err := New(name, raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the name the template was loaded under.
func (t *Template) Name() string { return t.name }

// Render returns a copy of the template with every {{key}} in a string leaf
// replaced by fields[key]. Placeholders without a matching key are kept
// verbatim, and substituted values are never scanned again.
func (t *Template) Render(fields Fields) models.Layout {
	return models.Layout(renderObject(t.root, fields))
}

func renderValue(v interface{}, fields Fields) interface{} {
	switch node := v.(type) {
	case map[string]interface{}:
		return renderObject(node, fields)
	case []interface{}:
		out := make([]interface{}, len(node))
		for i, item := range node {
			out[i] = renderValue(item, fields)
		}
		return out
	case string:
		return substitute(node, fields)
	default:
		return node
	}
}

func renderObject(node map[string]interface{}, fields Fields) map[string]interface{} {
	out := make(map[string]interface{}, len(node))
	for k, item := range node {
		out[k] = renderValue(item, fields)
	}
	return out
}

func substitute(s string, fields Fields) string {
	return placeholder.ReplaceAllStringFunc(s, func(token string) string {
		key := placeholder.FindStringSubmatch(token)[1]
		value, ok := fields[key]
		if !ok {
			return token
		}
		return format(value)
	})
}

func format(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	case json.Number:
		return value.String()
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}
