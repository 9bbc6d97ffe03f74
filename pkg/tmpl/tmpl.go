package tmpl

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderRe matches {{path}} and {{ path.to.key }} placeholders.
// Paths are word characters separated by dots; anything else is left alone.
var placeholderRe = regexp.MustCompile(`\{\{\s*([\w]+(?:\.[\w]+)*)\s*\}\}`)

// Render substitutes every {{path}} placeholder in template with the value
// resolved from data. Unresolved or nil paths substitute the path text
// itself rather than an empty string.
func Render(template string, data map[string]any) string {
	if !strings.Contains(template, "{{") {
		return template
	}

	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		path := placeholderRe.FindStringSubmatch(match)[1]

		v, ok := resolve(data, path)
		if !ok || v == nil {
			return path
		}
		return stringify(v)
	})
}

// resolve walks a dotted path through nested map[string]any values.
func resolve(data map[string]any, path string) (any, bool) {
	segments := strings.Split(path, ".")

	var current any = data
	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case float64:
		// JSON-decoded payloads carry numbers as float64; render whole
		// numbers without a trailing ".0".
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
