package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var templateField = regexp.MustCompile(`\{\{\s*([^{}\s][^{}]*?)\s*\}\}`)

// applyTemplate substitutes {{field}} and {{nested.field}} placeholders with
// values from the row. Unresolvable paths become the empty string; maps and
// slices serialize as JSON so templates can surface structured cells.
func applyTemplate(template string, row map[string]any) string {
	return templateField.ReplaceAllStringFunc(template, func(match string) string {
		path := templateField.FindStringSubmatch(match)[1]
		value, ok := lookupPath(row, strings.Split(path, "."))
		if !ok || value == nil {
			return ""
		}
		switch value.(type) {
		case map[string]any, []any:
			encoded, err := json.Marshal(value)
			if err != nil {
				return ""
			}
			return string(encoded)
		}
		return fmt.Sprint(value)
	})
}

func lookupPath(row map[string]any, path []string) (any, bool) {
	var current any = row
	for _, part := range path {
		object, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = object[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
