package core

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// parseFrontmatter splits a markdown document into its `---` delimited
// header and body. Header values are flattened to strings. A document with
// no closing delimiter has no frontmatter.
func parseFrontmatter(raw string) (map[string]string, string) {
	meta := map[string]string{}

	lines := strings.Split(raw, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return meta, raw
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			closing = i
			break
		}
	}
	if closing < 0 {
		return meta, raw
	}

	header := strings.Join(lines[1:closing], "\n")
	body := strings.TrimLeft(strings.Join(lines[closing+1:], "\n"), " \t\r\n")

	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(header), &parsed); err == nil {
		for k, v := range parsed {
			meta[k] = stringifyYAML(v)
		}
		return meta, body
	}

	// Not valid YAML, e.g. an unquoted colon in a description.
	for _, line := range lines[1:closing] {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		meta[key] = strings.TrimSpace(value)
	}
	return meta, body
}

func stringifyYAML(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = stringifyYAML(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		out, err := yaml.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return strings.TrimSpace(string(out))
	default:
		return fmt.Sprint(val)
	}
}

// extractDescription returns the first non-empty line of body that is not a
// markdown heading.
func extractDescription(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return trimmed
	}
	return ""
}
