package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeObject parses raw model output into v. Models occasionally wrap the
// object in markdown fences or chatter around it, so after a direct parse
// fails the first top-level brace-delimited substring is tried before giving
// up.
func DecodeObject(raw string, v any) error {
	cleaned := stripMarkdownFences(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	embedded, ok := firstJSONObject(cleaned)
	if !ok {
		return fmt.Errorf("no JSON object found in model response")
	}
	if err := json.Unmarshal([]byte(embedded), v); err != nil {
		return fmt.Errorf("failed to parse embedded JSON object: %w", err)
	}
	return nil
}

// stripMarkdownFences removes ```json fences if the model tried to be helpful.
func stripMarkdownFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}

// firstJSONObject returns the first balanced {...} substring, tracking string
// literals so braces inside them don't skew the depth count.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
