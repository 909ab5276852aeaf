package oracle

import "strings"

// stripCodeFences removes a single wrapping markdown fence, which models add
// despite instructions. Inner fences are left alone.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return trimmed
	}
	body := strings.TrimSuffix(trimmed, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// Drop the opening fence line including any language tag.
		body = body[nl+1:]
	} else {
		body = strings.TrimPrefix(body, "```")
	}
	return strings.TrimSpace(body)
}
