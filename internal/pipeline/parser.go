package pipeline

import (
	"strings"
)

// stripFences removes markdown code-fence wrappers the model sometimes adds
// despite being told not to (```json, ```sql or bare ```). The fence need
// not open the response: lead-in prose like "Here you go:" is dropped along
// with the opening fence line.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	start := strings.Index(s, "```")
	if start == -1 {
		return s
	}

	// Drop everything through the end of the opening fence line (``` or
	// ```json / ```sql).
	s = s[start+3:]
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	} else {
		// One-line fragment like ```SELECT 1```.
		return strings.TrimSpace(strings.Trim(s, "`"))
	}

	if idx := strings.Index(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

// extractObject keeps only the first top-level JSON object in s: from the
// first '{' to the last '}'. Returns "" when no object is present.
func extractObject(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end <= start {
		return ""
	}
	return strings.TrimSpace(s[start : end+1])
}
