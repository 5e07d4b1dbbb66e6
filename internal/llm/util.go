// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// StripLineComments removes // comments that some models append after JSON
// values, which break strict parsing. Comment markers inside string literals
// are preserved.
func StripLineComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, line := range strings.Split(text, "\n") {
		inString := false
		escaped := false
		cut := len(line)
		for i := 0; i < len(line); i++ {
			ch := line[i]
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				if inString {
					escaped = true
				}
			case '"':
				inString = !inString
			case '/':
				if !inString && i+1 < len(line) && line[i+1] == '/' {
					cut = i
				}
			}
			if cut != len(line) {
				break
			}
		}
		b.WriteString(strings.TrimRight(line[:cut], " \t"))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
