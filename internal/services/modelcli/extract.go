package modelcli

import (
	"errors"
	"strings"
)

// ErrNoJSON indicates no JSON object could be located in runtime output.
var ErrNoJSON = errors.New("no JSON object found")

// ExtractJSON pulls the first well-formed JSON object out of raw model
// output. Chat-tuned runtimes wrap answers in markdown fences or prose,
// so fences are stripped first and brace matching skips string literals.
func ExtractJSON(raw string) (string, error) {
	cleaned := stripFences(raw)
	start := strings.IndexByte(cleaned, '{')
	if start < 0 {
		return "", ErrNoJSON
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		ch := cleaned[i]
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
				return cleaned[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSON
}

func stripFences(raw string) string {
	var b strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
