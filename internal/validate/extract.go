package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/truevail/internal/model"
)

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// maxSnippet bounds how much raw model text is echoed into errors
const maxSnippet = 200

// ExtractJSON locates and parses the JSON object in raw model output.
// The span from the first '{' to the last '}' is tried first, then the
// whole text, then the contents of a markdown code fence.
func ExtractJSON(raw string) (map[string]any, error) {
	text := strings.TrimSpace(raw)

	var candidates []string
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		candidates = append(candidates, text[start:end+1])
	}
	candidates = append(candidates, text)
	if m := jsonBlockRegex.FindStringSubmatch(text); len(m) >= 2 {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}

	for _, candidate := range candidates {
		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err == nil && obj != nil {
			return obj, nil
		}
	}

	return nil, fmt.Errorf("%w: no JSON object in response: %s", model.ErrInvalidModelOutput, snippet(text))
}

func snippet(s string) string {
	if len(s) <= maxSnippet {
		return s
	}
	return s[:maxSnippet] + "..."
}
