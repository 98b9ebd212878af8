package gemini

import (
	"encoding/json"
	"strings"
)

// ExtractText locates the model's textual payload inside a provider response
// of unknown shape. Candidate paths are tried in priority order: Gemini
// vision content parts, plain output-text fields, chat-completion message
// content, then generic result/prediction fields. If nothing matches, the
// raw body is returned so the JSON recovery step always has input.
func ExtractText(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return string(body)
	}

	candidates := []any{
		dig(payload, "candidates", 0, "content", "parts", 0, "text"),
		payload["outputText"],
		payload["output_text"],
		payload["result"],
		dig(payload, "choices", 0, "message", "content"),
		dig(payload, "choices", 0, "text"),
		payload["prediction"],
	}
	for _, candidate := range candidates {
		if text := stringify(candidate); text != "" {
			return text
		}
	}

	return string(body)
}

// ExtractJSON recovers the brace-delimited object embedded in free text,
// scanning greedily from the first '{' to the last '}'. Providers routinely
// wrap the object in prose or markdown fences; the window tolerates both.
// Returns nil if no window exists or its contents are not a JSON object.
func ExtractJSON(text string) map[string]any {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil
	}
	return obj
}

// dig walks a decoded JSON value by map keys (string) and array indexes
// (int), returning nil as soon as the path breaks.
func dig(root any, path ...any) any {
	current := root
	for _, step := range path {
		switch key := step.(type) {
		case string:
			m, ok := current.(map[string]any)
			if !ok {
				return nil
			}
			current = m[key]
		case int:
			arr, ok := current.([]any)
			if !ok || key < 0 || key >= len(arr) {
				return nil
			}
			current = arr[key]
		default:
			return nil
		}
	}
	return current
}

// stringify coerces a decoded JSON value to a string. Lists and objects are
// re-encoded as JSON so they stay machine-readable when stored as text.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
