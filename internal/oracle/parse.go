package oracle

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*")

func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// fixes invalid JSON escape sequences such as \N by escaping the backslash,
// keeping the literal text in the decoded value.
func fixInvalidEscapes(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	i := 0
	for i < len(s) {
		if i < len(s)-1 && s[i] == '\\' {
			next := s[i+1]
			switch next {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
				result.WriteByte(s[i])
				result.WriteByte(next)
			default:
				result.WriteString("\\\\")
				result.WriteByte(next)
			}
			i += 2
			continue
		}
		result.WriteByte(s[i])
		i++
	}

	return result.String()
}

// extractJSON walks the response looking for the first JSON value that
// accept takes. Models like to wrap answers in prose or code fences, so
// every '{' or '[' is tried as a starting point.
func extractJSON(text string, accept func(raw json.RawMessage) bool) error {
	text = fixInvalidEscapes(cleanJSONResponse(text))

	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		decoder := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			continue
		}
		if accept(raw) {
			return nil
		}
	}

	return fmt.Errorf(
		"%w: no usable JSON found (response: %s)",
		ErrMalformedOutput,
		truncateString(text, 200),
	)
}

// unwrap returns the value under the first wrapper key present in an
// object, or raw itself when none is.
func unwrap(raw json.RawMessage, keys ...string) json.RawMessage {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return raw
	}
	for _, key := range keys {
		if field, ok := wrapper[key]; ok {
			return field
		}
	}
	return raw
}
