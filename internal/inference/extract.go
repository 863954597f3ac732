package inference

import (
	"encoding/json"
)

// extractObject finds the first substring of text that parses as a JSON
// object and unmarshals it. Models are not trusted to emit only JSON, so
// prose before and after the object is tolerated.
//
// Candidates are found by balanced-brace scanning (string literals and
// escapes respected) rather than a non-greedy regexp, so an object whose
// values contain nested braces is still matched whole.
func extractObject(text string) (map[string]any, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}

		end, ok := matchBrace(text, start)
		if !ok {
			continue
		}

		var object map[string]any
		if err := json.Unmarshal([]byte(text[start:end+1]), &object); err == nil {
			return object, true
		}
	}

	return nil, false
}

// matchBrace returns the index of the brace closing the object that opens
// at start.
func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}
