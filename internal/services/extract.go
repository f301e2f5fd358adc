package services

import (
	"bytes"
	"encoding/json"
	"regexp"

	"alfredoptarigan/skillsync/internal/config"
)

// greedySpan is the legacy first-bracket-to-last-bracket span. It can run
// across two separate objects.
var greedySpan = regexp.MustCompile(`(?s)\{.*\}|\[.*\]`)

// JSONExtractor pulls the JSON payload out of free-form model output.
type JSONExtractor struct {
	mode string
}

func NewJSONExtractor(mode string) *JSONExtractor {
	if mode != config.ExtractionGreedy {
		mode = config.ExtractionBalanced
	}
	return &JSONExtractor{mode: mode}
}

func (e *JSONExtractor) Mode() string {
	return e.mode
}

// Extract returns the parsed JSON value embedded in a string or []byte input.
// When no span parses, it returns an empty object. Inputs that are not text
// are returned unchanged.
func (e *JSONExtractor) Extract(input any) any {
	var text string
	switch v := input.(type) {
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return input
	}

	span, ok := e.FindJSON(text)
	if !ok {
		return map[string]any{}
	}

	var parsed any
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return map[string]any{}
	}
	return parsed
}

// FindJSON locates the candidate JSON span in text using the extractor's mode.
func (e *JSONExtractor) FindJSON(text string) (string, bool) {
	if e.mode == config.ExtractionGreedy {
		return findGreedyJSON(text)
	}
	return findBalancedJSON(text)
}

func findGreedyJSON(text string) (string, bool) {
	span := greedySpan.FindString(text)
	return span, span != ""
}

// findBalancedJSON returns the first bracket-balanced span that is valid
// JSON and holds structure: an object, or an array with an object or array
// element. A scalar-only array such as a "[1]" citation is used only when
// nothing structured parses. Brackets inside string literals are ignored.
func findBalancedJSON(text string) (string, bool) {
	fallback := ""

	for start := 0; start < len(text); start++ {
		if text[start] != '{' && text[start] != '[' {
			continue
		}

		end := matchingClose(text, start)
		if end < 0 {
			continue
		}

		candidate := text[start : end+1]
		if !json.Valid([]byte(candidate)) {
			continue
		}
		if candidate[0] == '{' || hasCompositeElement(candidate) {
			return candidate, true
		}
		if fallback == "" {
			fallback = candidate
		}
		start = end
	}

	return fallback, fallback != ""
}

func hasCompositeElement(array string) bool {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(array), &items); err != nil {
		return false
	}
	for _, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
			return true
		}
	}
	return false
}

// matchingClose returns the index of the bracket closing text[start], or -1
// when the brackets are unbalanced or mismatched.
func matchingClose(text string, start int) int {
	stack := make([]byte, 0, 8)
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
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}
