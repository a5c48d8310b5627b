// Package llmjson locates and decodes JSON embedded in LLM output.
//
// Model responses are expected, but never guaranteed, to contain a JSON
// document, often wrapped in a markdown code fence. Every call site that
// parses model output goes through Decode so the tolerance policy lives in
// one place.
package llmjson

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// Result is the outcome of a tolerant decode: either the target was
// populated (Parsed) or the raw text is kept for logging (Malformed).
type Result struct {
	Parsed bool
	Raw    string
	Err    error
}

// Malformed reports whether the text could not be decoded into the target.
func (r Result) Malformed() bool {
	return !r.Parsed
}

// Extract returns the most plausible JSON region of text: the first fenced
// code block if present, otherwise the outermost object or array bounds,
// otherwise the text as-is.
func Extract(text string) string {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	switch {
	case startObj != -1 && endObj > startObj && (startArr == -1 || startObj < startArr):
		return text[startObj : endObj+1]
	case startArr != -1 && endArr > startArr:
		return text[startArr : endArr+1]
	}

	return strings.TrimSpace(text)
}

// Decode extracts the JSON region of text and unmarshals it into target.
// It never panics or partially populates on failure: a Malformed result
// carries the raw text and the decode error, and target must be treated as
// untouched.
func Decode(text string, target any) Result {
	raw := Extract(text)
	if strings.TrimSpace(raw) == "" {
		return Result{Parsed: false, Raw: text}
	}

	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return Result{Parsed: false, Raw: text, Err: err}
	}

	return Result{Parsed: true, Raw: raw}
}
