package genai

import "github.com/tidwall/gjson"

// shapeMatcher names one known response shape and the path holding its
// generated text. Matchers are tried in order; the first non-empty string
// wins.
type shapeMatcher struct {
	name string
	path string
}

// Known shapes, current first, legacy wrappers after.
var shapeMatchers = []shapeMatcher{
	{"gemini candidates", "candidates.0.content.parts.0.text"},
	{"flat text", "text"},
	{"output text", "output.text"},
	{"output string", "output"},
	{"result text", "result.text"},
	{"result string", "result"},
}

// ExtractText pulls generated text out of a success response body. It
// reports false when the body is not JSON or no known shape holds a
// non-empty string.
func ExtractText(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	for _, m := range shapeMatchers {
		res := gjson.GetBytes(body, m.path)
		if res.Type == gjson.String && res.Str != "" {
			return res.Str, true
		}
	}
	return "", false
}
