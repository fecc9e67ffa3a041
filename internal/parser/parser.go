// Package parser splits a free-text model response into labeled sections.
//
// The model is asked to separate its answer with "=== Heading ===" markers,
// but it does not always comply exactly. Headings are therefore matched by
// substring, and nothing in this package returns an error: a heading the
// model never wrote is simply absent from the result.
package parser

import "strings"

// Delimiter separates headings from bodies in a model response
const Delimiter = "==="

// Headings of the screenshot response, in the order the model is asked to write them
const (
	HeadingAnalysis     = "Color and Position Analysis"
	HeadingConversation = "Extracted Conversation Content"
	HeadingLatestOther  = "Other Person's Latest Message"
	HeadingSpeechStyle  = "My Speech Style Analysis"
)

// Sections maps a heading to the body that followed its first occurrence
type Sections struct {
	bodies map[string]string
}

// Split cuts raw on the delimiter and trims each fragment.
// Empty input yields a single empty fragment, like strings.Split.
func Split(raw string) []string {
	fragments := strings.Split(raw, Delimiter)
	for i, f := range fragments {
		fragments[i] = strings.TrimSpace(f)
	}
	return fragments
}

// Parse walks the fragments of raw in document order. A fragment that
// contains one of headings is taken as that heading and the next fragment
// becomes its body. Each fragment is attributed to the first listed heading
// it contains, and a heading keeps the body found at its first occurrence.
func Parse(raw string, headings ...string) Sections {
	s := Sections{bodies: make(map[string]string, len(headings))}
	fragments := Split(raw)

	for i, fragment := range fragments {
		for _, h := range headings {
			if h == "" || !strings.Contains(fragment, h) {
				continue
			}
			if _, seen := s.bodies[h]; !seen {
				body := ""
				if i+1 < len(fragments) {
					body = fragments[i+1]
				}
				s.bodies[h] = body
			}
			break
		}
	}

	return s
}

// Get returns the body recorded for heading and whether the heading was seen
func (s Sections) Get(heading string) (string, bool) {
	body, ok := s.bodies[heading]
	return body, ok
}

// Body returns the recorded body, or "" when the heading was never seen
func (s Sections) Body(heading string) string {
	return s.bodies[heading]
}

// Len is the number of recognized headings
func (s Sections) Len() int {
	return len(s.bodies)
}
