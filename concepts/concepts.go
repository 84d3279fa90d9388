// Package concepts tags article text against configured vocabularies.
package concepts

import (
	"strings"
	"unicode"
)

// Concepts holds the vocabulary matches for one article. Slices keep
// vocabulary order. Metrics and Frameworks are reserved extension
// points and stay empty with the current vocabulary configuration.
type Concepts struct {
	Tools         []string
	Models        []string
	Methodologies []string
	Metrics       []string
	Frameworks    []string
}

// Extractor matches configured vocabularies against article content.
// Matching is case-insensitive substring matching without word
// boundaries, so entries can over-match inside longer words.
type Extractor struct {
	tools   []string
	models  []string
	methods []string
}

// NewExtractor creates an extractor for the given vocabularies.
func NewExtractor(tools, models, methods []string) *Extractor {
	return &Extractor{
		tools:   tools,
		models:  models,
		methods: methods,
	}
}

// Extract scans content for vocabulary entries and returns the matches
// in vocabulary order. The title is accepted for parity with callers
// that have it on hand; matching runs on content only.
func (e *Extractor) Extract(content, title string) Concepts {
	_ = title
	lower := strings.ToLower(content)

	c := Concepts{
		Tools:         []string{},
		Models:        []string{},
		Methodologies: []string{},
		Metrics:       []string{},
		Frameworks:    []string{},
	}

	for _, tool := range e.tools {
		if strings.Contains(lower, tool) {
			c.Tools = append(c.Tools, titleCase(tool))
		}
	}
	for _, model := range e.models {
		if strings.Contains(lower, model) {
			if model == "llm" {
				c.Models = append(c.Models, strings.ToUpper(model))
			} else {
				c.Models = append(c.Models, titleCase(model))
			}
		}
	}
	for _, method := range e.methods {
		if strings.Contains(lower, method) {
			c.Methodologies = append(c.Methodologies, titleCase(method))
		}
	}

	return c
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "algo trading" becomes "Algo Trading" and
// "multi-model" becomes "Multi-Model".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
