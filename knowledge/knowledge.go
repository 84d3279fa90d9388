// Package knowledge holds the article corpus model and the derived
// knowledge map consumed by the query engine and the instruction
// synthesizer.
package knowledge

import (
	"research-agent/concepts"
)

// Article is one corpus entry. Records are always present even when
// fields fall back to placeholders; the corpus never contains a nil
// record. Articles are immutable after the initialization fetch.
type Article struct {
	Title       string
	Author      string
	Published   string
	Link        string
	Summary     string
	FullContent string
}

// ChronoEntry is one row of the fetch-order view. Rank 1 is the most
// recent article (source feed order, never re-sorted by date).
type ChronoEntry struct {
	Title     string
	Author    string
	Rank      int
	Published string
	KeyPoints string
}

// AuthorWork is one article under an author grouping.
type AuthorWork struct {
	Title    string
	Summary  string
	Concepts concepts.Concepts
}

// Finding is the derived per-article record in KeyFindings.
type Finding struct {
	Author          string
	MainFocus       string
	ToolsUsed       []string
	ModelsDiscussed []string
	Methodologies   []string
	FullContext     string
}

// Budgets bounds the excerpt lengths written into the map.
type Budgets struct {
	Summary       int
	Context       int
	ChronoExcerpt int
}

// Map is the single derived index over the corpus. It is built exactly
// once per initialization and read-only afterward, so concurrent
// readers need no locking.
type Map struct {
	ChronologicalOrder []ChronoEntry
	ByAuthor           map[string][]AuthorWork
	KeyFindings        map[string]Finding
	ToolsMentioned     map[string]bool
	Latest             *Article
	Earliest           *Article

	// rankByTitle replaces the original linear title rescan; first
	// occurrence wins so duplicate titles keep the lowest rank.
	rankByTitle map[string]int
}

// Build aggregates the fetched corpus into a cross-indexed map with a
// single pass in fetch order. An empty corpus yields an empty but
// well-formed map with nil Latest/Earliest.
func Build(articles []Article, extractor *concepts.Extractor, budgets Budgets) *Map {
	m := &Map{
		ChronologicalOrder: []ChronoEntry{},
		ByAuthor:           map[string][]AuthorWork{},
		KeyFindings:        map[string]Finding{},
		ToolsMentioned:     map[string]bool{},
		rankByTitle:        map[string]int{},
	}

	if len(articles) == 0 {
		return m
	}

	// The feed arrives latest-first.
	m.Latest = &articles[0]
	m.Earliest = &articles[len(articles)-1]

	for i := range articles {
		a := &articles[i]
		rank := i + 1

		m.ChronologicalOrder = append(m.ChronologicalOrder, ChronoEntry{
			Title:     a.Title,
			Author:    a.Author,
			Rank:      rank,
			Published: a.Published,
			KeyPoints: Excerpt(a.FullContent, budgets.ChronoExcerpt),
		})

		c := extractor.Extract(a.FullContent, a.Title)

		m.ByAuthor[a.Author] = append(m.ByAuthor[a.Author], AuthorWork{
			Title:    a.Title,
			Summary:  Truncate(a.Summary, 200),
			Concepts: c,
		})

		for _, tool := range c.Tools {
			m.ToolsMentioned[tool] = true
		}

		m.KeyFindings[a.Title] = Finding{
			Author:          a.Author,
			MainFocus:       Truncate(a.Summary, budgets.Summary),
			ToolsUsed:       c.Tools,
			ModelsDiscussed: c.Models,
			Methodologies:   c.Methodologies,
			FullContext:     Truncate(a.FullContent, budgets.Context),
		}

		if _, seen := m.rankByTitle[a.Title]; !seen {
			m.rankByTitle[a.Title] = rank
		}
	}

	return m
}

// RankOf returns the 1-based fetch-order rank for a title, or 0 when
// the title is not in the corpus.
func (m *Map) RankOf(title string) int {
	return m.rankByTitle[title]
}

// Truncate bounds s to at most n characters. Budgets count characters,
// not bytes, so a cut never lands inside a multi-byte rune.
func Truncate(s string, n int) string {
	if n < 0 || len(s) <= n {
		return s
	}
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

// Excerpt bounds s to at most n characters and appends an ellipsis
// when content was cut.
func Excerpt(s string, n int) string {
	cut := Truncate(s, n)
	if len(cut) == len(s) {
		return s
	}
	return cut + "..."
}
