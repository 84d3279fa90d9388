// Package query classifies user questions into intents and renders
// answers from the knowledge map.
package query

import (
	"fmt"
	"sort"
	"strings"

	"research-agent/config"
	"research-agent/knowledge"
)

// Per-intent excerpt budgets (characters) and the result cap. These are
// fixed display policy, not call-time knobs.
const (
	topResults       = 3
	coeContextLen    = 300
	techContextLen   = 250
	latestContextLen = 400
	searchContextLen = 200
	dateLen          = 11
	minTokenLen      = 3
)

// Engine answers questions over an immutable knowledge map. It keeps
// no per-call state, so concurrent Answer calls are safe.
type Engine struct {
	cfg     *config.Config
	km      *knowledge.Map
	corpus  []knowledge.Article
	intents []intent
}

// intent pairs a trigger predicate with a handler. Handlers return ""
// to fall through to the next intent.
type intent struct {
	name   string
	match  func(q string) bool
	handle func(q string) string
}

// NewEngine creates a query engine over the built map and corpus.
func NewEngine(cfg *config.Config, km *knowledge.Map, corpus []knowledge.Article) *Engine {
	e := &Engine{cfg: cfg, km: km, corpus: corpus}
	e.intents = []intent{
		{name: "domain_excellence", match: e.matchExcellence, handle: e.answerExcellence},
		{name: "technology", match: e.matchTechnology, handle: e.answerTechnology},
		{name: "author", match: matchAny, handle: e.answerAuthor},
		{name: "recency", match: e.matchRecency, handle: e.answerRecency},
		{name: "keyword_search", match: matchAny, handle: e.answerKeywordSearch},
	}
	return e
}

// Answer classifies the query and renders the first non-empty result.
// Intent order is first-match-wins; a handler returning "" falls
// through to the next intent.
func (e *Engine) Answer(query string) string {
	q := strings.ToLower(query)

	for _, in := range e.intents {
		if !in.match(q) {
			continue
		}
		if answer := in.handle(q); answer != "" {
			return answer
		}
	}

	return e.notCoveredMessage()
}

func matchAny(string) bool { return true }

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// --- Domain-excellence intent ---

var excellenceMarkers = []string{
	"framework", "governance", "methodology", "validation",
	"enterprise", "center", "excellence", "impact", "adoption",
}

var brandTitleMarkers = []string{"impact", "adoption", "defining"}

func (e *Engine) matchExcellence(q string) bool {
	terms := []string{"center of excellence", "coe", "ai center", "excellence", e.cfg.BrandMarker}
	return containsAny(q, terms)
}

// answerExcellence always produces a response once matched: the
// brand-authoritative article, the top related findings, or the
// not-covered message.
func (e *Engine) answerExcellence(string) string {
	// Priority 1: a brand article whose title itself carries an
	// impact/adoption/defining marker is the single authoritative answer.
	for i := range e.corpus {
		a := &e.corpus[i]
		title := strings.ToLower(a.Title)
		if strings.Contains(title, e.cfg.BrandMarker) && containsAny(title, brandTitleMarkers) {
			return e.renderBrandHighlight(i+1, a)
		}
	}

	// Priority 2: findings whose text touches governance/excellence
	// topics, brand-specific entries first.
	type coeResult struct {
		number  int
		title   string
		finding knowledge.Finding
		isBrand bool
	}

	var results []coeResult
	for i := range e.corpus {
		title := e.corpus[i].Title
		finding, ok := e.km.KeyFindings[title]
		if !ok {
			continue
		}
		check := strings.ToLower(title + " " + finding.MainFocus + " " + finding.FullContext)
		if !containsAny(check, excellenceMarkers) {
			continue
		}
		results = append(results, coeResult{
			number:  e.km.RankOf(title),
			title:   title,
			finding: finding,
			isBrand: strings.Contains(check, e.cfg.BrandMarker),
		})
	}

	// Brand-specific entries first; the scan is already in ascending
	// rank order, so a stable sort keeps that within each group.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].isBrand && !results[j].isBrand
	})

	if len(results) == 0 {
		return fmt.Sprintf("I don't see AI Center of Excellence specifically covered in our %d %s "+
			"research articles. Are you asking about something outside our research focus?",
			len(e.corpus), e.cfg.ExpertDomain)
	}

	brandLabel := " (" + strings.ToUpper(e.cfg.BrandMarker) + "-SPECIFIC)"

	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on our %s research on Centers of Excellence:\n\n", e.cfg.ExpertDomain)
	for _, r := range capResults(results) {
		label := ""
		if r.isBrand {
			label = brandLabel
		}
		fmt.Fprintf(&sb, "Article #%d: '%s' by %s%s\n", r.number, r.title, r.finding.Author, label)
		fmt.Fprintf(&sb, "Focus: %s\n", r.finding.MainFocus)
		fmt.Fprintf(&sb, "Key insights: %s\n", knowledge.Truncate(r.finding.FullContext, coeContextLen))
		if len(r.finding.Methodologies) > 0 {
			fmt.Fprintf(&sb, "Methodologies: %s\n", strings.Join(r.finding.Methodologies, ", "))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "We have %d articles covering AI governance and impact measurement. "+
		"The %s-specific content shows how we differ from other companies through empirical "+
		"validation and continuous improvement.", len(results), e.cfg.BrandMarker)

	return sb.String()
}

func (e *Engine) renderBrandHighlight(number int, a *knowledge.Article) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Here's %s's specific Center of Excellence approach from our research:\n\n", e.cfg.ExpertDomain)
	fmt.Fprintf(&sb, "Article #%d: '%s' by %s\n\n", number, a.Title, a.Author)
	fmt.Fprintf(&sb, "Summary: %s\n\n", a.Summary)
	fmt.Fprintf(&sb, "Key details from the research:\n%s...\n\n", knowledge.Truncate(a.FullContent, e.cfg.HighlightLength))
	fmt.Fprintf(&sb, "This article provides specific insights into how %s's AI Center of Excellence "+
		"differs from other companies through data-driven approaches and measurable impact metrics.",
		e.cfg.ExpertDomain)
	return sb.String()
}

// --- Technology intent ---

func (e *Engine) matchTechnology(q string) bool {
	return containsAny(q, []string{"technology", "tool", "interesting", "covered", "model", "platform"})
}

func (e *Engine) answerTechnology(string) string {
	type techResult struct {
		number  int
		title   string
		finding knowledge.Finding
	}

	var results []techResult
	for i := range e.corpus {
		title := e.corpus[i].Title
		finding, ok := e.km.KeyFindings[title]
		if !ok {
			continue
		}
		if len(finding.ToolsUsed) == 0 && len(finding.ModelsDiscussed) == 0 {
			continue
		}
		results = append(results, techResult{
			number:  e.km.RankOf(title),
			title:   title,
			finding: finding,
		})
	}

	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Most interesting technologies covered in our %s research:\n\n", e.cfg.ExpertDomain)
	for _, r := range capResults(results) {
		fmt.Fprintf(&sb, "Article #%d: '%s' by %s\n", r.number, r.title, r.finding.Author)
		if len(r.finding.ToolsUsed) > 0 {
			fmt.Fprintf(&sb, "Tools discussed: %s\n", strings.Join(r.finding.ToolsUsed, ", "))
		}
		if len(r.finding.ModelsDiscussed) > 0 {
			fmt.Fprintf(&sb, "Models analyzed: %s\n", strings.Join(r.finding.ModelsDiscussed, ", "))
		}
		fmt.Fprintf(&sb, "Context: %s\n\n", knowledge.Truncate(r.finding.FullContext, techContextLen))
	}
	fmt.Fprintf(&sb, "Overall technologies: %s\n\n", strings.Join(sortedTools(e.km.ToolsMentioned), ", "))
	sb.WriteString("Which specific technology or implementation would you like me to explain in detail?")

	return sb.String()
}

func sortedTools(set map[string]bool) []string {
	tools := make([]string, 0, len(set))
	for tool := range set {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	return tools
}

// --- Author intent ---

// answerAuthor renders an author's works when the query names a known
// author. Authors without recorded works fall through silently.
func (e *Engine) answerAuthor(q string) string {
	// The alias table is a yaml map and carries no declaration order,
	// so precedence is pinned alphabetically by alias: a query naming
	// two known authors resolves to the alphabetically first alias.
	aliases := make([]string, 0, len(e.cfg.AuthorAliases))
	for alias := range e.cfg.AuthorAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	for _, alias := range aliases {
		fullName := e.cfg.AuthorAliases[alias]
		if !strings.Contains(q, alias) && !strings.Contains(q, strings.ToLower(fullName)) {
			continue
		}
		works := e.km.ByAuthor[fullName]
		if len(works) == 0 {
			continue
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s's research expertise in our %s collection:\n\n", fullName, e.cfg.ExpertDomain)
		for _, work := range works {
			fmt.Fprintf(&sb, "#%d: '%s'\n", e.km.RankOf(work.Title), work.Title)
			fmt.Fprintf(&sb, "Summary: %s\n", work.Summary)
			if len(work.Concepts.Tools) > 0 {
				fmt.Fprintf(&sb, "Tools: %s\n", strings.Join(work.Concepts.Tools, ", "))
			}
			if len(work.Concepts.Methodologies) > 0 {
				fmt.Fprintf(&sb, "Methods: %s\n", strings.Join(work.Concepts.Methodologies, ", "))
			}
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s has %d articles in our research. Which specific work interests you most?",
			fullName, len(works))

		return sb.String()
	}

	return ""
}

// --- Recency intent ---

func (e *Engine) matchRecency(q string) bool {
	return containsAny(q, []string{"latest", "recent", "new"})
}

func (e *Engine) answerRecency(string) string {
	latest := e.km.Latest
	if latest == nil {
		return ""
	}

	finding := e.km.KeyFindings[latest.Title]

	focus := finding.MainFocus
	if focus == "" {
		focus = latest.Summary
	}
	context := finding.FullContext
	if context == "" {
		context = latest.FullContent
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Our latest research: Article #1 '%s' by %s\n\n", latest.Title, latest.Author)
	fmt.Fprintf(&sb, "Published: %s\n", knowledge.Truncate(latest.Published, dateLen))
	fmt.Fprintf(&sb, "Focus: %s\n\n", focus)
	if len(finding.ToolsUsed) > 0 {
		fmt.Fprintf(&sb, "Tools discussed: %s\n", strings.Join(finding.ToolsUsed, ", "))
	}
	if len(finding.ModelsDiscussed) > 0 {
		fmt.Fprintf(&sb, "Models: %s\n", strings.Join(finding.ModelsDiscussed, ", "))
	}
	fmt.Fprintf(&sb, "\nKey insights: %s...", knowledge.Truncate(context, latestContextLen))

	return sb.String()
}

// --- Keyword fallback search ---

func (e *Engine) answerKeywordSearch(q string) string {
	var tokens []string
	for _, word := range strings.Fields(q) {
		if len(word) > minTokenLen {
			tokens = append(tokens, word)
		}
	}

	type searchResult struct {
		score   int
		number  int
		title   string
		finding knowledge.Finding
	}

	var results []searchResult
	for i := range e.corpus {
		title := e.corpus[i].Title
		finding, ok := e.km.KeyFindings[title]
		if !ok {
			continue
		}
		text := strings.ToLower(title + " " + finding.MainFocus + " " + finding.FullContext)
		score := 0
		for _, token := range tokens {
			if strings.Contains(text, token) {
				score++
			}
		}
		if score > 0 {
			results = append(results, searchResult{
				score:   score,
				number:  e.km.RankOf(title),
				title:   title,
				finding: finding,
			})
		}
	}

	if len(results) == 0 {
		return ""
	}

	// Descending by score; equal scores keep fetch order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found relevant content in our %s research:\n\n", e.cfg.ExpertDomain)
	for _, r := range capResults(results) {
		fmt.Fprintf(&sb, "Article #%d: '%s' by %s\n", r.number, r.title, r.finding.Author)
		fmt.Fprintf(&sb, "Relevance: %s\n", r.finding.MainFocus)
		fmt.Fprintf(&sb, "Details: %s...\n\n", knowledge.Truncate(r.finding.FullContext, searchContextLen))
	}
	sb.WriteString("Which article would you like me to analyze in detail?")

	return sb.String()
}

func (e *Engine) notCoveredMessage() string {
	return fmt.Sprintf("I don't see this topic covered in our %d %s research articles. "+
		"Are you asking about something outside our research scope? "+
		"Please confirm if you'd like general information instead.",
		len(e.corpus), e.cfg.ExpertDomain)
}

// capResults bounds a result list to the fixed display cap.
func capResults[T any](results []T) []T {
	if len(results) > topResults {
		return results[:topResults]
	}
	return results
}
