// Package instructions serializes the knowledge map into the briefing
// document handed to the external conversational agent.
package instructions

import (
	"fmt"
	"sort"
	"strings"

	"research-agent/config"
	"research-agent/knowledge"
)

const (
	authorTitleLen  = 25
	titlesPerAuthor = 3
	dateLen         = 11
)

// Synthesize builds the complete instruction document. The per-article
// directory covers every article, so the document grows linearly with
// the corpus. An empty corpus yields the fixed fallback document.
func Synthesize(cfg *config.Config, articles []knowledge.Article, km *knowledge.Map) string {
	if len(articles) == 0 {
		return cfg.FallbackInstructions
	}

	latest := km.Latest

	var directory strings.Builder
	directory.WriteString("COMPLETE ARTICLE DIRECTORY:\n")
	for i := range articles {
		a := &articles[i]
		fmt.Fprintf(&directory, "%d. %s (%s, %s)\n", i+1, a.Title, a.Author, knowledge.Truncate(a.Published, dateLen))
		fmt.Fprintf(&directory, "   Summary: %s...\n", knowledge.Truncate(a.Summary, cfg.SummaryMaxLength))
		fmt.Fprintf(&directory, "   Key content: %s...\n\n", knowledge.Truncate(a.FullContent, cfg.ContentPreviewLength))
	}

	var authorSummary strings.Builder
	for _, author := range sortedAuthors(km.ByAuthor) {
		works := km.ByAuthor[author]
		fmt.Fprintf(&authorSummary, "\n%s: %d articles", author, len(works))
		var titles []string
		for _, work := range works {
			if len(titles) == titlesPerAuthor {
				break
			}
			titles = append(titles, knowledge.Truncate(work.Title, authorTitleLen))
		}
		fmt.Fprintf(&authorSummary, " - %s", strings.Join(titles, "; "))
	}

	tools := make([]string, 0, len(km.ToolsMentioned))
	for tool := range km.ToolsMentioned {
		tools = append(tools, tool)
	}
	sort.Strings(tools)

	brand := strings.ToUpper(cfg.BrandMarker)

	var doc strings.Builder
	doc.WriteString("LANGUAGE: ALWAYS RESPOND IN ENGLISH ONLY. NEVER USE SPANISH OR ANY OTHER LANGUAGE.\n\n")
	fmt.Fprintf(&doc, "You are a %s research expert with EXCLUSIVE ACCESS to our proprietary research content.\n\n", cfg.ExpertDomain)
	fmt.Fprintf(&doc, "COMMUNICATION: %s\n\n", cfg.CommunicationStyle)
	fmt.Fprintf(&doc, "LATEST ARTICLE: %q by %s\n\n", latest.Title, latest.Author)
	fmt.Fprintf(&doc, "AUTHOR EXPERTISE:%s\n\n", authorSummary.String())
	fmt.Fprintf(&doc, "Tools: %s\n\n", strings.Join(tools, ", "))
	doc.WriteString(directory.String())
	doc.WriteString("CRITICAL CONTENT-FIRST POLICY - ENGLISH ONLY:\n")
	doc.WriteString("- MANDATORY: Always respond in English, never in Spanish or other languages\n")
	fmt.Fprintf(&doc, "- %s-SPECIFIC PRIORITY: For ANY question about \"Center of Excellence\", \"CoE\", or %q, "+
		"FIRST check the %s-specific articles in the directory above\n", brand, cfg.BrandMarker, brand)
	fmt.Fprintf(&doc, "- CONTENT-FIRST RULE: ALWAYS search through ALL %d articles FIRST before any response\n", len(articles))
	fmt.Fprintf(&doc, "- NEVER give general answers about topics - ONLY use content from our %d articles above\n", len(articles))
	doc.WriteString("- For \"interesting technology\" - reference specific tools/models from our articles only\n")
	fmt.Fprintf(&doc, "- ONLY if absolutely NO connection exists in our content, ask: \"I don't see this topic in our "+
		"%d research articles. Are you asking about something outside our %s research?\"\n", len(articles), cfg.ExpertDomain)
	fmt.Fprintf(&doc, "- Articles are ordered by FEED POSITION: #1 is LATEST, #%d is EARLIEST\n", len(articles))
	doc.WriteString("- Reference articles by number, title, author, and exact date from our collection\n")
	doc.WriteString("- Use exact content from the key content summaries above\n")
	doc.WriteString("- Never say \"not available\" - all our content is accessible above\n")
	doc.WriteString("- REMINDER: All responses must be in English language only")

	return doc.String()
}

func sortedAuthors(byAuthor map[string][]knowledge.AuthorWork) []string {
	authors := make([]string, 0, len(byAuthor))
	for author := range byAuthor {
		authors = append(authors, author)
	}
	sort.Strings(authors)
	return authors
}
