package instructions

import (
	"fmt"
	"strings"
	"testing"

	"research-agent/concepts"
	"research-agent/config"
	"research-agent/knowledge"
)

func buildFixtures(t *testing.T, articles []knowledge.Article) (*config.Config, *knowledge.Map) {
	t.Helper()
	cfg := config.Default()
	extractor := concepts.NewExtractor(cfg.ToolPatterns, cfg.ModelPatterns, cfg.MethodologyPatterns)
	km := knowledge.Build(articles, extractor, knowledge.Budgets{
		Summary:       cfg.SummaryMaxLength,
		Context:       cfg.ContextLength,
		ChronoExcerpt: cfg.ChronoExcerptLength,
	})
	return cfg, km
}

func TestSynthesizeEmptyCorpusFallback(t *testing.T) {
	cfg, km := buildFixtures(t, nil)

	doc := Synthesize(cfg, nil, km)

	if doc != cfg.FallbackInstructions {
		t.Errorf("doc = %q, want fixed fallback", doc)
	}
}

func TestSynthesizeDirectoryCoversEveryArticle(t *testing.T) {
	var articles []knowledge.Article
	for i := 0; i < 7; i++ {
		articles = append(articles, knowledge.Article{
			Title:       fmt.Sprintf("Study %d", i+1),
			Author:      "Ann",
			Published:   "2025-08-01T09:00:00Z",
			Summary:     "summary text",
			FullContent: "content text",
		})
	}
	cfg, km := buildFixtures(t, articles)

	doc := Synthesize(cfg, articles, km)

	if !strings.Contains(doc, "COMPLETE ARTICLE DIRECTORY:") {
		t.Fatal("directory header missing")
	}
	for i := range articles {
		entry := fmt.Sprintf("%d. Study %d (Ann, 2025-08-01T)", i+1, i+1)
		if !strings.Contains(doc, entry) {
			t.Errorf("directory entry missing: %q", entry)
		}
	}
	if !strings.Contains(doc, "#1 is LATEST, #7 is EARLIEST") {
		t.Errorf("feed-position directive missing")
	}
}

func TestSynthesizeAuthorSummaryCapsTitles(t *testing.T) {
	var articles []knowledge.Article
	for i := 0; i < 5; i++ {
		articles = append(articles, knowledge.Article{
			Title:  fmt.Sprintf("A Very Long Research Title Number %d", i+1),
			Author: "Prolific Author",
		})
	}
	cfg, km := buildFixtures(t, articles)

	doc := Synthesize(cfg, articles, km)

	if !strings.Contains(doc, "Prolific Author: 5 articles") {
		t.Errorf("author count missing")
	}
	// Up to 3 titles, each truncated to 25 characters.
	wantTitles := "A Very Long Research Titl; A Very Long Research Titl; A Very Long Research Titl\n"
	if !strings.Contains(doc, wantTitles) {
		t.Errorf("author summary titles not capped at 3 truncated entries")
	}
}

func TestSynthesizeSortedTools(t *testing.T) {
	articles := []knowledge.Article{
		{Title: "T", Author: "Ann", FullContent: "postgresql, n8n and google together"},
	}
	cfg, km := buildFixtures(t, articles)

	doc := Synthesize(cfg, articles, km)

	if !strings.Contains(doc, "Tools: Google, N8N, Postgresql") {
		t.Errorf("sorted tools line missing from doc")
	}
}

func TestSynthesizePolicyDirectives(t *testing.T) {
	articles := []knowledge.Article{
		{Title: "Solo", Author: "Ann", Summary: "s", FullContent: "c"},
	}
	cfg, km := buildFixtures(t, articles)

	doc := Synthesize(cfg, articles, km)

	for _, want := range []string{
		"LANGUAGE: ALWAYS RESPOND IN ENGLISH ONLY.",
		"You are a Trilogy AI research expert",
		`LATEST ARTICLE: "Solo" by Ann`,
		"TRILOGY-SPECIFIC PRIORITY",
		"ALWAYS search through ALL 1 articles FIRST",
		`Never say "not available"`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("directive missing: %q", want)
		}
	}
}
