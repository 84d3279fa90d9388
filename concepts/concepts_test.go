package concepts

import (
	"reflect"
	"testing"
)

func newTestExtractor() *Extractor {
	return NewExtractor(
		[]string{"openevolve", "postgresql", "n8n", "google"},
		[]string{"qwen", "gpt", "claude", "llm"},
		[]string{"algo trading", "multi-model", "automation"},
	)
}

func TestExtractMatchesInVocabularyOrder(t *testing.T) {
	e := newTestExtractor()
	content := "We used Google and PostgreSQL with GPT and a multi-model automation setup."

	c := e.Extract(content, "ignored")

	if want := []string{"Postgresql", "Google"}; !reflect.DeepEqual(c.Tools, want) {
		t.Errorf("Tools = %v, want %v", c.Tools, want)
	}
	if want := []string{"Gpt"}; !reflect.DeepEqual(c.Models, want) {
		t.Errorf("Models = %v, want %v", c.Models, want)
	}
	if want := []string{"Multi-Model", "Automation"}; !reflect.DeepEqual(c.Methodologies, want) {
		t.Errorf("Methodologies = %v, want %v", c.Methodologies, want)
	}
}

func TestExtractLLMUpperCased(t *testing.T) {
	e := newTestExtractor()
	c := e.Extract("every llm benchmark", "")

	if want := []string{"LLM"}; !reflect.DeepEqual(c.Models, want) {
		t.Errorf("Models = %v, want %v", c.Models, want)
	}
}

func TestExtractSubstringOverMatch(t *testing.T) {
	// No word boundaries: "llm" matches inside longer tokens.
	e := newTestExtractor()
	c := e.Extract("the wellmade pipeline", "")

	if want := []string{"LLM"}; !reflect.DeepEqual(c.Models, want) {
		t.Errorf("Models = %v, want %v (substring matching)", c.Models, want)
	}
}

func TestExtractDeterministic(t *testing.T) {
	e := newTestExtractor()
	content := "claude and qwen drive the n8n automation via openevolve"

	first := e.Extract(content, "t")
	for i := 0; i < 5; i++ {
		again := e.Extract(content, "t")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("extraction not deterministic: %v vs %v", first, again)
		}
	}

	if want := []string{"Qwen", "Claude"}; !reflect.DeepEqual(first.Models, want) {
		t.Errorf("Models = %v, want %v (vocabulary order)", first.Models, want)
	}
}

func TestExtractReservedSlotsEmpty(t *testing.T) {
	e := newTestExtractor()
	c := e.Extract("gpt automation", "")

	if len(c.Metrics) != 0 || len(c.Frameworks) != 0 {
		t.Errorf("Metrics/Frameworks = %v/%v, want empty", c.Metrics, c.Frameworks)
	}
}

func TestExtractNoMatches(t *testing.T) {
	e := newTestExtractor()
	c := e.Extract("nothing relevant here", "")

	if len(c.Tools) != 0 || len(c.Models) != 0 || len(c.Methodologies) != 0 {
		t.Errorf("got matches %v for unrelated content", c)
	}
}
