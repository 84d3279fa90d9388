// Package agent wires the fetch, build, and synthesis stages into the
// entry points consumed by the hosting conversational runtime.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"research-agent/concepts"
	"research-agent/config"
	"research-agent/instructions"
	"research-agent/knowledge"
	"research-agent/query"
)

const readyTitleLen = 40

// Fetcher retrieves the article corpus. It degrades internally and
// never fails observably.
type Fetcher interface {
	Fetch(ctx context.Context) []knowledge.Article
}

// VoiceSettings carries the static presentation settings the host
// applies to its audio/avatar pipeline.
type VoiceSettings struct {
	Voice       string
	Speed       float64
	AvatarImage string
}

// Agent is the knowledge engine behind one host session. Initialize
// runs once; every other method reads the immutable result. There is
// no re-initialization: a host needing a fresh corpus discards the
// agent and creates a new one.
type Agent struct {
	cfg     *config.Config
	fetcher Fetcher

	mu           sync.RWMutex
	initialized  bool
	engine       *query.Engine
	instructions string
}

// New creates an agent. The returned agent serves the fallback
// instruction document until Initialize succeeds.
func New(cfg *config.Config, fetcher Fetcher) *Agent {
	return &Agent{
		cfg:          cfg,
		fetcher:      fetcher,
		instructions: cfg.FallbackInstructions,
	}
}

// Initialize fetches the corpus, builds the knowledge map, and
// synthesizes the instruction document. It returns the user-facing
// greeting: the ready message on success, the unavailable message when
// the corpus is empty or initialization fails. Failures never surface
// raw error text.
func (a *Agent) Initialize(ctx context.Context) (greeting string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("initialization failed", "domain", a.cfg.ExpertDomain, "panic", r)
			greeting = a.cfg.UnavailableMessage
		}
	}()

	slog.Info("loading knowledge base", "domain", a.cfg.ExpertDomain)

	articles := a.fetcher.Fetch(ctx)
	if len(articles) == 0 {
		slog.Warn("no articles fetched, serving fallback instructions")
		return a.cfg.UnavailableMessage
	}
	slog.Info("knowledge base created", "articles", len(articles))

	extractor := concepts.NewExtractor(a.cfg.ToolPatterns, a.cfg.ModelPatterns, a.cfg.MethodologyPatterns)
	km := knowledge.Build(articles, extractor, knowledge.Budgets{
		Summary:       a.cfg.SummaryMaxLength,
		Context:       a.cfg.ContextLength,
		ChronoExcerpt: a.cfg.ChronoExcerptLength,
	})
	slog.Info("knowledge map created", "findings", len(km.KeyFindings))

	doc := instructions.Synthesize(a.cfg, articles, km)

	a.mu.Lock()
	a.engine = query.NewEngine(a.cfg, km, articles)
	a.instructions = doc
	a.initialized = true
	a.mu.Unlock()

	return fmt.Sprintf(a.cfg.ReadyMessage, len(articles), knowledge.Truncate(km.Latest.Title, readyTitleLen))
}

// Respond answers a user message from the knowledge map. Before
// initialization completes it returns the loading message.
func (a *Agent) Respond(userMessage string) string {
	a.mu.RLock()
	engine, ready := a.engine, a.initialized
	a.mu.RUnlock()

	if !ready {
		return a.cfg.LoadingMessage
	}
	return engine.Answer(userMessage)
}

// FullInstructions returns the instruction document for the external
// agent: the synthesized briefing after a successful Initialize, the
// fallback document otherwise.
func (a *Agent) FullInstructions() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.instructions
}

// VoiceSettings returns the static voice and avatar configuration.
func (a *Agent) VoiceSettings() VoiceSettings {
	return VoiceSettings{
		Voice:       a.cfg.Voice,
		Speed:       a.cfg.VoiceSpeed,
		AvatarImage: a.cfg.AvatarImage,
	}
}
