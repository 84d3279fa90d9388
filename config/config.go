package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all static, load-time application configuration.
type Config struct {
	// Knowledge source settings
	APIURL  string `yaml:"api_url"`
	FeedURL string `yaml:"feed_url"`

	// Domain identity used in templated responses
	ExpertDomain string `yaml:"expert_domain"`
	BrandMarker  string `yaml:"brand_marker"`

	// Voice and avatar presentation settings (passed through to the host)
	Voice       string  `yaml:"voice"`
	VoiceSpeed  float64 `yaml:"voice_speed"`
	AvatarImage string  `yaml:"avatar_image"`

	// Concept extraction vocabularies
	ToolPatterns        []string `yaml:"tool_patterns"`
	ModelPatterns       []string `yaml:"model_patterns"`
	MethodologyPatterns []string `yaml:"methodology_patterns"`

	// Content length budgets (characters)
	SummaryMaxLength     int `yaml:"summary_max_length"`
	ContentPreviewLength int `yaml:"content_preview_length"`
	ContextLength        int `yaml:"context_length"`
	ChronoExcerptLength  int `yaml:"chrono_excerpt_length"`
	HighlightLength      int `yaml:"highlight_length"`

	FetchTimeoutSecs int `yaml:"fetch_timeout_secs"`

	// Known author first-name aliases mapped to full names
	AuthorAliases map[string]string `yaml:"author_aliases"`

	// Canned user-facing messages
	CommunicationStyle   string `yaml:"communication_style"`
	ReadyMessage         string `yaml:"ready_message"`
	LoadingMessage       string `yaml:"loading_message"`
	UnavailableMessage   string `yaml:"unavailable_message"`
	FallbackInstructions string `yaml:"fallback_instructions"`

	LogLevel string `yaml:"log_level"`
}

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	applyDefaults(cfg)
	applyEnvironmentOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without reading a file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// GetConfigPath returns the config file path from environment or default.
func GetConfigPath() string {
	if path := os.Getenv("RESEARCH_AGENT_CONFIG"); path != "" {
		return path
	}
	return "./config.yaml"
}

func applyDefaults(cfg *Config) {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://trilogyai.substack.com/api/v1/posts?offset=0&limit=50"
	}
	if cfg.FeedURL == "" {
		cfg.FeedURL = "https://trilogyai.substack.com/feed"
	}
	if cfg.ExpertDomain == "" {
		cfg.ExpertDomain = "Trilogy AI"
	}
	if cfg.BrandMarker == "" {
		cfg.BrandMarker = "trilogy"
	}
	if cfg.Voice == "" {
		cfg.Voice = "ash"
	}
	if cfg.VoiceSpeed == 0 {
		cfg.VoiceSpeed = 1.2
	}
	if cfg.AvatarImage == "" {
		cfg.AvatarImage = "assets/stan.png"
	}
	if len(cfg.ToolPatterns) == 0 {
		cfg.ToolPatterns = []string{
			"openevolve", "firecrawl", "postgresql",
			"n8n", "airtable", "deepmind", "google", "livekit",
		}
	}
	if len(cfg.ModelPatterns) == 0 {
		cfg.ModelPatterns = []string{
			"qwen", "gpt", "claude", "llm", "grok", "kimi", "deepagent",
		}
	}
	if len(cfg.MethodologyPatterns) == 0 {
		cfg.MethodologyPatterns = []string{
			"crawl", "algo trading", "multi-model",
			"iterative", "automation", "discovery", "validation",
		}
	}
	if cfg.SummaryMaxLength == 0 {
		cfg.SummaryMaxLength = 100
	}
	if cfg.ContentPreviewLength == 0 {
		cfg.ContentPreviewLength = 200
	}
	if cfg.ContextLength == 0 {
		cfg.ContextLength = 1000
	}
	if cfg.ChronoExcerptLength == 0 {
		cfg.ChronoExcerptLength = 300
	}
	if cfg.HighlightLength == 0 {
		cfg.HighlightLength = 800
	}
	if cfg.FetchTimeoutSecs == 0 {
		cfg.FetchTimeoutSecs = 30
	}
	if len(cfg.AuthorAliases) == 0 {
		cfg.AuthorAliases = map[string]string{
			"stanislav": "Stanislav Huseletov",
			"leonardo":  "Leonardo Gonzalez",
			"david":     "David Proctor",
			"praveen":   "Praveen Koka",
		}
	}
	if cfg.CommunicationStyle == "" {
		cfg.CommunicationStyle = "ENGLISH ONLY: Always respond in English language only. " +
			"Reserved, measured, authoritative. Speak with deliberate pace and minimal enthusiasm. " +
			"Reference specific details from articles when asked. Never use Spanish or other languages."
	}
	if cfg.ReadyMessage == "" {
		cfg.ReadyMessage = "Knowledge base loaded. I have comprehensive access to %d research articles, " +
			"including the latest on %s. What would you like to know?"
	}
	if cfg.LoadingMessage == "" {
		cfg.LoadingMessage = "I'm still loading my knowledge base. Please wait a moment."
	}
	if cfg.UnavailableMessage == "" {
		cfg.UnavailableMessage = "Knowledge base temporarily unavailable. I can still assist with general AI research questions."
	}
	if cfg.FallbackInstructions == "" {
		cfg.FallbackInstructions = fmt.Sprintf("You are a %s research expert. The knowledge base is "+
			"currently unavailable, but you can still provide general AI research insights.", cfg.ExpertDomain)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func applyEnvironmentOverrides(cfg *Config) {
	if apiURL := os.Getenv("RESEARCH_AGENT_API_URL"); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if feedURL := os.Getenv("RESEARCH_AGENT_FEED_URL"); feedURL != "" {
		cfg.FeedURL = feedURL
	}
}

func validate(cfg *Config) error {
	for name, raw := range map[string]string{"api_url": cfg.APIURL, "feed_url": cfg.FeedURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if cfg.VoiceSpeed < 0.25 || cfg.VoiceSpeed > 4.0 {
		return fmt.Errorf("voice_speed must be between 0.25 and 4.0, got %v", cfg.VoiceSpeed)
	}
	if cfg.SummaryMaxLength < 1 || cfg.ContentPreviewLength < 1 || cfg.ContextLength < 1 {
		return fmt.Errorf("length budgets must be positive")
	}
	// The greeting is rendered with Sprintf(msg, count, title).
	if !strings.Contains(cfg.ReadyMessage, "%d") || !strings.Contains(cfg.ReadyMessage, "%s") {
		return fmt.Errorf("ready_message must contain %%d (article count) and %%s (latest title) placeholders")
	}
	return nil
}
