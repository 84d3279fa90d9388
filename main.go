package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"research-agent/agent"
	"research-agent/config"
	"research-agent/fetcher"
)

func main() {
	// Set up structured logging on stderr so stdout stays clean for answers
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	slog.Info("starting research agent")

	// Load configuration
	configPath := config.GetConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		cfg = config.Default()
	} else {
		slog.Info("config loaded", "path", configPath)
	}

	if level := parseLogLevel(cfg.LogLevel); level != slog.LevelInfo {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	// Initialize components
	client := fetcher.NewClient(
		cfg.APIURL,
		cfg.FeedURL,
		fetcher.WithTimeout(time.Duration(cfg.FetchTimeoutSecs)*time.Second),
	)
	researchAgent := agent.New(cfg, client)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	greeting := researchAgent.Initialize(ctx)
	vs := researchAgent.VoiceSettings()
	slog.Info("agent ready", "voice", vs.Voice, "speed", vs.Speed, "avatar", vs.AvatarImage)

	fmt.Println(greeting)
	run(ctx, researchAgent)
	slog.Info("agent stopped")
}

// run reads one question per line from stdin and prints the answer.
// The /instructions command dumps the synthesized briefing document.
func run(ctx context.Context, a *agent.Agent) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if text == "/instructions" {
				fmt.Println(a.FullInstructions())
				continue
			}
			fmt.Println(a.Respond(text))
		}
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
