package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/go-github/v72/github"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/oauth2"

	"github.com/cchalm/convo/internal/reference"
	"github.com/cchalm/convo/internal/telemetry"
	"github.com/cchalm/convo/internal/title"
	"github.com/cchalm/convo/internal/transport"
)

func setupContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	// Setup graceful shutdown
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		logger.Warn("Interrupt signal detected, shutting down gracefully...")
		cancel()
		<-interrupt
		logger.Fatal("Forcing shutdown")
	}()

	return ctx
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level '%s': %w", level, err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "console"
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}

// createGithubClient returns an anonymous client when token is empty. Anonymous requests are
// enough to read public repositories and issues, at a lower rate limit.
func createGithubClient(ctx context.Context, token string) *github.Client {
	rateLimitedHTTPClient := transport.WithRateLimiting(nil, logger).Client()
	if token == "" {
		return github.NewClient(rateLimitedHTTPClient)
	}

	tokenSource := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, rateLimitedHTTPClient)
	httpClient := oauth2.NewClient(ctx, tokenSource)
	return github.NewClient(httpClient)
}

func createAnthropicClient(apiKey string) anthropic.Client {
	return anthropic.NewClient(
		option.WithHTTPClient(transport.WithRateLimiting(nil, logger).Client()),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(2),
	)
}

func createTitleGenerator(c Config) (title.Generator, error) {
	switch c.TitleBackend {
	case titleBackendOllama:
		return title.NewOllamaGenerator(c.titleModel(), nil), nil
	case titleBackendAnthropic:
		if c.AnthropicAPIKey == "" {
			logger.Warn("ANTHROPIC_API_KEY not set, skipping title generation")
			return nil, nil
		}
		return title.NewAnthropicGenerator(createAnthropicClient(c.AnthropicAPIKey), c.titleModel()), nil
	default:
		return nil, fmt.Errorf("unknown title backend '%s', expected %s or %s",
			c.TitleBackend, titleBackendOllama, titleBackendAnthropic)
	}
}

func createReferenceCollector(ctx context.Context, c Config) *reference.Collector {
	collector := reference.NewCollector(logger,
		reference.NewYouTubeResolver(reference.ExecRunner),
		reference.NewGitHubResolver(createGithubClient(ctx, c.GithubToken)),
	)
	if c.NoCache {
		return collector
	}

	dir := c.CacheDir
	if dir == "" {
		var err error
		if dir, err = reference.DefaultCacheDir(); err != nil {
			logger.Debug("reference cache disabled", zap.Error(err))
			return collector
		}
	}
	cache, err := reference.NewFileSystemCache(dir)
	if err != nil {
		logger.Warn("reference cache disabled", zap.Error(err))
		return collector
	}
	return collector.WithCache(cache)
}

func createTelemetryProvider(ctx context.Context) (*telemetry.Provider, error) {
	telemetryConfig := telemetry.Config{
		Enabled:        cfg.TelemetryEnabled,
		Endpoint:       cfg.TelemetryEndpoint,
		ServiceVersion: version,
	}
	return telemetry.NewProvider(ctx, telemetryConfig, logger)
}
