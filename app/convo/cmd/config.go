package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cchalm/convo/internal/config"
	"github.com/cchalm/convo/internal/render"
	"github.com/cchalm/convo/internal/title"
)

var cfg = defaultConfig()

type Config struct {
	// Config file and logging
	ConfigPath string
	LogLevel   string

	// Parsing
	AssistantLabel string
	UserLabel      string
	Verbose        bool

	// Output
	Output  string
	Theme   string
	Mobile  bool
	Private bool
	Title   string
	Date    string
	Refs    []string

	// Reference metadata cache
	NoCache  bool
	CacheDir string

	// Title generation
	NoAI         bool
	TitleBackend string
	TitleModel   string

	// Telemetry config
	TelemetryEnabled  bool
	TelemetryEndpoint string

	// Secrets, from the environment only
	AnthropicAPIKey string
	GithubToken     string
}

const (
	titleBackendOllama    = "ollama"
	titleBackendAnthropic = "anthropic"
)

func defaultConfig() Config {
	return Config{
		LogLevel:       "warn",
		AssistantLabel: "Assistant",
		UserLabel:      "User",
		Output:         string(render.PDF),
		TitleBackend:   titleBackendOllama,
	}
}

// applyConfigFile copies values from the config file into c for every setting whose flag was
// not given on the command line
func (c *Config) applyConfigFile(cmd *cobra.Command, f config.File) {
	unset := func(flag string) bool {
		fl := cmd.Flags().Lookup(flag)
		return fl == nil || !fl.Changed
	}
	setString := func(flag string, dest *string, v string) {
		if v != "" && unset(flag) {
			*dest = v
		}
	}
	setBool := func(flag string, dest *bool, v *bool) {
		if v != nil && unset(flag) {
			*dest = *v
		}
	}

	setString("output", &c.Output, f.Output)
	setString("theme", &c.Theme, f.Theme)
	setBool("mobile", &c.Mobile, f.Mobile)
	setString("assistant", &c.AssistantLabel, f.Assistant)
	setString("user", &c.UserLabel, f.User)
	setBool("verbose", &c.Verbose, f.Verbose)
	setBool("no-ai", &c.NoAI, f.NoAI)
	setString("title-backend", &c.TitleBackend, f.TitleBackend)
	setString("title-model", &c.TitleModel, f.TitleModel)
	setString("log-level", &c.LogLevel, f.LogLevel)
	setString("cache-dir", &c.CacheDir, f.CacheDir)

	if f.Telemetry.Enabled != nil {
		c.TelemetryEnabled = *f.Telemetry.Enabled
	}
	if f.Telemetry.Endpoint != "" {
		c.TelemetryEndpoint = f.Telemetry.Endpoint
	}
}

func (c *Config) loadFromEnv() {
	c.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	c.GithubToken = os.Getenv("GITHUB_TOKEN")
}

// titleModel is the configured model, or the default for the backend
func (c Config) titleModel() string {
	if c.TitleModel != "" {
		return c.TitleModel
	}
	if c.TitleBackend == titleBackendAnthropic {
		return title.DefaultAnthropicModel
	}
	return title.DefaultOllamaModel
}
