// Package config loads the optional convo configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File holds the settings read from a config file. Unset keys are left at their zero value so
// callers can tell them apart from explicit values.
type File struct {
	Output       string    `yaml:"output"`
	Theme        string    `yaml:"theme"`
	Mobile       *bool     `yaml:"mobile"`
	Assistant    string    `yaml:"assistant"`
	User         string    `yaml:"user"`
	Verbose      *bool     `yaml:"verbose"`
	NoAI         *bool     `yaml:"no_ai"`
	TitleModel   string    `yaml:"title_model"`
	TitleBackend string    `yaml:"title_backend"`
	LogLevel     string    `yaml:"log_level"`
	CacheDir     string    `yaml:"cache_dir"`
	Telemetry    Telemetry `yaml:"telemetry"`
}

type Telemetry struct {
	Enabled  *bool  `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// SearchPaths are the locations tried, in order, when no path is given
func SearchPaths(home string) []string {
	return []string{
		filepath.Join(home, ".config", "convo", "config.yaml"),
		filepath.Join(home, ".convoformat.yaml"),
	}
}

// Load reads the config file at path. With an empty path it reads the first file found in
// SearchPaths. A missing file yields an empty File.
func Load(path string) (File, string, error) {
	candidates := []string{path}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return File{}, "", nil
		}
		candidates = SearchPaths(home)
	}

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return File{}, "", fmt.Errorf("failed to read config file '%s': %w", candidate, err)
		}
		f, err := Parse(data)
		if err != nil {
			return File{}, "", fmt.Errorf("invalid config file '%s': %w", candidate, err)
		}
		return f, candidate, nil
	}
	return File{}, "", nil
}

// Parse decodes YAML config. An empty document is valid; anything other than a mapping is not.
func Parse(data []byte) (File, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return File{}, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return File{}, nil
	}
	if root := node.Content[0]; root.Kind != yaml.MappingNode {
		return File{}, fmt.Errorf("expected a mapping at the top level, got %s", kindName(root.Kind))
	}

	var f File
	if err := node.Decode(&f); err != nil {
		return File{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return f, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "a list"
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "a document"
	}
}
