package title

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/cchalm/convo/internal/transcript"
)

const DefaultOllamaModel = "gemma3:27b"

// ErrEmptyTitle is returned when there is nothing to title or the model returned nothing usable
var ErrEmptyTitle = errors.New("no title generated")

// CommandRunner runs an external program and returns its standard output
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// OllamaGenerator asks a local model through the ollama CLI
type OllamaGenerator struct {
	model   string
	run     CommandRunner
	timeout time.Duration
}

func NewOllamaGenerator(model string, run CommandRunner) *OllamaGenerator {
	if model == "" {
		model = DefaultOllamaModel
	}
	if run == nil {
		run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		}
	}
	return &OllamaGenerator{model: model, run: run, timeout: 30 * time.Second}
}

func (o *OllamaGenerator) Generate(ctx context.Context, turns []transcript.Turn) (string, error) {
	prompt := Prompt(turns)
	if prompt == "" {
		return "", ErrEmptyTitle
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	out, err := o.run(ctx, "ollama", "run", o.model, "--nowordwrap", prompt)
	if err != nil {
		return "", fmt.Errorf("failed to run ollama: %w", err)
	}

	t := Clean(string(out))
	if t == "" {
		return "", ErrEmptyTitle
	}
	return t, nil
}
