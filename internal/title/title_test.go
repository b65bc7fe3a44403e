package title

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cchalm/convo/internal/transcript"
)

var sampleTurns = []transcript.Turn{
	{Speaker: transcript.User, Label: "Alex", Paragraphs: []string{"Can we plan the garden beds?"}},
	{Speaker: transcript.Assistant, Label: "Claude", Paragraphs: []string{"Sure.", "---", "Start with soil."}},
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Alex: Can we plan the garden beds?\nClaude: Sure.\nClaude: Start with soil.", Excerpt(sampleTurns, 3000))
	assert.Equal(t, "Alex: Can we plan the garden beds?", Excerpt(sampleTurns, 40))
	assert.Equal(t, "", Excerpt(sampleTurns, 5))
}

func TestExcerpt_CountsCharactersNotBytes(t *testing.T) {
	turns := []transcript.Turn{
		{Speaker: transcript.User, Label: "Yuki", Paragraphs: []string{"庭の計画を立てましょう", "土から始めます"}},
	}

	// "Yuki: 庭の計画を立てましょう" is 17 characters but 39 bytes
	assert.Equal(t, "Yuki: 庭の計画を立てましょう", Excerpt(turns, 20))
	assert.Equal(t, "Yuki: 庭の計画を立てましょう\nYuki: 土から始めます", Excerpt(turns, 30))
}

func TestPrompt(t *testing.T) {
	assert.Equal(t, "", Prompt(nil))
	p := Prompt(sampleTurns)
	assert.Contains(t, p, "Conversation:\nAlex: Can we plan")
	assert.True(t, strings.HasSuffix(p, "Title:"))
}

func TestClean(t *testing.T) {
	tests := map[string]string{
		`"Planning Garden Beds"`:              "Planning Garden Beds",
		"Planning Garden Beds.\n":             "Planning Garden Beds",
		"'Soil First'":                        "Soil First",
		"Garden Plans\nThis title reflects...": "Garden Plans",
		"   ":                                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Clean(in), in)
	}
}

func TestOllamaGenerator(t *testing.T) {
	var gotArgs []string
	gen := NewOllamaGenerator("", func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return []byte("\"Planning Garden Beds.\"\n"), nil
	})

	got, err := gen.Generate(context.Background(), sampleTurns)
	require.NoError(t, err)
	assert.Equal(t, "Planning Garden Beds", got)
	require.Len(t, gotArgs, 5)
	assert.Equal(t, []string{"ollama", "run", DefaultOllamaModel, "--nowordwrap"}, gotArgs[:4])
}

func TestOllamaGenerator_Failures(t *testing.T) {
	failing := NewOllamaGenerator("llama3", func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("executable file not found")
	})
	_, err := failing.Generate(context.Background(), sampleTurns)
	assert.Error(t, err)

	empty := NewOllamaGenerator("llama3", func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("  \n"), nil
	})
	_, err = empty.Generate(context.Background(), sampleTurns)
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = empty.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestAnthropicGenerator(t *testing.T) {
	var request map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "\"Planning Garden Beds.\""}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 12, "output_tokens": 6}
		}`)
	}))
	defer server.Close()

	client := anthropic.NewClient(
		option.WithBaseURL(server.URL),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
	gen := NewAnthropicGenerator(client, "")

	got, err := gen.Generate(context.Background(), sampleTurns)
	require.NoError(t, err)
	assert.Equal(t, "Planning Garden Beds", got)
	assert.Equal(t, DefaultAnthropicModel, request["model"])
}
