package genai

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go"
)

// mockChatService records the last params and returns a scripted
// completion.
type mockChatService struct {
	lastParams openai.ChatCompletionNewParams
	completion *openai.ChatCompletion
	err        error
}

func (m *mockChatService) Create(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	m.lastParams = params
	return m.completion, m.err
}

func completionWith(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(); err == nil {
		t.Error("expected an error when no API key is available")
	}
}

func TestNewClient_KeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.model != DefaultModel {
		t.Errorf("expected default model %q, got %q", DefaultModel, client.model)
	}
}

func TestNewClient_OptionsOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	client, err := NewClient(WithAPIKey("opt-key"), WithModel("gpt-4o"), WithBaseURL("http://localhost:11434/v1"))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.model != "gpt-4o" {
		t.Errorf("expected configured model, got %q", client.model)
	}
}

func TestGenerateWithContext(t *testing.T) {
	mock := &mockChatService{completion: completionWith("generated text")}
	client := &Client{chat: mock, model: DefaultModel}

	got, err := client.GenerateWithContext(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("GenerateWithContext failed: %v", err)
	}
	if got != "generated text" {
		t.Errorf("expected completion content, got %q", got)
	}
	if string(mock.lastParams.Model) != DefaultModel {
		t.Errorf("expected model %q in params, got %q", DefaultModel, mock.lastParams.Model)
	}
	if len(mock.lastParams.Messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(mock.lastParams.Messages))
	}
}

func TestGenerateWithContext_PropagatesError(t *testing.T) {
	wantErr := errors.New("service unavailable")
	mock := &mockChatService{err: wantErr}
	client := &Client{chat: mock, model: DefaultModel}

	if _, err := client.GenerateWithContext(context.Background(), "s", "u"); !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped service error, got %v", err)
	}
}

func TestGenerateWithContext_EmptyChoices(t *testing.T) {
	mock := &mockChatService{completion: &openai.ChatCompletion{}}
	client := &Client{chat: mock, model: DefaultModel}

	if _, err := client.GenerateWithContext(context.Background(), "s", "u"); !errors.Is(err, ErrNoChoicesReturned) {
		t.Errorf("expected ErrNoChoicesReturned, got %v", err)
	}
}
