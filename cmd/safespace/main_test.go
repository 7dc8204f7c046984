package main

import (
	"testing"

	"github.com/safespace-app/safespace/internal/genai"
	"github.com/safespace-app/safespace/internal/history"
)

func testFlags(key, baseURL, model, dsn string) Flags {
	configPath, apiAddr := "", ""
	return Flags{
		configPath:    &configPath,
		dbDSN:         &dsn,
		openaiKey:     &key,
		openaiBaseURL: &baseURL,
		openaiModel:   &model,
		apiAddr:       &apiAddr,
	}
}

func TestBuildGenAIClient_ModelPrecedence(t *testing.T) {
	t.Setenv("SAFESPACE_DISABLE_AI", "")
	t.Setenv("OPENAI_API_KEY", "")

	tests := []struct {
		name        string
		flagModel   string
		configModel string
		want        string
	}{
		{"flag wins over config", "gpt-4o", "gpt-4o-mini", "gpt-4o"},
		{"config model applies", "", "gpt-4o-mini", "gpt-4o-mini"},
		{"client default when both empty", "", "", genai.DefaultModel},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := buildGenAIClient(testFlags("test-key", "", tc.flagModel, ""), tc.configModel)
			if client == nil {
				t.Fatal("expected a client with an API key configured")
			}
			if got := client.Model(); got != tc.want {
				t.Errorf("expected model %q, got %q", tc.want, got)
			}
		})
	}
}

func TestBuildGenAIClient_MissingKeyIsNotFatal(t *testing.T) {
	t.Setenv("SAFESPACE_DISABLE_AI", "")
	t.Setenv("OPENAI_API_KEY", "")
	if client := buildGenAIClient(testFlags("", "", "", ""), "gpt-4o-mini"); client != nil {
		t.Error("expected nil client without an API key")
	}
}

func TestBuildGenAIClient_DisableSwitch(t *testing.T) {
	t.Setenv("SAFESPACE_DISABLE_AI", "true")
	t.Setenv("OPENAI_API_KEY", "test-key")
	if client := buildGenAIClient(testFlags("test-key", "", "", ""), ""); client != nil {
		t.Error("expected nil client when AI generation is disabled")
	}
}

func TestBuildHistoryStore_BackendSelection(t *testing.T) {
	st, err := buildHistoryStore("")
	if err != nil {
		t.Fatalf("expected in-memory store without a DSN: %v", err)
	}
	if _, ok := st.(*history.InMemoryStore); !ok {
		t.Errorf("expected InMemoryStore, got %T", st)
	}

	dbPath := t.TempDir() + "/history.db"
	st, err = buildHistoryStore(dbPath)
	if err != nil {
		t.Fatalf("expected SQLite store for a file DSN: %v", err)
	}
	defer st.Close()
	if _, ok := st.(*history.SQLiteStore); !ok {
		t.Errorf("expected SQLiteStore, got %T", st)
	}
}
