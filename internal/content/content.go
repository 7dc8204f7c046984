// Package content orchestrates AI content generation with validation
// and a deterministic fallback.
//
// Generate never returns an error to the caller: every request resolves
// to either AI-backed content or synthesized fallback content, tagged
// with its provenance.
package content

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/openai/openai-go"
	"github.com/safespace-app/safespace/internal/config"
	"github.com/safespace-app/safespace/internal/models"
)

// AIClient is the capability boundary to the external AI service.
type AIClient interface {
	GenerateWithContext(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// RetryPolicy bounds the AI call: per-attempt timeout, total attempt
// count, and backoff between attempts. It is the single place retry
// behavior lives; call sites never layer their own.
type RetryPolicy struct {
	Attempts int
	Timeout  time.Duration
	Backoff  time.Duration
}

// DefaultRetryPolicy matches the configured defaults: one retry with
// backoff on transient failure, 10s per attempt.
var DefaultRetryPolicy = RetryPolicy{
	Attempts: 2,
	Timeout:  10 * time.Second,
	Backoff:  500 * time.Millisecond,
}

// Generator produces playlists and affirmation sets for a mood.
type Generator struct {
	ai       AIClient
	policy   RetryPolicy
	cfg      config.ContentConfig
	fallback *fallbackLibrary
}

// NewGenerator creates a Generator. A nil AI client is permitted; every
// request then resolves through the fallback path.
func NewGenerator(ai AIClient, cfg config.ContentConfig) *Generator {
	policy := RetryPolicy{
		Attempts: cfg.Attempts,
		Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		Backoff:  time.Duration(cfg.BackoffMS) * time.Millisecond,
	}
	if policy.Attempts < 1 {
		policy.Attempts = DefaultRetryPolicy.Attempts
	}
	if policy.Timeout <= 0 {
		policy.Timeout = DefaultRetryPolicy.Timeout
	}
	if policy.Backoff < 0 {
		policy.Backoff = DefaultRetryPolicy.Backoff
	}
	return &Generator{
		ai:       ai,
		policy:   policy,
		cfg:      cfg,
		fallback: newFallbackLibrary(cfg),
	}
}

// Generate resolves a content request. It makes at most
// policy.Attempts outbound AI calls and falls back to the deterministic
// template path on any failure: timeout, transport error, or a payload
// that does not validate against the schema for the requested kind.
func (g *Generator) Generate(ctx context.Context, req models.ContentRequest) models.GeneratedContent {
	slog.Debug("Generator.Generate: processing request", "kind", req.Kind, "mood", req.Mood, "intensity", req.Intensity)

	if content, ok := g.tryAI(ctx, req); ok {
		slog.Info("Generator.Generate: AI content accepted", "kind", req.Kind, "mood", req.Mood)
		return content
	}

	slog.Info("Generator.Generate: using fallback content", "kind", req.Kind, "mood", req.Mood)
	return g.fallback.synthesize(req)
}

// tryAI runs the bounded AI call loop and validates the response. A
// false return means the fallback path must resolve the request.
func (g *Generator) tryAI(ctx context.Context, req models.ContentRequest) (models.GeneratedContent, bool) {
	if g.ai == nil {
		slog.Debug("Generator.tryAI: no AI client configured")
		return models.GeneratedContent{}, false
	}

	systemPrompt, userPrompt := g.buildPrompt(req)

	var raw string
	var err error
	for attempt := 1; attempt <= g.policy.Attempts; attempt++ {
		raw, err = g.callOnce(ctx, systemPrompt, userPrompt)
		if err == nil {
			break
		}
		slog.Warn("Generator.tryAI: AI attempt failed", "attempt", attempt, "error", err)
		if !isTransient(err) || attempt == g.policy.Attempts {
			return models.GeneratedContent{}, false
		}
		select {
		case <-time.After(g.policy.Backoff):
		case <-ctx.Done():
			// Caller is gone; skip further attempts and let the
			// fallback path produce a complete result anyway.
			slog.Debug("Generator.tryAI: context done during backoff", "error", ctx.Err())
			return models.GeneratedContent{}, false
		}
	}
	if err != nil {
		return models.GeneratedContent{}, false
	}

	content, err := g.validate(req, raw)
	if err != nil {
		slog.Warn("Generator.tryAI: AI payload rejected", "kind", req.Kind, "error", err)
		return models.GeneratedContent{}, false
	}
	return content, true
}

// callOnce performs a single AI call bounded by the per-attempt timeout.
// No lock is held while the call is in flight.
func (g *Generator) callOnce(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.policy.Timeout)
	defer cancel()
	return g.ai.GenerateWithContext(attemptCtx, systemPrompt, userPrompt)
}

// isTransient reports whether an AI failure is worth one more attempt:
// timeouts, network errors, rate limiting, and 5xx responses qualify.
// Malformed responses do not; retrying those wastes the budget.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}
	return false
}
