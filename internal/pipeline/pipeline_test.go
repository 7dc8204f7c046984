package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/safespace-app/safespace/internal/activity"
	"github.com/safespace-app/safespace/internal/config"
	"github.com/safespace-app/safespace/internal/crisis"
	"github.com/safespace-app/safespace/internal/history"
	"github.com/safespace-app/safespace/internal/models"
	"github.com/safespace-app/safespace/internal/mood"
)

// failingRecorder always fails, for exercising the audit-only contract.
type failingRecorder struct{ calls int }

func (r *failingRecorder) Record(ctx context.Context, userID string, entry models.MoodHistoryEntry) error {
	r.calls++
	return errors.New("backend down")
}

func newTestOrchestrator(recorder Recorder) *Orchestrator {
	cfg := config.Default()
	return NewOrchestrator(
		crisis.NewDetector(cfg.Crisis),
		mood.NewNormalizer(cfg.Mood),
		activity.NewSelector(cfg.Activities),
		recorder,
	)
}

func TestAnalyze_NormalFlow(t *testing.T) {
	store := history.NewInMemoryStore()
	o := newTestOrchestrator(store)

	outcome, err := o.Analyze(context.Background(), "u1", models.MoodInput{
		Source:   models.SourceText,
		RawValue: "really stressed and worried about my exams",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if outcome.State != StateResponded {
		t.Errorf("expected terminal state %s, got %s", StateResponded, outcome.State)
	}
	if outcome.Crisis != nil {
		t.Error("expected no crisis response for ordinary input")
	}
	if outcome.Assessment == nil || outcome.Assessment.Label != models.MoodAnxious {
		t.Fatalf("expected an anxious assessment, got %+v", outcome.Assessment)
	}
	if len(outcome.Suggestions) == 0 {
		t.Fatal("expected activity suggestions")
	}
	if outcome.Message == "" {
		t.Error("expected a supportive message on the outcome")
	}

	entries, err := store.List(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one recorded entry, got %d", len(entries))
	}
	if entries[0].Assessment != *outcome.Assessment {
		t.Errorf("recorded assessment differs from the outcome: %+v vs %+v",
			entries[0].Assessment, *outcome.Assessment)
	}
}

func TestAnalyze_CrisisShortCircuits(t *testing.T) {
	store := history.NewInMemoryStore()
	o := newTestOrchestrator(store)

	outcome, err := o.Analyze(context.Background(), "u1", models.MoodInput{
		Source:   models.SourceText,
		RawValue: "I want to end it all",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if outcome.State != StateEscalated {
		t.Errorf("expected terminal state %s, got %s", StateEscalated, outcome.State)
	}
	if outcome.Crisis == nil {
		t.Fatal("expected a crisis response")
	}
	if outcome.Assessment != nil || len(outcome.Suggestions) != 0 {
		t.Error("a crisis response must not carry an assessment or suggestions")
	}

	var found bool
	for _, r := range outcome.Crisis.Resources {
		if r.Contact == "988" {
			found = true
		}
	}
	if !found {
		t.Error("expected the 988 lifeline among crisis resources")
	}

	// Crisis escalations are never written to history.
	entries, err := store.List(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no history entry for a crisis escalation, got %d", len(entries))
	}
}

func TestAnalyze_CrisisWinsOverMoodContent(t *testing.T) {
	o := newTestOrchestrator(nil)
	// The text carries plenty of mood signal, but the crisis keyword
	// takes precedence.
	outcome, err := o.Analyze(context.Background(), "u1", models.MoodInput{
		Source:   models.SourceText,
		RawValue: "I'm so happy most days but lately I feel hopeless",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if outcome.Crisis == nil {
		t.Fatal("expected crisis precedence over mood scoring")
	}
}

func TestAnalyze_QuizInputSkipsCrisisScan(t *testing.T) {
	o := newTestOrchestrator(nil)
	outcome, err := o.Analyze(context.Background(), "u1", models.MoodInput{
		Source:     models.SourceQuiz,
		QuizChoice: "anxious-high",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if outcome.Crisis != nil {
		t.Fatal("quiz input has no free text to scan")
	}
	a := outcome.Assessment
	if a == nil || a.Label != models.MoodAnxious || a.Intensity != 8 || a.Confidence != 1.0 {
		t.Fatalf("expected {anxious, 8, 1.0}, got %+v", a)
	}
	if len(outcome.Suggestions) == 0 {
		t.Fatal("expected suggestions for the quiz assessment")
	}
	if outcome.Suggestions[0].Type != models.ActivityBreathing {
		t.Errorf("expected breathing first for anxious, got %s", outcome.Suggestions[0].Type)
	}
}

func TestAnalyze_RecorderFailureDoesNotFailRequest(t *testing.T) {
	rec := &failingRecorder{}
	o := newTestOrchestrator(rec)

	outcome, err := o.Analyze(context.Background(), "u1", models.MoodInput{
		Source:   models.SourceText,
		RawValue: "feeling pretty happy today",
	})
	if err != nil {
		t.Fatalf("Analyze must not fail on a recorder error: %v", err)
	}
	if rec.calls != 1 {
		t.Errorf("expected one recorder call, got %d", rec.calls)
	}
	if outcome.State != StateResponded {
		t.Errorf("expected %s, got %s", StateResponded, outcome.State)
	}
}

func TestAnalyze_NilRecorder(t *testing.T) {
	o := newTestOrchestrator(nil)
	if _, err := o.Analyze(context.Background(), "u1", models.MoodInput{
		Source:   models.SourceText,
		RawValue: "okay day",
	}); err != nil {
		t.Fatalf("Analyze with nil recorder failed: %v", err)
	}
}

func TestCanTransition(t *testing.T) {
	legal := []struct{ from, to State }{
		{StateReceived, StateCrisisChecked},
		{StateCrisisChecked, StateEscalated},
		{StateCrisisChecked, StateNormalized},
		{StateNormalized, StateSelected},
		{StateSelected, StateGenerating},
		{StateSelected, StateResponded},
		{StateGenerating, StateResponded},
	}
	for _, tc := range legal {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	illegal := []struct{ from, to State }{
		{StateReceived, StateNormalized},
		{StateReceived, StateEscalated},
		{StateEscalated, StateNormalized},
		{StateEscalated, StateResponded},
		{StateResponded, StateReceived},
		{StateNormalized, StateCrisisChecked},
	}
	for _, tc := range illegal {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be illegal", tc.from, tc.to)
		}
	}
}
