// Package pipeline runs the end-to-end mood request flow as an
// explicit state machine: crisis check first, then normalization,
// history append, and activity selection.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/safespace-app/safespace/internal/models"
)

// State names one step of the request flow.
type State string

const (
	StateReceived      State = "RECEIVED"
	StateCrisisChecked State = "CRISIS_CHECKED"
	StateEscalated     State = "ESCALATED"
	StateNormalized    State = "NORMALIZED"
	StateSelected      State = "SELECTED"
	StateGenerating    State = "GENERATING"
	StateResponded     State = "RESPONDED"
)

// transitions lists the legal moves of the request state machine.
// Escalated and Responded are terminal.
var transitions = map[State][]State{
	StateReceived:      {StateCrisisChecked},
	StateCrisisChecked: {StateEscalated, StateNormalized},
	StateNormalized:    {StateSelected},
	StateSelected:      {StateGenerating, StateResponded},
	StateGenerating:    {StateResponded},
}

// CanTransition reports whether moving from one state to another is
// legal.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Detector is the crisis detection boundary.
type Detector interface {
	Detect(text string) models.CrisisFlag
	EscalationResponse() models.CrisisResponse
}

// Normalizer is the mood normalization boundary. Message provides the
// supportive text matching an assessment.
type Normalizer interface {
	Normalize(input models.MoodInput) models.MoodAssessment
	Message(assessment models.MoodAssessment) string
}

// Selector is the activity selection boundary.
type Selector interface {
	Select(assessment models.MoodAssessment) []models.ActivityRecommendation
}

// Recorder is the history append boundary.
type Recorder interface {
	Record(ctx context.Context, userID string, entry models.MoodHistoryEntry) error
}

// Outcome is the terminal result of one analyze request. Exactly one of
// Crisis or Assessment is set.
type Outcome struct {
	State       State
	Crisis      *models.CrisisResponse
	Assessment  *models.MoodAssessment
	Message     string
	Suggestions []models.ActivityRecommendation
}

// Orchestrator wires the core components into the request flow.
type Orchestrator struct {
	detector   Detector
	normalizer Normalizer
	selector   Selector
	recorder   Recorder
}

// NewOrchestrator creates an Orchestrator. The recorder may be nil;
// history logging is then skipped.
func NewOrchestrator(d Detector, n Normalizer, s Selector, r Recorder) *Orchestrator {
	return &Orchestrator{detector: d, normalizer: n, selector: s, recorder: r}
}

// Analyze runs one mood analysis end to end. A triggered crisis flag
// short-circuits the flow: no assessment is produced, nothing is
// recorded, and the fixed escalation response is returned. This
// precedence is not overridable.
func (o *Orchestrator) Analyze(ctx context.Context, userID string, input models.MoodInput) (Outcome, error) {
	state := StateReceived
	slog.Debug("Orchestrator.Analyze: request received", "user", userID, "source", input.Source)

	flag := o.detector.Detect(input.FreeText())
	state = advance(state, StateCrisisChecked)
	if flag.Triggered {
		state = advance(state, StateEscalated)
		slog.Warn("Orchestrator.Analyze: crisis indicators detected", "user", userID, "matched_terms", flag.MatchedTerms)
		resp := o.detector.EscalationResponse()
		return Outcome{State: state, Crisis: &resp}, nil
	}

	assessment := o.normalizer.Normalize(input)
	state = advance(state, StateNormalized)
	slog.Debug("Orchestrator.Analyze: mood normalized", "user", userID,
		"label", assessment.Label, "intensity", assessment.Intensity, "confidence", assessment.Confidence)

	// History is an audit trail only; a failed append never fails the
	// request.
	if o.recorder != nil {
		entry := models.MoodHistoryEntry{Assessment: assessment, RecordedAt: time.Now().UTC()}
		if err := o.recorder.Record(ctx, userID, entry); err != nil {
			slog.Error("Orchestrator.Analyze: failed to record history entry", "error", err, "user", userID)
		}
	}

	suggestions := o.selector.Select(assessment)
	state = advance(state, StateSelected)
	if len(suggestions) == 0 {
		return Outcome{}, fmt.Errorf("activity selection produced no recommendations for %s", assessment.Label)
	}
	state = advance(state, StateResponded)

	return Outcome{
		State:       state,
		Assessment:  &assessment,
		Message:     o.normalizer.Message(assessment),
		Suggestions: suggestions,
	}, nil
}

// advance moves the state machine, panicking on an illegal transition.
// Transitions are fixed at compile time, so a violation is a programming
// error rather than a runtime condition.
func advance(from, to State) State {
	if !CanTransition(from, to) {
		panic(fmt.Sprintf("illegal pipeline transition %s -> %s", from, to))
	}
	return to
}
