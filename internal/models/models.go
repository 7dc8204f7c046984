// Package models defines the core data structures for SafeSpace.
//
// It includes types for mood inputs and assessments, activity
// recommendations, generated content, and crisis escalation, which are
// shared across modules.
package models

import (
	"errors"
	"time"
)

// MoodLabel is the canonical closed set of mood categories.
type MoodLabel string

const (
	MoodHappy   MoodLabel = "happy"
	MoodNeutral MoodLabel = "neutral"
	MoodAnxious MoodLabel = "anxious"
	MoodSad     MoodLabel = "sad"
	MoodAngry   MoodLabel = "angry"
	MoodTired   MoodLabel = "tired"
	MoodMixed   MoodLabel = "mixed"
)

// AllMoodLabels lists every recognized mood label in a fixed order.
var AllMoodLabels = []MoodLabel{
	MoodHappy, MoodNeutral, MoodAnxious, MoodSad, MoodAngry, MoodTired, MoodMixed,
}

// IsValidMoodLabel checks if the given mood label is part of the closed set.
func IsValidMoodLabel(l MoodLabel) bool {
	switch l {
	case MoodHappy, MoodNeutral, MoodAnxious, MoodSad, MoodAngry, MoodTired, MoodMixed:
		return true
	default:
		return false
	}
}

// InputSource identifies where a mood signal came from.
type InputSource string

const (
	// SourceText carries free-form text typed by the user.
	SourceText InputSource = "text"
	// SourceQuiz carries a selection from the fixed quiz option set.
	SourceQuiz InputSource = "quiz"
	// SourceVoiceTranscript carries text transcribed from voice input.
	SourceVoiceTranscript InputSource = "voice_transcript"
)

// Validation constants for input validation
const (
	// MaxRawValueLength defines the maximum allowed length for free-text input
	MaxRawValueLength = 4096
	// MinIntensity and MaxIntensity bound the mood intensity scale
	MinIntensity = 1
	MaxIntensity = 10
	// DefaultIntensity is the mid-scale value used when no explicit
	// intensity signal is present
	DefaultIntensity = 5
	// MinConfidence is the floor applied so confidence is never zero
	MinConfidence = 0.2
)

// Error variables for better error handling and testability
var (
	ErrRawValueTooLong    = errors.New("raw_value exceeds maximum length")
	ErrInvalidMoodLabel   = errors.New("invalid mood label")
	ErrInvalidContentKind = errors.New("invalid content kind")
)

// MoodInput is the raw signal for one request. It is created once per
// request and never mutated.
type MoodInput struct {
	Source     InputSource `json:"source"`
	RawValue   string      `json:"raw_value,omitempty"`
	QuizChoice string      `json:"quiz_choice,omitempty"`
}

// Validate enforces the transport-level size cap. Everything else at
// the field level — missing or unknown source, empty input, unknown
// quiz choices — is normalized defensively by the mood normalizer into
// a neutral assessment rather than rejected.
func (m *MoodInput) Validate() error {
	if len(m.RawValue) > MaxRawValueLength {
		return ErrRawValueTooLong
	}
	return nil
}

// FreeText returns the scannable text carried by the input, if any.
// Quiz choices do not carry free text and are never scanned.
func (m *MoodInput) FreeText() string {
	if m.Source == SourceQuiz {
		return ""
	}
	return m.RawValue
}

// MoodAssessment is the normalized {label, intensity, confidence}
// triple derived from a MoodInput. It is never mutated after creation.
type MoodAssessment struct {
	Label      MoodLabel   `json:"label"`
	Intensity  int         `json:"intensity"`
	Confidence float64     `json:"confidence"`
	Source     InputSource `json:"source"`
}

// CrisisFlag records the outcome of scanning raw input for self-harm
// indicators. It is computed before any mood assessment is produced.
type CrisisFlag struct {
	Triggered    bool     `json:"triggered"`
	MatchedTerms []string `json:"matched_terms,omitempty"`
}

// CrisisResource describes one support resource included in the fixed
// escalation response.
type CrisisResource struct {
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	Availability string `json:"availability"`
}

// CrisisResponse is the fixed escalation payload returned when a crisis
// indicator is detected. It supersedes all normal response construction.
type CrisisResponse struct {
	Crisis    bool             `json:"crisis"`
	Message   string           `json:"message"`
	Resources []CrisisResource `json:"resources"`
}

// ActivityType enumerates the kinds of supportive activities.
type ActivityType string

const (
	ActivityBreathing   ActivityType = "breathing"
	ActivityJournal     ActivityType = "journal"
	ActivityAudio       ActivityType = "audio"
	ActivityGame        ActivityType = "game"
	ActivityAffirmation ActivityType = "affirmation"
	ActivityMusic       ActivityType = "music"
)

// ActivityRecommendation is a read-only row from the static
// mood-to-activities table. Position in the returned list encodes
// priority.
type ActivityRecommendation struct {
	Type            ActivityType `json:"type"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	DurationSeconds int          `json:"duration_seconds,omitempty"`
}

// ContentKind identifies the shape of generated content.
type ContentKind string

const (
	// KindPlaylist is an ordered list of {title, artist} tracks.
	KindPlaylist ContentKind = "playlist"
	// KindAffirmationSet is an ordered list of affirmations plus one
	// personalized message.
	KindAffirmationSet ContentKind = "affirmation_set"
)

// IsValidContentKind checks if the given content kind is supported.
func IsValidContentKind(k ContentKind) bool {
	return k == KindPlaylist || k == KindAffirmationSet
}

// ContentRequest describes one content generation request.
type ContentRequest struct {
	Kind            ContentKind `json:"kind"`
	Mood            MoodLabel   `json:"mood"`
	Intensity       int         `json:"intensity"`
	DurationMinutes int         `json:"duration_minutes,omitempty"`
	RequestedAt     time.Time   `json:"requested_at"`
}

// Provenance tags generated content with its origin.
type Provenance string

const (
	// ProvenanceAI marks content returned by the external AI capability.
	ProvenanceAI Provenance = "ai"
	// ProvenanceFallback marks content synthesized from the
	// deterministic template path.
	ProvenanceFallback Provenance = "fallback"
)

// Track is one playlist entry.
type Track struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Playlist is the payload for KindPlaylist content.
type Playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Tracks      []Track `json:"tracks"`
}

// AffirmationSet is the payload for KindAffirmationSet content.
type AffirmationSet struct {
	Affirmations         []string `json:"affirmations"`
	PersonalizedMessage  string   `json:"personalized_message"`
	BreathingInstruction string   `json:"breathing_instruction,omitempty"`
}

// GeneratedContent is the result of one content generation. Exactly one
// of Playlist or Affirmations is set, matching Kind. Provenance is
// mandatory and observable by the caller.
type GeneratedContent struct {
	Kind         ContentKind     `json:"kind"`
	Provenance   Provenance      `json:"provenance"`
	Playlist     *Playlist       `json:"playlist,omitempty"`
	Affirmations *AffirmationSet `json:"affirmations,omitempty"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// MoodHistoryEntry is one appended record in the per-user mood history
// log. The log is display-only and never influences selection.
type MoodHistoryEntry struct {
	Assessment MoodAssessment `json:"assessment"`
	RecordedAt time.Time      `json:"recorded_at"`
}
