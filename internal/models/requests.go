package models

// PlaylistRequest is the payload for POST /music/playlist.
type PlaylistRequest struct {
	MoodType        MoodLabel `json:"mood_type"`
	Intensity       int       `json:"intensity"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
}

// Validate checks the playlist request. Intensity is clamped by the
// caller rather than rejected here.
func (r *PlaylistRequest) Validate() error {
	if !IsValidMoodLabel(r.MoodType) {
		return ErrInvalidMoodLabel
	}
	return nil
}

// AffirmationRequest is the payload for POST /ai/affirmations.
type AffirmationRequest struct {
	MoodType  MoodLabel `json:"mood_type"`
	Intensity int       `json:"intensity"`
}

// Validate checks the affirmation request.
func (r *AffirmationRequest) Validate() error {
	if !IsValidMoodLabel(r.MoodType) {
		return ErrInvalidMoodLabel
	}
	return nil
}

// ClampIntensity forces an intensity into the valid scale, treating
// zero as the mid-scale default.
func ClampIntensity(v int) int {
	if v == 0 {
		return DefaultIntensity
	}
	if v < MinIntensity {
		return MinIntensity
	}
	if v > MaxIntensity {
		return MaxIntensity
	}
	return v
}

// MoodAnalysisResult is the normal (non-crisis) result of
// POST /mood/analyze.
type MoodAnalysisResult struct {
	Label       MoodLabel                `json:"label"`
	Intensity   int                      `json:"intensity"`
	Confidence  float64                  `json:"confidence"`
	Message     string                   `json:"message"`
	Suggestions []ActivityRecommendation `json:"suggestions"`
}

// PlaylistResult is the result of POST /music/playlist.
type PlaylistResult struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Tracks      []Track    `json:"tracks"`
	Provenance  Provenance `json:"provenance"`
}

// AffirmationsResult is the result of POST /ai/affirmations.
type AffirmationsResult struct {
	Affirmations         []string   `json:"affirmations"`
	PersonalizedMessage  string     `json:"personalized_message"`
	BreathingInstruction string     `json:"breathing_instruction,omitempty"`
	Provenance           Provenance `json:"provenance"`
}
