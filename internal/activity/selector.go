// Package activity maps a mood assessment to an ordered list of
// supportive activities.
//
// Selection is a deterministic lookup into a static table keyed by mood
// label. The same assessment always yields the same list; intensity is
// carried for display but never reorders the table.
package activity

import (
	"github.com/safespace-app/safespace/internal/config"
	"github.com/safespace-app/safespace/internal/models"
)

// Selector performs table-driven activity selection.
type Selector struct {
	table map[models.MoodLabel][]models.ActivityRecommendation
}

// NewSelector creates a Selector from the configured activity table.
// Entries with an unrecognized mood label or activity type are dropped.
func NewSelector(table map[string][]config.ActivityEntry) *Selector {
	built := make(map[models.MoodLabel][]models.ActivityRecommendation, len(table))
	for label, entries := range table {
		l := models.MoodLabel(label)
		if !models.IsValidMoodLabel(l) {
			continue
		}
		recs := make([]models.ActivityRecommendation, 0, len(entries))
		for _, e := range entries {
			recs = append(recs, models.ActivityRecommendation{
				Type:            models.ActivityType(e.Type),
				Title:           e.Title,
				Description:     e.Description,
				DurationSeconds: e.DurationSeconds,
			})
		}
		built[l] = recs
	}
	return &Selector{table: built}
}

// Select returns the fixed ordered activity list for the assessment's
// label. Order encodes priority. The returned slice is a copy, so
// callers cannot mutate the table. Labels outside the closed set fall
// back to the neutral row.
func (s *Selector) Select(assessment models.MoodAssessment) []models.ActivityRecommendation {
	label := assessment.Label
	if !models.IsValidMoodLabel(label) {
		label = models.MoodNeutral
	}
	entries, ok := s.table[label]
	if !ok {
		entries = s.table[models.MoodNeutral]
	}
	out := make([]models.ActivityRecommendation, len(entries))
	copy(out, entries)
	return out
}

// SelectLimited filters the base list down to activities whose duration
// fits within maxDurationSeconds; entries without a duration always
// pass. This is a display convenience for callers; the base pipeline
// never filters by intensity or duration.
func (s *Selector) SelectLimited(assessment models.MoodAssessment, maxDurationSeconds int) []models.ActivityRecommendation {
	base := s.Select(assessment)
	if maxDurationSeconds <= 0 {
		return base
	}
	out := base[:0]
	for _, rec := range base {
		if rec.DurationSeconds == 0 || rec.DurationSeconds <= maxDurationSeconds {
			out = append(out, rec)
		}
	}
	return out
}
