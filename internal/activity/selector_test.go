package activity

import (
	"testing"

	"github.com/safespace-app/safespace/internal/config"
	"github.com/safespace-app/safespace/internal/models"
)

func newTestSelector() *Selector {
	return NewSelector(config.Default().Activities)
}

func TestSelect_EveryLabelHasActivities(t *testing.T) {
	s := newTestSelector()
	for _, label := range models.AllMoodLabels {
		got := s.Select(models.MoodAssessment{Label: label, Intensity: 5})
		if len(got) == 0 {
			t.Errorf("label %s: expected at least one activity", label)
		}
	}
}

func TestSelect_AnxiousLeadsWithBreathing(t *testing.T) {
	s := newTestSelector()
	got := s.Select(models.MoodAssessment{Label: models.MoodAnxious, Intensity: 8})
	if len(got) == 0 {
		t.Fatal("expected activities for anxious")
	}
	if got[0].Type != models.ActivityBreathing {
		t.Errorf("expected breathing first for anxious, got %s", got[0].Type)
	}
	var hasMusic bool
	for _, rec := range got {
		if rec.Type == models.ActivityMusic {
			hasMusic = true
		}
	}
	if !hasMusic {
		t.Error("expected a music activity in the anxious list")
	}
}

func TestSelect_UnknownLabelFallsBackToNeutral(t *testing.T) {
	s := newTestSelector()
	neutral := s.Select(models.MoodAssessment{Label: models.MoodNeutral, Intensity: 5})
	unknown := s.Select(models.MoodAssessment{Label: "ecstatic", Intensity: 5})
	if len(unknown) != len(neutral) {
		t.Fatalf("expected neutral fallback, got %d entries vs %d", len(unknown), len(neutral))
	}
	for i := range unknown {
		if unknown[i] != neutral[i] {
			t.Errorf("entry %d differs from neutral row: %+v vs %+v", i, unknown[i], neutral[i])
		}
	}
}

func TestSelect_IntensityDoesNotChangeSelection(t *testing.T) {
	s := newTestSelector()
	low := s.Select(models.MoodAssessment{Label: models.MoodSad, Intensity: 1})
	high := s.Select(models.MoodAssessment{Label: models.MoodSad, Intensity: 10})
	if len(low) != len(high) {
		t.Fatalf("selection varies with intensity: %d vs %d entries", len(low), len(high))
	}
	for i := range low {
		if low[i] != high[i] {
			t.Errorf("entry %d varies with intensity: %+v vs %+v", i, low[i], high[i])
		}
	}
}

func TestSelect_ReturnsCopy(t *testing.T) {
	s := newTestSelector()
	assessment := models.MoodAssessment{Label: models.MoodHappy, Intensity: 5}
	first := s.Select(assessment)
	first[0].Title = "mutated"
	second := s.Select(assessment)
	if second[0].Title == "mutated" {
		t.Error("mutating a returned slice leaked into the selector table")
	}
}

func TestSelectLimited_FiltersByDuration(t *testing.T) {
	s := newTestSelector()
	assessment := models.MoodAssessment{Label: models.MoodAnxious, Intensity: 5}
	got := s.SelectLimited(assessment, 500)
	for _, rec := range got {
		if rec.DurationSeconds > 500 {
			t.Errorf("activity %q exceeds the duration limit: %d", rec.Title, rec.DurationSeconds)
		}
	}
	// Entries without a duration always pass the filter.
	var hasUntimed bool
	for _, rec := range got {
		if rec.DurationSeconds == 0 {
			hasUntimed = true
		}
	}
	if !hasUntimed {
		t.Error("expected untimed activities to survive the duration filter")
	}
	if unlimited := s.SelectLimited(assessment, 0); len(unlimited) != len(s.Select(assessment)) {
		t.Error("non-positive limit must return the full list")
	}
}
