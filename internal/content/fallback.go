package content

import (
	"fmt"
	"time"

	"github.com/safespace-app/safespace/internal/config"
	"github.com/safespace-app/safespace/internal/models"
)

// fallbackLibrary holds the static per-mood templates used when the AI
// capability is unavailable or returns an invalid payload. Synthesis is
// deterministic: the same {mood, intensity, kind} always yields the
// same payload.
type fallbackLibrary struct {
	playlists            map[models.MoodLabel][]models.Track
	affirmations         map[models.MoodLabel][]string
	breathingMoods       map[models.MoodLabel]bool
	breathingInstruction string
}

func newFallbackLibrary(cfg config.ContentConfig) *fallbackLibrary {
	lib := &fallbackLibrary{
		playlists:            make(map[models.MoodLabel][]models.Track),
		affirmations:         make(map[models.MoodLabel][]string),
		breathingMoods:       make(map[models.MoodLabel]bool),
		breathingInstruction: cfg.BreathingInstruction,
	}
	for label, tracks := range cfg.FallbackPlaylists {
		l := models.MoodLabel(label)
		out := make([]models.Track, 0, len(tracks))
		for _, t := range tracks {
			out = append(out, models.Track{Title: t.Title, Artist: t.Artist})
		}
		lib.playlists[l] = out
	}
	for label, list := range cfg.FallbackAffirmations {
		lib.affirmations[models.MoodLabel(label)] = append([]string(nil), list...)
	}
	for _, label := range cfg.BreathingMoods {
		lib.breathingMoods[models.MoodLabel(label)] = true
	}
	return lib
}

// synthesize builds fallback content for the request. Moods without a
// template fall back to the neutral template so the result is never
// empty.
func (lib *fallbackLibrary) synthesize(req models.ContentRequest) models.GeneratedContent {
	switch req.Kind {
	case models.KindPlaylist:
		return lib.synthesizePlaylist(req)
	default:
		return lib.synthesizeAffirmations(req)
	}
}

func (lib *fallbackLibrary) synthesizePlaylist(req models.ContentRequest) models.GeneratedContent {
	tracks, ok := lib.playlists[req.Mood]
	if !ok {
		tracks = lib.playlists[models.MoodNeutral]
	}
	out := make([]models.Track, len(tracks))
	copy(out, tracks)

	return models.GeneratedContent{
		Kind:       models.KindPlaylist,
		Provenance: models.ProvenanceFallback,
		Playlist: &models.Playlist{
			// Deterministic ID keeps repeated fallback generation
			// byte-identical for the same request parameters.
			ID:          fmt.Sprintf("fallback-%s-%d", req.Mood, req.Intensity),
			Name:        fmt.Sprintf("%s Mix", titleCase(string(req.Mood))),
			Description: fmt.Sprintf("A curated playlist for your %s mood, %s", req.Mood, intensityModifier(req.Intensity)),
			Tracks:      out,
		},
		GeneratedAt: time.Now().UTC(),
	}
}

func (lib *fallbackLibrary) synthesizeAffirmations(req models.ContentRequest) models.GeneratedContent {
	affirmations, ok := lib.affirmations[req.Mood]
	if !ok {
		affirmations = lib.affirmations[models.MoodNeutral]
	}
	out := make([]string, len(affirmations))
	copy(out, affirmations)

	set := &models.AffirmationSet{
		Affirmations: out,
		PersonalizedMessage: fmt.Sprintf(
			"You're being so brave by acknowledging your %s feelings. That takes real courage.", req.Mood),
	}
	if lib.breathingMoods[req.Mood] {
		set.BreathingInstruction = lib.breathingInstruction
	}

	return models.GeneratedContent{
		Kind:         models.KindAffirmationSet,
		Provenance:   models.ProvenanceFallback,
		Affirmations: set,
		GeneratedAt:  time.Now().UTC(),
	}
}

// titleCase upper-cases the first ASCII letter of s.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if 'a' <= b[0] && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
