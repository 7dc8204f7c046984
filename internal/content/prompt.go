package content

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/safespace-app/safespace/internal/models"
)

// aiPlaylistPayload is the JSON shape the AI is instructed to return
// for playlist requests.
type aiPlaylistPayload struct {
	Songs []struct {
		Title  string `json:"title"`
		Artist string `json:"artist"`
	} `json:"songs"`
	PlaylistName string `json:"playlist_name"`
	Description  string `json:"description"`
}

// aiAffirmationPayload is the JSON shape the AI is instructed to return
// for affirmation requests.
type aiAffirmationPayload struct {
	Affirmations         []string `json:"affirmations"`
	PersonalizedMessage  string   `json:"personalized_message"`
	BreathingInstruction string   `json:"breathing_instruction"`
}

// buildPrompt constructs the system and user prompts for the request
// from the configured mood context vocabulary.
func (g *Generator) buildPrompt(req models.ContentRequest) (string, string) {
	moodContext := g.cfg.MoodContexts[string(req.Mood)]
	if moodContext == "" {
		moodContext = "balanced"
	}
	modifier := intensityModifier(req.Intensity)

	switch req.Kind {
	case models.KindPlaylist:
		duration := req.DurationMinutes
		if duration <= 0 {
			duration = 30
		}
		system := "You are a music recommendation assistant. Respond with ONLY a JSON object, no other text."
		user := fmt.Sprintf(`Create a playlist for someone feeling %s with intensity %d/10.

Context: %s, %s
Duration: %d minutes

Generate 8-12 real songs that fit this mood. Include both popular and lesser-known songs.

Respond with ONLY a JSON object in this exact format:
{
  "songs": [
    {"title": "Song Title", "artist": "Artist Name"}
  ],
  "playlist_name": "Playlist Name",
  "description": "Brief description"
}`, req.Mood, req.Intensity, moodContext, modifier, duration)
		return system, user

	default:
		system := "You are a kind mental health support assistant. Respond with ONLY a JSON object, no other text."
		user := fmt.Sprintf(`Create personalized affirmations for someone feeling %s at intensity %d/10.

Context: %s, %s

Create 5 supportive affirmations using "I" statements. Also provide a personalized message and a breathing instruction if helpful.

Respond with ONLY a JSON object in this exact format:
{
  "affirmations": ["affirmation 1", "affirmation 2", "affirmation 3", "affirmation 4", "affirmation 5"],
  "personalized_message": "A warm, supportive message",
  "breathing_instruction": "Breathing instruction if helpful"
}`, req.Mood, req.Intensity, moodContext, modifier)
		return system, user
	}
}

// intensityModifier maps an intensity value to prompt vocabulary.
func intensityModifier(intensity int) string {
	switch {
	case intensity >= 8:
		return "very intense, deep, powerful"
	case intensity >= 6:
		return "moderate, noticeable, present"
	case intensity >= 4:
		return "mild, gentle, subtle"
	default:
		return "very light, barely noticeable, soft"
	}
}

// validate parses the raw AI response and checks it against the schema
// for the requested kind. Any shape or count violation is an error so
// the caller can resolve through the fallback path.
func (g *Generator) validate(req models.ContentRequest, raw string) (models.GeneratedContent, error) {
	jsonStr, err := extractJSON(raw)
	if err != nil {
		return models.GeneratedContent{}, err
	}

	switch req.Kind {
	case models.KindPlaylist:
		return g.validatePlaylist(req, jsonStr)
	case models.KindAffirmationSet:
		return g.validateAffirmations(req, jsonStr)
	default:
		return models.GeneratedContent{}, models.ErrInvalidContentKind
	}
}

func (g *Generator) validatePlaylist(req models.ContentRequest, jsonStr string) (models.GeneratedContent, error) {
	var payload aiPlaylistPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return models.GeneratedContent{}, fmt.Errorf("playlist payload does not parse: %w", err)
	}

	minTracks := g.cfg.MinTracks
	if minTracks < 1 {
		minTracks = 3
	}
	tracks := make([]models.Track, 0, len(payload.Songs))
	for _, s := range payload.Songs {
		if strings.TrimSpace(s.Title) == "" || strings.TrimSpace(s.Artist) == "" {
			continue
		}
		tracks = append(tracks, models.Track{Title: s.Title, Artist: s.Artist})
	}
	if len(tracks) < minTracks {
		return models.GeneratedContent{}, fmt.Errorf("playlist has %d valid tracks, need at least %d", len(tracks), minTracks)
	}

	name := strings.TrimSpace(payload.PlaylistName)
	if name == "" {
		return models.GeneratedContent{}, fmt.Errorf("playlist name is empty")
	}

	return models.GeneratedContent{
		Kind:       models.KindPlaylist,
		Provenance: models.ProvenanceAI,
		Playlist: &models.Playlist{
			ID:          uuid.NewString(),
			Name:        name,
			Description: payload.Description,
			Tracks:      tracks,
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (g *Generator) validateAffirmations(req models.ContentRequest, jsonStr string) (models.GeneratedContent, error) {
	var payload aiAffirmationPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return models.GeneratedContent{}, fmt.Errorf("affirmation payload does not parse: %w", err)
	}

	minAffirmations := g.cfg.MinAffirmations
	if minAffirmations < 1 {
		minAffirmations = 3
	}
	affirmations := make([]string, 0, len(payload.Affirmations))
	for _, a := range payload.Affirmations {
		if strings.TrimSpace(a) == "" {
			continue
		}
		affirmations = append(affirmations, a)
	}
	if len(affirmations) < minAffirmations {
		return models.GeneratedContent{}, fmt.Errorf("payload has %d valid affirmations, need at least %d", len(affirmations), minAffirmations)
	}
	if strings.TrimSpace(payload.PersonalizedMessage) == "" {
		return models.GeneratedContent{}, fmt.Errorf("personalized message is empty")
	}

	return models.GeneratedContent{
		Kind:       models.KindAffirmationSet,
		Provenance: models.ProvenanceAI,
		Affirmations: &models.AffirmationSet{
			Affirmations:         affirmations,
			PersonalizedMessage:  payload.PersonalizedMessage,
			BreathingInstruction: payload.BreathingInstruction,
		},
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// extractJSON pulls the first JSON object out of a possibly chatty AI
// response by slicing from the first '{' to the last '}'.
func extractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("response contains no JSON object")
	}
	return raw[start : end+1], nil
}
