// Package mood converts heterogeneous input (text, quiz answer, voice
// transcript) into a canonical mood assessment.
//
// Normalization is defensive: malformed or empty input never raises and
// falls back to a neutral mid-scale assessment with minimum confidence.
package mood

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/safespace-app/safespace/internal/config"
	"github.com/safespace-app/safespace/internal/models"
)

// scaleRatingPattern matches explicit self-ratings like "7/10".
var scaleRatingPattern = regexp.MustCompile(`\b([1-9]|10)/10\b`)

// quizEntry is the fixed assessment for one quiz choice.
type quizEntry struct {
	label     models.MoodLabel
	intensity int
}

// Normalizer derives mood assessments from raw inputs using the
// configured lexicons and quiz option map.
type Normalizer struct {
	lexicons         map[models.MoodLabel][]string
	intensityPhrases []config.IntensityPhrase
	quizOptions      map[string]quizEntry
	messages         map[models.MoodLabel]config.MessageBands
}

// defaultSupportMessage is returned when no message band is configured
// for an assessment's label.
const defaultSupportMessage = "I'm here to support you. How are you feeling today?"

// NewNormalizer creates a Normalizer from the mood configuration.
func NewNormalizer(cfg config.MoodConfig) *Normalizer {
	lexicons := make(map[models.MoodLabel][]string, len(cfg.Lexicons))
	for label, words := range cfg.Lexicons {
		l := models.MoodLabel(label)
		if !models.IsValidMoodLabel(l) {
			continue
		}
		lexicons[l] = append([]string(nil), words...)
	}
	quiz := make(map[string]quizEntry, len(cfg.QuizOptions))
	for choice, opt := range cfg.QuizOptions {
		l := models.MoodLabel(opt.Label)
		if !models.IsValidMoodLabel(l) {
			continue
		}
		quiz[choice] = quizEntry{label: l, intensity: clampIntensity(opt.Intensity)}
	}
	messages := make(map[models.MoodLabel]config.MessageBands, len(cfg.Messages))
	for label, bands := range cfg.Messages {
		l := models.MoodLabel(label)
		if !models.IsValidMoodLabel(l) {
			continue
		}
		messages[l] = bands
	}
	return &Normalizer{
		lexicons:         lexicons,
		intensityPhrases: append([]config.IntensityPhrase(nil), cfg.IntensityPhrases...),
		quizOptions:      quiz,
		messages:         messages,
	}
}

// Message returns the supportive message for an assessment, selected by
// intensity band: low up to 3, medium up to 7, high above.
func (n *Normalizer) Message(a models.MoodAssessment) string {
	bands, ok := n.messages[a.Label]
	if !ok {
		if bands, ok = n.messages[models.MoodNeutral]; !ok {
			return defaultSupportMessage
		}
	}
	switch {
	case a.Intensity <= 3:
		return bands.Low
	case a.Intensity <= 7:
		return bands.Medium
	default:
		return bands.High
	}
}

// Normalize converts a MoodInput into a MoodAssessment. It never
// returns an error: inputs it cannot interpret normalize to a neutral
// mid-scale assessment at minimum confidence.
func (n *Normalizer) Normalize(input models.MoodInput) models.MoodAssessment {
	switch input.Source {
	case models.SourceQuiz:
		return n.normalizeQuiz(input)
	case models.SourceText, models.SourceVoiceTranscript:
		return n.normalizeText(input)
	default:
		return neutralAssessment(input.Source)
	}
}

// normalizeQuiz maps a quiz choice directly to its fixed assessment.
// Quiz answers come from a closed option set, so confidence is 1.0.
func (n *Normalizer) normalizeQuiz(input models.MoodInput) models.MoodAssessment {
	entry, ok := n.quizOptions[strings.ToLower(strings.TrimSpace(input.QuizChoice))]
	if !ok {
		return neutralAssessment(input.Source)
	}
	return models.MoodAssessment{
		Label:      entry.label,
		Intensity:  entry.intensity,
		Confidence: 1.0,
		Source:     input.Source,
	}
}

// normalizeText scores free text against the per-label lexicons. The
// label with the highest vote total wins; ties break toward mixed.
func (n *Normalizer) normalizeText(input models.MoodInput) models.MoodAssessment {
	text := strings.TrimSpace(input.RawValue)
	if text == "" {
		return neutralAssessment(input.Source)
	}
	lower := strings.ToLower(text)

	votes := make(map[models.MoodLabel]int, len(n.lexicons))
	for label, words := range n.lexicons {
		for _, w := range words {
			if strings.Contains(lower, w) {
				votes[label]++
			}
		}
	}

	label, margin := winner(votes)
	if label == "" {
		return neutralAssessment(input.Source)
	}

	return models.MoodAssessment{
		Label:      label,
		Intensity:  n.estimateIntensity(text, lower),
		Confidence: confidenceFromMargin(margin),
		Source:     input.Source,
	}
}

// winner returns the label with the highest vote total and the margin
// over the runner-up. A tie for the top total resolves to mixed. An
// empty label means no lexicon matched at all.
func winner(votes map[models.MoodLabel]int) (models.MoodLabel, int) {
	var top models.MoodLabel
	best, second := 0, 0
	tied := false
	// Fixed label order keeps the scan deterministic across calls.
	for _, label := range models.AllMoodLabels {
		v := votes[label]
		if v == 0 {
			continue
		}
		switch {
		case v > best:
			second = best
			best = v
			top = label
			tied = false
		case v == best:
			second = best
			tied = true
		case v > second:
			second = v
		}
	}
	if best == 0 {
		return "", 0
	}
	if tied {
		return models.MoodMixed, 0
	}
	return top, best - second
}

// estimateIntensity derives an intensity from explicit signals in the
// text: a "n/10" self-rating wins, then the first configured intensity
// phrase, then punctuation and caps emphasis on the mid-scale default.
func (n *Normalizer) estimateIntensity(text, lower string) int {
	if m := scaleRatingPattern.FindStringSubmatch(lower); m != nil {
		v, err := strconv.Atoi(m[1])
		if err == nil {
			return clampIntensity(v)
		}
	}

	intensity := models.DefaultIntensity
	for _, p := range n.intensityPhrases {
		if strings.Contains(lower, p.Phrase) {
			intensity = p.Intensity
			break
		}
	}

	if strings.Contains(text, "!!!") || isShouting(text) {
		intensity += 2
	} else if strings.Contains(text, "!") {
		intensity++
	}
	return clampIntensity(intensity)
}

// confidenceFromMargin maps the vote margin between the top two labels
// to a confidence value, floored so confidence is never zero.
func confidenceFromMargin(margin int) float64 {
	conf := float64(margin) / 3.0
	if conf < models.MinConfidence {
		return models.MinConfidence
	}
	if conf > 1.0 {
		return 1.0
	}
	return conf
}

func neutralAssessment(source models.InputSource) models.MoodAssessment {
	return models.MoodAssessment{
		Label:      models.MoodNeutral,
		Intensity:  models.DefaultIntensity,
		Confidence: models.MinConfidence,
		Source:     source,
	}
}

func clampIntensity(v int) int {
	if v < models.MinIntensity {
		return models.MinIntensity
	}
	if v > models.MaxIntensity {
		return models.MaxIntensity
	}
	return v
}

// isShouting reports whether the text contains letters and all of them
// are upper case.
func isShouting(text string) bool {
	hasLetter := false
	for _, r := range text {
		if 'a' <= r && r <= 'z' {
			return false
		}
		if 'A' <= r && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}
