// Package config loads the SafeSpace data tables: crisis keywords and
// resources, mood lexicons, the quiz option map, the activity table,
// and the fallback content templates.
//
// All decision data is externally loadable from a YAML file so none of
// it is hard-coded into the decision logic itself. An embedded default
// configuration is used when no file is provided. Loaded configuration
// is treated as immutable after startup.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfigYAML []byte

// Config is the root configuration document.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Crisis  CrisisConfig  `yaml:"crisis"`
	Mood    MoodConfig    `yaml:"mood"`
	// Activities maps a mood label to its fixed ordered list of
	// supportive activities. Order encodes priority.
	Activities map[string][]ActivityEntry `yaml:"activities"`
	Content    ContentConfig              `yaml:"content"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// CrisisConfig holds the crisis keyword set and the fixed escalation
// response content.
type CrisisConfig struct {
	Keywords  []string        `yaml:"keywords"`
	Message   string          `yaml:"message"`
	Resources []ResourceEntry `yaml:"resources"`
}

// ResourceEntry is one support resource in the escalation response.
type ResourceEntry struct {
	Name         string `yaml:"name"`
	Contact      string `yaml:"contact"`
	Availability string `yaml:"availability"`
}

// MoodConfig holds the normalizer's lexicons and quiz mapping.
type MoodConfig struct {
	// Lexicons maps a mood label to the keywords that vote for it.
	Lexicons map[string][]string `yaml:"lexicons"`
	// IntensityPhrases are checked in order; the first phrase found in
	// the input sets the base intensity.
	IntensityPhrases []IntensityPhrase `yaml:"intensity_phrases"`
	// QuizOptions maps a quiz choice (e.g. "anxious-high") to its fixed
	// label and intensity.
	QuizOptions map[string]QuizOption `yaml:"quiz_options"`
	// Messages maps a mood label to its supportive message bands.
	Messages map[string]MessageBands `yaml:"messages"`
}

// MessageBands holds the supportive messages for one mood, selected by
// intensity band.
type MessageBands struct {
	Low    string `yaml:"low"`
	Medium string `yaml:"medium"`
	High   string `yaml:"high"`
}

// IntensityPhrase pairs an intensity modifier phrase with its value.
type IntensityPhrase struct {
	Phrase    string `yaml:"phrase"`
	Intensity int    `yaml:"intensity"`
}

// QuizOption is the fixed assessment for one quiz choice.
type QuizOption struct {
	Label     string `yaml:"label"`
	Intensity int    `yaml:"intensity"`
}

// ActivityEntry is one row of the static activity table.
type ActivityEntry struct {
	Type            string `yaml:"type"`
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	DurationSeconds int    `yaml:"duration_seconds,omitempty"`
}

// ContentConfig holds the content generator's AI call policy and the
// per-mood fallback templates.
type ContentConfig struct {
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Attempts       int    `yaml:"attempts"`
	BackoffMS      int    `yaml:"backoff_ms"`
	MinTracks      int    `yaml:"min_tracks"`
	MinAffirmations int   `yaml:"min_affirmations"`
	// MoodContexts provides prompt vocabulary per mood label.
	MoodContexts map[string]string `yaml:"mood_contexts"`
	// FallbackPlaylists and FallbackAffirmations are the deterministic
	// per-mood templates used when the AI capability fails.
	FallbackPlaylists    map[string][]TrackEntry `yaml:"fallback_playlists"`
	FallbackAffirmations map[string][]string     `yaml:"fallback_affirmations"`
	// BreathingMoods lists moods whose fallback affirmation set includes
	// a breathing instruction.
	BreathingMoods       []string `yaml:"breathing_moods"`
	BreathingInstruction string   `yaml:"breathing_instruction"`
}

// TrackEntry is one fallback playlist track.
type TrackEntry struct {
	Title  string `yaml:"title"`
	Artist string `yaml:"artist"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := parse(defaultConfigYAML)
	if err != nil {
		// The embedded default is validated by tests; failing to parse
		// it is a build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return cfg
}

// Load reads and parses a config YAML file. Fields missing from the
// file keep their embedded default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// parse parses YAML bytes into a Config on top of the embedded defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultConfigYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if len(data) > 0 && string(data) != string(defaultConfigYAML) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks the structural invariants the core components rely on.
func (c *Config) validate() error {
	if len(c.Crisis.Keywords) == 0 {
		return fmt.Errorf("crisis keyword list must not be empty")
	}
	if len(c.Crisis.Resources) == 0 {
		return fmt.Errorf("crisis resource list must not be empty")
	}
	for label, entries := range c.Activities {
		if len(entries) == 0 {
			return fmt.Errorf("activity table for %q must not be empty", label)
		}
	}
	if c.Content.Attempts < 1 {
		return fmt.Errorf("content attempts must be at least 1")
	}
	if c.Content.TimeoutSeconds < 1 {
		return fmt.Errorf("content timeout must be at least 1 second")
	}
	return nil
}
