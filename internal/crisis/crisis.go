// Package crisis scans raw textual input for self-harm indicators.
//
// Detection is pure string matching against a fixed keyword set so it
// can never fail or block. A triggered flag supersedes all downstream
// mood processing for that request.
package crisis

import (
	"strings"

	"github.com/safespace-app/safespace/internal/config"
	"github.com/safespace-app/safespace/internal/models"
)

// Detector matches free text against the configured crisis keyword set.
type Detector struct {
	keywords  []string
	message   string
	resources []models.CrisisResource
}

// NewDetector creates a Detector from the crisis configuration. The
// keyword set and escalation content are fixed for the Detector's
// lifetime.
func NewDetector(cfg config.CrisisConfig) *Detector {
	resources := make([]models.CrisisResource, 0, len(cfg.Resources))
	for _, r := range cfg.Resources {
		resources = append(resources, models.CrisisResource{
			Name:         r.Name,
			Contact:      r.Contact,
			Availability: r.Availability,
		})
	}
	// Keywords are lowered once here; Detect lowercases the input, so
	// matching stays case-insensitive regardless of config casing.
	keywords := make([]string, len(cfg.Keywords))
	for i, kw := range cfg.Keywords {
		keywords[i] = strings.ToLower(kw)
	}
	return &Detector{
		keywords:  keywords,
		message:   cfg.Message,
		resources: resources,
	}
}

// Detect scans text for crisis keywords using case-insensitive
// substring matching. Every matched keyword is recorded. Detect has no
// side effects and never fails.
func (d *Detector) Detect(text string) models.CrisisFlag {
	if text == "" {
		return models.CrisisFlag{}
	}
	lower := strings.ToLower(text)
	var matched []string
	for _, kw := range d.keywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return models.CrisisFlag{
		Triggered:    len(matched) > 0,
		MatchedTerms: matched,
	}
}

// EscalationResponse returns the fixed crisis response. The same
// response is returned for every triggered request; it is never
// derived from the input.
func (d *Detector) EscalationResponse() models.CrisisResponse {
	resources := make([]models.CrisisResource, len(d.resources))
	copy(resources, d.resources)
	return models.CrisisResponse{
		Crisis:    true,
		Message:   d.message,
		Resources: resources,
	}
}
