package crisis

import (
	"strings"
	"testing"

	"github.com/safespace-app/safespace/internal/config"
)

func newTestDetector() *Detector {
	return NewDetector(config.Default().Crisis)
}

func TestDetect_EveryConfiguredKeywordTriggers(t *testing.T) {
	cfg := config.Default().Crisis
	d := NewDetector(cfg)

	for _, kw := range cfg.Keywords {
		for _, text := range []string{
			kw,
			strings.ToUpper(kw),
			"I feel like " + kw + " today",
		} {
			flag := d.Detect(text)
			if !flag.Triggered {
				t.Errorf("expected trigger for input %q (keyword %q)", text, kw)
			}
			found := false
			for _, term := range flag.MatchedTerms {
				if term == kw {
					found = true
				}
			}
			if !found {
				t.Errorf("expected matched_terms to contain %q for input %q, got %v", kw, text, flag.MatchedTerms)
			}
		}
	}
}

func TestDetect_CapitalizedConfigKeywords(t *testing.T) {
	cfg := config.Default().Crisis
	cfg.Keywords = []string{"Hopeless", "WANT TO DIE"}
	d := NewDetector(cfg)

	for _, text := range []string{"everything feels hopeless", "I want to die", "HOPELESS"} {
		if !d.Detect(text).Triggered {
			t.Errorf("expected trigger for %q with capitalized config keywords", text)
		}
	}
}

func TestDetect_NoTriggerOnOrdinaryText(t *testing.T) {
	d := newTestDetector()
	inputs := []string{
		"",
		"I am feeling pretty happy today",
		"work was stressful but I managed",
		"the sun is out and I went for a walk",
	}
	for _, text := range inputs {
		flag := d.Detect(text)
		if flag.Triggered {
			t.Errorf("unexpected trigger for input %q: matched %v", text, flag.MatchedTerms)
		}
		if len(flag.MatchedTerms) != 0 {
			t.Errorf("expected no matched terms for %q, got %v", text, flag.MatchedTerms)
		}
	}
}

func TestDetect_RecordsAllMatches(t *testing.T) {
	d := newTestDetector()
	flag := d.Detect("I want to die, everything is hopeless")
	if !flag.Triggered {
		t.Fatal("expected trigger")
	}
	if len(flag.MatchedTerms) < 2 {
		t.Errorf("expected at least 2 matched terms, got %v", flag.MatchedTerms)
	}
}

func TestEscalationResponse_ContainsLifeline(t *testing.T) {
	d := newTestDetector()
	resp := d.EscalationResponse()
	if !resp.Crisis {
		t.Error("expected crisis flag set on escalation response")
	}
	if resp.Message == "" {
		t.Error("expected non-empty escalation message")
	}
	found := false
	for _, r := range resp.Resources {
		if r.Contact == "988" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a resource with contact 988, got %+v", resp.Resources)
	}
}

func TestEscalationResponse_IsFixed(t *testing.T) {
	d := newTestDetector()
	a := d.EscalationResponse()
	b := d.EscalationResponse()
	if a.Message != b.Message || len(a.Resources) != len(b.Resources) {
		t.Error("expected identical escalation responses across calls")
	}
	// Mutating one response must not leak into the next.
	a.Resources[0].Contact = "changed"
	c := d.EscalationResponse()
	if c.Resources[0].Contact == "changed" {
		t.Error("escalation response shares internal state with callers")
	}
}
