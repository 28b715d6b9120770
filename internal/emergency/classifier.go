// Package emergency decides whether an intake must bypass the assessment
// pipeline and go straight to emergency services.
package emergency

import (
	"fmt"
	"strings"
)

type Level string

const (
	Critical    Level = "CRITICAL"
	NonCritical Level = "NON_CRITICAL"
)

// DefaultKeywords is the critical vocabulary used when configuration supplies none.
var DefaultKeywords = []string{
	"chest pain",
	"heart attack",
	"stroke",
	"unconscious",
	"severe bleeding",
	"difficulty breathing",
	"seizure",
	"head injury",
	"poisoning",
	"anaphylaxis",
}

// Classification is the classifier verdict. Matches lists the vocabulary
// phrases found in the text, in vocabulary order.
type Classification struct {
	Level   Level    `json:"level"`
	Matches []string `json:"matches"`
	Flagged bool     `json:"flagged"`
}

func (c Classification) IsCritical() bool {
	return c.Level == Critical
}

type Classifier struct {
	keywords []string
}

// NewClassifier builds a classifier over keywords. Blank and duplicate entries
// are dropped; an empty list falls back to DefaultKeywords.
func NewClassifier(keywords []string) *Classifier {
	seen := make(map[string]bool)
	var kws []string
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		kws = append(kws, k)
	}
	if len(kws) == 0 {
		return NewClassifier(DefaultKeywords)
	}
	return &Classifier{keywords: kws}
}

func (c *Classifier) Keywords() []string {
	return append([]string(nil), c.keywords...)
}

// Classify scans symptoms for critical keywords. An explicit intake flag wins
// over the text.
func (c *Classifier) Classify(symptoms string, flagged bool) Classification {
	text := strings.ToLower(symptoms)
	matches := []string{}
	for _, kw := range c.keywords {
		if strings.Contains(text, kw) {
			matches = append(matches, kw)
		}
	}

	level := NonCritical
	if flagged || len(matches) > 0 {
		level = Critical
	}
	return Classification{Level: level, Matches: matches, Flagged: flagged}
}

// Summary is a one-line description of the verdict, used in triage prompts.
func (c Classification) Summary() string {
	switch {
	case c.IsCritical() && len(c.Matches) > 0:
		return fmt.Sprintf("CRITICAL EMERGENCY DETECTED! Symptoms: %s. IMMEDIATE ACTION REQUIRED: Call 112 or go to nearest hospital immediately!", strings.Join(c.Matches, ", "))
	case c.IsCritical():
		return "CRITICAL EMERGENCY reported by the patient. IMMEDIATE ACTION REQUIRED: Call 112 or go to nearest hospital immediately!"
	default:
		return "No critical emergency detected, but continue monitoring symptoms."
	}
}
