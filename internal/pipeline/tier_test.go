package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestTier(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		symptoms string
		want     Tier
	}{
		{"mild with no signs", SeverityMild, "slightly tired", TierHomeCare},
		{"mild clinic complaint", SeverityMild, "dry cough at night", TierPHC},
		{"unrated defaults to clinic", "", "tired", TierPHC},
		{"moderate", SeverityModerate, "sore throat", TierPHC},
		{"severe", SeveritySevere, "sore throat", TierGeneralHospital},
		{"very severe", SeverityVerySevere, "sore throat", TierTeaching},
		{"mild but warning sign", SeverityMild, "High fever and stiff neck", TierGeneralHospital},
		{"severe with warning sign", SeveritySevere, "persistent vomiting for two days", TierTeaching},
		{"pregnancy care", SeverityMild, "antenatal visit schedule", TierPHC},
		{"negated warning sign", SeverityModerate, "Loose stools and vomiting. No blood in stool.", TierPHC},
		{"negated sign then real one", SeverityModerate, "no confusion but blood in stool today", TierGeneralHospital},
		{"negation only applies to its phrase", SeverityModerate, "no rash, vomiting blood since morning", TierGeneralHospital},
		{"word ending in no is not a negation", SeverityMild, "casino jaundice", TierGeneralHospital},
		{"negated clinic complaint", SeverityMild, "without fever, just tired", TierHomeCare},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestTier(PatientRecord{Severity: tt.severity, Symptoms: tt.symptoms})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestTierReadsCheckedSymptoms(t *testing.T) {
	r := PatientRecord{Severity: SeverityMild, Symptoms: "tired", CheckedSymptoms: []string{"Jaundice"}}
	assert.Equal(t, TierGeneralHospital, SuggestTier(r))
}

func TestSuggestTierDemoChild(t *testing.T) {
	r := PatientRecord{
		Severity: SeverityModerate,
		Symptoms: "Started with stomach pain and loose stools. Vomited twice yesterday. Low-grade fever. No blood in stool.",
	}
	assert.Equal(t, TierPHC, SuggestTier(r))
}
