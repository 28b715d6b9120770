package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaults(t *testing.T) {
	r := PatientRecord{Name: " Ada ", Symptoms: " cough ", Gender: "unknown", Age: AgeOf(-3)}.WithDefaults()

	assert.Equal(t, "Ada", r.Name)
	assert.Equal(t, "cough", r.Symptoms)
	assert.Equal(t, DefaultLocation, r.Location)
	assert.Equal(t, DefaultMedicalHistory, r.MedicalHistory)
	assert.Equal(t, DefaultPhone, r.Phone)
	assert.Equal(t, GenderOther, r.Gender)
	assert.Equal(t, SeverityModerate, r.Severity)
	require.NotNil(t, r.Age)
	assert.Zero(t, *r.Age)

	assert.Equal(t, r, r.WithDefaults())
}

func TestWithDefaultsMissingAge(t *testing.T) {
	var r PatientRecord
	assert.Equal(t, DefaultAge, r.Years())

	r = r.WithDefaults()
	require.NotNil(t, r.Age)
	assert.Equal(t, 25, *r.Age)

	infant := PatientRecord{Age: AgeOf(0)}.WithDefaults()
	assert.Zero(t, infant.Years())
}

func TestWithDefaultsKeepsValues(t *testing.T) {
	in := PatientRecord{
		Name:           "Ada",
		Age:            AgeOf(30),
		Gender:         GenderFemale,
		Location:       "Lagos",
		Phone:          "+2348012345678",
		MedicalHistory: "Asthma",
		Symptoms:       "wheezing",
		Severity:       SeveritySevere,
	}
	assert.Equal(t, in, in.WithDefaults())
}

func TestSymptomText(t *testing.T) {
	r := PatientRecord{Symptoms: "fever"}
	assert.Equal(t, "fever", r.SymptomText())

	r.CheckedSymptoms = []string{"Headache", "Body aches"}
	assert.Equal(t, "fever\n\nAdditional symptoms checked: Headache, Body aches", r.SymptomText())
}

func TestParseGender(t *testing.T) {
	assert.Equal(t, GenderMale, ParseGender("Male"))
	assert.Equal(t, GenderFemale, ParseGender(" f "))
	assert.Equal(t, GenderOther, ParseGender("prefer not to say"))
	assert.Equal(t, GenderOther, ParseGender(""))
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
		ok   bool
	}{
		{"Mild", SeverityMild, true},
		{"moderate", SeverityModerate, true},
		{"SEVERE", SeveritySevere, true},
		{"Very Severe", SeverityVerySevere, true},
		{"very_severe", SeverityVerySevere, true},
		{"", "", true},
		{"extreme", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSeverity(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestOutcomeMarkdown(t *testing.T) {
	var o Outcome
	assert.False(t, o.IsEmergency())
	assert.Empty(t, o.Markdown())

	o.Report = &Report{Markdown: "# report", Stages: []StageResult{{Stage: StageFinance, Output: "NHIA"}}}
	assert.Equal(t, "# report", o.Markdown())
	assert.Equal(t, "NHIA", o.Report.output(StageFinance))
	assert.Empty(t, o.Report.output(StageAggregator))
}
