package emergency

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage-advisor/internal/lookup"
)

func TestClassifyEveryKeyword(t *testing.T) {
	c := NewClassifier(nil)
	for _, kw := range DefaultKeywords {
		for _, text := range []string{
			kw,
			strings.ToUpper(kw),
			"I have had " + strings.ToUpper(kw[:1]) + kw[1:] + " since this morning",
			"prefix" + kw + "suffix",
		} {
			got := c.Classify(text, false)
			assert.Equal(t, Critical, got.Level, text)
			assert.Contains(t, got.Matches, kw, text)
		}
	}
}

func TestClassifyNonCritical(t *testing.T) {
	c := NewClassifier(nil)
	for _, text := range []string{
		"",
		"mild headache and fatigue for 3 days",
		"fever, joint pain, no appetite",
		"chest tightness after running",
	} {
		got := c.Classify(text, false)
		assert.Equal(t, NonCritical, got.Level, text)
		assert.Empty(t, got.Matches, text)
	}
}

func TestClassifyFlagWins(t *testing.T) {
	c := NewClassifier(nil)

	got := c.Classify("feeling a bit off", true)
	assert.Equal(t, Critical, got.Level)
	assert.Empty(t, got.Matches)
	assert.True(t, got.Flagged)
}

func TestClassifyExample(t *testing.T) {
	c := NewClassifier(nil)

	got := c.Classify("Severe chest pain, difficulty breathing, sweating, and pain radiating to left arm for the past 30 minutes", false)
	assert.True(t, got.IsCritical())
	assert.Equal(t, []string{"chest pain", "difficulty breathing"}, got.Matches)
}

func TestNewClassifierCustomVocabulary(t *testing.T) {
	c := NewClassifier([]string{" Snake Bite ", "snake bite", ""})
	assert.Equal(t, []string{"snake bite"}, c.Keywords())
	assert.True(t, c.Classify("SNAKE BITE on leg", false).IsCritical())
	assert.False(t, c.Classify("chest pain", false).IsCritical())

	assert.Equal(t, DefaultKeywords, NewClassifier([]string{"  "}).Keywords())
}

func TestNoticeContainsNationalNumber(t *testing.T) {
	c := NewClassifier(nil)
	dir := lookup.Default()

	n := NewNotice(c.Classify("stroke symptoms, face drooping", false), "Enugu", dir)
	require.NotEmpty(t, n.Text)
	assert.Contains(t, n.Text, "112")
	assert.Contains(t, n.Text, "not available for Enugu")
	assert.Contains(t, n.Text, "Critical symptoms detected: stroke.")
	assert.Contains(t, n.Text, "FAST")

	flagged := NewNotice(c.Classify("feeling a bit off", true), "Lagos", dir)
	assert.Contains(t, flagged.Text, "112")
	assert.Contains(t, flagged.Text, "You reported this as a medical emergency.")
	assert.Contains(t, flagged.Text, "Lagos Emergency: 0800-123-4567")
	assert.NotContains(t, flagged.Text, "While Waiting For Help")
}

func TestSummary(t *testing.T) {
	c := NewClassifier(nil)
	assert.Contains(t, c.Classify("seizure", false).Summary(), "Symptoms: seizure")
	assert.Contains(t, c.Classify("ok", false).Summary(), "No critical emergency detected")
}
