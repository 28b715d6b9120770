package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage-advisor/internal/config"
	"triage-advisor/internal/emergency"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "LLM_API_KEY", "LLM_PROVIDER", "TRIAGE_CONFIG"} {
		t.Setenv(k, "")
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		flagged, jsonOut, listKw = false, false, false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestClassifyCritical(t *testing.T) {
	out, err := runCLI(t, "classify", "sudden", "Chest Pain", "and", "sweating")
	require.NoError(t, err)
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "chest pain")
	assert.Contains(t, out, "112")
}

func TestClassifyJSON(t *testing.T) {
	out, err := runCLI(t, "classify", "--json", "--emergency", "mild cough")
	require.NoError(t, err)

	var c emergency.Classification
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, emergency.Critical, c.Level)
	assert.True(t, c.Flagged)
	assert.Empty(t, c.Matches)
}

func TestClassifyNonCritical(t *testing.T) {
	out, err := runCLI(t, "classify", "runny nose")
	require.NoError(t, err)
	assert.Contains(t, out, "NON_CRITICAL")
}

func TestClassifyListsKeywords(t *testing.T) {
	out, err := runCLI(t, "classify", "--keywords")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, emergency.DefaultKeywords, lines)

	_, err = runCLI(t, "classify", "--keywords", "chest pain")
	assert.Error(t, err)
}

func TestAssessWithoutKeyFails(t *testing.T) {
	_, err := runCLI(t, "assess", "--name", "Ada", "--symptoms", "cough")
	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "llm.api_key", cfgErr.Key)
}

func TestDemoUnknownScenario(t *testing.T) {
	_, err := runCLI(t, "demo", "--scenario", "surgery")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scenario")
	scenario = "maternal"
}
