package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"triage-advisor/internal/agent"
	"triage-advisor/internal/assessment"
	"triage-advisor/internal/config"
	"triage-advisor/internal/pipeline"
)

func testApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	a, err := Offline(&cfg, zap.NewNop())
	require.NoError(t, err)
	return a.withModel(&agent.MockModel{})
}

func TestRouterServesAssessmentAndMetrics(t *testing.T) {
	a := testApp(t, config.Default())
	h, err := a.Router()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/assessments",
		strings.NewReader(`{"name":"Ada","age":30,"symptoms":"sore throat"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `triage_assessments_total{outcome="report"} 1`)
	assert.Contains(t, rec.Body.String(), `triage_stage_calls_total{stage="aggregator",status="ok"} 1`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/assessments", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func assessmentRequest() assessment.Request {
	return assessment.Request{Name: "Ngozi Eze", Age: pipeline.AgeOf(31), Symptoms: "cough and catarrh"}
}

func TestFileSinkWired(t *testing.T) {
	cfg := config.Default()
	cfg.Report.OutputPath = filepath.Join(t.TempDir(), "report.md")
	a := testApp(t, cfg)

	out, err := a.Service.Assess(t.Context(), assessmentRequest())
	require.NoError(t, err)
	require.NotNil(t, out.Report)

	data, err := os.ReadFile(cfg.Report.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "**Patient:** Ngozi Eze")
}

func TestCustomKeywords(t *testing.T) {
	cfg := config.Default()
	cfg.Emergency.Keywords = []string{"snake bite"}
	a, err := Offline(&cfg, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, a.Classifier.Classify("Snake bite on the leg", false).IsCritical())
	assert.False(t, a.Classifier.Classify("chest pain", false).IsCritical())
}

func TestOfflineBadLookupFile(t *testing.T) {
	cfg := config.Default()
	cfg.Lookup.DataFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Offline(&cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestWriteTimeout(t *testing.T) {
	tests := []struct {
		name string
		llm  config.LLMConfig
		want time.Duration
	}{
		{"defaults", config.LLMConfig{CallTimeout: time.Minute, MaxRPM: 15}, 5*(time.Minute+4*time.Second) + time.Minute},
		{"no rate limit", config.LLMConfig{CallTimeout: 30 * time.Second}, 5*30*time.Second + time.Minute},
		{"slow limiter", config.LLMConfig{CallTimeout: 10 * time.Second, MaxRPM: 1}, 5*(10*time.Second+time.Minute) + time.Minute},
		{"no call timeout", config.LLMConfig{MaxRPM: 15}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, writeTimeout(tt.llm))
		})
	}
}
