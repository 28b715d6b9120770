package assessment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage-advisor/internal/agent"
	"triage-advisor/internal/emergency"
	"triage-advisor/internal/lookup"
	"triage-advisor/internal/metrics"
	"triage-advisor/internal/pipeline"
)

func newTestService(t *testing.T, m agent.Model) (Service, *metrics.Pipeline) {
	t.Helper()
	pm := metrics.New(prometheus.NewRegistry())
	runner := pipeline.NewRunner(m, lookup.Default(), emergency.NewClassifier(nil), pipeline.WithMetrics(pm))
	return NewService(runner, NewRepository(16, time.Hour), pm, nil), pm
}

func TestRequestRecord(t *testing.T) {
	rec, err := Request{
		Name:            "Amina Ibrahim",
		Age:             pipeline.AgeOf(28),
		Gender:          "Female",
		Symptoms:        "fever",
		Severity:        "Very Severe",
		CheckedSymptoms: []string{"Fever", " ", "Headache"},
	}.Record()
	require.NoError(t, err)

	assert.Equal(t, pipeline.GenderFemale, rec.Gender)
	assert.Equal(t, pipeline.SeverityVerySevere, rec.Severity)
	assert.Equal(t, pipeline.DefaultLocation, rec.Location)
	assert.Equal(t, pipeline.DefaultPhone, rec.Phone)
	assert.Equal(t, []string{"Fever", "Headache"}, rec.CheckedSymptoms)
}

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"missing name", Request{Symptoms: "fever"}, "name"},
		{"blank name", Request{Name: "  ", Symptoms: "fever"}, "name"},
		{"missing symptoms", Request{Name: "Ada"}, "symptoms"},
		{"negative age", Request{Name: "Ada", Symptoms: "fever", Age: pipeline.AgeOf(-1)}, "age"},
		{"too old", Request{Name: "Ada", Symptoms: "fever", Age: pipeline.AgeOf(121)}, "age"},
		{"bad severity", Request{Name: "Ada", Symptoms: "fever", Severity: "extreme"}, "severity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Record()
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestAssessRejectsBeforeModelCall(t *testing.T) {
	mock := &agent.MockModel{}
	svc, pm := newTestService(t, mock)

	_, err := svc.Assess(context.Background(), Request{Name: "Ada"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Zero(t, mock.Calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.AssessmentsTotal.WithLabelValues(metrics.OutcomeRejected)))
}

func TestAssessStoresReport(t *testing.T) {
	mock := &agent.MockModel{}
	svc, _ := newTestService(t, mock)

	out, err := svc.Assess(context.Background(), Scenarios["medicine"])
	require.NoError(t, err)
	require.NotNil(t, out.Report)
	assert.Equal(t, 5, mock.Calls())

	stored, err := svc.Report(out.ID)
	require.NoError(t, err)
	assert.Same(t, out.Report, stored)

	_, err = svc.Report(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssessEmergencyNotStored(t *testing.T) {
	mock := &agent.MockModel{}
	svc, _ := newTestService(t, mock)

	out, err := svc.Assess(context.Background(), Scenarios["emergency"])
	require.NoError(t, err)
	assert.True(t, out.IsEmergency())
	assert.Zero(t, mock.Calls())

	_, err = svc.Report(out.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssessPropagatesStageFailure(t *testing.T) {
	mock := &agent.MockModel{Respond: func(call int, _ agent.Prompt) (string, error) {
		return "", errors.New("401 invalid api key")
	}}
	svc, _ := newTestService(t, mock)

	_, err := svc.Assess(context.Background(), Scenarios["maternal"])
	var callErr *pipeline.ExternalCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, pipeline.StageTriage, callErr.Stage)
}

func TestClassify(t *testing.T) {
	svc, _ := newTestService(t, &agent.MockModel{})

	c, err := svc.Classify(Request{Name: "x", Symptoms: "Suspected POISONING after eating"})
	require.NoError(t, err)
	assert.True(t, c.IsCritical())
	assert.Equal(t, []string{"poisoning"}, c.Matches)

	_, err = svc.Classify(Request{Name: "x"})
	assert.Error(t, err)
}

func TestRepositoryEvicts(t *testing.T) {
	repo := NewRepository(2, time.Hour)
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		repo.Save(&pipeline.Report{ID: id})
	}
	assert.Equal(t, 2, repo.Len())
	_, err := repo.GetByID(ids[0])
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := repo.GetByID(ids[2])
	require.NoError(t, err)
	assert.Equal(t, ids[2], got.ID)
}

func TestScenarios(t *testing.T) {
	assert.Equal(t, []string{"emergency", "maternal", "medicine"}, ScenarioNames())
	for name, req := range Scenarios {
		_, err := req.Record()
		assert.NoError(t, err, name)
	}
	for i := 0; i < 10; i++ {
		_, err := DemoPatient().Record()
		assert.NoError(t, err)
	}
}
