package assessment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"triage-advisor/internal/emergency"
	"triage-advisor/internal/metrics"
	"triage-advisor/internal/pipeline"
)

// Runner executes the assessment pipeline.
type Runner interface {
	Run(ctx context.Context, rec pipeline.PatientRecord) (*pipeline.Outcome, error)
	Classify(rec pipeline.PatientRecord) emergency.Classification
}

type Service interface {
	// Assess validates the intake and runs it. A *ValidationError means no
	// model call was made.
	Assess(ctx context.Context, req Request) (*pipeline.Outcome, error)
	// Classify runs only the emergency screen.
	Classify(req Request) (emergency.Classification, error)
	Report(id uuid.UUID) (*pipeline.Report, error)
	// Stored is the number of reports currently available for download.
	Stored() int
}

type service struct {
	runner  Runner
	repo    Repository
	metrics *metrics.Pipeline
	logger  *zap.Logger
}

func NewService(runner Runner, repo Repository, m *metrics.Pipeline, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		runner:  runner,
		repo:    repo,
		metrics: m,
		logger:  logger.Named("assessment"),
	}
}

func (s *service) Assess(ctx context.Context, req Request) (*pipeline.Outcome, error) {
	rec, err := req.Record()
	if err != nil {
		s.reject(err)
		return nil, err
	}

	out, err := s.runner.Run(ctx, rec)
	if err != nil {
		return nil, err
	}
	if out.Report != nil && s.repo != nil {
		s.repo.Save(out.Report)
	}
	return out, nil
}

func (s *service) Classify(req Request) (emergency.Classification, error) {
	rec, err := req.Record()
	if err != nil {
		s.reject(err)
		return emergency.Classification{}, err
	}
	return s.runner.Classify(rec), nil
}

func (s *service) Report(id uuid.UUID) (*pipeline.Report, error) {
	if s.repo == nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(id)
}

func (s *service) Stored() int {
	if s.repo == nil {
		return 0
	}
	return s.repo.Len()
}

func (s *service) reject(err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		s.logger.Info("intake rejected", zap.String("field", vErr.Field))
	}
	s.metrics.ObserveOutcome(metrics.OutcomeRejected)
}
