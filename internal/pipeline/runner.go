// Package pipeline turns one patient intake into either an emergency notice or
// an aggregated assessment report by running five model-backed stages in a
// fixed order.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"triage-advisor/internal/agent"
	"triage-advisor/internal/emergency"
	"triage-advisor/internal/metrics"
)

// Directory is the lookup data the runner needs for stages and notices.
type Directory interface {
	Tools
	FirstAid(injury string) (string, bool)
}

// Sink receives each finished report.
type Sink interface {
	Name() string
	Write(ctx context.Context, r *Report) error
}

// AlertSink is a Sink that is also told about emergency short-circuits.
type AlertSink interface {
	Sink
	Alert(ctx context.Context, rec PatientRecord, notice *emergency.Notice) error
}

type Runner struct {
	model      agent.Model
	dir        Directory
	classifier *emergency.Classifier
	sinks      []Sink
	metrics    *metrics.Pipeline
	logger     *zap.Logger
	now        func() time.Time
}

type Option func(*Runner)

func WithSink(s Sink) Option {
	return func(r *Runner) {
		if s != nil {
			r.sinks = append(r.sinks, s)
		}
	}
}

func WithMetrics(m *metrics.Pipeline) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

func NewRunner(model agent.Model, dir Directory, classifier *emergency.Classifier, opts ...Option) *Runner {
	if classifier == nil {
		classifier = emergency.NewClassifier(nil)
	}
	r := &Runner{
		model:      model,
		dir:        dir,
		classifier: classifier,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("pipeline")
	return r
}

// Classify exposes the emergency screen the runner applies first.
func (r *Runner) Classify(rec PatientRecord) emergency.Classification {
	return r.classifier.Classify(rec.SymptomText(), rec.Emergency)
}

// Run executes one assessment. A critical classification returns the
// emergency notice without calling the model. Otherwise all five stages run
// in order; the first failing stage aborts the run with an
// *ExternalCallError and no report.
func (r *Runner) Run(ctx context.Context, rec PatientRecord) (*Outcome, error) {
	rec = rec.WithDefaults()
	id := uuid.New()
	log := r.logger.With(zap.String("assessment_id", id.String()))

	class := r.Classify(rec)
	if class.IsCritical() {
		notice := emergency.NewNotice(class, rec.Location, r.dir)
		log.Warn("emergency short-circuit",
			zap.Strings("matches", class.Matches),
			zap.Bool("flagged", class.Flagged),
			zap.String("location", rec.Location))
		r.alert(ctx, rec, &notice, log)
		r.metrics.ObserveOutcome(metrics.OutcomeEmergency)
		return &Outcome{ID: id, Classification: class, Notice: &notice}, nil
	}

	st := &runState{
		record:         rec,
		classification: class,
		tier:           SuggestTier(rec),
	}
	for _, s := range stages {
		start := time.Now()
		res, err := s.run(ctx, r.model, r.dir, st)
		elapsed := time.Since(start)
		r.metrics.ObserveStage(string(s.Kind), elapsed, err)
		if err != nil {
			log.Error("stage failed, aborting assessment",
				zap.String("stage", string(s.Kind)),
				zap.Duration("elapsed", elapsed),
				zap.Error(err))
			r.metrics.ObserveOutcome(metrics.OutcomeFailed)
			return nil, err
		}
		log.Debug("stage complete",
			zap.String("stage", string(s.Kind)),
			zap.Duration("elapsed", elapsed),
			zap.Int("chars", len(res.Output)))
		st.prior = append(st.prior, res)
	}

	generated := r.now()
	report := &Report{
		ID:          id,
		Patient:     rec,
		Tier:        st.tier,
		Stages:      st.prior,
		Markdown:    RenderMarkdown(rec, st.tier, st.prior, generated),
		GeneratedAt: generated,
	}
	r.deliver(ctx, report, log)

	log.Info("assessment complete", zap.String("tier", string(st.tier)))
	r.metrics.ObserveOutcome(metrics.OutcomeReport)
	return &Outcome{ID: id, Classification: class, Report: report}, nil
}

// deliver hands the report to every sink. Sink failures are logged and
// counted; the caller still gets the report.
func (r *Runner) deliver(ctx context.Context, report *Report, log *zap.Logger) {
	for _, s := range r.sinks {
		if err := s.Write(ctx, report); err != nil {
			log.Warn("report sink failed", zap.String("sink", s.Name()), zap.Error(err))
			r.metrics.ObserveSinkError(s.Name())
		}
	}
}

func (r *Runner) alert(ctx context.Context, rec PatientRecord, notice *emergency.Notice, log *zap.Logger) {
	for _, s := range r.sinks {
		as, ok := s.(AlertSink)
		if !ok {
			continue
		}
		if err := as.Alert(ctx, rec, notice); err != nil {
			log.Warn("emergency alert failed", zap.String("sink", s.Name()), zap.Error(err))
			r.metrics.ObserveSinkError(s.Name())
		}
	}
}
