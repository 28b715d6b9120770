// Package app wires configuration into the running components shared by
// the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"triage-advisor/internal/agent"
	"triage-advisor/internal/assessment"
	"triage-advisor/internal/config"
	"triage-advisor/internal/emergency"
	"triage-advisor/internal/lookup"
	"triage-advisor/internal/metrics"
	"triage-advisor/internal/pipeline"
	"triage-advisor/internal/platform/telegram"
	"triage-advisor/internal/report"
)

type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Directory  *lookup.Directory
	Classifier *emergency.Classifier
	Runner     *pipeline.Runner
	Service    assessment.Service
	PDF        *report.PDFRenderer
	Registry   *prometheus.Registry
	Metrics    *metrics.Pipeline
}

// Offline builds only the parts that need no model: lookup tables and the
// emergency classifier.
func Offline(cfg *config.Config, logger *zap.Logger) (*App, error) {
	dir, err := lookup.Load(cfg.Lookup.DataFile)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:     cfg,
		Logger:     logger,
		Directory:  dir,
		Classifier: emergency.NewClassifier(cfg.Emergency.Keywords),
	}, nil
}

// New builds the full application. cfg must already be validated.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a, err := Offline(cfg, logger)
	if err != nil {
		return nil, err
	}
	model, err := agent.New(ctx, cfg.AgentSettings(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return a.withModel(model), nil
}

// withModel completes the application around an existing model client.
func (a *App) withModel(model agent.Model) *App {
	cfg := a.Config
	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.New(a.Registry)
	a.PDF = report.NewPDFRenderer(cfg.Report.FontPath)

	opts := []pipeline.Option{
		pipeline.WithLogger(a.Logger),
		pipeline.WithMetrics(a.Metrics),
	}
	if cfg.Report.OutputPath != "" {
		opts = append(opts, pipeline.WithSink(report.NewFileSink(cfg.Report.OutputPath)))
	}
	if cfg.Telegram.Enabled() {
		tg := telegram.NewClient(cfg.Telegram.Token)
		opts = append(opts, pipeline.WithSink(report.NewTelegramSink(tg, cfg.Telegram.ChatID, a.PDF, a.Logger)))
	}

	a.Runner = pipeline.NewRunner(model, a.Directory, a.Classifier, opts...)
	repo := assessment.NewRepository(cfg.Downloads.Size, cfg.Downloads.TTL)
	a.Service = assessment.NewService(a.Runner, repo, a.Metrics, a.Logger)

	a.Logger.Info("application ready",
		zap.String("model", model.Name()),
		zap.Int("max_rpm", cfg.LLM.MaxRPM),
		zap.Bool("file_sink", cfg.Report.OutputPath != ""),
		zap.Bool("telegram_sink", cfg.Telegram.Enabled()))
	return a
}

// Router is the HTTP surface: the assessment routes plus /metrics.
func (a *App) Router() (http.Handler, error) {
	h, err := assessment.NewHandler(a.Service, a.PDF, a.Logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS for API clients
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")
			if r.Method == http.MethodOptions {
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	assessment.RegisterRoutes(r, h)
	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
	return r, nil
}
