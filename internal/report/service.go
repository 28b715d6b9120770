package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"triage-advisor/internal/emergency"
	"triage-advisor/internal/pipeline"
)

type TelegramClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, fileData []byte, fileName, caption string) error
}

// TelegramSink forwards each report to a Telegram chat, as a PDF when a
// font is available and as Markdown otherwise.
type TelegramSink struct {
	tgClient TelegramClient
	chatID   int64
	pdf      *PDFRenderer
	logger   *zap.Logger
}

func NewTelegramSink(tg TelegramClient, chatID int64, pdf *PDFRenderer, logger *zap.Logger) *TelegramSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TelegramSink{
		tgClient: tg,
		chatID:   chatID,
		pdf:      pdf,
		logger:   logger.Named("telegram"),
	}
}

func (s *TelegramSink) Name() string {
	return "telegram"
}

func (s *TelegramSink) Write(ctx context.Context, r *pipeline.Report) error {
	caption := fmt.Sprintf("New assessment for %s (%s): %s", r.Patient.Name, r.Patient.Location, r.Tier)

	data, name, err := s.document(r)
	if err != nil {
		return err
	}
	s.logger.Info("sending report",
		zap.String("assessment_id", r.ID.String()),
		zap.Int64("chat_id", s.chatID),
		zap.String("file", name))
	if err := s.tgClient.SendDocument(ctx, s.chatID, data, name, caption); err != nil {
		return fmt.Errorf("failed to send report %s: %w", r.ID, err)
	}
	return nil
}

// Alert sends the emergency notice as a text message so the chat hears about
// patients who were sent straight to 112.
func (s *TelegramSink) Alert(ctx context.Context, rec pipeline.PatientRecord, notice *emergency.Notice) error {
	text := fmt.Sprintf("EMERGENCY: %s (%s)\n%s\n\n%s",
		rec.Name, rec.Location, notice.Classification.Summary(), StripMarkdown(notice.Text))
	s.logger.Warn("sending emergency alert",
		zap.Int64("chat_id", s.chatID),
		zap.Strings("matches", notice.Classification.Matches))
	if err := s.tgClient.SendMessage(ctx, s.chatID, text); err != nil {
		return fmt.Errorf("failed to send emergency alert: %w", err)
	}
	return nil
}

func (s *TelegramSink) document(r *pipeline.Report) ([]byte, string, error) {
	if s.pdf != nil {
		data, err := s.pdf.Render(r)
		if err == nil {
			return data, FileName(r, FormatPDF), nil
		}
		if !errors.Is(err, ErrNoFont) {
			return nil, "", err
		}
		s.logger.Warn("PDF font unavailable, sending Markdown instead", zap.Error(err))
	}
	return []byte(Markdown(r)), FileName(r, FormatMarkdown), nil
}

// FileSink writes the latest report as a Markdown document to a fixed path.
type FileSink struct {
	Path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

func (s *FileSink) Name() string {
	return "file"
}

func (s *FileSink) Write(_ context.Context, r *pipeline.Report) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, []byte(Markdown(r)), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
