package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/signintech/gopdf"

	"triage-advisor/internal/pipeline"
)

// ErrNoFont means no usable TrueType font was found for PDF output.
var ErrNoFont = errors.New("no TrueType font available for PDF export")

// FontPaths are the DejaVu locations tried after the configured font.
var FontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/Library/Fonts/DejaVuSans.ttf",
}

const (
	fontFamily  = "DejaVu"
	pageMargin  = 40.0
	textWidth   = 595.28 - 2*pageMargin
	pageBottom  = 841.89 - pageMargin
	bodySize    = 11
	lineSpacing = 14.0
)

// PDFRenderer lays out the download document on A4 pages.
type PDFRenderer struct {
	fontPaths []string
}

// NewPDFRenderer tries fontPath first (when set), then FontPaths.
func NewPDFRenderer(fontPath string) *PDFRenderer {
	var paths []string
	if fontPath != "" {
		paths = append(paths, fontPath)
	}
	return &PDFRenderer{fontPaths: append(paths, FontPaths...)}
}

func (p *PDFRenderer) Render(r *pipeline.Report) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.SetMargins(pageMargin, pageMargin, pageMargin, pageMargin)

	var fontErr error
	fontLoaded := false
	for _, path := range p.fontPaths {
		if err := pdf.AddTTFFont(fontFamily, path); err != nil {
			fontErr = err
			continue
		}
		fontLoaded = true
		break
	}
	if !fontLoaded {
		return nil, fmt.Errorf("%w (last error: %v)", ErrNoFont, fontErr)
	}

	pdf.AddPage()
	w := &pdfWriter{pdf: pdf}
	for _, line := range strings.Split(Markdown(r), "\n") {
		if err := w.line(line); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf *gopdf.GoPdf
}

// line writes one Markdown line, sized by its heading level and wrapped to
// the page width.
func (w *pdfWriter) line(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		w.advance(lineSpacing / 2)
		return nil
	}
	if trimmed == "---" {
		w.advance(lineSpacing / 2)
		y := w.pdf.GetY()
		w.pdf.Line(pageMargin, y, pageMargin+textWidth, y)
		w.advance(lineSpacing / 2)
		return nil
	}

	size, gap := bodySize, lineSpacing
	switch {
	case strings.HasPrefix(trimmed, "# "):
		size, gap = 18, 26
	case strings.HasPrefix(trimmed, "## "):
		size, gap = 14, 20
		w.advance(lineSpacing / 2)
	case strings.HasPrefix(trimmed, "### "):
		size, gap = 12, 16
	}
	text := StripMarkdown(trimmed)

	if err := w.pdf.SetFont(fontFamily, "", size); err != nil {
		return err
	}
	wrapped, err := w.pdf.SplitText(text, textWidth)
	if err != nil {
		return fmt.Errorf("failed to wrap PDF text: %w", err)
	}
	for _, l := range wrapped {
		w.ensureSpace(gap)
		w.pdf.SetX(pageMargin)
		if err := w.pdf.Cell(nil, l); err != nil {
			return err
		}
		w.advance(gap)
	}
	return nil
}

func (w *pdfWriter) advance(h float64) {
	w.ensureSpace(h)
	w.pdf.Br(h)
}

func (w *pdfWriter) ensureSpace(h float64) {
	if w.pdf.GetY()+h > pageBottom {
		w.pdf.AddPage()
	}
}
