// Package report exports finished assessments as downloadable documents and
// delivers them to the configured sinks.
package report

import (
	"fmt"
	"regexp"
	"strings"

	"triage-advisor/internal/pipeline"
)

// Format is a download format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatPDF      Format = "pdf"
)

func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatMarkdown:
		return FormatMarkdown, true
	case FormatText:
		return FormatText, true
	case FormatPDF:
		return FormatPDF, true
	}
	return "", false
}

func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

const (
	footerGenerated   = "Generated by Nigerian Health Triage Advisor"
	footerEducational = "This is for educational purposes only. Always consult healthcare professionals."
)

// FileName is the download name: health_assessment_<name>_<timestamp>.<ext>.
func FileName(r *pipeline.Report, f Format) string {
	name := strings.Join(strings.Fields(r.Patient.Name), "_")
	name = unsafeFileChars.ReplaceAllString(name, "")
	if name == "" {
		name = "patient"
	}
	return fmt.Sprintf("health_assessment_%s_%s.%s", name, r.GeneratedAt.Format("20060102_150405"), f)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_\-]`)

// Markdown is the downloadable document: a patient header block, the report
// body and the educational-use footer.
func Markdown(r *pipeline.Report) string {
	p := r.Patient
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", pipeline.ReportTitle)
	fmt.Fprintf(&b, "**Patient:** %s\n", p.Name)
	fmt.Fprintf(&b, "**Age:** %d\n", p.Years())
	fmt.Fprintf(&b, "**Gender:** %s\n", p.Gender)
	fmt.Fprintf(&b, "**Location:** %s\n", p.Location)
	fmt.Fprintf(&b, "**Date:** %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Symptoms:**\n%s\n\n", p.SymptomText())
	fmt.Fprintf(&b, "**Severity:** %s\n\n", p.Severity)
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimSpace(body(r.Markdown)))
	b.WriteString("\n\n---\n")
	fmt.Fprintf(&b, "*%s*\n", footerGenerated)
	fmt.Fprintf(&b, "*%s*\n", footerEducational)
	return b.String()
}

// body drops the report's own title line; the document header repeats it.
func body(md string) string {
	return strings.TrimPrefix(md, "# "+pipeline.ReportTitle+"\n")
}

var (
	mdHeading = regexp.MustCompile(`^#{1,6}\s+`)
	mdBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	mdItalic  = regexp.MustCompile(`^[*_](.+)[*_]$`)
	mdLink    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	mdBullet  = regexp.MustCompile(`^(\s*)[*+]\s+`)
)

// PlainText is Markdown with the markup removed. Headings are upper-cased so
// the structure survives.
func PlainText(r *pipeline.Report) string {
	return StripMarkdown(Markdown(r))
}

func StripMarkdown(md string) string {
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		if mdHeading.MatchString(line) {
			lines[i] = strings.ToUpper(mdBold.ReplaceAllString(mdHeading.ReplaceAllString(line, ""), "$1"))
			continue
		}
		if strings.TrimSpace(line) == "---" {
			lines[i] = strings.Repeat("-", 40)
			continue
		}
		line = mdLink.ReplaceAllString(line, "$1 ($2)")
		line = mdBold.ReplaceAllString(line, "$1")
		line = mdItalic.ReplaceAllString(line, "$1")
		line = mdBullet.ReplaceAllString(line, "$1- ")
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
