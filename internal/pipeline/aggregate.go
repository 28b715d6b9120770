package pipeline

import (
	"fmt"
	"strings"
	"time"
)

const (
	ReportTitle      = "Nigerian Health Assessment Report"
	PatientSummary   = "Patient Summary"
	Disclaimer       = "Disclaimer: this assessment is for educational guidance only and is not a medical diagnosis. Always consult a qualified healthcare professional, and call 112 if symptoms become severe."
	emptySectionText = "_No guidance was returned for this section._"
)

// SectionTitles lists the report headings in their fixed order.
func SectionTitles() []string {
	titles := []string{PatientSummary}
	for _, s := range stages {
		titles = append(titles, s.Kind.Title())
	}
	return titles
}

// RenderMarkdown assembles the report from the stage results. Every section
// heading is written, in order, whatever the stage outputs contain.
func RenderMarkdown(rec PatientRecord, tier Tier, results []StageResult, generatedAt time.Time) string {
	byKind := make(map[StageKind]string, len(results))
	for _, r := range results {
		byKind[r.Stage] = strings.TrimSpace(r.Output)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", ReportTitle)
	fmt.Fprintf(&b, "_Generated %s_\n\n", generatedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "## %s\n\n", PatientSummary)
	fmt.Fprintf(&b, "- **Patient:** %s\n", rec.Name)
	fmt.Fprintf(&b, "- **Age:** %d\n", rec.Years())
	fmt.Fprintf(&b, "- **Gender:** %s\n", rec.Gender)
	fmt.Fprintf(&b, "- **Location:** %s\n", rec.Location)
	fmt.Fprintf(&b, "- **Medical history:** %s\n", rec.MedicalHistory)
	fmt.Fprintf(&b, "- **Severity:** %s\n", rec.Severity)
	fmt.Fprintf(&b, "- **Symptoms:** %s\n\n", oneLine(rec.SymptomText()))

	for _, s := range stages {
		fmt.Fprintf(&b, "## %s\n\n", s.Kind.Title())
		if s.Kind == StageTriage && tier != "" {
			fmt.Fprintf(&b, "**Suggested care level:** %s\n\n", tier)
		}
		body := byKind[s.Kind]
		if body == "" {
			body = emptySectionText
		}
		b.WriteString(body)
		b.WriteString("\n\n")
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "*%s*\n", Disclaimer)
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
