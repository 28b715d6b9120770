package pipeline

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"triage-advisor/internal/emergency"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Severity string

const (
	SeverityMild       Severity = "mild"
	SeverityModerate   Severity = "moderate"
	SeveritySevere     Severity = "severe"
	SeverityVerySevere Severity = "very-severe"
)

// Intake defaults for optional fields.
const (
	DefaultLocation       = "Nigeria"
	DefaultMedicalHistory = "None reported"
	DefaultPhone          = "Not provided"
	DefaultAge            = 25
)

// PatientRecord is one intake. The pipeline never mutates it.
type PatientRecord struct {
	Name            string   `json:"name"`
	Age             *int     `json:"age,omitempty"`
	Gender          Gender   `json:"gender"`
	Location        string   `json:"location"`
	Phone           string   `json:"phone,omitempty"`
	MedicalHistory  string   `json:"medical_history,omitempty"`
	Symptoms        string   `json:"symptoms"`
	Severity        Severity `json:"severity,omitempty"`
	CheckedSymptoms []string `json:"checked_symptoms,omitempty"`
	Emergency       bool     `json:"emergency"`
}

// WithDefaults fills optional fields. It is idempotent.
func (r PatientRecord) WithDefaults() PatientRecord {
	r.Name = strings.TrimSpace(r.Name)
	r.Symptoms = strings.TrimSpace(r.Symptoms)
	if strings.TrimSpace(r.Location) == "" {
		r.Location = DefaultLocation
	} else {
		r.Location = strings.TrimSpace(r.Location)
	}
	if strings.TrimSpace(r.MedicalHistory) == "" {
		r.MedicalHistory = DefaultMedicalHistory
	}
	if strings.TrimSpace(r.Phone) == "" {
		r.Phone = DefaultPhone
	}
	switch r.Gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		r.Gender = GenderOther
	}
	if r.Severity == "" {
		r.Severity = SeverityModerate
	}
	switch {
	case r.Age == nil:
		r.Age = AgeOf(DefaultAge)
	case *r.Age < 0:
		r.Age = AgeOf(0)
	}
	return r
}

// AgeOf returns a pointer for PatientRecord.Age.
func AgeOf(years int) *int {
	return &years
}

// Years is the patient's age, DefaultAge when none was given.
func (r PatientRecord) Years() int {
	if r.Age == nil {
		return DefaultAge
	}
	return *r.Age
}

// SymptomText is the free text plus any checked symptom labels, the form the
// classifier and the stages see.
func (r PatientRecord) SymptomText() string {
	text := strings.TrimSpace(r.Symptoms)
	if len(r.CheckedSymptoms) == 0 {
		return text
	}
	return text + "\n\nAdditional symptoms checked: " + strings.Join(r.CheckedSymptoms, ", ")
}

// ParseGender accepts form and JSON spellings; unknown values map to other.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	default:
		return GenderOther
	}
}

// ParseSeverity accepts "Very Severe", "very_severe" and "very-severe".
// It reports false for unknown values.
func ParseSeverity(s string) (Severity, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	switch Severity(norm) {
	case SeverityMild, SeverityModerate, SeveritySevere, SeverityVerySevere:
		return Severity(norm), true
	case "":
		return "", true
	}
	return "", false
}

// StageResult is the text one stage produced.
type StageResult struct {
	Stage  StageKind `json:"stage"`
	Output string    `json:"output"`
}

// Report is the aggregated assessment document.
type Report struct {
	ID          uuid.UUID     `json:"id"`
	Patient     PatientRecord `json:"patient"`
	Tier        Tier          `json:"tier"`
	Stages      []StageResult `json:"stages"`
	Markdown    string        `json:"markdown"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// output returns the text a stage contributed, or "" if it did not run.
func (r *Report) output(kind StageKind) string {
	for _, s := range r.Stages {
		if s.Stage == kind {
			return s.Output
		}
	}
	return ""
}

// Outcome is the result of one run: either an emergency notice or a report.
type Outcome struct {
	ID             uuid.UUID                `json:"id"`
	Classification emergency.Classification `json:"classification"`
	Notice         *emergency.Notice        `json:"notice,omitempty"`
	Report         *Report                  `json:"report,omitempty"`
}

func (o *Outcome) IsEmergency() bool {
	return o.Notice != nil
}

// Markdown is the document the presentation layer shows.
func (o *Outcome) Markdown() string {
	if o.Notice != nil {
		return o.Notice.Text
	}
	if o.Report != nil {
		return o.Report.Markdown
	}
	return ""
}
