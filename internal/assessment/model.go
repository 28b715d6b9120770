package assessment

import (
	"fmt"
	"strconv"
	"strings"

	"triage-advisor/internal/pipeline"
)

// Request is one intake as submitted by the form, the JSON API or the CLI.
type Request struct {
	Name            string   `json:"name"`
	Age             *int     `json:"age,omitempty"`
	Gender          string   `json:"gender"`
	Location        string   `json:"location"`
	Phone           string   `json:"phone"`
	MedicalHistory  string   `json:"medical_history"`
	Symptoms        string   `json:"symptoms"`
	Severity        string   `json:"severity"`
	CheckedSymptoms []string `json:"checked_symptoms"`
	Emergency       bool     `json:"emergency"`
}

// SymptomOptions are the checkbox labels offered by the intake form.
var SymptomOptions = []string{
	"Fever", "Headache", "Fatigue", "Dizziness",
	"Cough", "Difficulty Breathing", "Chest Pain", "Joint Pain",
	"Abdominal Pain", "Vomiting", "Diarrhea", "Nausea",
}

// SeverityOptions are the form labels for pipeline severities.
var SeverityOptions = []string{"Mild", "Moderate", "Severe", "Very Severe"}

const maxAge = 120

// ValidationError rejects an intake before any model call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Record validates the request and converts it to a pipeline record with
// defaults applied.
func (r Request) Record() (pipeline.PatientRecord, error) {
	if strings.TrimSpace(r.Name) == "" {
		return pipeline.PatientRecord{}, &ValidationError{Field: "name", Message: "Please enter the patient's name."}
	}
	if strings.TrimSpace(r.Symptoms) == "" {
		return pipeline.PatientRecord{}, &ValidationError{Field: "symptoms", Message: "Please describe the symptoms."}
	}
	if r.Age != nil && (*r.Age < 0 || *r.Age > maxAge) {
		return pipeline.PatientRecord{}, &ValidationError{Field: "age", Message: fmt.Sprintf("Age must be between 0 and %d.", maxAge)}
	}
	severity, ok := pipeline.ParseSeverity(r.Severity)
	if !ok {
		return pipeline.PatientRecord{}, &ValidationError{Field: "severity", Message: fmt.Sprintf("Unknown severity %q.", r.Severity)}
	}

	var checked []string
	for _, s := range r.CheckedSymptoms {
		if s = strings.TrimSpace(s); s != "" {
			checked = append(checked, s)
		}
	}

	rec := pipeline.PatientRecord{
		Name:            r.Name,
		Age:             r.Age,
		Gender:          pipeline.ParseGender(r.Gender),
		Location:        r.Location,
		Phone:           r.Phone,
		MedicalHistory:  r.MedicalHistory,
		Symptoms:        r.Symptoms,
		Severity:        severity,
		CheckedSymptoms: checked,
		Emergency:       r.Emergency,
	}
	return rec.WithDefaults(), nil
}

// AgeText is the age as the form shows it, empty when none was given.
func (r Request) AgeText() string {
	if r.Age == nil {
		return ""
	}
	return strconv.Itoa(*r.Age)
}
