package pipeline

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"triage-advisor/internal/agent"
	"triage-advisor/internal/emergency"
)

// StageKind tags one of the five fixed stages.
type StageKind string

const (
	StageTriage        StageKind = "triage"
	StageMaternalChild StageKind = "maternal_child"
	StageMedicine      StageKind = "medicine_locator"
	StageFinance       StageKind = "finance_coach"
	StageAggregator    StageKind = "aggregator"
)

// Title is the report section heading for the stage.
func (k StageKind) Title() string {
	switch k {
	case StageTriage:
		return "Triage"
	case StageMaternalChild:
		return "Maternal & Child Health Guidance"
	case StageMedicine:
		return "Medicine Availability"
	case StageFinance:
		return "Health Finance"
	case StageAggregator:
		return "Action Plan"
	}
	return string(k)
}

// Tools is the lookup surface the stages consult.
type Tools interface {
	EmergencyContacts(location string) string
	Hospitals(location, kind string) string
	PHCLocations(location string) string
	MedicinePrice(medicine, location string) string
	MatchMedicines(text string) []string
	Medicines() []string
	OutbreakInfo(location string) string
	WeatherRisk(location string) string
	InsurancePrograms(location string) string
}

// runState is the context one run accumulates.
type runState struct {
	record         PatientRecord
	classification emergency.Classification
	tier           Tier
	prior          []StageResult
}

// Stage is one unit of pipeline work. All five kinds share run; they differ
// only in their instruction and in the reference facts they gather.
type Stage struct {
	Kind  StageKind
	role  string
	tmpl  *template.Template
	facts func(Tools, *runState) string
}

type promptData struct {
	Record   PatientRecord
	Symptoms string
	Facts    string
	Tier     Tier
	Prior    []priorEntry
}

type priorEntry struct {
	Title  string
	Output string
}

var stages = []Stage{
	newStage(StageTriage, triageRole, triageInstruction, triageFacts),
	newStage(StageMaternalChild, maternalRole, maternalInstruction, maternalFacts),
	newStage(StageMedicine, medicineRole, medicineInstruction, medicineFacts),
	newStage(StageFinance, financeRole, financeInstruction, financeFacts),
	newStage(StageAggregator, aggregatorRole, aggregatorInstruction, nil),
}

func newStage(kind StageKind, role, instruction string, facts func(Tools, *runState) string) Stage {
	return Stage{
		Kind:  kind,
		role:  role,
		tmpl:  template.Must(template.New(string(kind)).Parse(instruction)),
		facts: facts,
	}
}

// Stages returns the stages in execution order. The aggregator is last.
func Stages() []Stage {
	return append([]Stage(nil), stages...)
}

// prompt renders the instruction for this stage.
func (s Stage) prompt(tools Tools, st *runState) (agent.Prompt, error) {
	data := promptData{
		Record:   st.record,
		Symptoms: st.record.SymptomText(),
		Tier:     st.tier,
	}
	if s.facts != nil {
		data.Facts = s.facts(tools, st)
	}
	for _, r := range st.prior {
		data.Prior = append(data.Prior, priorEntry{Title: r.Stage.Title(), Output: r.Output})
	}

	var b strings.Builder
	if err := s.tmpl.Execute(&b, data); err != nil {
		return agent.Prompt{}, fmt.Errorf("render %s prompt: %w", s.Kind, err)
	}
	return agent.Prompt{System: s.role, User: b.String()}, nil
}

// run executes the stage against the model.
func (s Stage) run(ctx context.Context, m agent.Model, tools Tools, st *runState) (StageResult, error) {
	p, err := s.prompt(tools, st)
	if err != nil {
		return StageResult{}, err
	}
	out, err := m.Generate(ctx, p)
	if err != nil {
		return StageResult{}, &ExternalCallError{Stage: s.Kind, Err: err}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return StageResult{}, &ExternalCallError{Stage: s.Kind, Err: agent.ErrEmptyResponse}
	}
	return StageResult{Stage: s.Kind, Output: out}, nil
}

func triageFacts(tools Tools, st *runState) string {
	r := st.record
	text := strings.ToLower(r.SymptomText())

	kind := "general"
	switch {
	case r.Years() < 18:
		kind = "pediatric"
	case strings.Contains(text, "heart") || strings.Contains(text, "chest"):
		kind = "cardiac"
	}

	return strings.Join([]string{
		"Rule-based care level suggestion: " + string(st.tier),
		"Emergency screen: " + st.classification.Summary(),
		tools.Hospitals(r.Location, kind),
		tools.PHCLocations(r.Location),
		tools.OutbreakInfo(r.Location),
		tools.WeatherRisk(r.Location),
	}, "\n")
}

var maternalTerms = []string{"pregnan", "antenatal", "trimester", "postnatal", "breastfeed", "baby", "child", "infant", "immuni", "vaccin"}

func maternalFacts(tools Tools, st *runState) string {
	r := st.record
	text := strings.ToLower(r.SymptomText())

	age := r.Years()
	childbearing := r.Gender == GenderFemale && age >= 15 && age <= 49
	minor := age < 18
	mentions := containsAny(text, maternalTerms)

	lines := []string{
		fmt.Sprintf("Pregnancy-relevant age range: %s", yesNo(childbearing)),
		fmt.Sprintf("Patient is a minor: %s", yesNo(minor)),
		fmt.Sprintf("Intake mentions pregnancy or child care: %s", yesNo(mentions)),
	}
	if minor || mentions {
		lines = append(lines, tools.Hospitals(r.Location, "pediatric"))
	}
	lines = append(lines, tools.PHCLocations(r.Location))
	return strings.Join(lines, "\n")
}

func medicineFacts(tools Tools, st *runState) string {
	r := st.record
	names := tools.MatchMedicines(r.SymptomText() + "\n" + r.MedicalHistory)
	if len(names) == 0 {
		return "No specific medicine was named in the intake.\n" +
			"Medicines with price data: " + strings.Join(tools.Medicines(), ", ") + "\n" +
			"Common reference: " + tools.MedicinePrice("paracetamol", r.Location)
	}
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, "- "+tools.MedicinePrice(name, r.Location))
	}
	return strings.Join(lines, "\n")
}

func financeFacts(tools Tools, st *runState) string {
	return tools.InsurancePrograms(st.record.Location)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
