package pipeline

import (
	"strings"
	"unicode"
)

// Tier is a level of the facility hierarchy, lowest first.
type Tier string

const (
	TierHomeCare        Tier = "Home Care"
	TierPHC             Tier = "Primary Health Centre"
	TierGeneralHospital Tier = "General Hospital"
	TierTeaching        Tier = "Teaching Hospital"
)

var tierOrder = []Tier{TierHomeCare, TierPHC, TierGeneralHospital, TierTeaching}

func (t Tier) rank() int {
	for i, o := range tierOrder {
		if o == t {
			return i
		}
	}
	return 0
}

func maxTier(a, b Tier) Tier {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// Warning signs that need a hospital even when the patient rates the
// symptoms as mild.
var hospitalSigns = []string{
	"blood in stool",
	"vomiting blood",
	"coughing blood",
	"convulsion",
	"high fever",
	"persistent vomiting",
	"dehydration",
	"confusion",
	"jaundice",
	"yellow eyes",
	"bleeding in pregnancy",
	"reduced fetal movement",
	"stiff neck",
}

// Complaints a primary health centre handles.
var clinicSigns = []string{
	"fever",
	"malaria",
	"cough",
	"diarrhea",
	"diarrhoea",
	"vomiting",
	"pain",
	"rash",
	"pregnan",
	"antenatal",
	"immuni",
	"vaccin",
	"infection",
}

// SuggestTier is the rule-based facility suggestion handed to the triage
// stage: severity sets a floor, warning signs raise it.
func SuggestTier(r PatientRecord) Tier {
	text := strings.ToLower(r.SymptomText())

	tier := TierHomeCare
	switch r.Severity {
	case SeverityModerate, "":
		tier = TierPHC
	case SeveritySevere:
		tier = TierGeneralHospital
	case SeverityVerySevere:
		tier = TierTeaching
	}

	if containsAffirmed(text, hospitalSigns) {
		if r.Severity == SeveritySevere {
			tier = maxTier(tier, TierTeaching)
		}
		tier = maxTier(tier, TierGeneralHospital)
	} else if containsAffirmed(text, clinicSigns) {
		tier = maxTier(tier, TierPHC)
	}
	return tier
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

var negations = []string{"no", "not", "without", "denies"}

// containsAffirmed is containsAny that skips hits directly preceded by a
// negation, so "no blood in stool" does not count as "blood in stool".
func containsAffirmed(text string, terms []string) bool {
	for _, t := range terms {
		for from := 0; ; {
			i := strings.Index(text[from:], t)
			if i < 0 {
				break
			}
			at := from + i
			if !negated(text[:at]) {
				return true
			}
			from = at + len(t)
		}
	}
	return false
}

func negated(prefix string) bool {
	prefix = strings.TrimRightFunc(prefix, unicode.IsSpace)
	for _, n := range negations {
		if !strings.HasSuffix(prefix, n) {
			continue
		}
		rest := strings.TrimSuffix(prefix, n)
		if rest == "" || !unicode.IsLetter([]rune(rest)[len([]rune(rest))-1]) {
			return true
		}
	}
	return false
}
