package assessment

import (
	"math/rand/v2"
	"sort"

	"triage-advisor/internal/pipeline"
)

// Scenarios are the scripted walkthroughs: one per pipeline branch worth showing.
var Scenarios = map[string]Request{
	"emergency": {
		Name:     "Aisha Mohammed",
		Age:      pipeline.AgeOf(45),
		Gender:   "female",
		Location: "Lagos",
		Symptoms: "Severe chest pain, difficulty breathing, sweating, and pain radiating to left arm for the past 30 minutes",
		Severity: "very-severe",
	},
	"maternal": {
		Name:     "Fatima Yusuf",
		Age:      pipeline.AgeOf(28),
		Gender:   "female",
		Location: "Kano",
		Symptoms: "Pregnant woman in third trimester seeking antenatal care information, immunization schedule for her 2-year-old child, and guidance on nutrition during pregnancy",
		Severity: "mild",
	},
	"medicine": {
		Name:     "Chukwudi Okonkwo",
		Age:      pipeline.AgeOf(35),
		Gender:   "male",
		Location: "Port Harcourt",
		Symptoms: "Patient with malaria symptoms seeking information about ACT medications, their availability, pricing, and where to find them locally",
		Severity: "moderate",
	},
}

func ScenarioNames() []string {
	names := make([]string, 0, len(Scenarios))
	for n := range Scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// demoPatients prefill the intake form.
var demoPatients = []Request{
	{
		Name:           "Amina Ibrahim",
		Age:            pipeline.AgeOf(28),
		Gender:         "female",
		Location:       "Kano, Nigeria",
		Phone:          "+234 803 123 4567",
		MedicalHistory: "No known allergies. Previous normal delivery 3 years ago.",
		Symptoms: "Started with mild headache 3 days ago. Fever began yesterday evening (feels like 38-39°C). " +
			"Body aches and joint pains, especially in knees and back. Feeling very tired and weak. No appetite. " +
			"Symptoms seem to be getting worse.",
		Severity:        "moderate",
		CheckedSymptoms: []string{"Fever", "Headache", "Fatigue", "Joint Pain"},
	},
	{
		Name:           "Chidi Okafor",
		Age:            pipeline.AgeOf(45),
		Gender:         "male",
		Location:       "Lagos, Nigeria",
		Phone:          "+234 701 987 6543",
		MedicalHistory: "Hypertension (managed with medication). Diabetes Type 2 diagnosed 2 years ago.",
		Symptoms: "Sharp chest pain started this morning, especially when taking deep breaths. Feeling short of breath " +
			"even when sitting. Dizzy when standing up. Had similar but milder episode last week. Taking medication " +
			"for blood pressure and diabetes regularly.",
		Severity:        "severe",
		CheckedSymptoms: []string{"Chest Pain", "Difficulty Breathing", "Dizziness", "Fatigue", "Nausea"},
	},
	{
		Name:           "Baby Kemi Adebayo",
		Age:            pipeline.AgeOf(8),
		Gender:         "female",
		Location:       "Ibadan, Nigeria",
		Phone:          "+234 806 555 7890",
		MedicalHistory: "Up to date with immunizations. No known allergies. Normal birth weight and development.",
		Symptoms: "Child has been sick for 2 days. Started with stomach pain and loose stools (3-4 times per day). " +
			"Vomited twice yesterday. Low-grade fever. Not eating well and seems very tired. Still drinking water " +
			"but less than usual. No blood in stool.",
		Severity:        "moderate",
		CheckedSymptoms: []string{"Fever", "Cough", "Vomiting", "Diarrhea", "Fatigue", "Abdominal Pain", "Nausea"},
	},
}

// DemoPatient returns a random sample intake for the form.
func DemoPatient() Request {
	p := demoPatients[rand.IntN(len(demoPatients))]
	p.CheckedSymptoms = append([]string(nil), p.CheckedSymptoms...)
	return p
}

// Locations suggested by the form.
var Locations = []string{
	"Lagos, Nigeria",
	"Abuja, FCT, Nigeria",
	"Kano, Nigeria",
	"Ibadan, Oyo, Nigeria",
	"Port Harcourt, Rivers, Nigeria",
	"Benin City, Edo, Nigeria",
	"Kaduna, Nigeria",
	"Jos, Plateau, Nigeria",
	"Ilorin, Kwara, Nigeria",
}
