package emergency

import (
	"fmt"
	"strings"
)

// Directory is the subset of the lookup tables a notice needs.
type Directory interface {
	EmergencyContacts(location string) string
	FirstAid(injury string) (string, bool)
}

// Notice replaces the assessment report when the classifier says CRITICAL.
type Notice struct {
	Classification Classification `json:"classification"`
	Location       string         `json:"location"`
	Text           string         `json:"text"`
}

// NewNotice renders the fixed emergency block for a location. The national
// number 112 is always part of the text, whatever the tables contain.
func NewNotice(c Classification, location string, dir Directory) Notice {
	var b strings.Builder
	b.WriteString("# 🚨 EMERGENCY ALERT: IMMEDIATE ACTION REQUIRED\n\n")
	b.WriteString("Call **112** (National Emergency) now or go to the nearest hospital immediately.\n\n")

	if len(c.Matches) > 0 {
		fmt.Fprintf(&b, "Critical symptoms detected: %s.\n\n", strings.Join(c.Matches, ", "))
	} else if c.Flagged {
		b.WriteString("You reported this as a medical emergency.\n\n")
	}

	b.WriteString("## Emergency Numbers\n\n")
	b.WriteString(strings.TrimRight(dir.EmergencyContacts(location), "\n"))
	b.WriteString("\n")

	var aid []string
	for _, m := range c.Matches {
		if guide, ok := dir.FirstAid(m); ok {
			aid = append(aid, "- "+guide)
		}
	}
	if len(aid) > 0 {
		b.WriteString("\n## While Waiting For Help\n\n")
		b.WriteString(strings.Join(aid, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\n*No further assessment was run. Emergency care comes first.*\n")

	return Notice{Classification: c, Location: location, Text: b.String()}
}
