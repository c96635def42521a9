package triage

import (
	"fmt"
	"strings"

	"healthguard/pkg"
)

// BuildContext assembles the steering text injected ahead of the patient's
// message. Clauses appear in a fixed order, each only when its trigger
// holds: patient details once age or gender is known, the safety clause at
// high risk, the moderate clause at moderate risk (high suppresses it), and
// the outbreak clause when a city was matched this turn. An empty result
// means no context injection.
//
// level is the merged session risk after this turn, not the raw per-turn
// assessment level.
func BuildContext(state SessionState, assessment pkg.RiskAssessment, level pkg.RiskLevel, outbreak *pkg.OutbreakRecord) string {
	var clauses []string

	if state.Age != "" || state.Gender != pkg.GenderUnknown {
		age := state.Age
		if age == "" {
			age = "unknown"
		}
		gender := string(state.Gender)
		if gender == "" {
			gender = "unknown"
		}
		clauses = append(clauses, fmt.Sprintf("Patient details: age %s, gender %s.", age, gender))
	}

	switch level {
	case pkg.RiskHigh:
		clause := "URGENT: The patient reports potential red-flag symptoms"
		if len(assessment.DetectedFlags) > 0 {
			clause += " (" + strings.Join(assessment.DetectedFlags, ", ") + ")"
		}
		clause += ". Stop probing for further details and direct the patient to contact emergency services immediately. Do not offer false reassurance."
		clauses = append(clauses, clause)
	case pkg.RiskModerate:
		clauses = append(clauses, "The reported symptoms may be significant. Ask about duration and severity before settling on a diagnosis.")
	}

	if outbreak != nil {
		clauses = append(clauses, fmt.Sprintf(
			"Local surveillance: %s cases are %s in %s (%d active). Mention this if relevant to the presentation.",
			outbreak.DiseaseName, outbreak.Trend, outbreak.City, outbreak.ActiveCases))
	}

	return strings.Join(clauses, " ")
}

// WrapContext prepends the context block to the patient's message using a
// fixed, recognizable tag so the generator can tell injected steering text
// from the patient's own words.
func WrapContext(contextText, message string) string {
	if contextText == "" {
		return message
	}
	return "[SYSTEM CONTEXT: " + contextText + "]\n\n" + message
}
