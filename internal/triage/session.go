package triage

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"healthguard/pkg"
)

// KeySymptomCapacity bounds the notable-symptom set of a session.
const KeySymptomCapacity = 8

// SessionState is the single mutable aggregate of a case. It is owned by the
// orchestrator and updated only through ApplyTurn; the invariants are:
// risk never decreases, age and gender are set at most once, the symptom set
// never exceeds its capacity, and the likely condition is
// latest-label-wins.
type SessionState struct {
	Age             string
	Gender          pkg.Gender
	RiskLevel       pkg.RiskLevel
	KeySymptoms     []string
	LikelyCondition string
}

// NewSessionState returns the empty state a case starts from.
func NewSessionState() SessionState {
	return SessionState{RiskLevel: pkg.RiskLow}
}

// ApplyTurn folds one turn's findings into the state and returns the result.
// It is a pure reducer: the input state is not modified, and the output is
// fully determined by the arguments.
//
// The symptom merge is the ordered, deduplicated union of the existing set,
// the detected red flags, and the lexical candidates, applied as one batch
// and then truncated to capacity keeping the earliest-inserted entries.
func ApplyTurn(state SessionState, demo Demographics, assessment pkg.RiskAssessment, candidates []string) SessionState {
	next := state

	if next.Age == "" {
		next.Age = demo.Age
	}
	if next.Gender == pkg.GenderUnknown {
		next.Gender = demo.Gender
	}

	next.RiskLevel = pkg.MaxRiskLevel(state.RiskLevel, assessment.Level)

	merged := make([]string, 0, len(state.KeySymptoms)+len(assessment.DetectedFlags)+len(candidates))
	seen := make(map[string]bool)
	for _, batch := range [][]string{state.KeySymptoms, assessment.DetectedFlags, candidates} {
		for _, s := range batch {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			merged = append(merged, s)
		}
	}
	if len(merged) > KeySymptomCapacity {
		merged = merged[:KeySymptomCapacity]
	}
	next.KeySymptoms = merged

	return next
}

// Summary renders the state as the patient-facing case summary.
func (s SessionState) Summary() pkg.CaseSummary {
	symptoms := make([]string, len(s.KeySymptoms))
	copy(symptoms, s.KeySymptoms)
	return pkg.CaseSummary{
		Age:             s.Age,
		Gender:          s.Gender,
		RiskLevel:       s.RiskLevel,
		KeySymptoms:     symptoms,
		LikelyCondition: s.LikelyCondition,
	}
}

var conditionRe = regexp.MustCompile(`(?i)most likely condition is\s*\*\*(.+?)\*\*`)

// ExtractCondition mines a model reply for the diagnosis label the system
// prompt asks the generator to emit. Later labels overwrite earlier ones at
// the session level.
func ExtractCondition(reply string) (string, bool) {
	m := conditionRe.FindStringSubmatch(reply)
	if m == nil {
		return "", false
	}
	label := strings.TrimSpace(m[1])
	if label == "" {
		return "", false
	}
	return label, true
}

// SymptomCandidates applies the lexical symptom heuristic to a raw
// utterance: whitespace-separated tokens, stripped of surrounding
// punctuation and lower-cased, qualify when longer than six characters. The
// result is a loose signal only; it carries no clinical weight and must not
// be strengthened without revisiting every consumer.
func SymptomCandidates(utterance string) []string {
	var out []string
	for _, tok := range strings.Fields(utterance) {
		tok = strings.ToLower(strings.Trim(tok, ".,!?;:()[]\"'"))
		if utf8.RuneCountInString(tok) > 6 {
			out = append(out, tok)
		}
	}
	return out
}
