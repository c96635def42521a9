// Package triage implements the conversational triage engine: risk
// classification, demographics extraction, outbreak matching, session-state
// aggregation and the per-turn orchestration loop around the external
// generation service.
package triage

import (
	"strings"

	"healthguard/internal/refdata"
	"healthguard/pkg"
)

// ClassifyRisk scans an utterance against the red-flag and moderate-severity
// phrase lists and returns the resulting assessment. Matching is lower-cased
// substring containment: recall on safety-critical phrases matters more than
// precision, so false positives are acceptable and false negatives are not.
//
// Every matched red flag is collected, not just the first. The moderate list
// is consulted only when no red flag matched.
func ClassifyRisk(rules *refdata.RuleSet, utterance string) pkg.RiskAssessment {
	lower := strings.ToLower(utterance)

	var flags []string
	for _, flag := range rules.RedFlags {
		if strings.Contains(lower, flag) {
			flags = append(flags, flag)
		}
	}
	if len(flags) > 0 {
		return pkg.RiskAssessment{Level: pkg.RiskHigh, DetectedFlags: flags}
	}

	for _, kw := range rules.ModerateKeywords {
		if strings.Contains(lower, kw) {
			return pkg.RiskAssessment{Level: pkg.RiskModerate}
		}
	}

	return pkg.RiskAssessment{Level: pkg.RiskLow}
}
