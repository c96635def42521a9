package triage

import (
	"strings"

	"healthguard/pkg"
)

// MatchOutbreak looks up a mentioned city against the static outbreak table
// and returns a copy of the first matching record, or nil when no city is
// mentioned. The table is small enough that a linear scan is fine.
func MatchOutbreak(table []pkg.OutbreakRecord, utterance string) *pkg.OutbreakRecord {
	lower := strings.ToLower(utterance)
	for i := range table {
		if strings.Contains(lower, strings.ToLower(table[i].City)) {
			rec := table[i]
			return &rec
		}
	}
	return nil
}
