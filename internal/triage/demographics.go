package triage

import (
	"regexp"
	"strconv"

	"healthguard/pkg"
)

// Demographics holds what could be extracted from one utterance. Zero values
// mean "not found"; absence is never an error.
type Demographics struct {
	Age    string
	Gender pkg.Gender
}

var (
	// A 1-2 digit number, optionally followed by an age-unit marker. The
	// first match wins; the numeric sanity check below rejects zero.
	ageRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:y|years|yrs|yo)?\b`)

	maleRe   = regexp.MustCompile(`(?i)\b(male|man|boy|gentleman)\b`)
	femaleRe = regexp.MustCompile(`(?i)\b(female|woman|girl|lady)\b`)
	otherRe  = regexp.MustCompile(`(?i)\b(trans|non-binary)\b`)
)

// ExtractDemographics parses an age and a gender token from free text. It is
// re-run on every turn; the session reducer applies the result only while
// the corresponding fields are still unset.
func ExtractDemographics(utterance string) Demographics {
	var d Demographics

	if m := ageRe.FindStringSubmatch(utterance); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 && n < 110 {
			d.Age = m[1]
		}
	}

	switch {
	case maleRe.MatchString(utterance):
		d.Gender = pkg.GenderMale
	case femaleRe.MatchString(utterance):
		d.Gender = pkg.GenderFemale
	case otherRe.MatchString(utterance):
		d.Gender = pkg.GenderOther
	}

	return d
}
