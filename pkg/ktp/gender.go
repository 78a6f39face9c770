package ktp

import (
	"strings"

	"github.com/agext/levenshtein"
)

const (
	GenderMale   = "LAKI-LAKI"
	GenderFemale = "PEREMPUAN"
)

// ResolveGender snaps noisy text to the closest gender token. Equal
// distances resolve to GenderFemale.
func ResolveGender(text string) string {
	upper := strings.ToUpper(text)
	if levenshtein.Distance(upper, GenderMale, nil) < levenshtein.Distance(upper, GenderFemale, nil) {
		return GenderMale
	}
	return GenderFemale
}
