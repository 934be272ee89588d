package pipeline

import (
	"regexp"
	"strings"

	"github.com/mkowalski/billsync/internal/model"
)

var (
	housePattern  = regexp.MustCompile(`^HF\d+$`)
	senatePattern = regexp.MustCompile(`^SF\d+$`)
)

// IdentifierResult holds the cleaned chamber codes plus any field corrections
// that should be written back to the CMS record.
type IdentifierResult struct {
	House       string
	Senate      string
	Corrections map[string]string
}

// NormalizeIdentifiers cleans a pair of chamber-specific bill codes and fixes
// transposition errors: a house-style code (HF...) typed into the senate
// field is moved into the house field when the house field is empty, and
// vice versa. Both moves are recorded as corrections so the CMS copy can be
// repaired.
func NormalizeIdentifiers(house, senate string) IdentifierResult {
	res := IdentifierResult{
		House:       cleanCode(house),
		Senate:      cleanCode(senate),
		Corrections: map[string]string{},
	}

	if res.House == "" && housePattern.MatchString(res.Senate) {
		res.House = res.Senate
		res.Senate = ""
		res.Corrections[model.FieldHouseNumber] = res.House
		res.Corrections[model.FieldSenateNumber] = ""
	} else if res.Senate == "" && senatePattern.MatchString(res.House) {
		res.Senate = res.House
		res.House = ""
		res.Corrections[model.FieldSenateNumber] = res.Senate
		res.Corrections[model.FieldHouseNumber] = ""
	}

	return res
}

// cleanCode uppercases a raw bill code and strips whitespace and hyphens so
// "hf 1099" and "HF-1099" both normalize to "HF1099".
func cleanCode(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		switch r {
		case ' ', '\t', '-':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
