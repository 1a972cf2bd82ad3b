package ticker

import (
	"regexp"

	"github.com/rustyeddy/notas/market"
)

type suffixRule struct {
	marker string
	re     *regexp.Regexp
	suffix string
}

// suffixRules are evaluated in order and the first match wins. PNA and PNB
// must come before PN, and ON before everything, or the wrong class is
// picked for specifications carrying more than one marker.
var suffixRules = []suffixRule{
	{"ON", regexp.MustCompile(`(?i)ON`), "3"},
	{"PNA", regexp.MustCompile(`(?i)PNA`), "5"},
	{"PNB", regexp.MustCompile(`(?i)PNB`), "6"},
	{"PN", regexp.MustCompile(`(?i)PN`), "4"},
	{"UNT", regexp.MustCompile(`(?i)UNT`), "11"},
	{"CI", regexp.MustCompile(`(?i)CI`), "11"},
	{"FII", regexp.MustCompile(`(?i)FII(\s|$)`), "11"},
	{"F11", regexp.MustCompile(`(?i)F11`), "11"},
	{"DO", regexp.MustCompile(`(?i)DO`), "1"},
}

// Suffix returns the share-class suffix for spec.
func Suffix(spec string) (string, error) {
	for _, r := range suffixRules {
		if r.re.MatchString(spec) {
			return r.suffix, nil
		}
	}
	return "", market.NewError(market.KindSuffixNotFound, "specification %q", spec)
}

// SuffixMarkers lists the markers in evaluation order.
func SuffixMarkers() []string {
	out := make([]string, len(suffixRules))
	for i, r := range suffixRules {
		out[i] = r.marker
	}
	return out
}
