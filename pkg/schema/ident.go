package schema

import (
	"regexp"
	"strings"
)

const (
	virusNameIDIndex = 2 // hCoV-19/USA/<id>/2024
	isolateIDIndex   = 3 // SARS-CoV-2/Human/USA/<id>/2024
)

// accessionRe captures the last two-letter, seven-digit token in a sample name.
// The greedy prefix makes the final occurrence win.
var accessionRe = regexp.MustCompile(`^.*([A-Z]{2}[0-9]{7})`)

// IDFromVirusName returns the sample identifier embedded in a GISAID-style
// virus name: the third "/"-separated segment. The second result is false
// when the name has fewer than three segments, and also when that segment is
// empty or blank ("a/b//d"), so an empty identifier never joins two records.
func IDFromVirusName(name string) (string, bool) {
	return segmentAt(name, virusNameIDIndex)
}

// IDFromIsolate returns the sample identifier embedded in an NCBI-style
// isolate name, which carries one more leading segment than a virus name.
// Short names and empty segments report false as in IDFromVirusName.
func IDFromIsolate(isolate string) (string, bool) {
	return segmentAt(isolate, isolateIDIndex)
}

func segmentAt(s string, index int) (string, bool) {
	if s == "" {
		return "", false
	}
	parts := strings.Split(s, "/")
	if len(parts) <= index {
		return "", false
	}
	seg := strings.TrimSpace(parts[index])
	if seg == "" {
		return "", false
	}
	return seg, true
}

// AccessionToken extracts the join key from a sequencing sample name.
func AccessionToken(sampleName string) (string, bool) {
	m := accessionRe.FindStringSubmatch(sampleName)
	if len(m) < 2 || len(m[1]) != accessionTokenLen {
		return "", false
	}
	return m[1], true
}
