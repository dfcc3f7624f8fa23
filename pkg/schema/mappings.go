package schema

import (
	"strings"
)

// Fixed lookup tables. Keys are lower-case; lookups go through the accessor
// functions in normalize.go so a miss is always distinguishable from a hit.

// washingtonCounties lists every Washington county, lower-case, without the
// "county" suffix.
var washingtonCounties = map[string]bool{
	"adams":        true,
	"asotin":       true,
	"benton":       true,
	"chelan":       true,
	"clallam":      true,
	"clark":        true,
	"columbia":     true,
	"cowlitz":      true,
	"douglas":      true,
	"ferry":        true,
	"franklin":     true,
	"garfield":     true,
	"grant":        true,
	"grays harbor": true,
	"island":       true,
	"jefferson":    true,
	"king":         true,
	"kitsap":       true,
	"kittitas":     true,
	"klickitat":    true,
	"lewis":        true,
	"lincoln":      true,
	"mason":        true,
	"okanogan":     true,
	"pacific":      true,
	"pend oreille": true,
	"pierce":       true,
	"san juan":     true,
	"skagit":       true,
	"skamania":     true,
	"snohomish":    true,
	"spokane":      true,
	"stevens":      true,
	"thurston":     true,
	"wahkiakum":    true,
	"walla walla":  true,
	"whatcom":      true,
	"whitman":      true,
	"yakima":       true,
}

// labAddresses maps known collecting labs to their mailing address.
var labAddresses = map[string]string{
	"atlas genomics":             "2296 W. Commodore Way, Suite 220, Seattle, WA 98199, USA",
	"confluence":                 "1201 South Miller St Wenatchee, WA 98801, USA",
	"incyte diagnostics spokane": "15912 East Marietta Avenue, Suite 200, Spokane Valley, WA 99216, USA",
	"interpath laboratory":       "8660 Emerald St # 102, Boise, ID 83704, USA",
	"northwest laboratory":       "3548 Meridian St, Suite 101, Bellingham, WA 98225, USA",
}

// Controlled purpose-of-sequencing vocabulary.
const (
	ReasonBaseline      = "Baseline surveillance (random sampling)"
	ReasonVaccineEscape = "Vaccine escape surveillance"
	ReasonReinfection   = "Re-infection surveillance"
	ReasonOutbreak      = "Cluster/Outbreak investigation"
	ReasonTravel        = "Travel-associated surveillance"
	ReasonNotProvided   = "Not Provided"
	ReasonVOCScreening  = "Screening for Variants of Concern (VOC)"

	// ReasonDrop marks proficiency-test samples that never leave the lab.
	ReasonDrop = "DROP"
	// ReasonNotFound is returned for reason codes missing from the table.
	ReasonNotFound = "NO_REASON_FOUND"
)

var reasonCodes = map[string]string{
	"phl diagnostic":                 ReasonBaseline,
	"suspected vaccine breakthrough": ReasonVaccineEscape,
	"suspected reinfection":          ReasonReinfection,
	"outbreak investigation":         ReasonOutbreak,
	"travel associated":              ReasonTravel,
	"other":                          ReasonNotProvided,
	"s-dropout":                      ReasonVOCScreening,
	"sentinel surveillance":          ReasonBaseline,
	"pt":                             ReasonDrop,
}

// miseqRunPrefixes identify MiSeq instruments in sample names.
var miseqRunPrefixes = []string{"M4796", "M5130", "M5916"}

// NormalizeHeader lower-cases a dashboard header and collapses whitespace
// runs into single underscores, so "Collected Date" becomes collected_date.
func NormalizeHeader(header string) string {
	return strings.Join(strings.Fields(strings.ToLower(header)), "_")
}

// knownCounties returns the county table keys, used for near-miss hints.
func knownCounties() []string {
	out := make([]string, 0, len(washingtonCounties))
	for c := range washingtonCounties {
		out = append(out, c)
	}
	return out
}

func knownLabs() []string {
	out := make([]string, 0, len(labAddresses))
	for l := range labAddresses {
		out = append(out, l)
	}
	return out
}
