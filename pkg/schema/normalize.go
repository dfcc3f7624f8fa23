package schema

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Location components shared by the county-based location strings.
const (
	Continent = "North America"
	Country   = "USA"
	State     = "Washington"

	// StateLocation is the location used when the county is not recognized.
	StateLocation = Continent + " / " + Country + " / " + State

	// DefaultLabAddress is the placeholder for labs without a known address.
	DefaultLabAddress = "WA, USA"

	InstrumentMiSeq   = "Illumina MiSeq"
	InstrumentNextSeq = "Illumina NextSeq"

	unknownVersion = "Unknown"
	countySuffix   = " county"
	locationSep    = " / "
)

// titleCase capitalizes each word. Casers carry state, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// CountyName returns the title-cased county name (without the "County"
// suffix) when raw names a Washington county. raw may be a bare county, a
// county with a trailing "County", or a location string produced by
// NormalizeCounty.
func CountyName(raw string) (string, bool) {
	key := countyKey(raw)
	if !washingtonCounties[key] {
		return "", false
	}
	return titleCase(key), true
}

// NormalizeCounty renders a free-text county as a submission location. Known
// counties produce "North America / USA / Washington / <County> County",
// anything else falls back to the state-level location. Feeding the output
// back in returns the same string.
func NormalizeCounty(raw string) string {
	name, ok := CountyName(raw)
	if !ok {
		return StateLocation
	}
	return StateLocation + locationSep + name + " County"
}

// countyKey reduces any accepted county spelling to the lookup-table key.
func countyKey(raw string) string {
	s := strings.ToLower(collapseSpace(stripDiacritics(raw)))
	if prefix := strings.ToLower(StateLocation); strings.HasPrefix(s, prefix) {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
		s = strings.TrimSpace(strings.TrimPrefix(s, "/"))
	}
	s = strings.TrimSuffix(s, countySuffix)
	return strings.TrimSpace(s)
}

// GeoLocName converts a county location into the NCBI "USA: Washington: King
// County" form, dropping the continent.
func GeoLocName(location string) string {
	parts := strings.Split(location, locationSep)
	if len(parts) > 0 && parts[0] == Continent {
		parts = parts[1:]
	}
	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ": ")
}

// LabAddress looks up the address of a collecting lab. The second result is
// false for labs missing from the table.
func LabAddress(lab string) (string, bool) {
	addr, ok := labAddresses[labKey(lab)]
	return addr, ok
}

// LabAddressOrDefault is LabAddress with the state-level placeholder applied.
func LabAddressOrDefault(lab string) string {
	if addr, ok := LabAddress(lab); ok {
		return addr
	}
	return DefaultLabAddress
}

func labKey(lab string) string {
	return strings.ToLower(collapseSpace(lab))
}

// NormalizeReason maps a dashboard reason-for-sequencing code to the
// controlled vocabulary. Unknown or empty codes map to ReasonNotFound.
func NormalizeReason(code string) string {
	if r, ok := reasonCodes[strings.ToLower(collapseSpace(code))]; ok {
		return r
	}
	return ReasonNotFound
}

// IsDropReason reports whether a raw reason code marks a record that must not
// appear in any submission.
func IsDropReason(code string) bool {
	return NormalizeReason(code) == ReasonDrop
}

// Instrument infers the sequencing platform from the sample name.
func Instrument(sampleName string) string {
	for _, prefix := range miseqRunPrefixes {
		if strings.Contains(sampleName, prefix) {
			return InstrumentMiSeq
		}
	}
	return InstrumentNextSeq
}

// FormatPercent renders a breadth-of-coverage value as a truncated integer
// percentage. Empty or non-numeric values render as 0%.
func FormatPercent(v string) string {
	return fmt.Sprintf("%d%%", truncate(v))
}

// FormatDepth renders a depth-of-coverage value as "<n>x".
func FormatDepth(v string) string {
	return fmt.Sprintf("%dx", truncate(v))
}

func truncate(v string) int64 {
	f, ok := ParseNumber(v)
	if !ok {
		return 0
	}
	return int64(f)
}

// ParseNumber parses a numeric cell. Empty and non-numeric cells are absent.
func ParseNumber(v string) (float64, bool) {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ConsensusVersion returns the version token of an assembler banner such as
// "iVar Version 1.3.1", or "Unknown" when the banner is empty.
func ConsensusVersion(banner string) string {
	fields := strings.Fields(banner)
	if len(fields) == 0 {
		return unknownVersion
	}
	return fields[len(fields)-1]
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripDiacritics removes diacritical marks (accents) from a string.
// It decomposes the string into NFD form and removes combining marks (unicode.Mn).
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var result strings.Builder
	result.Grow(len(decomposed))

	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		result.WriteRune(r)
	}

	return result.String()
}
