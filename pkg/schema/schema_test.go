package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIdentifierExtraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		extract func(string) (string, bool)
		input   string
		want    string
		ok      bool
	}{
		{"virus name", IDFromVirusName, "hCoV-19/USA/WA-PHL-000123/2024", "WA-PHL-000123", true},
		{"isolate", IDFromIsolate, "SARS-CoV-2/Human/USA/WA-PHL-000123/2024", "WA-PHL-000123", true},
		{"isolate read as virus name", IDFromVirusName, "SARS-CoV-2/Human/USA/WA-PHL-000123/2024", "USA", true},
		{"virus name too short", IDFromVirusName, "hCoV-19/USA", "", false},
		{"isolate too short", IDFromIsolate, "SARS-CoV-2/Human/USA", "", false},
		{"empty", IDFromVirusName, "", "", false},
		{"no slashes", IDFromIsolate, "WA0000001", "", false},
		{"empty segment", IDFromVirusName, "a/b//d", "", false},
		{"blank segment", IDFromVirusName, "a/b/ /d", "", false},
		{"isolate empty segment", IDFromIsolate, "SARS-CoV-2/Human/USA//2024", "", false},
		{"exactly three segments", IDFromVirusName, "a/b/c", "c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.extract(tt.input)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAccessionToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"WA0000001-A", "WA0000001", true},
		{"2024-M4796-WA1234567-S12", "WA1234567", true},
		{"WA0000001-re-WA0000002", "WA0000002", true},
		{"wa0000001", "", false},
		{"WA123456", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := AccessionToken(tt.input)
		require.Equal(t, tt.ok, ok, tt.input)
		require.Equal(t, tt.want, got, tt.input)
	}
}

func TestResolveColumns(t *testing.T) {
	t.Parallel()

	titan, err := ResolveColumns("TITAN")
	require.NoError(t, err)
	require.Equal(t, WorkflowTitan, titan.Workflow)
	require.Equal(t, "assembly_fasta", titan.Column(Sequence))
	require.Equal(t, "percent_reference_coverage", titan.Column(Coverage))
	require.Equal(t, "pango_lineage", titan.Column(Lineage))

	lang, err := ResolveColumns("lang")
	require.NoError(t, err)
	require.Equal(t, "consensus_seq", lang.Column(Sequence))
	require.Equal(t, "coverage_trim", lang.Column(Coverage))
	require.Equal(t, "pangolin_lineage", lang.Column(Lineage))

	for _, m := range []ColumnMap{titan, lang} {
		for _, l := range Logicals {
			require.NotEmpty(t, m.Column(l), "%s/%s", m.Workflow, l)
		}
	}

	_, err = ResolveColumns("nextflow")
	require.ErrorIs(t, err, ErrUnknownWorkflow)
}

func TestNormalizeCounty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"king", "North America / USA / Washington / King County"},
		{"GRAYS HARBOR", "North America / USA / Washington / Grays Harbor County"},
		{"walla  walla county", "North America / USA / Washington / Walla Walla County"},
		{"Multnomah", StateLocation},
		{"", StateLocation},
	}

	for _, tt := range tests {
		got := NormalizeCounty(tt.input)
		require.Equal(t, tt.want, got, tt.input)
		require.Equal(t, got, NormalizeCounty(got), "re-normalizing %q", got)
	}
}

func TestGeoLocName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "USA: Washington: King County", GeoLocName(NormalizeCounty("King")))
	require.Equal(t, "USA: Washington", GeoLocName(StateLocation))
}

func TestLabAddress(t *testing.T) {
	t.Parallel()

	addr, ok := LabAddress("Atlas  Genomics")
	require.True(t, ok)
	require.Contains(t, addr, "Seattle")

	addr, ok = LabAddress("Unknown Lab")
	require.False(t, ok)
	require.Empty(t, addr)
	require.Equal(t, DefaultLabAddress, LabAddressOrDefault("Unknown Lab"))
}

func TestNormalizeReason(t *testing.T) {
	t.Parallel()

	require.Equal(t, ReasonBaseline, NormalizeReason("PHL Diagnostic"))
	require.Equal(t, ReasonNotProvided, NormalizeReason("other"))
	require.Equal(t, ReasonDrop, NormalizeReason("PT"))
	require.Equal(t, ReasonNotFound, NormalizeReason("curiosity"))
	require.Equal(t, ReasonNotFound, NormalizeReason(""))
	require.True(t, IsDropReason(" pt "))
	require.False(t, IsDropReason("other"))
}

func TestDerivedFields(t *testing.T) {
	t.Parallel()

	require.Equal(t, InstrumentMiSeq, Instrument("WA0000001-M5130-S1"))
	require.Equal(t, InstrumentNextSeq, Instrument("WA0000001-NB5511-S1"))

	require.Equal(t, "99%", FormatPercent("99.87"))
	require.Equal(t, "0%", FormatPercent(""))
	require.Equal(t, "0%", FormatPercent("n/a"))
	require.Equal(t, "1543x", FormatDepth("1543.9"))
	require.Equal(t, "0x", FormatDepth(""))

	require.Equal(t, "1.3.1", ConsensusVersion("iVar Version 1.3.1"))
	require.Equal(t, "Unknown", ConsensusVersion(""))
}

func TestDates(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2024-03-05", FormatDate("3/5/2024"))
	require.Equal(t, "2024-03-05", FormatDate("2024-03-05"))
	require.Equal(t, "2024-03-05", FormatDate("2024-03-05T10:00:00"))
	require.Equal(t, "last spring", FormatDate("last spring"))

	fallback := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 2023, CollectionYear("12/31/2023", fallback))
	require.Equal(t, 2025, CollectionYear("", fallback))
}

func TestSuggestions(t *testing.T) {
	t.Parallel()

	county, ok := SuggestCounty("Snohomsh")
	require.True(t, ok)
	require.Equal(t, "Snohomish", county)

	_, ok = SuggestCounty("King")
	require.False(t, ok, "recognized counties need no hint")

	_, ok = SuggestCounty("Multnomah")
	require.False(t, ok)

	lab, ok := SuggestLab("Atlas Genomic")
	require.True(t, ok)
	require.Equal(t, "atlas genomics", lab)
}

func TestUnifiedRecord(t *testing.T) {
	t.Parallel()

	cols, err := ResolveColumns("titan")
	require.NoError(t, err)

	row := map[string]string{
		ColAccession:                 "WA0000001",
		ColSampleName:                "WA0000001-A",
		"percent_reference_coverage": "80",
	}
	rec := NewUnifiedRecord(row, true)
	row[ColAccession] = "changed"

	require.Equal(t, "WA0000001", rec.Accession)
	require.Equal(t, "WA0000001", rec.Get(ColAccession))
	require.Equal(t, "80", rec.Value(cols, Coverage))
	require.True(t, rec.Matched)
}
