package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestStreamParseWithWarnings(t *testing.T) {
	t.Parallel()

	t.Run("pads short rows and truncates long rows", func(t *testing.T) {
		t.Parallel()
		data := "a,b,c\n1,2\n4,5,6,7\n"
		table, err := StreamParseWithWarnings("x.csv", []byte(data), ',')
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b", "c"}, table.Headers)
		require.Len(t, table.Rows, 2)
		require.Equal(t, "", table.Rows[0]["c"])
		require.Equal(t, "6", table.Rows[1]["c"])
		require.Len(t, table.Warnings, 2)
	})

	t.Run("tab separated with trimmed headers", func(t *testing.T) {
		t.Parallel()
		data := " entity:sample_id \tcoverage\nWA0000001-A\t80\n"
		table, err := StreamParseWithWarnings("x.tsv", []byte(data), '\t')
		require.NoError(t, err)
		require.Equal(t, []string{"entity:sample_id", "coverage"}, table.Headers)
		require.Equal(t, "80", table.Rows[0]["coverage"])
	})

	t.Run("duplicate headers are disambiguated", func(t *testing.T) {
		t.Parallel()
		table, err := StreamParseWithWarnings("x.csv", []byte("id,id,id\n1,2,3\n"), ',')
		require.NoError(t, err)
		require.Equal(t, []string{"id", "id.1", "id.2"}, table.Headers)
		require.Equal(t, "3", table.Rows[0]["id.2"])
	})

	t.Run("blank rows are skipped", func(t *testing.T) {
		t.Parallel()
		table, err := StreamParseWithWarnings("x.csv", []byte("a,b\n,\n1,2\n"), ',')
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		_, err := StreamParseWithWarnings("x.csv", nil, ',')
		require.ErrorIs(t, err, ErrEmptyTable)
	})

	t.Run("header without rows", func(t *testing.T) {
		t.Parallel()
		_, err := StreamParseWithWarnings("x.csv", []byte("a,b\n"), ',')
		require.ErrorIs(t, err, ErrEmptyTable)
	})
}

func TestDetectAndDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []byte
		want     string
		encoding string
	}{
		{"plain utf-8", []byte("county"), "county", "utf-8"},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("county")...), "county", "utf-8-bom"},
		{"utf-16 le", []byte{0xFF, 0xFE, 'o', 0, 'k', 0}, "ok", "utf-16le"},
		{"utf-16 be", []byte{0xFE, 0xFF, 0, 'o', 0, 'k'}, "ok", "utf-16be"},
		{"latin-1", []byte{'C', 0xF4, 't', 'e'}, "Côte", "latin-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc, err := DetectAndDecode(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(got))
			require.Equal(t, tt.encoding, enc)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	require.Equal(t, FormatCSV, DetectFormat("a/b/terra.CSV"))
	require.Equal(t, FormatTSV, DetectFormat("terra.tsv"))
	require.Equal(t, FormatTSV, DetectFormat("terra.txt"))
	require.Equal(t, FormatSpreadsheet, DetectFormat("dashboard.xlsx"))
	require.Equal(t, FormatSpreadsheet, DetectFormat("dashboard"))
}

func TestLoadSequencingTables(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	first := writeFile(t, dir, "terra_1.tsv", "entity:sample_id\tpercent_reference_coverage\nWA0000001-A\t80\n")
	second := writeFile(t, dir, "terra_2.csv", "sample,percent_reference_coverage,pango_lineage\nWA0000002-B,40,BA.2\n")

	table, err := LoadSequencingTables([]string{first, second})
	require.NoError(t, err)
	require.Equal(t, []string{SampleNameColumn, "percent_reference_coverage", "pango_lineage"}, table.Headers)
	require.Equal(t, []string{"WA0000001-A", "WA0000002-B"}, table.Column(SampleNameColumn))
	require.Equal(t, "", table.Rows[0]["pango_lineage"])
	require.Equal(t, "BA.2", table.Rows[1]["pango_lineage"])
}

func TestLoadTables_ReportsEveryFailure(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	empty := writeFile(t, dir, "dashboard_empty.csv", "")
	missing := filepath.Join(dir, "dashboard_missing.csv")

	_, err := LoadTables([]string{empty, missing})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrEmptyTable))
	require.Contains(t, err.Error(), "dashboard_missing.csv")
}

func TestParseSpreadsheet(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.xlsx")

	xlsx := excelize.NewFile()
	xlsx.SetCellValue("Sheet1", "A1", "SpecimenId")
	xlsx.SetCellValue("Sheet1", "B1", "Collected Date")
	xlsx.SetCellValue("Sheet1", "A2", "WA0000001")
	xlsx.SetCellValue("Sheet1", "B2", "2024-01-02")
	require.NoError(t, xlsx.SaveAs(path))

	table, err := LoadTable(path)
	require.NoError(t, err)
	require.Equal(t, []string{"SpecimenId", "Collected Date"}, table.Headers)
	require.Equal(t, "WA0000001", table.Rows[0]["SpecimenId"])
	require.Equal(t, "2024-01-02", table.Rows[0]["Collected Date"])
}
