package fasta

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const plain = `>seq1 consensus
ACGT
acgt

>seq2
NNNN
`

func writeGz(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	fh, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())
	return path
}

func TestFirstRecord(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	t.Run("plain", func(t *testing.T) {
		path := filepath.Join(dir, "WA0000001.consensus.fasta")
		require.NoError(t, os.WriteFile(path, []byte(plain), 0o644))

		rec, err := FirstRecord(path)
		require.NoError(t, err)
		require.Equal(t, "seq1", rec.ID)
		require.Equal(t, "consensus", rec.Description)
		require.Equal(t, "ACGTACGT", string(rec.Seq))
	})

	t.Run("gzip detected by magic number", func(t *testing.T) {
		path := writeGz(t, dir, "consensus.fa", plain)
		rec, err := FirstRecord(path)
		require.NoError(t, err)
		require.Equal(t, "seq1", rec.ID)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FirstRecord(filepath.Join(dir, "absent.fasta"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("undefined path", func(t *testing.T) {
		_, err := FirstRecord("")
		require.Error(t, err)
	})

	t.Run("no record", func(t *testing.T) {
		path := filepath.Join(dir, "empty.fasta")
		require.NoError(t, os.WriteFile(path, []byte(">only-header\n"), 0o644))
		_, err := FirstRecord(path)
		require.ErrorIs(t, err, ErrNoRecord)
	})

	t.Run("not fasta", func(t *testing.T) {
		path := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("hello\n>x\nACGT\n"), 0o644))
		_, err := FirstRecord(path)
		require.Error(t, err)
	})
}

func TestWriteRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	long := strings.Repeat("A", LineWidth) + "CC"
	err := WriteRecords(&buf, []Record{
		{ID: "hCoV-19/USA/WA-PHL-000001/2024", Seq: []byte(long)},
		{ID: "empty"},
		{ID: "short", Description: "x", Seq: []byte("ACGT")},
	})
	require.NoError(t, err)
	require.Equal(t,
		">hCoV-19/USA/WA-PHL-000001/2024\n"+strings.Repeat("A", LineWidth)+"\nCC\n>short x\nACGT\n",
		buf.String())

	rec, err := ReadFirst(&buf)
	require.NoError(t, err)
	require.Equal(t, long, string(rec.Seq))
}
