package fasta

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// ErrNoRecord is returned when a file holds no FASTA record with sequence.
var ErrNoRecord = errors.New("no FASTA record found")

// Record is one FASTA sequence.
type Record struct {
	ID          string
	Description string
	Seq         []byte
}

// FirstRecord parses the first record of a consensus FASTA file.
func FirstRecord(path string) (Record, error) {
	if strings.TrimSpace(path) == "" {
		return Record{}, pkgerrors.New("consensus path is undefined")
	}
	rc, err := openReader(path)
	if err != nil {
		return Record{}, pkgerrors.Wrapf(err, "open %s", path)
	}
	defer rc.Close()

	rec, err := ReadFirst(rc)
	if err != nil {
		return Record{}, pkgerrors.Wrapf(err, "parse %s", path)
	}
	return rec, nil
}

// ReadFirst reads records from r until the first one with a non-empty
// sequence is complete. Text before the first header is rejected.
func ReadFirst(r io.Reader) (Record, error) {
	br := bufio.NewReader(r)
	var (
		rec    Record
		inRec  bool
		lineNo int
	)

	for {
		line, err := br.ReadBytes('\n')
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return Record{}, err
		}
		lineNo++
		line = bytes.TrimRight(line, "\r\n")

		switch {
		case len(line) > 0 && line[0] == '>':
			if inRec && len(rec.Seq) > 0 {
				return rec, nil
			}
			header := strings.TrimSpace(string(line[1:]))
			id, desc, _ := strings.Cut(header, " ")
			rec = Record{ID: id, Description: strings.TrimSpace(desc)}
			inRec = true
		case len(bytes.TrimSpace(line)) == 0:
			// blank line
		case !inRec:
			return Record{}, pkgerrors.Errorf("line %d: sequence data before first header", lineNo)
		default:
			rec.Seq = append(rec.Seq, bytes.ToUpper(bytes.TrimSpace(line))...)
		}

		if eof {
			break
		}
	}

	if !inRec || len(rec.Seq) == 0 {
		return Record{}, ErrNoRecord
	}
	return rec, nil
}
