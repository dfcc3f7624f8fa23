package submission

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"
)

// Fixed submitting-institution details.
const (
	SubmittingLab        = "Washington State Department of Health Public Health Laboratories"
	SubmittingLabAddress = "1610 NE 150th St., Shoreline, WA 98155"
	UmbrellaBioProject   = "PRJNA615625"
	BioProject           = "PRJNA749781"
	FASTAFilename        = "all_sequences.fasta"
)

// DefaultAuthors are credited in covv_authors when no author list is given.
var DefaultAuthors = []string{
	"Drew MacKellar",
	"Philip Dykema",
	"Holly Halstead",
	"Kristen Waterman",
	"Abigail Hicks",
	"JohnAric Peterson",
	"Andrew Delgado",
	"Sarah Krantz",
}

// Profile is the static configuration every transformer draws on besides
// the records themselves.
type Profile struct {
	// Submitter is the GISAID submitter id.
	Submitter string
	// Authors are listed in GISAID's covv_authors, joined with ", ".
	Authors []string
	// FASTAFilename is the consolidated sequence file GISAID rows refer to.
	FASTAFilename string
	// Clock supplies the fallback collection year.
	Clock clockwork.Clock
}

// DefaultProfile returns a profile for submitter crediting DefaultAuthors.
func DefaultProfile(submitter string) Profile {
	return Profile{
		Submitter:     submitter,
		Authors:       append([]string(nil), DefaultAuthors...),
		FASTAFilename: FASTAFilename,
		Clock:         clockwork.NewRealClock(),
	}
}

func (p Profile) clock() clockwork.Clock {
	if p.Clock == nil {
		return clockwork.NewRealClock()
	}
	return p.Clock
}

func (p Profile) authors() string {
	if len(p.Authors) == 0 {
		return strings.Join(DefaultAuthors, ", ")
	}
	return strings.Join(p.Authors, ", ")
}

func (p Profile) fastaFilename() string {
	if p.FASTAFilename == "" {
		return FASTAFilename
	}
	return p.FASTAFilename
}

// LoadAuthors reads semicolon-separated author names from the first line of
// path.
func LoadAuthors(path string) ([]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open author list: %w", err)
	}
	defer fh.Close()

	sc := bufio.NewScanner(fh)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read author list: %w", err)
		}
		return nil, fmt.Errorf("author list %s is empty", path)
	}

	var authors []string
	for _, name := range strings.Split(sc.Text(), ";") {
		if name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")); name != "" {
			authors = append(authors, name)
		}
	}
	if len(authors) == 0 {
		return nil, fmt.Errorf("author list %s names no authors", path)
	}
	return authors, nil
}
