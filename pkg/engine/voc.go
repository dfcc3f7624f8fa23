package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HNHalstead/gisaid-script/pkg/parser"
	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

// Watch-list labels.
const (
	ListVOC = "VOC"
	ListVOI = "VOI"
)

// WatchList holds clade or lineage labels of variants of concern and
// variants of interest. Either taxonomy may appear in either list.
type WatchList struct {
	VOC []string `json:"voc"`
	VOI []string `json:"voi"`
}

// Empty reports whether both lists are empty.
func (w WatchList) Empty() bool {
	return len(w.VOC) == 0 && len(w.VOI) == 0
}

// VariantMatch is one record found on a watch-list.
type VariantMatch struct {
	Accession string `json:"accession"`
	List      string `json:"list"`
	Clade     string `json:"clade"`
	Lineage   string `json:"lineage"`
}

// FindVariants returns every record whose clade or lineage is on a list.
// VOC matches come first, then VOI matches; a record on both lists appears
// twice. Records are never excluded here.
func FindVariants(watch WatchList, records []*schema.UnifiedRecord, cols schema.ColumnMap) []VariantMatch {
	matches := make([]VariantMatch, 0)
	if watch.Empty() {
		return matches
	}

	for _, list := range []struct {
		name   string
		labels []string
	}{{ListVOC, watch.VOC}, {ListVOI, watch.VOI}} {
		set := labelSet(list.labels)
		if len(set) == 0 {
			continue
		}
		for _, r := range records {
			clade := strings.TrimSpace(r.Value(cols, schema.Clade))
			lineage := strings.TrimSpace(r.Value(cols, schema.Lineage))
			if (clade != "" && set[clade]) || (lineage != "" && set[lineage]) {
				matches = append(matches, VariantMatch{
					Accession: r.Accession,
					List:      list.name,
					Clade:     clade,
					Lineage:   lineage,
				})
			}
		}
	}
	return matches
}

func labelSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			set[l] = true
		}
	}
	return set
}

// LoadWatchList reads a two-column watch-list file. The first column holds
// VOC labels and the second VOI labels; the header row names them. A file
// with a header but no labels yields an empty list.
func LoadWatchList(path string) (WatchList, error) {
	var watch WatchList
	if path == "" {
		return watch, nil
	}

	table, err := parser.LoadTable(path)
	if errors.Is(err, parser.ErrEmptyTable) {
		return watch, nil
	}
	if err != nil {
		return watch, fmt.Errorf("load watch-list: %w", err)
	}
	if len(table.Headers) < 2 {
		return watch, fmt.Errorf("watch-list %s: expected VOC and VOI columns, found %d column(s)", path, len(table.Headers))
	}

	for _, v := range table.Column(table.Headers[0]) {
		if v != "" {
			watch.VOC = append(watch.VOC, v)
		}
	}
	for _, v := range table.Column(table.Headers[1]) {
		if v != "" {
			watch.VOI = append(watch.VOI, v)
		}
	}
	return watch, nil
}
