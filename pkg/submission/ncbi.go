package submission

import (
	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

// BioSample renders records for the NCBI BioSample SARS-CoV-2 clinical
// package.
func BioSample(records []*schema.UnifiedRecord, cols schema.ColumnMap, p Profile) *Table {
	fields := []field{
		{name: "sample_name", derive: func(r *schema.UnifiedRecord) string { return r.SampleID }},
		{name: "bioproject_accession", derive: constant(BioProject)},
		{name: "organism", derive: constant(Organism)},
		{name: "collected_by", derive: func(r *schema.UnifiedRecord) string { return r.SubmittingLab }},
		{name: "collection_date", derive: collectionDate},
		{name: "geo_loc_name", derive: func(r *schema.UnifiedRecord) string {
			return schema.GeoLocName(location(r))
		}},
		{name: "host", derive: constant(HostScientificName)},
		{name: "host_disease", derive: constant(HostDisease)},
		{name: "isolate", derive: ictvIsolate(p)},
		{name: "isolation_source", derive: constant("Clinical/Nasal Swab")},
		{name: "gisaid_virus_name", derive: func(r *schema.UnifiedRecord) string { return r.VirusName }},
		{name: "purpose_of_sequencing", derive: purpose},
		{name: "sequenced_by", derive: constant(SubmittingLab)},
	}
	return build("BioSample", fields, records)
}

// GenBank renders records for the GenBank SARS-CoV-2 submission portal
// source-modifier table.
func GenBank(records []*schema.UnifiedRecord, cols schema.ColumnMap, p Profile) *Table {
	fields := []field{
		{name: "sequence_ID", derive: func(r *schema.UnifiedRecord) string { return r.SampleID }},
		{name: "isolate", derive: ictvIsolate(p)},
		{name: "collection-date", derive: collectionDate},
		{name: "host", derive: constant(HostScientificName)},
		{name: "country", derive: constant(schema.Country + ": " + schema.State)},
		{name: "isolation-source", derive: constant("Nasal swab")},
		{name: "BioProject Accession", derive: constant(BioProject)},
		{name: "BioSample Accession", derive: constant("")},
	}
	return build("GenBank", fields, records)
}

// Transformer is the common signature of the four schema renderers.
type Transformer func(records []*schema.UnifiedRecord, cols schema.ColumnMap, p Profile) *Table

// All returns the transformers in output order.
func All() []Transformer {
	return []Transformer{PHA4GE, GISAID, BioSample, GenBank}
}
