package submission

import (
	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

const (
	Organism               = "Severe acute respiratory syndrome coronavirus 2"
	HostScientificName     = "Homo sapiens"
	HostDisease            = "COVID-19"
	SequencingProtocol     = "Illumina COVIDSeq"
	ReadProcessingMethod   = "FASTQC, Trimmomatic: quality and adapter trimming"
	DehostingMethod        = "NCBI SRA human scrubber"
	ConsensusSoftware      = "iVar"
	BioinformaticsProtocol = "https://github.com/theiagen/public_health_viral_genomics/blob/main/workflows/wf_titan_illumina_pe.wdl"
)

// PHA4GE renders records with the PHA4GE SARS-CoV-2 contextual data fields.
// Row order follows records.
func PHA4GE(records []*schema.UnifiedRecord, cols schema.ColumnMap, p Profile) *Table {
	fields := []field{
		{name: "specimen_collector_sample_id", derive: func(r *schema.UnifiedRecord) string { return r.SampleID }},
		{name: "bioproject_umbrella_accession", derive: constant(UmbrellaBioProject)},
		{name: "bioproject_accession", derive: constant(BioProject)},
		{name: "biosample_accession", derive: constant("")},
		{name: "genbank_ena_ddbj_accession", derive: constant("")},
		{name: "gisaid_accession", derive: constant("")},
		{name: "gisaid_virus_name", derive: func(r *schema.UnifiedRecord) string { return r.VirusName }},
		{name: "sample_collected_by", derive: func(r *schema.UnifiedRecord) string { return r.SubmittingLab }},
		{name: "sample_collector_contact_address", derive: labAddress},
		{name: "sequence_submitted_by", derive: constant(SubmittingLab)},
		{name: "sequence_submitter_contact_address", derive: constant(SubmittingLabAddress)},
		{name: "sample_collection_date", derive: collectionDate},
		{name: "geo_loc_name_country", derive: constant(schema.Country)},
		{name: "geo_loc_name_state_province_territory", derive: constant(schema.State)},
		{name: "geo_loc_name_county_region", derive: location},
		{name: "organism", derive: constant(Organism)},
		{name: "isolate", derive: func(r *schema.UnifiedRecord) string {
			return "SARS-CoV-2/" + HostScientificName + "/USA/" + r.SampleID + "/" + collectionDate(r)
		}},
		{name: "host_scientific_name", derive: constant(HostScientificName)},
		{name: "host_disease", derive: constant(HostDisease)},
		{name: "purpose_of_sequencing", derive: purpose},
		{name: "sequencing_instrument", derive: instrument},
		{name: "sequencing_protocol_name", derive: constant(SequencingProtocol)},
		{name: "raw_sequence_data_processing_method", derive: constant(ReadProcessingMethod)},
		{name: "dehosting_method", derive: constant(DehostingMethod)},
		{name: "consensus_sequence_software_name", derive: constant(ConsensusSoftware)},
		{name: "consensus_sequence_software_version", derive: assemblerVersion(cols)},
		{name: "breadth_of_coverage_value", derive: func(r *schema.UnifiedRecord) string {
			return schema.FormatPercent(r.Value(cols, schema.Coverage))
		}},
		{name: "depth_of_coverage_value", derive: depth},
		{name: "bioinformatics_protocol", derive: constant(BioinformaticsProtocol)},
	}
	return build("PHA4GE", fields, records)
}
