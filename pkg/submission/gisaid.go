package submission

import (
	"sort"

	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

// GISAID renders records in the GISAID EpiCoV batch-upload layout. Labels
// carries the human-readable second header row; rows are sorted by virus
// name.
func GISAID(records []*schema.UnifiedRecord, cols schema.ColumnMap, p Profile) *Table {
	empty := constant("")
	unknown := constant("unknown")

	fields := []field{
		{"submitter", "Submitter", constant(p.Submitter)},
		{"fn", "FASTA filename", constant(p.fastaFilename())},
		{"covv_virus_name", "Virus name", func(r *schema.UnifiedRecord) string { return r.VirusName }},
		{"covv_type", "Type", constant("betacoronavirus")},
		{"covv_passage", "Passage details/history", constant("Original")},
		{"covv_collection_date", "Collection date", collectionDate},
		{"covv_location", "Location", location},
		{"covv_add_location", "Additional location information", empty},
		{"covv_host", "Host", constant("Human")},
		{"covv_add_host_info", "Additional host information", empty},
		{"covv_sampling_strategy", "Sampling Strategy", purpose},
		{"covv_gender", "Gender", unknown},
		{"covv_patient_age", "Patient age", unknown},
		{"covv_patient_status", "Patient status", unknown},
		{"covv_specimen", "Specimen source", empty},
		{"covv_outbreak", "Outbreak", empty},
		{"covv_last_vaccinated", "Last vaccinated", empty},
		{"covv_treatment", "Treatment", empty},
		{"covv_seq_technology", "Sequencing technology", instrument},
		{"covv_assembly_method", "Assembly method", func(r *schema.UnifiedRecord) string {
			return ConsensusSoftware + " v" + assemblerVersion(cols)(r)
		}},
		{"covv_coverage", "Coverage", depth},
		{"covv_orig_lab", "Originating lab", func(r *schema.UnifiedRecord) string { return r.SubmittingLab }},
		{"covv_orig_lab_addr", "Address", labAddress},
		{"covv_provider_sample_id", "Sample ID given by originating laboratory", empty},
		{"covv_subm_lab", "Submitting lab", constant(SubmittingLab)},
		{"covv_subm_lab_addr", "Address", constant(SubmittingLabAddress)},
		{"covv_subm_sample_id", "Sample ID given by the submitting laboratory", empty},
		{"covv_authors", "Authors", constant(p.authors())},
		{"covv_comment", "Comment", empty},
		{"comment_type", "Comment Icon", empty},
		{"covv_consortium", "Consortium", empty},
	}

	sorted := make([]*schema.UnifiedRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].VirusName < sorted[j].VirusName
	})
	return build("GISAID", fields, sorted)
}
