package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownWorkflow is returned when the workflow identifier is not one of
// the supported sequencing workflows.
var ErrUnknownWorkflow = errors.New("unknown workflow")

// ErrMissingColumns is returned when the sequencing table lacks a column the
// workflow maps a logical field to.
var ErrMissingColumns = errors.New("sequencing table missing workflow columns")

// Logical names a piece of sequencing data independent of the workflow that
// produced it.
type Logical string

const (
	Sequence         Logical = "sequence"
	Coverage         Logical = "coverage"
	AssemblerVersion Logical = "assembler_version"
	Clade            Logical = "clade"
	Lineage          Logical = "lineage"
)

// Logicals lists every logical field in a fixed order.
var Logicals = []Logical{Sequence, Coverage, AssemblerVersion, Clade, Lineage}

// Workflow identifies the sequencing workflow convention of the input tables.
type Workflow string

const (
	WorkflowTitan Workflow = "titan"
	WorkflowLang  Workflow = "lang"
)

// ColumnNames is the physical column carrying each logical field.
type ColumnNames struct {
	Sequence         string
	Coverage         string
	AssemblerVersion string
	Clade            string
	Lineage          string
}

// ColumnMap is resolved once per run and handed to every stage that reads
// logical fields. The zero value resolves nothing.
type ColumnMap struct {
	Workflow Workflow
	Names    ColumnNames
}

var workflowColumns = map[Workflow]ColumnNames{
	WorkflowTitan: {
		Sequence:         "assembly_fasta",
		Coverage:         "percent_reference_coverage",
		AssemblerVersion: "ivar_version_consensus",
		Clade:            "nextclade_clade",
		Lineage:          "pango_lineage",
	},
	WorkflowLang: {
		Sequence:         "consensus_seq",
		Coverage:         "coverage_trim",
		AssemblerVersion: "ivar_version_consensus",
		Clade:            "nextclade_clade",
		Lineage:          "pangolin_lineage",
	},
}

// ParseWorkflow accepts a workflow identifier case-insensitively.
func ParseWorkflow(s string) (Workflow, error) {
	w := Workflow(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := workflowColumns[w]; !ok {
		return "", fmt.Errorf("%w: %q (expected %q or %q)", ErrUnknownWorkflow, s, WorkflowTitan, WorkflowLang)
	}
	return w, nil
}

// ResolveColumns returns the column map for a workflow identifier.
func ResolveColumns(workflow string) (ColumnMap, error) {
	w, err := ParseWorkflow(workflow)
	if err != nil {
		return ColumnMap{}, err
	}
	return ColumnMap{Workflow: w, Names: workflowColumns[w]}, nil
}

// Column returns the physical column for a logical field.
func (m ColumnMap) Column(field Logical) string {
	switch field {
	case Sequence:
		return m.Names.Sequence
	case Coverage:
		return m.Names.Coverage
	case AssemblerVersion:
		return m.Names.AssemblerVersion
	case Clade:
		return m.Names.Clade
	case Lineage:
		return m.Names.Lineage
	}
	return ""
}
