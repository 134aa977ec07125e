package model

import (
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

// Finding is one normalized static-analysis hit. Findings of a scan are replaced as a whole
// on every run.
type Finding struct {
	ScanJobID   types.ScanJobID   `json:"scan_job_id" firestore:"scan_job_id" bigquery:"scan_job_id"`
	Tool        types.ToolName    `json:"tool" firestore:"tool" bigquery:"tool"`
	RuleID      string            `json:"rule_id" firestore:"rule_id" bigquery:"rule_id"`
	Severity    types.Severity    `json:"severity" firestore:"severity" bigquery:"severity"`
	Message     string            `json:"message" firestore:"message" bigquery:"message"`
	Path        string            `json:"path" firestore:"path" bigquery:"path"`
	StartLine   int               `json:"start_line" firestore:"start_line" bigquery:"start_line"`
	StartCol    int               `json:"start_col" firestore:"start_col" bigquery:"start_col"`
	EndLine     int               `json:"end_line" firestore:"end_line" bigquery:"end_line"`
	EndCol      int               `json:"end_col" firestore:"end_col" bigquery:"end_col"`
	Snippet     string            `json:"snippet" firestore:"snippet" bigquery:"snippet"`
	Category    string            `json:"category" firestore:"category" bigquery:"category"`
	PQCCategory types.PQCCategory `json:"pqc_category" firestore:"pqc_category" bigquery:"pqc_category"`
	Metadata    FindingMetadata   `json:"metadata" firestore:"metadata" bigquery:"metadata"`
}

// FindingMetadata is the typed subset of rule metadata the classifier relies on.
type FindingMetadata struct {
	Algorithm    string   `json:"algorithm,omitempty" firestore:"algorithm" bigquery:"algorithm"`
	Library      string   `json:"library,omitempty" firestore:"library" bigquery:"library"`
	KeySize      int      `json:"key_size,omitempty" firestore:"key_size" bigquery:"key_size"`
	NISTStandard string   `json:"nist_standard,omitempty" firestore:"nist_standard" bigquery:"nist_standard"`
	Technology   []string `json:"technology,omitempty" firestore:"technology" bigquery:"technology"`
}
