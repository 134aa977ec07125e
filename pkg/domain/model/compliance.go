package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

type ComplianceStatus struct {
	Score           int           `json:"score" firestore:"score" bigquery:"score"`
	Verdict         types.Verdict `json:"verdict" firestore:"verdict" bigquery:"verdict"`
	Policy          string        `json:"policy" firestore:"policy" bigquery:"policy"`
	Total           int           `json:"total" firestore:"total" bigquery:"total"`
	Safe            int           `json:"safe" firestore:"safe" bigquery:"safe"`
	Vulnerable      int           `json:"vulnerable" firestore:"vulnerable" bigquery:"vulnerable"`
	Unknown         int           `json:"unknown" firestore:"unknown" bigquery:"unknown"`
	Recommendations []string      `json:"recommendations" firestore:"recommendations" bigquery:"recommendations"`
}

// Report is a generated compliance artifact. Content holds the serialized CycloneDX document.
type Report struct {
	ID         types.ReportID       `json:"id" firestore:"id"`
	ScanJobID  types.ScanJobID      `json:"scan_job_id" firestore:"scan_job_id"`
	Source     types.ReportSource   `json:"source" firestore:"source"`
	ExternalID types.ExternalScanID `json:"external_id,omitempty" firestore:"external_id"`
	Compliance ComplianceStatus     `json:"compliance" firestore:"compliance"`
	Content    json.RawMessage      `json:"content" firestore:"content"`
	CreatedAt  time.Time            `json:"created_at" firestore:"created_at"`
}

// ScanRecord is the row exported to the analytics sink after a job completes.
type ScanRecord struct {
	ScanJobID     string           `bigquery:"scan_job_id" json:"scan_job_id"`
	RepoURL       string           `bigquery:"repo_url" json:"repo_url"`
	Branch        string           `bigquery:"branch" json:"branch"`
	FetchedBranch string           `bigquery:"fetched_branch" json:"fetched_branch"`
	StartedAt     time.Time        `bigquery:"started_at" json:"started_at"`
	CompletedAt   time.Time        `bigquery:"completed_at" json:"completed_at"`
	FindingCount  int              `bigquery:"finding_count" json:"finding_count"`
	Compliance    ComplianceStatus `bigquery:"compliance" json:"compliance"`
	Assets        []CryptoAsset    `bigquery:"assets" json:"assets"`
}

// CompliancePolicy selects how a ComplianceStatus verdict is derived. MaxVulnerable is only
// used by the vulnerability-count policy.
type CompliancePolicy struct {
	Name          types.PolicyName
	MaxVulnerable int
}

func DefaultCompliancePolicy() CompliancePolicy {
	return CompliancePolicy{Name: types.PolicyPercentage, MaxVulnerable: 2}
}

func (x CompliancePolicy) Validate() error {
	switch x.Name {
	case types.PolicyPercentage, types.PolicyVulnerabilityCount:
	default:
		return goerr.Wrap(types.ErrInvalidOption, "unknown compliance policy", goerr.V("policy", x.Name))
	}
	if x.MaxVulnerable < 0 {
		return goerr.Wrap(types.ErrInvalidOption, "max vulnerable must not be negative", goerr.V("max_vulnerable", x.MaxVulnerable))
	}
	return nil
}
