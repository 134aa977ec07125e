package model

import (
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

type AssetSource string

const (
	AssetSourceFinding AssetSource = "finding"
	AssetSourcePattern AssetSource = "pattern"
)

// CryptoAsset is a cryptographic primitive observed at one location.
type CryptoAsset struct {
	ScanJobID      types.ScanJobID     `json:"scan_job_id" firestore:"scan_job_id" bigquery:"scan_job_id"`
	Algorithm      string              `json:"algorithm" firestore:"algorithm" bigquery:"algorithm"`
	Primitive      types.Primitive     `json:"primitive" firestore:"primitive" bigquery:"primitive"`
	QuantumSafety  types.QuantumSafety `json:"quantum_safety" firestore:"quantum_safety" bigquery:"quantum_safety"`
	Recommendation string              `json:"recommendation,omitempty" firestore:"recommendation" bigquery:"recommendation"`
	Path           string              `json:"path" firestore:"path" bigquery:"path"`
	Line           int                 `json:"line" firestore:"line" bigquery:"line"`
	Snippet        string              `json:"snippet,omitempty" firestore:"snippet" bigquery:"snippet"`
	Source         AssetSource         `json:"source" firestore:"source" bigquery:"source"`
	RuleID         string              `json:"rule_id,omitempty" firestore:"rule_id" bigquery:"rule_id"`
}

// AssetKey identifies an asset for deduplication.
type AssetKey struct {
	Algorithm string
	Path      string
	Line      int
}

func (x *CryptoAsset) Key() AssetKey {
	return AssetKey{Algorithm: x.Algorithm, Path: x.Path, Line: x.Line}
}
