package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

const (
	cycloneDXFormat      = "CycloneDX"
	cycloneDXSpecVersion = "1.6"
	toolName             = "pqscan"
)

// CycloneDXBOM is the subset of a CycloneDX 1.6 document needed for a CBOM with an embedded
// VDR.
type CycloneDXBOM struct {
	BOMFormat       string                   `json:"bomFormat"`
	SpecVersion     string                   `json:"specVersion"`
	SerialNumber    string                   `json:"serialNumber"`
	Version         int                      `json:"version"`
	Metadata        CycloneDXMetadata        `json:"metadata"`
	Components      []CycloneDXComponent     `json:"components"`
	Vulnerabilities []CycloneDXVulnerability `json:"vulnerabilities"`
}

type CycloneDXMetadata struct {
	Timestamp  string              `json:"timestamp"`
	Tools      CycloneDXTools      `json:"tools"`
	Component  *CycloneDXComponent `json:"component,omitempty"`
	Properties []CycloneDXProperty `json:"properties,omitempty"`
}

type CycloneDXTools struct {
	Components []CycloneDXComponent `json:"components"`
}

type CycloneDXComponent struct {
	Type             string                     `json:"type"`
	BOMRef           string                     `json:"bom-ref,omitempty"`
	Name             string                     `json:"name"`
	Version          string                     `json:"version,omitempty"`
	CryptoProperties *CycloneDXCryptoProperties `json:"cryptoProperties,omitempty"`
	Evidence         *CycloneDXEvidence         `json:"evidence,omitempty"`
	Properties       []CycloneDXProperty        `json:"properties,omitempty"`
}

type CycloneDXCryptoProperties struct {
	AssetType           string                        `json:"assetType"`
	AlgorithmProperties *CycloneDXAlgorithmProperties `json:"algorithmProperties,omitempty"`
}

type CycloneDXAlgorithmProperties struct {
	Primitive string `json:"primitive"`
	// Zero means no quantum security; unset means not assessed.
	NISTQuantumSecurityLevel *int `json:"nistQuantumSecurityLevel,omitempty"`
}

type CycloneDXEvidence struct {
	Occurrences []CycloneDXOccurrence `json:"occurrences"`
}

type CycloneDXOccurrence struct {
	Location          string `json:"location"`
	Line              int    `json:"line,omitempty"`
	AdditionalContext string `json:"additionalContext,omitempty"`
}

type CycloneDXProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type CycloneDXVulnerability struct {
	BOMRef         string            `json:"bom-ref"`
	ID             string            `json:"id"`
	Source         CycloneDXSource   `json:"source"`
	Ratings        []CycloneDXRating `json:"ratings"`
	Description    string            `json:"description"`
	Recommendation string            `json:"recommendation,omitempty"`
	Affects        []CycloneDXAffect `json:"affects"`
}

type CycloneDXSource struct {
	Name string `json:"name"`
}

type CycloneDXRating struct {
	Severity string `json:"severity"`
	Method   string `json:"method"`
}

type CycloneDXAffect struct {
	Ref string `json:"ref"`
}

var cycloneDXPrimitives = map[types.Primitive]string{
	types.PrimitiveSignature:    "signature",
	types.PrimitiveKeyAgreement: "key-agree",
	types.PrimitiveKEM:          "kem",
	types.PrimitivePKE:          "pke",
	types.PrimitiveHash:         "hash",
	types.PrimitiveXOF:          "xof",
	types.PrimitiveSymmetric:    "block-cipher",
}

func cycloneDXPrimitive(p types.Primitive) string {
	if v, ok := cycloneDXPrimitives[p]; ok {
		return v
	}
	return "unknown"
}

// CBOMSubject identifies the scanned source in the document metadata.
type CBOMSubject struct {
	RepoURL string
	Branch  types.BranchName
	Commit  types.CommitSHA
}

// BuildCBOM renders assets as CycloneDX cryptographic-asset components, one per algorithm
// with every occurrence as evidence, and lists each quantum-vulnerable algorithm as a
// vulnerability.
func BuildCBOM(subject CBOMSubject, assets []*model.CryptoAsset, status model.ComplianceStatus, ts time.Time) (json.RawMessage, error) {
	bom := &CycloneDXBOM{
		BOMFormat:    cycloneDXFormat,
		SpecVersion:  cycloneDXSpecVersion,
		SerialNumber: fmt.Sprintf("urn:uuid:%s", uuid.NewString()),
		Version:      1,
		Metadata: CycloneDXMetadata{
			Timestamp: ts.UTC().Format(time.RFC3339),
			Tools: CycloneDXTools{
				Components: []CycloneDXComponent{{Type: "application", Name: toolName}},
			},
			Properties: []CycloneDXProperty{
				{Name: "pqscan:compliance:score", Value: strconv.Itoa(status.Score)},
				{Name: "pqscan:compliance:verdict", Value: string(status.Verdict)},
				{Name: "pqscan:compliance:policy", Value: status.Policy},
			},
		},
		Components:      []CycloneDXComponent{},
		Vulnerabilities: []CycloneDXVulnerability{},
	}

	if subject.RepoURL != "" {
		subjectComponent := CycloneDXComponent{
			Type:    "application",
			Name:    subject.RepoURL,
			Version: subject.Branch.String(),
		}
		if subject.Commit != "" {
			subjectComponent.Properties = append(subjectComponent.Properties, CycloneDXProperty{Name: "pqscan:commit", Value: string(subject.Commit)})
		}
		bom.Metadata.Component = &subjectComponent
	}

	// Assets arrive sorted by location; components keep first-seen order.
	index := make(map[string]int)
	var first []*model.CryptoAsset
	for _, a := range assets {
		ref := "crypto/algorithm/" + a.Algorithm
		i, ok := index[ref]
		if !ok {
			i = len(bom.Components)
			index[ref] = i
			first = append(first, a)

			props := &CycloneDXAlgorithmProperties{Primitive: cycloneDXPrimitive(a.Primitive)}
			if a.QuantumSafety == types.QuantumVulnerable {
				level := 0
				props.NISTQuantumSecurityLevel = &level
			}
			bom.Components = append(bom.Components, CycloneDXComponent{
				Type:   "cryptographic-asset",
				BOMRef: ref,
				Name:   a.Algorithm,
				CryptoProperties: &CycloneDXCryptoProperties{
					AssetType:           "algorithm",
					AlgorithmProperties: props,
				},
				Evidence: &CycloneDXEvidence{},
				Properties: []CycloneDXProperty{
					{Name: "pqscan:quantum-safety", Value: string(a.QuantumSafety)},
				},
			})
		}

		ev := bom.Components[i].Evidence
		ev.Occurrences = append(ev.Occurrences, CycloneDXOccurrence{
			Location:          a.Path,
			Line:              a.Line,
			AdditionalContext: a.Snippet,
		})
	}

	for i, a := range first {
		if a.QuantumSafety != types.QuantumVulnerable {
			continue
		}
		c := bom.Components[i]
		bom.Vulnerabilities = append(bom.Vulnerabilities, CycloneDXVulnerability{
			BOMRef: "vuln/" + c.BOMRef,
			ID:     "PQC-" + a.Algorithm,
			Source: CycloneDXSource{Name: toolName},
			Ratings: []CycloneDXRating{
				{Severity: string(types.SeverityHigh), Method: "other"},
			},
			Description:    fmt.Sprintf("%s is not resistant to quantum attacks (%d occurrences)", a.Algorithm, len(c.Evidence.Occurrences)),
			Recommendation: a.Recommendation,
			Affects:        []CycloneDXAffect{{Ref: c.BOMRef}},
		})
	}

	raw, err := json.Marshal(bom)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal CBOM")
	}
	return raw, nil
}

// newReport aggregates assets under the configured policy and renders the CBOM.
func (x *UseCase) newReport(jobID types.ScanJobID, source types.ReportSource, subject CBOMSubject, assets []*model.CryptoAsset, now time.Time) (*model.Report, error) {
	status := AggregateCompliance(assets, x.policy)

	content, err := BuildCBOM(subject, assets, status, now)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build report", goerr.V("jobID", jobID))
	}

	return &model.Report{
		ID:         types.NewReportID(),
		ScanJobID:  jobID,
		Source:     source,
		Compliance: status,
		Content:    content,
		CreatedAt:  now,
	}, nil
}
