package usecase

import (
	"math"

	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

const (
	recommendRSAMigration   = "Migrate RSA key establishment and encryption to ML-KEM (FIPS 203)"
	recommendECDSAMigration = "Migrate ECDSA signatures to ML-DSA (FIPS 204)"
	recommendPQCMigration   = "Plan a migration to NIST post-quantum cryptography standards (FIPS 203, FIPS 204, FIPS 205)"

	partialThreshold = 80
)

// AggregateCompliance folds assets into a compliance status. A scan without any asset is
// never compliant.
func AggregateCompliance(assets []*model.CryptoAsset, policy model.CompliancePolicy) model.ComplianceStatus {
	status := model.ComplianceStatus{
		Policy:          string(policy.Name),
		Total:           len(assets),
		Recommendations: []string{},
	}

	var rsa, ecdsa bool
	for _, a := range assets {
		switch a.QuantumSafety {
		case types.QuantumSafe:
			status.Safe++
		case types.QuantumVulnerable:
			status.Vulnerable++
			switch a.Algorithm {
			case "RSA":
				rsa = true
			case "ECDSA":
				ecdsa = true
			}
		default:
			status.Unknown++
		}
	}

	if status.Total > 0 {
		status.Score = int(math.Round(100 * float64(status.Safe) / float64(status.Total)))
	}
	status.Verdict = verdictOf(status, policy)

	if rsa {
		status.Recommendations = append(status.Recommendations, recommendRSAMigration)
	}
	if ecdsa {
		status.Recommendations = append(status.Recommendations, recommendECDSAMigration)
	}
	if status.Verdict != types.VerdictCompliant {
		status.Recommendations = append(status.Recommendations, recommendPQCMigration)
	}

	return status
}

func verdictOf(status model.ComplianceStatus, policy model.CompliancePolicy) types.Verdict {
	if status.Total == 0 {
		return types.VerdictNotCompliant
	}

	switch policy.Name {
	case types.PolicyVulnerabilityCount:
		switch {
		case status.Vulnerable == 0:
			return types.VerdictCompliant
		case status.Vulnerable <= policy.MaxVulnerable:
			return types.VerdictPartial
		}

	default:
		switch {
		case status.Safe == status.Total:
			return types.VerdictCompliant
		case status.Safe*100 >= partialThreshold*status.Total:
			return types.VerdictPartial
		}
	}

	return types.VerdictNotCompliant
}
