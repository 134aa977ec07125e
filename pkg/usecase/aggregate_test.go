package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/usecase"
)

func assetsOf(specs ...string) []*model.CryptoAsset {
	safety := map[string]types.QuantumSafety{
		"ML-KEM":  types.QuantumSafe,
		"SHA-256": types.QuantumSafe,
		"AES":     types.QuantumSafe,
		"RSA":     types.QuantumVulnerable,
		"ECDSA":   types.QuantumVulnerable,
		"MD5":     types.QuantumVulnerable,
	}

	var assets []*model.CryptoAsset
	for i, name := range specs {
		s, ok := safety[name]
		if !ok {
			s = types.QuantumUnknown
		}
		assets = append(assets, &model.CryptoAsset{Algorithm: name, QuantumSafety: s, Path: "x", Line: i + 1})
	}
	return assets
}

func TestAggregateCompliancePercentage(t *testing.T) {
	policy := model.DefaultCompliancePolicy()

	testCases := []struct {
		name            string
		assets          []*model.CryptoAsset
		score           int
		verdict         types.Verdict
		recommendations []string
	}{
		{
			name:            "no assets is never compliant",
			assets:          nil,
			score:           0,
			verdict:         types.VerdictNotCompliant,
			recommendations: []string{usecase.RecommendPQCMigrationForTest},
		},
		{
			name:            "all safe",
			assets:          assetsOf("ML-KEM", "SHA-256", "AES"),
			score:           100,
			verdict:         types.VerdictCompliant,
			recommendations: []string{},
		},
		{
			name:    "80 percent is partial",
			assets:  assetsOf("ML-KEM", "SHA-256", "AES", "AES", "ECDSA"),
			score:   80,
			verdict: types.VerdictPartial,
			recommendations: []string{
				usecase.RecommendECDSAMigrationForTest,
				usecase.RecommendPQCMigrationForTest,
			},
		},
		{
			name:    "below 80 percent",
			assets:  assetsOf("ML-KEM", "SHA-256", "AES", "RSA"),
			score:   75,
			verdict: types.VerdictNotCompliant,
			recommendations: []string{
				usecase.RecommendRSAMigrationForTest,
				usecase.RecommendPQCMigrationForTest,
			},
		},
		{
			name:            "unknown counts against the score",
			assets:          assetsOf("ML-KEM", "AES", "Camellia"),
			score:           67,
			verdict:         types.VerdictNotCompliant,
			recommendations: []string{usecase.RecommendPQCMigrationForTest},
		},
		{
			name:    "both migrations",
			assets:  assetsOf("RSA", "ECDSA", "MD5"),
			score:   0,
			verdict: types.VerdictNotCompliant,
			recommendations: []string{
				usecase.RecommendRSAMigrationForTest,
				usecase.RecommendECDSAMigrationForTest,
				usecase.RecommendPQCMigrationForTest,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status := usecase.AggregateCompliance(tc.assets, policy)
			gt.V(t, status.Score).Equal(tc.score)
			gt.V(t, status.Verdict).Equal(tc.verdict)
			gt.V(t, status.Policy).Equal("percentage")
			gt.V(t, status.Total).Equal(len(tc.assets))
			gt.V(t, status.Safe+status.Vulnerable+status.Unknown).Equal(status.Total)
			gt.A(t, status.Recommendations).Equal(tc.recommendations)
		})
	}
}

func TestAggregateComplianceVulnerabilityCount(t *testing.T) {
	policy := model.CompliancePolicy{Name: types.PolicyVulnerabilityCount, MaxVulnerable: 2}

	testCases := []struct {
		name    string
		assets  []*model.CryptoAsset
		verdict types.Verdict
	}{
		{"no assets", nil, types.VerdictNotCompliant},
		{"no vulnerable asset", assetsOf("AES", "Camellia"), types.VerdictCompliant},
		{"within limit", assetsOf("AES", "RSA", "MD5"), types.VerdictPartial},
		{"over limit", assetsOf("AES", "RSA", "MD5", "ECDSA"), types.VerdictNotCompliant},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status := usecase.AggregateCompliance(tc.assets, policy)
			gt.V(t, status.Verdict).Equal(tc.verdict)
			gt.V(t, status.Policy).Equal("vulnerability-count")
		})
	}

	t.Run("score is still reported", func(t *testing.T) {
		status := usecase.AggregateCompliance(assetsOf("AES", "Camellia"), policy)
		gt.V(t, status.Score).Equal(50)
		gt.A(t, status.Recommendations).Length(0)
	})
}

func TestCompliancePolicyValidate(t *testing.T) {
	gt.NoError(t, model.DefaultCompliancePolicy().Validate())
	gt.NoError(t, model.CompliancePolicy{Name: types.PolicyVulnerabilityCount}.Validate())
	gt.Error(t, model.CompliancePolicy{Name: "strict"}.Validate())
	gt.Error(t, model.CompliancePolicy{Name: types.PolicyVulnerabilityCount, MaxVulnerable: -1}.Validate())
}
