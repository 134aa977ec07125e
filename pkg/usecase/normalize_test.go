package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pqscan/pkg/domain/model/semgrep"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/usecase"
)

func TestNormalizeSeverity(t *testing.T) {
	testCases := []struct {
		tool     types.ToolName
		severity string
		expected types.Severity
	}{
		{types.ToolSemgrep, "ERROR", types.SeverityCritical},
		{types.ToolSemgrep, "warning", types.SeverityMedium},
		{types.ToolSemgrep, "INFO", types.SeverityLow},
		{types.ToolSemgrep, "INVENTORY", types.SeverityInfo},
		{types.ToolOpengrep, "ERROR", types.SeverityCritical},
		{types.ToolCryptoScan, "CRITICAL", types.SeverityCritical},
		{types.ToolCryptoScan, "info", types.SeverityInfo},
		{"custom-tool", "warning", types.SeverityMedium},
		{"custom-tool", "critical", types.SeverityCritical},

		// unknown severities are never silently downgraded
		{types.ToolSemgrep, "BOGUS", types.SeverityHigh},
		{types.ToolCryptoScan, "ERROR", types.SeverityHigh},
		{"custom-tool", "", types.SeverityHigh},
	}

	for _, tc := range testCases {
		t.Run(string(tc.tool)+"/"+tc.severity, func(t *testing.T) {
			gt.V(t, usecase.NormalizeSeverityForTest(tc.tool, tc.severity)).Equal(tc.expected)
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	gt.V(t, usecase.NormalizeCategoryForTest("")).Equal("security")
	gt.V(t, usecase.NormalizeCategoryForTest("  ")).Equal("security")
	gt.V(t, usecase.NormalizeCategoryForTest("Crypto")).Equal("cryptography")
	gt.V(t, usecase.NormalizeCategoryForTest("cryptography")).Equal("cryptography")
	gt.V(t, usecase.NormalizeCategoryForTest("Best_Practice")).Equal("best-practice")
	gt.V(t, usecase.NormalizeCategoryForTest("correctness")).Equal("correctness")
}

const toolOutput = `{
  "results": [
    {
      "check_id": "python.crypto.weak-key",
      "path": "app/keys.py",
      "start": {"line": 10, "col": 5},
      "end": {"line": 10, "col": 30},
      "extra": {
        "severity": "ERROR",
        "message": "Weak key generation",
        "lines": "key = RSA.generate(1024)",
        "metadata": {"category": "Crypto", "algorithm": "RSA", "key_size": 1024, "technology": "python"}
      }
    },
    {
      "check_id": "go.crypto.kem",
      "path": "lib/kem.go",
      "start": {"line": 3, "col": 1},
      "end": {"line": 3, "col": 20},
      "extra": {
        "severity": "INFO",
        "message": "Post-quantum KEM in use",
        "metadata": {"algorithm": "ML-KEM", "nist_standard": "FIPS 203"}
      }
    },
    {
      "check_id": "generic.hash.md5",
      "path": "cmd/hash.go",
      "start": {"line": 7, "col": 2},
      "end": {"line": 7, "col": 12},
      "extra": {
        "severity": "WARNING",
        "message": "MD5 is used for hashing",
        "metadata": {"technology": 42}
      }
    },
    {
      "check_id": "generic.style.todo",
      "path": "README.md",
      "start": {"line": 1, "col": 1},
      "end": {"line": 1, "col": 5},
      "extra": {"severity": "NOTICE", "message": "leftover note"}
    }
  ],
  "paths": {"scanned": ["app/keys.py", "lib/kem.go", "cmd/hash.go", "README.md"]}
}`

func TestNormalizeFindings(t *testing.T) {
	ctx := context.Background()
	report := gt.R1(semgrep.Parse([]byte(toolOutput))).NoError(t)

	findings := gt.R1(usecase.NormalizeFindings(ctx, report, types.ToolSemgrep)).NoError(t)
	gt.A(t, findings).Length(4)

	t.Run("metadata algorithm decides PQC category", func(t *testing.T) {
		f := findings[0]
		gt.V(t, f.Tool).Equal(types.ToolSemgrep)
		gt.V(t, f.RuleID).Equal("python.crypto.weak-key")
		gt.V(t, f.Severity).Equal(types.SeverityCritical)
		gt.V(t, f.Category).Equal("cryptography")
		gt.V(t, f.PQCCategory).Equal(types.PQCQuantumVulnerable)
		gt.V(t, f.Path).Equal("app/keys.py")
		gt.V(t, f.StartLine).Equal(10)
		gt.V(t, f.StartCol).Equal(5)
		gt.V(t, f.EndCol).Equal(30)
		gt.V(t, f.Snippet).Equal("key = RSA.generate(1024)")
		gt.V(t, f.Metadata.Algorithm).Equal("RSA")
		gt.V(t, f.Metadata.KeySize).Equal(1024)
		gt.A(t, f.Metadata.Technology).Equal([]string{"python"})
	})

	t.Run("post-quantum algorithm is safe", func(t *testing.T) {
		f := findings[1]
		gt.V(t, f.Severity).Equal(types.SeverityLow)
		gt.V(t, f.Category).Equal("security")
		gt.V(t, f.PQCCategory).Equal(types.PQCQuantumSafe)
		gt.V(t, f.Metadata.NISTStandard).Equal("FIPS 203")
	})

	t.Run("malformed metadata keeps the finding", func(t *testing.T) {
		f := findings[2]
		gt.V(t, f.RuleID).Equal("generic.hash.md5")
		gt.V(t, f.Severity).Equal(types.SeverityMedium)
		gt.V(t, f.Category).Equal("security")
		gt.V(t, f.Metadata.Algorithm).Equal("")
		gt.A(t, f.Metadata.Technology).Length(0)
		// derived from the rule ID and message instead
		gt.V(t, f.PQCCategory).Equal(types.PQCQuantumVulnerable)
	})

	t.Run("non crypto finding", func(t *testing.T) {
		f := findings[3]
		gt.V(t, f.Severity).Equal(types.SeverityHigh)
		gt.V(t, f.PQCCategory).Equal(types.PQCNotApplicable)
	})

	t.Run("unknown algorithm in metadata", func(t *testing.T) {
		report := gt.R1(semgrep.Parse([]byte(`{"results":[{"check_id":"x","path":"a","start":{"line":1},"end":{"line":1},"extra":{"severity":"INFO","message":"m","metadata":{"algorithm":"Blowfish"}}}]}`))).NoError(t)
		findings := gt.R1(usecase.NormalizeFindings(ctx, report, types.ToolSemgrep)).NoError(t)
		gt.A(t, findings).Length(1)
		gt.V(t, findings[0].PQCCategory).Equal(types.PQCQuantumUnknown)
	})

	t.Run("metadata algorithm with parameters", func(t *testing.T) {
		report := gt.R1(semgrep.Parse([]byte(`{"results":[
			{"check_id":"a","path":"a.py","start":{"line":1},"end":{"line":1},"extra":{"severity":"ERROR","message":"RSA key generation","metadata":{"algorithm":"RSA-2048"}}},
			{"check_id":"b","path":"b.go","start":{"line":1},"end":{"line":1},"extra":{"severity":"ERROR","message":"signing","metadata":{"algorithm":"ECDSA P-256"}}},
			{"check_id":"c","path":"c.c","start":{"line":1},"end":{"line":1},"extra":{"severity":"INFO","message":"DES in use","metadata":{"algorithm":"Blowfish"}}}
		]}`))).NoError(t)
		findings := gt.R1(usecase.NormalizeFindings(ctx, report, types.ToolSemgrep)).NoError(t)
		gt.A(t, findings).Length(3)
		gt.V(t, findings[0].PQCCategory).Equal(types.PQCQuantumVulnerable)
		gt.V(t, findings[1].PQCCategory).Equal(types.PQCQuantumVulnerable)
		// unresolved metadata falls back to the message
		gt.V(t, findings[2].PQCCategory).Equal(types.PQCQuantumVulnerable)
	})

	t.Run("nil report", func(t *testing.T) {
		_, err := usecase.NormalizeFindings(ctx, nil, types.ToolSemgrep)
		gt.True(t, errors.Is(err, types.ErrTool))
	})
}
