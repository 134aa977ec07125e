package testhelper

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pqscan/pkg/domain/interfaces"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/repository"
)

// TestAll runs all test cases for ScanRepository
// This is the main entry point for testing any ScanRepository implementation
func TestAll(t *testing.T, repo interfaces.ScanRepository) {
	t.Run("JobCRUD", func(t *testing.T) {
		TestJobCRUD(t, repo)
	})
	t.Run("ListJobsByStatus", func(t *testing.T) {
		TestListJobsByStatus(t, repo)
	})
	t.Run("ReplaceFindings", func(t *testing.T) {
		TestReplaceFindings(t, repo)
	})
	t.Run("ReplaceCryptoAssets", func(t *testing.T) {
		TestReplaceCryptoAssets(t, repo)
	})
	t.Run("Reports", func(t *testing.T) {
		TestReports(t, repo)
	})
	t.Run("DeleteScanResult", func(t *testing.T) {
		TestDeleteScanResult(t, repo)
	})
}

// Firestore keeps microseconds only
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func newJob(createdAt time.Time) *model.ScanJob {
	return &model.ScanJob{
		ID:        types.NewScanJobID(),
		RepoURL:   "https://github.com/example/repo.git",
		Branch:    "main",
		Status:    types.JobStatusPending,
		CreatedAt: createdAt,
		Tools: []model.ToolConfig{
			{Name: types.ToolSemgrep, Path: "semgrep", Args: []string{"scan", "--config", "auto"}},
		},
	}
}

// TestJobCRUD tests basic operations for ScanJob
func TestJobCRUD(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()

	job := newJob(now())
	job.InstallationID = 12345
	job.Integration = &model.ScannerIntegration{
		Name:      "remote",
		ScanURL:   "https://scanner.example.com/scan",
		StatusURL: "https://scanner.example.com/status",
	}
	gt.NoError(t, repo.PutJob(ctx, job))

	retrieved := gt.R1(repo.GetJob(ctx, job.ID)).NoError(t)
	gt.V(t, retrieved.ID).Equal(job.ID)
	gt.V(t, retrieved.RepoURL).Equal(job.RepoURL)
	gt.V(t, retrieved.Branch).Equal(job.Branch)
	gt.V(t, retrieved.Status).Equal(types.JobStatusPending)
	gt.V(t, retrieved.InstallationID).Equal(job.InstallationID)
	gt.A(t, retrieved.Tools).Length(1)
	gt.A(t, retrieved.Tools[0].Args).Equal([]string{"scan", "--config", "auto"})
	gt.True(t, retrieved.Integration != nil)
	gt.V(t, retrieved.Integration.ScanURL).Equal(job.Integration.ScanURL)
	gt.True(t, retrieved.CreatedAt.Equal(job.CreatedAt))

	// mutating the returned record must not affect the store
	retrieved.Status = types.JobStatusFailed
	again := gt.R1(repo.GetJob(ctx, job.ID)).NoError(t)
	gt.V(t, again.Status).Equal(types.JobStatusPending)

	// Update
	job.Status = types.JobStatusRunning
	job.Progress = 30
	job.StartedAt = now()
	gt.NoError(t, repo.PutJob(ctx, job))

	updated := gt.R1(repo.GetJob(ctx, job.ID)).NoError(t)
	gt.V(t, updated.Status).Equal(types.JobStatusRunning)
	gt.V(t, updated.Progress).Equal(30)
	gt.True(t, updated.StartedAt.Equal(job.StartedAt))

	// Not found
	_, err := repo.GetJob(ctx, types.NewScanJobID())
	gt.Error(t, err)
	gt.True(t, repository.IsNotFound(err))
}

// TestListJobsByStatus tests status filtering and ordering of ListJobs
func TestListJobsByStatus(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()

	base := now().Add(-time.Hour)
	older := newJob(base)
	newer := newJob(base.Add(time.Second))
	running := newJob(base.Add(2 * time.Second))
	running.Status = types.JobStatusRunning

	// insert out of order
	gt.NoError(t, repo.PutJob(ctx, newer))
	gt.NoError(t, repo.PutJob(ctx, running))
	gt.NoError(t, repo.PutJob(ctx, older))

	pending := gt.R1(repo.ListJobs(ctx, types.JobStatusPending)).NoError(t)
	olderIdx, newerIdx := -1, -1
	for i, j := range pending {
		gt.V(t, j.Status).Equal(types.JobStatusPending)
		switch j.ID {
		case older.ID:
			olderIdx = i
		case newer.ID:
			newerIdx = i
		case running.ID:
			t.Error("running job listed as pending")
		}
	}
	gt.True(t, olderIdx >= 0)
	gt.True(t, newerIdx > olderIdx)

	all := gt.R1(repo.ListJobs(ctx, "")).NoError(t)
	found := 0
	for _, j := range all {
		if j.ID == older.ID || j.ID == newer.ID || j.ID == running.ID {
			found++
		}
	}
	gt.V(t, found).Equal(3)
}

func newFindings(id types.ScanJobID, n int, tool types.ToolName) []*model.Finding {
	var findings []*model.Finding
	for i := 0; i < n; i++ {
		findings = append(findings, &model.Finding{
			ScanJobID:   id,
			Tool:        tool,
			RuleID:      fmt.Sprintf("rule-%d", i),
			Severity:    types.SeverityHigh,
			Message:     "RSA usage",
			Path:        "main.py",
			StartLine:   i + 1,
			EndLine:     i + 1,
			Category:    "security",
			PQCCategory: types.PQCQuantumVulnerable,
			Metadata: model.FindingMetadata{
				Algorithm:  "RSA",
				Technology: []string{"python"},
			},
		})
	}
	return findings
}

// TestReplaceFindings tests that finding sets are replaced, never merged
func TestReplaceFindings(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()

	job := newJob(now())
	gt.NoError(t, repo.PutJob(ctx, job))

	gt.NoError(t, repo.ReplaceFindings(ctx, job.ID, newFindings(job.ID, 3, types.ToolSemgrep)))
	first := gt.R1(repo.ListFindings(ctx, job.ID)).NoError(t)
	gt.A(t, first).Length(3)
	gt.V(t, first[0].RuleID).Equal("rule-0")
	gt.V(t, first[2].StartLine).Equal(3)
	gt.A(t, first[0].Metadata.Technology).Equal([]string{"python"})

	gt.NoError(t, repo.ReplaceFindings(ctx, job.ID, newFindings(job.ID, 2, types.ToolOpengrep)))
	second := gt.R1(repo.ListFindings(ctx, job.ID)).NoError(t)
	gt.A(t, second).Length(2)
	for _, f := range second {
		gt.V(t, f.Tool).Equal(types.ToolOpengrep)
	}

	gt.NoError(t, repo.ReplaceFindings(ctx, job.ID, nil))
	gt.A(t, gt.R1(repo.ListFindings(ctx, job.ID)).NoError(t)).Length(0)
}

// TestReplaceCryptoAssets tests that asset sets are replaced, never merged
func TestReplaceCryptoAssets(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()

	job := newJob(now())
	gt.NoError(t, repo.PutJob(ctx, job))

	assets := []*model.CryptoAsset{
		{ScanJobID: job.ID, Algorithm: "RSA", Primitive: types.PrimitivePKE, QuantumSafety: types.QuantumVulnerable, Path: "a.py", Line: 1, Source: model.AssetSourceFinding},
		{ScanJobID: job.ID, Algorithm: "ML-KEM", Primitive: types.PrimitiveKEM, QuantumSafety: types.QuantumSafe, Path: "b.go", Line: 2, Source: model.AssetSourcePattern},
	}
	gt.NoError(t, repo.ReplaceCryptoAssets(ctx, job.ID, assets))
	gt.NoError(t, repo.ReplaceCryptoAssets(ctx, job.ID, assets))

	got := gt.R1(repo.ListCryptoAssets(ctx, job.ID)).NoError(t)
	gt.A(t, got).Length(2)
	gt.V(t, got[0].Algorithm).Equal("RSA")
	gt.V(t, got[1].QuantumSafety).Equal(types.QuantumSafe)
	gt.V(t, got[1].Source).Equal(model.AssetSourcePattern)
}

func newReport(id types.ScanJobID, source types.ReportSource, createdAt time.Time) *model.Report {
	return &model.Report{
		ID:        types.NewReportID(),
		ScanJobID: id,
		Source:    source,
		Compliance: model.ComplianceStatus{
			Score:           50,
			Verdict:         types.VerdictNotCompliant,
			Policy:          "percentage",
			Total:           4,
			Safe:            2,
			Vulnerable:      2,
			Recommendations: []string{"Migrate RSA to ML-KEM"},
		},
		Content:   json.RawMessage(`{"bomFormat":"CycloneDX"}`),
		CreatedAt: createdAt,
	}
}

// TestReports tests report storage
func TestReports(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()

	job := newJob(now())
	gt.NoError(t, repo.PutJob(ctx, job))

	local := newReport(job.ID, types.ReportSourceLocal, now())
	external := newReport(job.ID, types.ReportSourceExternal, now().Add(time.Second))
	external.ExternalID = "abc"
	gt.NoError(t, repo.PutReport(ctx, local))
	gt.NoError(t, repo.PutReport(ctx, external))

	reports := gt.R1(repo.ListReports(ctx, job.ID)).NoError(t)
	gt.A(t, reports).Length(2)
	gt.V(t, reports[0].ID).Equal(local.ID)
	gt.V(t, reports[0].Compliance.Score).Equal(50)
	gt.A(t, reports[0].Compliance.Recommendations).Equal([]string{"Migrate RSA to ML-KEM"})
	gt.V(t, string(reports[0].Content)).Equal(`{"bomFormat":"CycloneDX"}`)
	gt.V(t, reports[1].ExternalID).Equal(types.ExternalScanID("abc"))

	// same ID replaces the stored report
	rerun := newReport(job.ID, types.ReportSourceLocal, local.CreatedAt)
	rerun.ID = local.ID
	rerun.Compliance.Score = 100
	gt.NoError(t, repo.PutReport(ctx, rerun))

	reports = gt.R1(repo.ListReports(ctx, job.ID)).NoError(t)
	gt.A(t, reports).Length(2)
	gt.V(t, reports[0].ID).Equal(local.ID)
	gt.V(t, reports[0].Compliance.Score).Equal(100)
}

// TestDeleteScanResult tests rollback of a job's local results
func TestDeleteScanResult(t *testing.T, repo interfaces.ScanRepository) {
	ctx := context.Background()

	job := newJob(now())
	gt.NoError(t, repo.PutJob(ctx, job))
	gt.NoError(t, repo.ReplaceFindings(ctx, job.ID, newFindings(job.ID, 2, types.ToolSemgrep)))
	gt.NoError(t, repo.ReplaceCryptoAssets(ctx, job.ID, []*model.CryptoAsset{
		{ScanJobID: job.ID, Algorithm: "RSA", Path: "a.py", Line: 1},
	}))
	gt.NoError(t, repo.PutReport(ctx, newReport(job.ID, types.ReportSourceLocal, now())))
	external := newReport(job.ID, types.ReportSourceExternal, now())
	gt.NoError(t, repo.PutReport(ctx, external))

	gt.NoError(t, repo.DeleteScanResult(ctx, job.ID))

	gt.A(t, gt.R1(repo.ListFindings(ctx, job.ID)).NoError(t)).Length(0)
	gt.A(t, gt.R1(repo.ListCryptoAssets(ctx, job.ID)).NoError(t)).Length(0)

	reports := gt.R1(repo.ListReports(ctx, job.ID)).NoError(t)
	gt.A(t, reports).Length(1)
	gt.V(t, reports[0].ID).Equal(external.ID)

	// the job itself stays
	gt.R1(repo.GetJob(ctx, job.ID)).NoError(t)
}
