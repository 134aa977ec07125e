package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

func TestScanJobValidate(t *testing.T) {
	testCases := map[string]struct {
		job     model.ScanJob
		wantErr error
	}{
		"valid": {
			job: model.ScanJob{RepoURL: "https://github.com/owner/repo.git"},
		},
		"empty repo URL": {
			job:     model.ScanJob{},
			wantErr: types.ErrValidationFailed,
		},
		"tool without path": {
			job: model.ScanJob{
				RepoURL: "https://github.com/owner/repo.git",
				Tools:   []model.ToolConfig{{Name: types.ToolSemgrep}},
			},
			wantErr: types.ErrValidationFailed,
		},
		"integration with invalid URL": {
			job: model.ScanJob{
				RepoURL: "https://github.com/owner/repo.git",
				Integration: &model.ScannerIntegration{
					ScanURL:   "https://scanner.example.com/scan",
					StatusURL: "file:///etc/passwd",
				},
			},
			wantErr: types.ErrValidationFailed,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := tc.job.Validate()
			if tc.wantErr == nil {
				gt.NoError(t, err)
				return
			}
			gt.True(t, errors.Is(err, tc.wantErr))
		})
	}
}

func TestScanJobCopy(t *testing.T) {
	job := &model.ScanJob{
		ID:      "job-1",
		RepoURL: "https://github.com/owner/repo.git",
		Tools: []model.ToolConfig{
			{Name: types.ToolSemgrep, Path: "semgrep", Args: []string{"scan"}},
		},
		Integration: &model.ScannerIntegration{Name: "remote"},
	}

	c := job.Copy()
	c.Tools[0].Args[0] = "ci"
	c.Integration.Name = "changed"

	gt.V(t, job.Tools[0].Args[0]).Equal("scan")
	gt.V(t, job.Integration.Name).Equal("remote")
	gt.True(t, (*model.ScanJob)(nil).Copy() == nil)
}

func TestCompliancePolicyValidate(t *testing.T) {
	gt.NoError(t, model.DefaultCompliancePolicy().Validate())
	gt.NoError(t, model.CompliancePolicy{Name: types.PolicyVulnerabilityCount}.Validate())

	err := model.CompliancePolicy{Name: "strict"}.Validate()
	gt.True(t, errors.Is(err, types.ErrInvalidOption))

	err = model.CompliancePolicy{Name: types.PolicyVulnerabilityCount, MaxVulnerable: -1}.Validate()
	gt.True(t, errors.Is(err, types.ErrInvalidOption))
}
