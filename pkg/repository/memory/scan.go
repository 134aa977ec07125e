package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/repository"
)

type jobData struct {
	job      *model.ScanJob
	findings []*model.Finding
	assets   []*model.CryptoAsset
	reports  []*model.Report
}

type scanRepository struct {
	mu   sync.RWMutex
	jobs map[string]*jobData
}

// Job operations

func (r *scanRepository) PutJob(ctx context.Context, job *model.ScanJob) error {
	if job == nil || job.ID == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "job ID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if data, exists := r.jobs[job.ID.String()]; exists {
		data.job = job.Copy()
	} else {
		r.jobs[job.ID.String()] = &jobData{job: job.Copy()}
	}

	return nil
}

func (r *scanRepository) GetJob(ctx context.Context, id types.ScanJobID) (*model.ScanJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.jobs[id.String()]
	if !exists {
		return nil, repository.JobNotFound(id)
	}

	return data.job.Copy(), nil
}

func (r *scanRepository) ListJobs(ctx context.Context, status types.JobStatus) ([]*model.ScanJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var jobs []*model.ScanJob
	for _, data := range r.jobs {
		if status == "" || data.job.Status == status {
			jobs = append(jobs, data.job.Copy())
		}
	}

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID < jobs[j].ID
		}
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})

	return jobs, nil
}

// Result operations

func (r *scanRepository) ReplaceFindings(ctx context.Context, id types.ScanJobID, findings []*model.Finding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.jobs[id.String()]
	if !exists {
		return repository.JobNotFound(id)
	}

	data.findings = make([]*model.Finding, len(findings))
	for i, f := range findings {
		data.findings[i] = copyFinding(f)
	}
	return nil
}

func (r *scanRepository) ListFindings(ctx context.Context, id types.ScanJobID) ([]*model.Finding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.jobs[id.String()]
	if !exists {
		return nil, repository.JobNotFound(id)
	}

	findings := make([]*model.Finding, len(data.findings))
	for i, f := range data.findings {
		findings[i] = copyFinding(f)
	}
	return findings, nil
}

func (r *scanRepository) ReplaceCryptoAssets(ctx context.Context, id types.ScanJobID, assets []*model.CryptoAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.jobs[id.String()]
	if !exists {
		return repository.JobNotFound(id)
	}

	data.assets = make([]*model.CryptoAsset, len(assets))
	for i, a := range assets {
		cpy := *a
		data.assets[i] = &cpy
	}
	return nil
}

func (r *scanRepository) ListCryptoAssets(ctx context.Context, id types.ScanJobID) ([]*model.CryptoAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.jobs[id.String()]
	if !exists {
		return nil, repository.JobNotFound(id)
	}

	assets := make([]*model.CryptoAsset, len(data.assets))
	for i, a := range data.assets {
		cpy := *a
		assets[i] = &cpy
	}
	return assets, nil
}

// Report operations

func (r *scanRepository) PutReport(ctx context.Context, report *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.jobs[report.ScanJobID.String()]
	if !exists {
		return repository.JobNotFound(report.ScanJobID)
	}

	for i, existing := range data.reports {
		if existing.ID == report.ID {
			data.reports[i] = copyReport(report)
			return nil
		}
	}
	data.reports = append(data.reports, copyReport(report))
	return nil
}

func (r *scanRepository) ListReports(ctx context.Context, id types.ScanJobID) ([]*model.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.jobs[id.String()]
	if !exists {
		return nil, repository.JobNotFound(id)
	}

	reports := make([]*model.Report, len(data.reports))
	for i, rep := range data.reports {
		reports[i] = copyReport(rep)
	}
	return reports, nil
}

func (r *scanRepository) DeleteScanResult(ctx context.Context, id types.ScanJobID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, exists := r.jobs[id.String()]
	if !exists {
		return repository.JobNotFound(id)
	}

	data.findings = nil
	data.assets = nil

	var kept []*model.Report
	for _, rep := range data.reports {
		if rep.Source == types.ReportSourceExternal {
			kept = append(kept, rep)
		}
	}
	data.reports = kept

	return nil
}

func copyFinding(f *model.Finding) *model.Finding {
	if f == nil {
		return nil
	}
	cpy := *f
	if f.Metadata.Technology != nil {
		cpy.Metadata.Technology = make([]string, len(f.Metadata.Technology))
		copy(cpy.Metadata.Technology, f.Metadata.Technology)
	}
	return &cpy
}

func copyReport(rep *model.Report) *model.Report {
	if rep == nil {
		return nil
	}
	cpy := *rep
	cpy.Content = append([]byte(nil), rep.Content...)
	if rep.Compliance.Recommendations != nil {
		cpy.Compliance.Recommendations = append([]string(nil), rep.Compliance.Recommendations...)
	}
	return &cpy
}
