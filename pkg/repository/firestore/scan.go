package firestore

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/repository"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Layout:
//
//	job/{jobID}
//	job/{jobID}/finding/{seq}
//	job/{jobID}/asset/{seq}
//	job/{jobID}/report/{reportID}
const (
	collectionJob     = "job"
	collectionFinding = "finding"
	collectionAsset   = "asset"
	collectionReport  = "report"
	batchSize         = 500
)

type scanRepository struct {
	client *firestore.Client
}

func (r *scanRepository) jobDoc(id types.ScanJobID) *firestore.DocumentRef {
	return r.client.Collection(collectionJob).Doc(id.String())
}

// seqDocID keeps subcollection documents in insertion order.
func seqDocID(i int) string {
	return fmt.Sprintf("%08d", i)
}

// Job operations

func (r *scanRepository) PutJob(ctx context.Context, job *model.ScanJob) error {
	if job == nil || job.ID == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "job ID is empty")
	}

	if _, err := r.jobDoc(job.ID).Set(ctx, job); err != nil {
		return goerr.Wrap(err, "failed to put job",
			goerr.V("jobID", job.ID),
		)
	}

	return nil
}

func (r *scanRepository) GetJob(ctx context.Context, id types.ScanJobID) (*model.ScanJob, error) {
	snap, err := r.jobDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, repository.JobNotFound(id)
		}
		return nil, goerr.Wrap(err, "failed to get job",
			goerr.V("jobID", id),
		)
	}

	var job model.ScanJob
	if err := snap.DataTo(&job); err != nil {
		return nil, goerr.Wrap(err, "failed to decode job",
			goerr.V("jobID", id),
		)
	}

	return &job, nil
}

func (r *scanRepository) ListJobs(ctx context.Context, jobStatus types.JobStatus) ([]*model.ScanJob, error) {
	query := r.client.Collection(collectionJob).Query
	if jobStatus != "" {
		query = query.Where("status", "==", jobStatus)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var jobs []*model.ScanJob
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate jobs",
				goerr.V("status", jobStatus),
			)
		}

		var job model.ScanJob
		if err := snap.DataTo(&job); err != nil {
			return nil, goerr.Wrap(err, "failed to decode job", goerr.V("docID", snap.Ref.ID))
		}
		jobs = append(jobs, &job)
	}

	// Sorted here rather than with OrderBy, which would need a composite index with status.
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
	coll := r.jobDoc(id).Collection(collectionFinding)
	if err := r.deleteCollection(ctx, coll.Query); err != nil {
		return goerr.Wrap(err, "failed to clear findings", goerr.V("jobID", id))
	}

	docs := make([]any, len(findings))
	for i, f := range findings {
		docs[i] = f
	}
	if err := r.batchSet(ctx, coll, docs); err != nil {
		return goerr.Wrap(err, "failed to write findings", goerr.V("jobID", id), goerr.V("count", len(findings)))
	}
	return nil
}

func (r *scanRepository) ListFindings(ctx context.Context, id types.ScanJobID) ([]*model.Finding, error) {
	iter := r.jobDoc(id).Collection(collectionFinding).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var findings []*model.Finding
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate findings", goerr.V("jobID", id))
		}

		var f model.Finding
		if err := snap.DataTo(&f); err != nil {
			return nil, goerr.Wrap(err, "failed to decode finding", goerr.V("jobID", id), goerr.V("docID", snap.Ref.ID))
		}
		findings = append(findings, &f)
	}

	return findings, nil
}

func (r *scanRepository) ReplaceCryptoAssets(ctx context.Context, id types.ScanJobID, assets []*model.CryptoAsset) error {
	coll := r.jobDoc(id).Collection(collectionAsset)
	if err := r.deleteCollection(ctx, coll.Query); err != nil {
		return goerr.Wrap(err, "failed to clear crypto assets", goerr.V("jobID", id))
	}

	docs := make([]any, len(assets))
	for i, a := range assets {
		docs[i] = a
	}
	if err := r.batchSet(ctx, coll, docs); err != nil {
		return goerr.Wrap(err, "failed to write crypto assets", goerr.V("jobID", id), goerr.V("count", len(assets)))
	}
	return nil
}

func (r *scanRepository) ListCryptoAssets(ctx context.Context, id types.ScanJobID) ([]*model.CryptoAsset, error) {
	iter := r.jobDoc(id).Collection(collectionAsset).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var assets []*model.CryptoAsset
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate crypto assets", goerr.V("jobID", id))
		}

		var a model.CryptoAsset
		if err := snap.DataTo(&a); err != nil {
			return nil, goerr.Wrap(err, "failed to decode crypto asset", goerr.V("jobID", id), goerr.V("docID", snap.Ref.ID))
		}
		assets = append(assets, &a)
	}

	return assets, nil
}

// Report operations

func (r *scanRepository) PutReport(ctx context.Context, report *model.Report) error {
	if report == nil || report.ID == "" || report.ScanJobID == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "report ID or job ID is empty")
	}

	docRef := r.jobDoc(report.ScanJobID).Collection(collectionReport).Doc(string(report.ID))
	if _, err := docRef.Set(ctx, report); err != nil {
		return goerr.Wrap(err, "failed to put report",
			goerr.V("jobID", report.ScanJobID),
			goerr.V("reportID", report.ID),
		)
	}
	return nil
}

func (r *scanRepository) ListReports(ctx context.Context, id types.ScanJobID) ([]*model.Report, error) {
	iter := r.jobDoc(id).Collection(collectionReport).Documents(ctx)
	defer iter.Stop()

	var reports []*model.Report
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate reports", goerr.V("jobID", id))
		}

		var rep model.Report
		if err := snap.DataTo(&rep); err != nil {
			return nil, goerr.Wrap(err, "failed to decode report", goerr.V("jobID", id), goerr.V("docID", snap.Ref.ID))
		}
		reports = append(reports, &rep)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.Before(reports[j].CreatedAt)
	})
	return reports, nil
}

func (r *scanRepository) DeleteScanResult(ctx context.Context, id types.ScanJobID) error {
	doc := r.jobDoc(id)
	if err := r.deleteCollection(ctx, doc.Collection(collectionFinding).Query); err != nil {
		return goerr.Wrap(err, "failed to delete findings", goerr.V("jobID", id))
	}
	if err := r.deleteCollection(ctx, doc.Collection(collectionAsset).Query); err != nil {
		return goerr.Wrap(err, "failed to delete crypto assets", goerr.V("jobID", id))
	}

	localReports := doc.Collection(collectionReport).Where("source", "==", types.ReportSourceLocal)
	if err := r.deleteCollection(ctx, localReports); err != nil {
		return goerr.Wrap(err, "failed to delete reports", goerr.V("jobID", id))
	}
	return nil
}

// batchSet writes docs with sequential IDs, batchSize documents per commit (Firestore limit).
func (r *scanRepository) batchSet(ctx context.Context, coll *firestore.CollectionRef, docs []any) error {
	for i := 0; i < len(docs); i += batchSize {
		end := i + batchSize
		if end > len(docs) {
			end = len(docs)
		}

		batch := r.client.Batch()
		for j := i; j < end; j++ {
			batch.Set(coll.Doc(seqDocID(j)), docs[j])
		}

		if _, err := batch.Commit(ctx); err != nil {
			return goerr.Wrap(err, "failed to commit batch",
				goerr.V("batchStart", i),
				goerr.V("batchEnd", end),
			)
		}
	}
	return nil
}

func (r *scanRepository) deleteCollection(ctx context.Context, query firestore.Query) error {
	for {
		iter := query.Limit(batchSize).Documents(ctx)
		snaps, err := iter.GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to list documents for deletion")
		}
		if len(snaps) == 0 {
			return nil
		}

		batch := r.client.Batch()
		for _, snap := range snaps {
			batch.Delete(snap.Ref)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete documents", goerr.V("count", len(snaps)))
		}

		if len(snaps) < batchSize {
			return nil
		}
	}
}
