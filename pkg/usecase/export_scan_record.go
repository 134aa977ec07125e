package usecase

import (
	"context"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/interfaces"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
)

// exportScanRecord writes a completed scan to the analytics table. It is a no-op without a
// BigQuery client.
func (x *UseCase) exportScanRecord(ctx context.Context, job *model.ScanJob, findingCount int, assets []*model.CryptoAsset, compliance model.ComplianceStatus) error {
	bq := x.clients.BigQuery()
	if bq == nil {
		return nil
	}

	record := &model.ScanRecord{
		ScanJobID:     job.ID.String(),
		RepoURL:       job.RepoURL,
		Branch:        job.Branch.String(),
		FetchedBranch: job.FetchedBranch.String(),
		StartedAt:     job.StartedAt,
		CompletedAt:   job.CompletedAt,
		FindingCount:  findingCount,
		Compliance:    compliance,
		Assets:        make([]model.CryptoAsset, 0, len(assets)),
	}
	for _, a := range assets {
		record.Assets = append(record.Assets, *a)
	}

	schema, err := createOrUpdateBigQueryTable(ctx, bq, record)
	if err != nil {
		return err
	}

	if err := bq.Insert(ctx, schema, record); err != nil {
		return goerr.Wrap(err, "failed to insert scan record to BigQuery", goerr.V("jobID", job.ID))
	}

	logging.From(ctx).Debug("scan record exported", "finding_count", findingCount, "asset_count", len(assets))
	return nil
}

func createOrUpdateBigQueryTable(ctx context.Context, bq interfaces.BigQuery, record *model.ScanRecord) (bigquery.Schema, error) {
	schema, err := bqs.Infer(record)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to infer scan record schema")
	}

	metaData, err := bq.GetMetadata(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get BigQuery table metadata")
	}
	if metaData == nil {
		if err := bq.CreateTable(ctx, &bigquery.TableMetadata{
			Schema: schema,
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to create BigQuery table")
		}
		return schema, nil
	}

	if bqs.Equal(metaData.Schema, schema) {
		return schema, nil
	}

	mergedSchema, err := bqs.Merge(metaData.Schema, schema)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to merge BigQuery schema")
	}
	if err := bq.UpdateTable(ctx, bigquery.TableMetadataToUpdate{
		Schema: mergedSchema,
	}, metaData.ETag); err != nil {
		return nil, goerr.Wrap(err, "failed to update BigQuery table")
	}

	return mergedSchema, nil
}
