package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . BigQuery GitHubApp Fetcher ToolRunner

import (
	"context"

	"cloud.google.com/go/bigquery"

	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/model/semgrep"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

type BigQuery interface {
	Insert(ctx context.Context, schema bigquery.Schema, data any) error

	GetMetadata(ctx context.Context) (*bigquery.TableMetadata, error)
	UpdateTable(ctx context.Context, md bigquery.TableMetadataToUpdate, eTag string) error
	CreateTable(ctx context.Context, md *bigquery.TableMetadata) error
}

type GitHubApp interface {
	// InstallationToken returns a short-lived token usable as a git password for the
	// repositories of the installation.
	InstallationToken(ctx context.Context, installID types.GitHubAppInstallID) (string, error)
}

// Fetcher materializes a working copy of a repository.
type Fetcher interface {
	Fetch(ctx context.Context, input *FetchInput) (*FetchOutput, error)
}

type FetchInput struct {
	URL       string
	Branch    types.BranchName
	Dir       string
	InstallID types.GitHubAppInstallID
}

type FetchOutput struct {
	// Branch is the branch actually checked out. It is empty when the provider default branch
	// was used and its name could not be resolved.
	Branch   types.BranchName
	FellBack bool
	Commit   types.CommitSHA
}

// ToolRunner invokes one static-analysis tool against a workspace and returns its parsed
// output.
type ToolRunner interface {
	Run(ctx context.Context, tool model.ToolConfig, workspace string) (*semgrep.Report, error)
}
