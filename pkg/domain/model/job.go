package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

// ScanJob is the persisted record of one repository scan. The scheduler is its only writer
// once it has been submitted.
type ScanJob struct {
	ID             types.ScanJobID          `json:"id" firestore:"id"`
	RepoURL        string                   `json:"repo_url" firestore:"repo_url"`
	Branch         types.BranchName         `json:"branch" firestore:"branch"`
	FetchedBranch  types.BranchName         `json:"fetched_branch,omitempty" firestore:"fetched_branch"`
	Tools          []ToolConfig             `json:"tools,omitempty" firestore:"tools"`
	InstallationID types.GitHubAppInstallID `json:"installation_id,omitempty" firestore:"installation_id"`
	Integration    *ScannerIntegration      `json:"integration,omitempty" firestore:"integration"`

	Status       types.JobStatus `json:"status" firestore:"status"`
	Progress     int             `json:"progress" firestore:"progress"`
	ErrorMessage string          `json:"error_message,omitempty" firestore:"error_message"`

	CreatedAt   time.Time `json:"created_at" firestore:"created_at"`
	StartedAt   time.Time `json:"started_at,omitempty" firestore:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitempty" firestore:"completed_at"`
}

// ToolConfig describes one static-analysis tool invocation. Args are passed as an argument
// vector before "--json <workspace>".
type ToolConfig struct {
	Name types.ToolName `json:"name" firestore:"name"`
	Path string         `json:"path" firestore:"path"`
	Args []string       `json:"args,omitempty" firestore:"args"`
}

func (x *ToolConfig) Validate() error {
	if x.Name == "" {
		return goerr.Wrap(types.ErrValidationFailed, "tool name is empty")
	}
	if x.Path == "" {
		return goerr.Wrap(types.ErrValidationFailed, "tool path is empty", goerr.V("tool", x.Name))
	}
	return nil
}

func (x *ScanJob) Validate() error {
	if x.RepoURL == "" {
		return goerr.Wrap(types.ErrValidationFailed, "repository URL is empty")
	}
	for i := range x.Tools {
		if err := x.Tools[i].Validate(); err != nil {
			return err
		}
	}
	if x.Integration != nil {
		if err := x.Integration.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Copy returns a deep copy so that callers never share mutable state with a store.
func (x *ScanJob) Copy() *ScanJob {
	if x == nil {
		return nil
	}
	c := *x
	if x.Tools != nil {
		c.Tools = make([]ToolConfig, len(x.Tools))
		for i, t := range x.Tools {
			c.Tools[i] = t
			c.Tools[i].Args = append([]string(nil), t.Args...)
		}
	}
	if x.Integration != nil {
		integ := *x.Integration
		c.Integration = &integ
	}
	return &c
}
