package model

import (
	"net/url"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

// ScannerIntegration is a third-party scanning service configured for a repository.
type ScannerIntegration struct {
	Name      string                  `json:"name" firestore:"name"`
	ScanURL   string                  `json:"scan_url" firestore:"scan_url"`
	StatusURL string                  `json:"status_url" firestore:"status_url"`
	APIKey    types.IntegrationAPIKey `json:"-" firestore:"-" masq:"secret"`
}

func (x *ScannerIntegration) Validate() error {
	for name, v := range map[string]string{"scan_url": x.ScanURL, "status_url": x.StatusURL} {
		u, err := url.Parse(v)
		if err != nil {
			return goerr.Wrap(types.ErrValidationFailed, "invalid integration URL", goerr.V(name, v))
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return goerr.Wrap(types.ErrValidationFailed, "integration URL must be http(s)", goerr.V(name, v))
		}
	}
	return nil
}

// ExternalScanHandle correlates a local job with a remote scan while it is being polled.
type ExternalScanHandle struct {
	ScanJobID   types.ScanJobID
	ExternalID  types.ExternalScanID
	StatusURL   string
	Integration ScannerIntegration
}

// ExternalScanRequest is the body of the trigger request.
type ExternalScanRequest struct {
	RepoURL string `json:"repoUrl"`
	Tool    string `json:"tool"`
	Branch  string `json:"branch"`
}

// ExternalScanAck is the acknowledgement of a trigger request. Anything other than status
// QUEUED with a non-empty ID is a contract violation.
type ExternalScanAck struct {
	Status types.ExternalScanStatus `json:"status"`
	ID     types.ExternalScanID     `json:"id"`
}

type ExternalScanState struct {
	ID            types.ExternalScanID     `json:"id"`
	Status        types.ExternalScanStatus `json:"status"`
	SemgrepOutput string                   `json:"semgrepOutput,omitempty"`
	ErrorMessage  string                   `json:"errorMessage,omitempty"`
}
