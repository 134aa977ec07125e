package ghapp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/interfaces"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
)

type Client struct {
	appID     types.GitHubAppID
	pem       types.GitHubAppPrivateKey
	transport http.RoundTripper
}

var _ interfaces.GitHubApp = (*Client)(nil)

type Option func(*Client)

// WithTransport replaces the base transport used to talk to the GitHub API.
func WithTransport(tr http.RoundTripper) Option {
	return func(x *Client) {
		x.transport = tr
	}
}

func New(appID types.GitHubAppID, pem types.GitHubAppPrivateKey, options ...Option) (*Client, error) {
	if appID == 0 {
		return nil, goerr.Wrap(types.ErrInvalidOption, "appID is empty")
	}
	if pem == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "pem is empty")
	}

	client := &Client{
		appID:     appID,
		pem:       pem,
		transport: http.DefaultTransport,
	}
	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

func (x *Client) buildInstallationTransport(installID types.GitHubAppInstallID) (*ghinstallation.Transport, error) {
	itr, err := ghinstallation.New(x.transport, int64(x.appID), int64(installID), []byte(x.pem))
	if err != nil {
		return nil, goerr.Wrap(err, "Failed to create github app transport",
			goerr.V("appID", x.appID),
			goerr.V("installID", installID),
		)
	}
	return itr, nil
}

// InstallationToken implements interfaces.GitHubApp.
func (x *Client) InstallationToken(ctx context.Context, installID types.GitHubAppInstallID) (string, error) {
	itr, err := x.buildInstallationTransport(installID)
	if err != nil {
		return "", err
	}

	token, err := itr.Token(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to issue installation token", goerr.V("installID", installID))
	}

	logging.From(ctx).Debug("issued installation token",
		slog.Any("appID", x.appID),
		slog.Any("installID", installID),
	)

	return token, nil
}

// HTTPClient returns a client authenticated as the installation.
func (x *Client) HTTPClient(installID types.GitHubAppInstallID) (*http.Client, error) {
	itr, err := x.buildInstallationTransport(installID)
	if err != nil {
		return nil, err
	}
	return &http.Client{Transport: itr}, nil
}
