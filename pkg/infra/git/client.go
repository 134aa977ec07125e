package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/interfaces"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
	"github.com/m-mizutani/pqscan/pkg/utils/safe"
)

type cloneFunc func(ctx context.Context, dir string, opts *gogit.CloneOptions) (*gogit.Repository, error)

func plainClone(ctx context.Context, dir string, opts *gogit.CloneOptions) (*gogit.Repository, error) {
	return gogit.PlainCloneContext(ctx, dir, false, opts)
}

// Client clones repositories with a shallow, single-branch checkout.
type Client struct {
	githubApp interfaces.GitHubApp
	clone     cloneFunc
}

var _ interfaces.Fetcher = (*Client)(nil)

type Option func(*Client)

// WithGitHubApp enables installation token authentication for jobs that carry an
// installation ID.
func WithGitHubApp(app interfaces.GitHubApp) Option {
	return func(x *Client) {
		x.githubApp = app
	}
}

func New(options ...Option) *Client {
	client := &Client{
		clone: plainClone,
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

// Fetch implements interfaces.Fetcher. When the requested branch does not exist remotely, the
// partial clone is removed and the provider default branch is cloned instead.
func (x *Client) Fetch(ctx context.Context, input *interfaces.FetchInput) (*interfaces.FetchOutput, error) {
	if input.URL == "" {
		return nil, goerr.Wrap(types.ErrValidationFailed, "repository URL is empty")
	}
	if input.Dir == "" {
		return nil, goerr.Wrap(types.ErrValidationFailed, "workspace directory is empty")
	}

	auth, err := x.auth(ctx, input.InstallID)
	if err != nil {
		return nil, err
	}

	opts := &gogit.CloneOptions{
		URL:          input.URL,
		Auth:         auth,
		Depth:        1,
		SingleBranch: true,
		Tags:         gogit.NoTags,
	}
	if input.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(input.Branch.String())
	}

	logger := logging.From(ctx).With(slog.String("url", input.URL), slog.Any("branch", input.Branch))
	logger.Debug("cloning repository", slog.String("dir", input.Dir))

	out := &interfaces.FetchOutput{}
	repo, err := x.clone(ctx, input.Dir, opts)
	if err != nil && input.Branch != "" && isBranchNotFound(err) {
		logger.Warn("branch not found, falling back to default branch", slog.Any("error", err))

		safe.RemoveAll(input.Dir)
		opts.ReferenceName = ""
		out.FellBack = true
		repo, err = x.clone(ctx, input.Dir, opts)
	}
	if err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", types.ErrFetch, err), "failed to clone repository",
			goerr.V("url", input.URL),
			goerr.V("branch", input.Branch),
			goerr.V("fallback", out.FellBack),
		)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", types.ErrFetch, err), "failed to resolve HEAD of cloned repository",
			goerr.V("url", input.URL),
		)
	}
	if head.Name().IsBranch() {
		out.Branch = types.BranchName(head.Name().Short())
	}
	out.Commit = types.CommitSHA(head.Hash().String())

	logger.Info("repository fetched",
		slog.Any("fetched_branch", out.Branch),
		slog.Any("commit", out.Commit),
		slog.Bool("fallback", out.FellBack),
	)

	return out, nil
}

func (x *Client) auth(ctx context.Context, installID types.GitHubAppInstallID) (transport.AuthMethod, error) {
	if x.githubApp == nil || installID == 0 {
		return nil, nil
	}

	token, err := x.githubApp.InstallationToken(ctx, installID)
	if err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", types.ErrFetch, err), "failed to get installation token",
			goerr.V("installID", installID),
		)
	}

	return &githttp.BasicAuth{
		Username: "x-access-token",
		Password: token,
	}, nil
}

func isBranchNotFound(err error) bool {
	return errors.Is(err, gogit.NoMatchingRefSpecError{}) ||
		errors.Is(err, plumbing.ErrReferenceNotFound)
}
