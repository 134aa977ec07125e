package git

import (
	"context"

	gogit "github.com/go-git/go-git/v5"
)

type CloneFunc = func(ctx context.Context, dir string, opts *gogit.CloneOptions) (*gogit.Repository, error)

func WithCloneFuncForTest(f CloneFunc) Option {
	return func(x *Client) {
		x.clone = f
	}
}

var IsBranchNotFoundForTest = isBranchNotFound
