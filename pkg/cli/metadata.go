package cli

import (
	"github.com/go-git/go-git/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

type scanTarget struct {
	RepoURL string
	Branch  types.BranchName
}

// detectScanTarget fills missing repository URL and branch from the git repository at dir.
// The URL is taken from the "origin" remote and the branch from HEAD.
func detectScanTarget(dir string, target *scanTarget) error {
	if target.RepoURL != "" && target.Branch != "" {
		return nil
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return goerr.Wrap(err, "failed to open git repository", goerr.V("dir", dir))
	}

	if target.RepoURL == "" {
		remote, err := repo.Remote("origin")
		if err != nil {
			return goerr.Wrap(err, "failed to get remote origin")
		}
		if len(remote.Config().URLs) == 0 {
			return goerr.New("no remote URL found")
		}
		target.RepoURL = remote.Config().URLs[0]
	}

	if target.Branch == "" {
		head, err := repo.Head()
		if err != nil {
			return goerr.Wrap(err, "failed to get HEAD")
		}
		if head.Name().IsBranch() {
			target.Branch = types.BranchName(head.Name().Short())
		}
	}

	return nil
}
