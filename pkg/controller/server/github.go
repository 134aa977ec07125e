package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
)

// validateGitHubAppEvent validates and parses a GitHub App webhook event and converts it
// into a scan job. A nil job means no scan is required.
func validateGitHubAppEvent(r *http.Request, key types.GitHubAppSecret) (*model.ScanJob, error) {
	ctx := r.Context()
	payload, err := github.ValidatePayload(r, []byte(key))
	if err != nil {
		return nil, goerr.Wrap(err, "validating payload")
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		return nil, goerr.Wrap(err, "parsing webhook")
	}

	logging.From(ctx).Info("Received GitHub App event", slog.String("type", github.WebHookType(r)))

	return githubEventToScanJob(event), nil
}

func refToBranch(v string) string {
	if ref := strings.SplitN(v, "/", 3); len(ref) == 3 && ref[0] == "refs" && ref[1] == "heads" {
		return ref[2]
	}
	return v
}

func githubEventToScanJob(event interface{}) *model.ScanJob {
	switch ev := event.(type) {
	case *github.PushEvent:
		if ev.GetDeleted() {
			logging.Default().Debug("ignore branch deletion", slog.String("ref", ev.GetRef()))
			return nil
		}
		if ev.HeadCommit == nil || ev.HeadCommit.ID == nil {
			logging.Default().Warn("ignore push event without head commit", slog.String("ref", ev.GetRef()))
			return nil
		}
		if !strings.HasPrefix(ev.GetRef(), "refs/heads/") {
			logging.Default().Debug("ignore push to non-branch ref", slog.String("ref", ev.GetRef()))
			return nil
		}

		return &model.ScanJob{
			RepoURL:        ev.GetRepo().GetCloneURL(),
			Branch:         types.BranchName(refToBranch(ev.GetRef())),
			InstallationID: types.GitHubAppInstallID(ev.GetInstallation().GetID()),
		}

	case *github.PullRequestEvent:
		if ev.GetAction() != "opened" && ev.GetAction() != "synchronize" {
			logging.Default().Debug("ignore PR event", slog.String("action", ev.GetAction()))
			return nil
		}
		if ev.GetPullRequest().GetDraft() {
			logging.Default().Debug("ignore draft PR", slog.String("action", ev.GetAction()))
			return nil
		}

		head := ev.GetPullRequest().GetHead()
		// the head may live in a fork
		repoURL := head.GetRepo().GetCloneURL()
		if repoURL == "" {
			repoURL = ev.GetRepo().GetCloneURL()
		}

		return &model.ScanJob{
			RepoURL:        repoURL,
			Branch:         types.BranchName(head.GetRef()),
			InstallationID: types.GitHubAppInstallID(ev.GetInstallation().GetID()),
		}

	case *github.InstallationEvent, *github.InstallationRepositoriesEvent:
		return nil // ignore

	default:
		logging.Default().Warn("unsupported event", slog.Any("event", fmt.Sprintf("%T", event)))
		return nil
	}
}
