package cli_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pqscan/pkg/cli"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

func initRepo(t *testing.T, remoteURL string) string {
	t.Helper()
	dir := t.TempDir()

	repo := gt.R1(git.PlainInit(dir, false)).NoError(t)
	gt.R1(repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{remoteURL},
	})).NoError(t)

	gt.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0644))
	wt := gt.R1(repo.Worktree()).NoError(t)
	gt.R1(wt.Add("main.go")).NoError(t)
	gt.R1(wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})).NoError(t)

	return dir
}

func TestDetectScanTarget(t *testing.T) {
	remoteURL := "https://github.com/owner/repo.git"

	t.Run("detect from git repository", func(t *testing.T) {
		dir := initRepo(t, remoteURL)

		var target cli.ScanTargetForTest
		gt.NoError(t, cli.DetectScanTargetForTest(dir, &target))
		gt.V(t, target.RepoURL).Equal(remoteURL)
		gt.V(t, target.Branch).Equal(types.BranchName("master"))
	})

	t.Run("preserve given values", func(t *testing.T) {
		dir := initRepo(t, remoteURL)

		target := cli.ScanTargetForTest{
			RepoURL: "https://github.com/other/repo.git",
		}
		gt.NoError(t, cli.DetectScanTargetForTest(dir, &target))
		gt.V(t, target.RepoURL).Equal("https://github.com/other/repo.git")
		gt.V(t, target.Branch).Equal(types.BranchName("master"))
	})

	t.Run("nothing to detect", func(t *testing.T) {
		target := cli.ScanTargetForTest{
			RepoURL: remoteURL,
			Branch:  "main",
		}
		gt.NoError(t, cli.DetectScanTargetForTest(t.TempDir(), &target))
		gt.V(t, target.Branch).Equal(types.BranchName("main"))
	})

	t.Run("not a git repository", func(t *testing.T) {
		var target cli.ScanTargetForTest
		gt.Error(t, cli.DetectScanTargetForTest(t.TempDir(), &target))
	})
}
