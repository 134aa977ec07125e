package server

import "github.com/m-mizutani/pqscan/pkg/domain/model"

func RefToBranchForTest(v string) string {
	return refToBranch(v)
}

func GithubEventToScanJobForTest(event interface{}) *model.ScanJob {
	return githubEventToScanJob(event)
}
