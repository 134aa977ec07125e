package cli

type ScanTargetForTest = scanTarget

func DetectScanTargetForTest(dir string, target *ScanTargetForTest) error {
	return detectScanTarget(dir, target)
}

var RunScanForTest = runScan
