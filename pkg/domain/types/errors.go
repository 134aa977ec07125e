package types

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidOption    = goerr.New("invalid option")
	ErrValidationFailed = goerr.New("validation failed")

	// Scan pipeline error taxonomy. Callers test with errors.Is to decide whether a failure
	// is fatal for the job.
	ErrFetch          = goerr.New("fetch error")
	ErrTool           = goerr.New("tool error")
	ErrClassification = goerr.New("classification error")
	ErrIntegration    = goerr.New("integration error")
	ErrPersistence    = goerr.New("persistence error")
)
