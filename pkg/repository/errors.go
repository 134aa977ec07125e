package repository

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

var (
	// ErrNotFound is returned when a scan job does not exist.
	ErrNotFound = goerr.New("not found")
	// ErrInvalidInput is returned for records without the IDs they are keyed by.
	ErrInvalidInput = goerr.New("invalid input")
)

// JobNotFound reports a missing scan job.
func JobNotFound(id types.ScanJobID) error {
	return goerr.Wrap(ErrNotFound, "job not found", goerr.V("jobID", id))
}

// IsNotFound tells whether err comes from a lookup of a missing scan job.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
