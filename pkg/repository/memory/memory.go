package memory

import "github.com/m-mizutani/pqscan/pkg/domain/interfaces"

// New creates a new in-memory repository
func New() interfaces.ScanRepository {
	return &scanRepository{
		jobs: make(map[string]*jobData),
	}
}
