package usecase

import (
	"sync"
	"time"

	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/infra"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultTickInterval   = 2 * time.Second
	DefaultConcurrency    = 3
	DefaultPollInterval   = 5 * time.Second
	DefaultPollDelay      = 5 * time.Second
	DefaultPollMaxAttempt = 120
)

type UseCase struct {
	clients *infra.Clients

	workspaceRoot string
	tickInterval  time.Duration
	concurrency   int64
	defaultTools  []model.ToolConfig
	policy        model.CompliancePolicy

	pollDelay      time.Duration
	pollInterval   time.Duration
	pollMaxAttempt int

	gate     *semaphore.Weighted
	inFlight sync.WaitGroup
	pollers  sync.WaitGroup
}

type Option func(*UseCase)

// WithWorkspaceRoot sets the directory under which per-job workspaces are created. The OS
// temp directory is used by default.
func WithWorkspaceRoot(dir string) Option {
	return func(x *UseCase) {
		x.workspaceRoot = dir
	}
}

func WithTickInterval(d time.Duration) Option {
	return func(x *UseCase) {
		x.tickInterval = d
	}
}

// WithConcurrency sets the maximum number of jobs running at the same time.
func WithConcurrency(n int64) Option {
	return func(x *UseCase) {
		x.concurrency = n
	}
}

// WithDefaultTools sets the tools used for jobs submitted without any.
func WithDefaultTools(tools ...model.ToolConfig) Option {
	return func(x *UseCase) {
		x.defaultTools = tools
	}
}

func WithCompliancePolicy(policy model.CompliancePolicy) Option {
	return func(x *UseCase) {
		x.policy = policy
	}
}

func WithPolling(delay, interval time.Duration, maxAttempt int) Option {
	return func(x *UseCase) {
		x.pollDelay = delay
		x.pollInterval = interval
		x.pollMaxAttempt = maxAttempt
	}
}

func New(clients *infra.Clients, options ...Option) *UseCase {
	x := &UseCase{
		clients:        clients,
		tickInterval:   DefaultTickInterval,
		concurrency:    DefaultConcurrency,
		policy:         model.DefaultCompliancePolicy(),
		pollDelay:      DefaultPollDelay,
		pollInterval:   DefaultPollInterval,
		pollMaxAttempt: DefaultPollMaxAttempt,
	}

	for _, opt := range options {
		opt(x)
	}

	if x.concurrency < 1 {
		x.concurrency = 1
	}
	x.gate = semaphore.NewWeighted(x.concurrency)

	return x
}
