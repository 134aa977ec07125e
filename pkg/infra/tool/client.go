package tool

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/interfaces"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/model/semgrep"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
)

const (
	DefaultTimeout   = 5 * time.Minute
	DefaultMaxOutput = 10 * 1024 * 1024

	// stderr is only kept for diagnostics
	maxStderr = 64 * 1024
)

// Client runs semgrep-compatible tools as subprocesses. The argument vector is passed as is;
// no shell is involved.
type Client struct {
	timeout   time.Duration
	maxOutput int
	waitDelay time.Duration
}

var _ interfaces.ToolRunner = (*Client)(nil)

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(x *Client) {
		x.timeout = d
	}
}

func WithMaxOutput(n int) Option {
	return func(x *Client) {
		x.maxOutput = n
	}
}

func New(options ...Option) *Client {
	client := &Client{
		timeout:   DefaultTimeout,
		maxOutput: DefaultMaxOutput,
		waitDelay: 5 * time.Second,
	}
	for _, opt := range options {
		opt(client)
	}
	return client
}

// Run implements interfaces.ToolRunner. It executes `<path> <args...> --json <workspace>` and
// parses stdout whatever the exit code is: these tools exit non-zero when they find something.
// An error wrapping types.ErrTool is returned on timeout, output overflow, or unparseable output.
func (x *Client) Run(ctx context.Context, tool model.ToolConfig, workspace string) (*semgrep.Report, error) {
	if err := tool.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	args := append(append([]string{}, tool.Args...), "--json", workspace)
	cmd := exec.CommandContext(ctx, tool.Path, args...)
	cmd.WaitDelay = x.waitDelay

	stdout := newCappedBuffer(x.maxOutput)
	stderr := newCappedBuffer(maxStderr)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger := logging.From(ctx).With(slog.Any("tool", tool.Name), slog.String("path", tool.Path))
	logger.Info("running tool", slog.Any("args", args))

	started := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(started)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, goerr.Wrap(types.ErrTool, "tool timed out",
			goerr.V("tool", tool.Name),
			goerr.V("timeout", x.timeout.String()),
			goerr.V("stderr", stderr.String()),
		)
	}
	if stdout.Overflowed() {
		return nil, goerr.Wrap(types.ErrTool, "tool output exceeded limit",
			goerr.V("tool", tool.Name),
			goerr.V("limit", x.maxOutput),
		)
	}

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		// the process could not be started at all
		return nil, goerr.Wrap(types.ErrTool, "failed to run tool",
			goerr.V("tool", tool.Name),
			goerr.V("path", tool.Path),
			goerr.V("error", runErr.Error()),
		)
	}

	logger.Info("tool finished",
		slog.Int("exit_code", cmd.ProcessState.ExitCode()),
		slog.Duration("elapsed", elapsed),
		slog.Int("stdout_bytes", stdout.Len()),
	)

	report, err := semgrep.Parse(stdout.Bytes())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse tool output",
			goerr.V("tool", tool.Name),
			goerr.V("exit_code", cmd.ProcessState.ExitCode()),
			goerr.V("stderr", stderr.String()),
		)
	}

	report.RelativizePaths(workspace)
	return report, nil
}

// cappedBuffer keeps at most limit bytes. Writes past the limit are accepted and dropped so
// that the child never blocks on a full pipe.
type cappedBuffer struct {
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (x *cappedBuffer) Write(p []byte) (int, error) {
	room := x.limit - x.buf.Len()
	if room <= 0 {
		if len(p) > 0 {
			x.overflow = true
		}
		return len(p), nil
	}
	if len(p) > room {
		x.buf.Write(p[:room])
		x.overflow = true
		return len(p), nil
	}
	x.buf.Write(p)
	return len(p), nil
}

func (x *cappedBuffer) Bytes() []byte    { return x.buf.Bytes() }
func (x *cappedBuffer) String() string   { return x.buf.String() }
func (x *cappedBuffer) Len() int         { return x.buf.Len() }
func (x *cappedBuffer) Overflowed() bool { return x.overflow }
