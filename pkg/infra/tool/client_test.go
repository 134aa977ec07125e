package tool_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/infra/tool"
	"github.com/m-mizutani/pqscan/pkg/utils/testutil"
)

const output = `{"results":[{"check_id":"crypto.rsa","path":"%s/main.py","start":{"line":1,"col":7},"end":{"line":1,"col":25},"extra":{"severity":"ERROR","message":"RSA key generation","lines":"key = RSA.generate(1024)","metadata":{"algorithm":"RSA"}}}],"paths":{"scanned":["%s/main.py"]}}`

// shellTool runs script with sh. The runner appends "--json <workspace>", which the script
// sees as $0 and $1.
func shellTool(script string) model.ToolConfig {
	return model.ToolConfig{
		Name: types.ToolSemgrep,
		Path: "/bin/sh",
		Args: []string{"-c", script},
	}
}

func echoOutput(exitCode string) string {
	body := strings.ReplaceAll(output, "%s", "$1")
	return `test "$0" = "--json" || exit 99; printf '%s' "` + strings.ReplaceAll(body, `"`, `\"`) + `"; exit ` + exitCode
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("parses output on zero exit", func(t *testing.T) {
		ws := t.TempDir()
		report := gt.R1(tool.New().Run(ctx, shellTool(echoOutput("0")), ws)).NoError(t)
		gt.A(t, report.Results).Length(1)
		gt.V(t, report.Results[0].CheckID).Equal("crypto.rsa")
		gt.V(t, report.Results[0].Path).Equal("main.py")
		gt.A(t, report.Paths.Scanned).Equal([]string{"main.py"})
	})

	t.Run("non-zero exit with valid JSON yields the same report", func(t *testing.T) {
		ws := t.TempDir()
		zero := gt.R1(tool.New().Run(ctx, shellTool(echoOutput("0")), ws)).NoError(t)
		one := gt.R1(tool.New().Run(ctx, shellTool(echoOutput("1")), ws)).NoError(t)
		gt.V(t, one).Equal(zero)
	})

	t.Run("unparseable output is a tool error", func(t *testing.T) {
		_, err := tool.New().Run(ctx, shellTool(`echo "fatal: invalid config" >&2; echo oops; exit 2`), t.TempDir())
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrTool))
	})

	t.Run("timeout is a tool error", func(t *testing.T) {
		runner := tool.New(
			tool.WithTimeout(200*time.Millisecond),
			tool.WithWaitDelayForTest(100*time.Millisecond),
		)
		started := time.Now()
		_, err := runner.Run(ctx, shellTool(`exec sleep 10`), t.TempDir())
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrTool))
		gt.S(t, err.Error()).Contains("timed out")
		gt.True(t, time.Since(started) < 5*time.Second)
	})

	t.Run("oversized output is a tool error", func(t *testing.T) {
		runner := tool.New(tool.WithMaxOutput(1024))
		_, err := runner.Run(ctx, shellTool(`head -c 1048576 /dev/zero; exit 0`), t.TempDir())
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrTool))
		gt.S(t, err.Error()).Contains("exceeded limit")
	})

	t.Run("missing binary is a tool error", func(t *testing.T) {
		cfg := model.ToolConfig{Name: types.ToolOpengrep, Path: filepath.Join(t.TempDir(), "no-such-tool")}
		_, err := tool.New().Run(ctx, cfg, t.TempDir())
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrTool))
	})

	t.Run("invalid tool config", func(t *testing.T) {
		_, err := tool.New().Run(ctx, model.ToolConfig{Name: types.ToolSemgrep}, t.TempDir())
		gt.True(t, errors.Is(err, types.ErrValidationFailed))
	})

	t.Run("arguments are not interpreted by a shell", func(t *testing.T) {
		marker := filepath.Join(t.TempDir(), "marker")
		cfg := model.ToolConfig{
			Name: types.ToolSemgrep,
			Path: "/bin/echo",
			Args: []string{"; touch " + marker},
		}
		_, err := tool.New().Run(ctx, cfg, t.TempDir())
		gt.Error(t, err)
		_, statErr := os.Stat(marker)
		gt.True(t, os.IsNotExist(statErr))
	})
}

func TestCappedBuffer(t *testing.T) {
	buf := tool.NewCappedBufferForTest(8)

	n := gt.R1(buf.Write([]byte("12345"))).NoError(t)
	gt.V(t, n).Equal(5)
	gt.False(t, buf.Overflowed())

	n = gt.R1(buf.Write([]byte("67890"))).NoError(t)
	gt.V(t, n).Equal(5)
	gt.True(t, buf.Overflowed())
	gt.V(t, buf.String()).Equal("12345678")

	n = gt.R1(buf.Write([]byte("more"))).NoError(t)
	gt.V(t, n).Equal(4)
	gt.V(t, buf.Len()).Equal(8)
}

func TestRunSemgrep(t *testing.T) {
	path := testutil.ToolPathOrSkip(t, types.ToolSemgrep)

	ws := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(ws, "main.py"), []byte("import hashlib\nh = hashlib.md5(b'x')\n"), 0644))

	cfg := model.ToolConfig{
		Name: types.ToolSemgrep,
		Path: path,
		Args: []string{"scan", "--config", "p/python", "--metrics", "off"},
	}
	report := gt.R1(tool.New().Run(context.Background(), cfg, ws)).NoError(t)
	for _, r := range report.Results {
		gt.False(t, filepath.IsAbs(r.Path))
	}
}
