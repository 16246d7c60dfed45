package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"ImgOSINT/pkg/logging"
)

// waitDelay bounds how long Wait blocks on inherited pipes after a kill.
const waitDelay = 2 * time.Second

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	goos string
}

// NewExecRunner creates a runner for the host platform.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{goos: runtime.GOOS}
}

// logger is looked up on every use: the runner is built before the CLI
// has parsed --log-level and installed the default handler.
func (r *ExecRunner) logger() *slog.Logger {
	return logging.New("runner")
}

// LookPath implements Runner.LookPath.
func (r *ExecRunner) LookPath(file string) (string, error) {
	path, err := exec.LookPath(file)
	r.logger().Debug("tool lookup", "tool", file, "found", err == nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", file, ErrToolUnavailable, err)
	}
	return path, nil
}

// Run implements Runner.Run.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	name, args := c.Name, c.Args
	if c.Shell != "" {
		name, args = shellArgv(r.goos, c.Shell)
	}
	if name == "" {
		return Result{}, errors.New("runner: empty command")
	}

	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	limit := c.MaxOutput
	if limit <= 0 {
		limit = DefaultMaxOutput
	}
	stdout := &cappedBuffer{limit: limit}
	stderr := &cappedBuffer{limit: limit}

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	if c.Shell != "" {
		setShellLine(cmd, c.Shell)
	}

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Duration:  time.Since(start),
		Truncated: stdout.truncated || stderr.truncated,
	}

	if err == nil {
		r.logger().Debug("command finished", "cmd", name, "exit", 0, "duration", res.Duration)
		return res, nil
	}

	// Caller cancellation wins over our own timeout.
	if ctx.Err() != nil {
		return res, ctx.Err()
	}
	if runCtx.Err() != nil {
		r.logger().Debug("command timed out", "cmd", name, "timeout", c.Timeout)
		return res, fmt.Errorf("%s after %s: %w", name, c.Timeout, ErrTimeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		r.logger().Debug("command finished", "cmd", name, "exit", res.ExitCode, "duration", res.Duration)
		return res, nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		r.logger().Debug("command unavailable", "cmd", name, "error", err)
		return res, fmt.Errorf("%s: %w: %v", name, ErrToolUnavailable, err)
	}
	return res, fmt.Errorf("run %s: %w", name, err)
}

// shellArgv wraps a command line for the platform shell. On Windows the
// argv is only what gets logged; the child sees windowsCmdLine instead.
func shellArgv(goos, line string) (string, []string) {
	if goos == "windows" {
		return "cmd", []string{"/S", "/C", line}
	}
	return "sh", []string{"-c", line}
}

// windowsCmdLine is the raw command line handed to CreateProcess for a
// Shell command. With /S, cmd strips exactly the outer pair of quotes and
// runs the rest untouched, so quoting built by Quote survives intact.
func windowsCmdLine(line string) string {
	return `cmd /S /C "` + line + `"`
}

// cappedBuffer keeps the first limit bytes written and drops the rest while
// still reporting full writes, so the child never blocks on a full pipe.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.limit - b.buf.Len()
	if room <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *cappedBuffer) String() string { return b.buf.String() }
