package snapshot

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ExecSnapshotter shells out to an external browser automation tool
// (`agent-browser snapshot <url>` by default) and returns its stdout.
// Non-zero exit, timeout, and empty output all map to fetch failure.
type ExecSnapshotter struct {
	command string
	args    []string
	timeout time.Duration
}

// NewExecSnapshotter creates an exec-backed snapshotter. Extra args are
// inserted before the URL, so a command of "agent-browser" with args
// ["snapshot"] runs `agent-browser snapshot <url>`.
func NewExecSnapshotter(command string, args []string, timeout time.Duration) *ExecSnapshotter {
	if command == "" {
		command = "agent-browser"
	}
	if len(args) == 0 {
		args = []string{"snapshot"}
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ExecSnapshotter{command: command, args: args, timeout: timeout}
}

// Snapshot runs the tool against url under a wall-clock deadline.
func (s *ExecSnapshotter) Snapshot(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := append(append([]string{}, s.args...), url)
	cmd := exec.CommandContext(ctx, s.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", eris.Wrapf(ctx.Err(), "snapshot: %s timed out after %s", s.command, s.timeout)
		}
		zap.L().Debug("snapshot tool failed",
			zap.String("command", s.command),
			zap.String("stderr", stderr.String()),
			zap.Error(err),
		)
		return "", eris.Wrapf(err, "snapshot: %s exited", s.command)
	}

	return stdout.String(), nil
}

// Close is a no-op; the tool is spawned per call.
func (s *ExecSnapshotter) Close() error { return nil }
