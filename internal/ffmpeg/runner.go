// Package ffmpeg runs the external encoder, probe, and quality-metrics tools
// as blocking child processes.
//
// Every call threads a context. When it is cancelled the running child is
// signalled (SIGINT for the encoder so it can finalize its output, SIGTERM for
// the capture tools) and then awaited, so no child outlives the batch.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

const (
	DefaultFFmpeg         = "ffmpeg"
	DefaultFFprobe        = "ffprobe"
	DefaultQualityMetrics = "ffmpeg-quality-metrics"
)

// ErrInterrupted reports that a child process was stopped because the
// caller's context was cancelled.
var ErrInterrupted = errors.New("interrupted")

// Runner launches the external tools. The zero value uses the default binary
// names and the process's own standard streams.
type Runner struct {
	FFmpeg      string
	FFprobe     string
	MetricsTool string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger
}

// Encode runs `ffmpeg -i <input> <options...> <output>` with the encoder's
// progress output passed straight through. It returns the encoder's exit
// code; a non-zero code is not an error. Errors are reserved for launch
// failures and ErrInterrupted.
func (r *Runner) Encode(ctx context.Context, input, output string, options []string) (int, error) {
	args := make([]string, 0, len(options)+3)
	args = append(args, "-i", input)
	args = append(args, options...)
	args = append(args, output)

	cmd := exec.CommandContext(ctx, binary(r.FFmpeg, DefaultFFmpeg), args...)
	cmd.Stdin = r.stdin()
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }

	r.logger().Debug("running command", "cmd", cmd.String())
	return r.wait(ctx, cmd, cmd.Run())
}

// Duration probes the container duration of path in seconds.
func (r *Runner) Duration(ctx context.Context, path string) (float64, error) {
	out, err := r.capture(ctx, binary(r.FFprobe, DefaultFFprobe),
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, err
	}
	duration, err := ParseDuration(out)
	if err != nil {
		return 0, fmt.Errorf("probe duration of %s: %w", path, err)
	}
	return duration, nil
}

// QualityMetrics runs the metrics tool comparing converted against original
// and returns its trimmed standard output.
func (r *Runner) QualityMetrics(ctx context.Context, original, converted string) (string, error) {
	return r.capture(ctx, binary(r.MetricsTool, DefaultQualityMetrics), converted, original)
}

func (r *Runner) capture(ctx context.Context, name string, args ...string) (string, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = r.stderr()
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }

	r.logger().Debug("running command", "cmd", cmd.String())
	if _, err := r.wait(ctx, cmd, cmd.Run()); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (r *Runner) wait(ctx context.Context, cmd *exec.Cmd, err error) (int, error) {
	if ctx.Err() != nil {
		return -1, fmt.Errorf("%s: %w", cmd.Path, ErrInterrupted)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		r.logger().Warn("command exited with non-zero status", "cmd", cmd.Path, "code", code)
		return code, nil
	}
	if err != nil {
		return -1, fmt.Errorf("run %s: %w", cmd.Path, err)
	}
	return 0, nil
}

func (r *Runner) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func binary(configured, fallback string) string {
	if name := strings.TrimSpace(configured); name != "" {
		return name
	}
	return fallback
}
