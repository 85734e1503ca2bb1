package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ffmpegfor/internal/naming"
	"ffmpegfor/internal/processor"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// exitCode prints the user-facing message for err and maps it to a status.
func exitCode(cmd *cobra.Command, err error, s streams) int {
	if err == nil {
		return exitOK
	}

	var usage usageError
	switch {
	case errors.Is(err, processor.ErrInterrupted):
		fmt.Fprintln(s.out, "\nProcess interrupted by user.")
		return exitInterrupted
	case errors.Is(err, naming.ErrTooManyCollisions):
		fmt.Fprintln(s.out, "Too many files with the same name")
		return exitFailure
	case errors.As(err, &usage):
		fmt.Fprintf(s.err, "Error: %v\n", usage.err)
		fmt.Fprint(s.err, cmd.UsageString())
		return exitUsage
	default:
		fmt.Fprintf(s.err, "ffmpeg-for: %v\n", err)
		return exitFailure
	}
}
