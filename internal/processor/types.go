package processor

import (
	"context"
	"errors"
)

// ErrInterrupted reports that the batch was stopped by the user before all
// files were handled.
var ErrInterrupted = errors.New("process interrupted by user")

type Status string

const (
	StatusEncoded Status = "encoded"
	StatusInvalid Status = "invalid"
)

// Options is the run configuration. It does not change during a run.
type Options struct {
	FFmpegOptions []string
	// Interval is the pause before every file after the first; values
	// outside (0, 3600] disable it.
	Interval    int
	OutputExt   string
	CalcMetrics bool
	// MetricsGrace is the pause, in seconds, between encoding and reading the
	// output back for metrics.
	MetricsGrace int
	Color        bool
}

// Encoder runs the external tools.
type Encoder interface {
	Encode(ctx context.Context, input, output string, options []string) (int, error)
	Duration(ctx context.Context, path string) (float64, error)
	QualityMetrics(ctx context.Context, original, converted string) (string, error)
}

type Waiter interface {
	Wait(ctx context.Context, seconds int) error
}

// Result is the outcome of a single input path.
type Result struct {
	Input       string
	Output      string
	Status      Status
	ExitCode    int
	OutputSize  int64
	MetricsPath string
	// MetricsSkipped explains why no metrics file was written when metrics
	// were requested.
	MetricsSkipped string
}

type Summary struct {
	Total     int
	Processed int
	Errors    int
}

// Encoded is the number of processed files that were not rejected.
func (s Summary) Encoded() int {
	return s.Processed - s.Errors
}
