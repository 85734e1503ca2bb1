// Package processor drives a batch: it walks the job list one file at a time,
// encodes each valid file, and optionally records quality metrics.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"ffmpegfor/internal/ffmpeg"
	"ffmpegfor/internal/metrics"
	"ffmpegfor/internal/naming"
	"ffmpegfor/internal/tui"
	"ffmpegfor/pkg/videoutil"
)

type Processor struct {
	Encoder Encoder
	Waiter  Waiter
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
}

// Run processes paths in order. It stops early with ErrInterrupted when ctx
// is cancelled, and with naming.ErrTooManyCollisions or a launch/probe error
// when one occurs; the summary and results gathered so far are returned
// either way.
func (p *Processor) Run(ctx context.Context, paths []string, opts Options) (Summary, []Result, error) {
	summary := Summary{Total: len(paths)}
	results := make([]Result, 0, len(paths))

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return summary, results, ErrInterrupted
		}

		res, err := p.processFile(ctx, i, path, opts)
		if err != nil {
			return summary, results, p.classify(ctx, err)
		}

		summary.Processed = i + 1
		if res.Status == StatusInvalid {
			summary.Errors++
		}
		results = append(results, res)

		msg := ProgressMessage(summary.Processed, summary.Total, summary.Errors)
		fmt.Fprintf(p.stdout(), "\n%s\n", tui.Success(msg, opts.Color))
	}

	return summary, results, nil
}

// processFile runs Validate → Wait → OutputPath → Encode → Metrics for one path.
func (p *Processor) processFile(ctx context.Context, index int, path string, opts Options) (Result, error) {
	res := Result{Input: path}
	log := p.logger().With("input", path)

	if !videoutil.IsValidVideoFile(path) {
		fmt.Fprintln(p.stdout(), tui.Error(fmt.Sprintf("File %s is not a valid video file path.", path), opts.Color))
		log.Warn("rejected input")
		res.Status = StatusInvalid
		return res, nil
	}

	if index > 0 {
		if err := p.Waiter.Wait(ctx, opts.Interval); err != nil {
			return res, err
		}
	}

	output, err := naming.OutputPath(path, opts.OutputExt)
	if err != nil {
		return res, err
	}
	res.Output = output

	log.Info("encoding", "output", output)
	code, err := p.Encoder.Encode(ctx, path, output, opts.FFmpegOptions)
	if err != nil {
		return res, err
	}
	res.Status = StatusEncoded
	res.ExitCode = code
	if info, statErr := os.Stat(output); statErr == nil {
		res.OutputSize = info.Size()
	}
	if code != 0 {
		log.Warn("encoder exited with non-zero status", "code", code)
	}

	if opts.CalcMetrics {
		if err := p.measure(ctx, &res, opts); err != nil {
			return res, err
		}
	}
	return res, nil
}

// measure writes the global quality metrics of res.Output against res.Input
// when both clips have the same length.
func (p *Processor) measure(ctx context.Context, res *Result, opts Options) error {
	log := p.logger().With("input", res.Input, "output", res.Output)

	if res.ExitCode != 0 {
		res.MetricsSkipped = "encoder failed"
		log.Info("skipping metrics", "reason", res.MetricsSkipped)
		return nil
	}

	original, err := p.Encoder.Duration(ctx, res.Input)
	if err != nil {
		return err
	}
	converted, err := p.Encoder.Duration(ctx, res.Output)
	if err != nil {
		return err
	}
	if !ffmpeg.SameDuration(original, converted) {
		res.MetricsSkipped = "duration mismatch"
		log.Info("skipping metrics", "reason", res.MetricsSkipped, "original", original, "converted", converted)
		return nil
	}

	if err := p.Waiter.Wait(ctx, opts.MetricsGrace); err != nil {
		return err
	}
	fmt.Fprintf(p.stdout(), "Calculating quality metrics for %s...\n", res.Output)

	report, err := p.Encoder.QualityMetrics(ctx, res.Input, res.Output)
	if err != nil {
		return err
	}

	metricsPath := naming.MetricsPath(res.Output)
	if err := metrics.WriteGlobal(report, metricsPath); err != nil {
		fmt.Fprintln(p.stderr(), tui.Error(fmt.Sprintf("Failed to write metrics file.\nFile: %s\nError: %v", metricsPath, err), opts.Color))
		log.Error("metrics not written", "path", metricsPath, "error", err)
		res.MetricsSkipped = "unreadable report"
		return nil
	}
	res.MetricsPath = metricsPath
	log.Info("metrics written", "path", metricsPath)
	return nil
}

func (p *Processor) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, ffmpeg.ErrInterrupted) || errors.Is(err, context.Canceled) {
		return ErrInterrupted
	}
	return err
}

func (p *Processor) stdout() io.Writer {
	if p.Stdout != nil {
		return p.Stdout
	}
	return os.Stdout
}

func (p *Processor) stderr() io.Writer {
	if p.Stderr != nil {
		return p.Stderr
	}
	return os.Stderr
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
