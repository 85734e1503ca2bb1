package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ffmpegfor/internal/config"
	"ffmpegfor/internal/ffmpeg"
	"ffmpegfor/internal/logging"
	"ffmpegfor/internal/naming"
	"ffmpegfor/internal/processor"
	"ffmpegfor/internal/shellwords"
	"ffmpegfor/internal/tui"
)

func runBatch(cmd *cobra.Command, args []string, flags *rootFlags, s streams) error {
	cfg, cfgPath, loaded, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	opts, err := buildOptions(cmd, flags, cfg)
	if err != nil {
		return err
	}

	logFile := cfg.Logging.File
	if cmd.Flags().Changed("log-file") {
		logFile = flags.logFile
	}
	log, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		File:    logFile,
		Verbose: flags.verbose,
		Stderr:  s.err,
	})
	if err != nil {
		return err
	}
	defer log.Close()

	if loaded {
		log.Debug("loaded config", "path", cfgPath)
	}
	log.Info("starting batch", "files", len(args), "interval", opts.Interval, "calc_metrics", opts.CalcMetrics)

	interactive := isTerminal(s.out)
	opts.Color = interactive && os.Getenv("NO_COLOR") == ""

	p := &processor.Processor{
		Encoder: &ffmpeg.Runner{
			FFmpeg:      cfg.Binaries.FFmpeg,
			FFprobe:     cfg.Binaries.FFprobe,
			MetricsTool: cfg.Binaries.QualityMetrics,
			Stdin:       s.in,
			Stdout:      s.out,
			Stderr:      s.err,
			Logger:      log.Logger,
		},
		Waiter: tui.Countdown{Out: s.out, Interactive: interactive, Color: opts.Color},
		Stdout: s.out,
		Stderr: s.err,
		Logger: log.Logger,
	}

	summary, results, err := p.Run(cmd.Context(), args, opts)
	log.Info("batch finished", "encoded", summary.Encoded(), "failed", summary.Errors, "total", summary.Total, "error", err)
	if err != nil {
		return err
	}

	if flags.report {
		fmt.Fprintln(s.out, tui.RenderReport(reportRows(results)))
	}
	return nil
}

// buildOptions merges explicitly set flags over config-file defaults.
func buildOptions(cmd *cobra.Command, flags *rootFlags, cfg *config.Config) (processor.Options, error) {
	changed := cmd.Flags().Changed
	opts := processor.Options{
		Interval:     cfg.Defaults.Interval,
		OutputExt:    cfg.Defaults.OutputExt,
		CalcMetrics:  cfg.Defaults.CalcMetrics,
		MetricsGrace: cfg.Defaults.MetricsGraceSeconds,
	}

	raw := cfg.Defaults.FFmpegOptions
	if changed("ffmpeg-options") {
		raw = flags.ffmpegOptions
	}
	tokens, err := shellwords.Split(raw)
	if err != nil {
		return opts, usageErrorf("invalid --ffmpeg-options %q: %w", raw, err)
	}
	opts.FFmpegOptions = tokens

	if changed("interval") {
		opts.Interval = flags.interval
	}
	if changed("output-ext") {
		opts.OutputExt = flags.outputExt
	}
	if changed("calc-metrics") {
		opts.CalcMetrics = flags.calcMetrics
	}
	opts.OutputExt = naming.NormalizeExt(opts.OutputExt)
	return opts, nil
}

func reportRows(results []processor.Result) []tui.ReportRow {
	rows := make([]tui.ReportRow, 0, len(results))
	for _, res := range results {
		row := tui.ReportRow{
			Input:   res.Input,
			Output:  res.Output,
			Status:  string(res.Status),
			Size:    res.OutputSize,
			Metrics: res.MetricsPath,
		}
		if res.Status == processor.StatusEncoded && res.ExitCode != 0 {
			row.Status = fmt.Sprintf("%s (exit %d)", res.Status, res.ExitCode)
		}
		if row.Metrics == "" && res.MetricsSkipped != "" {
			row.Metrics = "skipped: " + res.MetricsSkipped
		}
		rows = append(rows, row)
	}
	return rows
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
