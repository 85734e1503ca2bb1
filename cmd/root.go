package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X ffmpegfor/cmd.version=...".
var version = "dev"

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

type rootFlags struct {
	ffmpegOptions string
	interval      int
	outputExt     string
	calcMetrics   bool

	configPath string
	logFile    string
	verbose    bool
	report     bool
}

func newRootCommand(s streams) *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:   "ffmpeg-for [flags] <input>...",
		Short: "Encode videos in succession using ffmpeg",
		Long: "ffmpeg-for runs ffmpeg once per input file, one after another, writing\n" +
			"output-<name> next to each source. It can pause between files and\n" +
			"record ffmpeg-quality-metrics results for every encoded file.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return usageErrorf("requires at least 1 input file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, &flags, s)
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	f := rootCmd.Flags()
	f.StringVar(&flags.ffmpegOptions, "ffmpeg-options", "", "ffmpeg options, split like a shell command line")
	f.IntVar(&flags.interval, "interval", 0, "interval in seconds [0-3600] between files")
	f.StringVar(&flags.outputExt, "output-ext", "", "output extension, e.g. .mkv")
	f.BoolVar(&flags.calcMetrics, "calc-metrics", false, "compute quality metrics for each encoded file")
	f.StringVarP(&flags.configPath, "config", "c", "", "configuration file path")
	f.StringVar(&flags.logFile, "log-file", "", "write JSON diagnostics to this file")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "print diagnostics to stderr")
	f.BoolVar(&flags.report, "report", false, "print a per-file table when the batch finishes")

	rootCmd.SetIn(s.in)
	rootCmd.SetOut(s.out)
	rootCmd.SetErr(s.err)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	return rootCmd
}

// Execute runs the CLI and exits the process with its status code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, s streams) int {
	rootCmd := newRootCommand(s)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return exitCode(rootCmd, err, s)
}
