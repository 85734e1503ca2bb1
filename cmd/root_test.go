package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const metricsReport = `{"vmaf":[{"n":1,"vmaf":99.2}],"global":{"vmaf":{"average":99.2,"min":97.0}}}`

type fakeTools struct {
	dir    string
	config string
}

// newFakeTools writes shell-script stand-ins for ffmpeg, ffprobe and
// ffmpeg-quality-metrics, plus a config file pointing at them.
func newFakeTools(t *testing.T, metricsOutput string) fakeTools {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	ffmpegBin := writeScript(t, dir, "ffmpeg", `in="$2"
for last; do :; done
cp "$in" "$last"`)
	ffprobeBin := writeScript(t, dir, "ffprobe", `echo 10.000000`)
	metricsFile := filepath.Join(dir, "metrics.out")
	if err := os.WriteFile(metricsFile, []byte(metricsOutput), 0o644); err != nil {
		t.Fatal(err)
	}
	metricsBin := writeScript(t, dir, "ffmpeg-quality-metrics", `cat "`+metricsFile+`"`)

	configPath := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`[binaries]
ffmpeg = %q
ffprobe = %q
quality_metrics = %q

[defaults]
metrics_grace_seconds = 0
`, ffmpegBin, ffprobeBin, metricsBin)
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return fakeTools{dir: dir, config: configPath}
}

func TestRunEndToEnd(t *testing.T) {
	tools := newFakeTools(t, metricsReport)
	videos := t.TempDir()
	a := writeInput(t, videos, "first.mp4")
	b := writeInput(t, videos, "second.mkv")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", tools.config, "--interval", "0", "--calc-metrics", a, b},
		streams{in: strings.NewReader(""), out: &stdout, err: &stderr})
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}

	for _, name := range []string{"output-first.mp4", "output-second.mkv"} {
		data, err := os.ReadFile(filepath.Join(videos, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if !strings.HasPrefix(string(data), "video ") {
			t.Fatalf("%s not copied from input: %q", name, data)
		}
	}

	wantMetrics := "{\n    \"vmaf\": {\n        \"average\": 99.2,\n        \"min\": 97.0\n    }\n}"
	for _, name := range []string{"output-first-metrics.txt", "output-second-metrics.txt"} {
		data, err := os.ReadFile(filepath.Join(videos, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if string(data) != wantMetrics {
			t.Fatalf("%s = %q, want %q", name, data, wantMetrics)
		}
	}

	out := stdout.String()
	if !strings.HasSuffix(out, "\n2 out of 2 files are encoded.\n") {
		t.Fatalf("unexpected final message:\n%s", out)
	}
	if strings.Contains(out, "Waiting") {
		t.Fatalf("interval 0 must not wait:\n%s", out)
	}
}

func TestRunOptionsAndExtensionOverride(t *testing.T) {
	tools := newFakeTools(t, metricsReport)
	argsFile := filepath.Join(tools.dir, "args.txt")
	ffmpegBin := writeScript(t, tools.dir, "ffmpeg-args", `for a; do printf '%s\n' "$a"; done > "`+argsFile+`"`)
	config := filepath.Join(tools.dir, "args.toml")
	if err := os.WriteFile(config, []byte(fmt.Sprintf("[binaries]\nffmpeg = %q\n", ffmpegBin)), 0o644); err != nil {
		t.Fatal(err)
	}

	videos := t.TempDir()
	a := writeInput(t, videos, "clip.mov")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-c", config, "--ffmpeg-options", `-c:v libx264 -vf "scale=1280:-2, fps=30"`, "--output-ext", "mkv", a},
		streams{in: strings.NewReader(""), out: &stdout, err: &stderr})
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{"-i", a, "-c:v", "libx264", "-vf", "scale=1280:-2, fps=30", filepath.Join(videos, "output-clip.mkv")}, "\n") + "\n"
	if string(data) != want {
		t.Fatalf("ffmpeg args:\n%s\nwant:\n%s", data, want)
	}
}

func TestRunInvalidFilesAreCounted(t *testing.T) {
	tools := newFakeTools(t, metricsReport)
	videos := t.TempDir()
	a := writeInput(t, videos, "a.webm")
	bad := writeInput(t, videos, "b.gif")
	missing := filepath.Join(videos, "c.mp4")

	var stdout bytes.Buffer
	code := run(context.Background(), []string{"--config", tools.config, a, bad, missing},
		streams{in: strings.NewReader(""), out: &stdout, err: &bytes.Buffer{}})
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}

	out := stdout.String()
	if !strings.Contains(out, "File "+bad+" is not a valid video file path.") {
		t.Fatalf("missing invalid notice:\n%s", out)
	}
	if !strings.HasSuffix(out, "\n1 out of 1 files are encoded. (2 files failed)\n") {
		t.Fatalf("unexpected final message:\n%s", out)
	}
}

func TestRunUnparseableMetrics(t *testing.T) {
	tools := newFakeTools(t, "ffmpeg-quality-metrics: error: no such file\n")
	videos := t.TempDir()
	a := writeInput(t, videos, "a.mp4")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", tools.config, "--calc-metrics", a},
		streams{in: strings.NewReader(""), out: &stdout, err: &stderr})
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	metricsPath := filepath.Join(videos, "output-a-metrics.txt")
	if _, err := os.Stat(metricsPath); !os.IsNotExist(err) {
		t.Fatalf("metrics file should not exist: %v", err)
	}
	if !strings.Contains(stderr.String(), "Failed to write metrics file.\nFile: "+metricsPath) {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestRunMetricsWithInfinitePSNR(t *testing.T) {
	tools := newFakeTools(t, `{"psnr":[{"n":1,"mse_avg":0.0,"psnr_avg":Infinity}],"global":{"psnr":{"psnr_avg":{"average":Infinity,"min":Infinity}}}}`)
	videos := t.TempDir()
	a := writeInput(t, videos, "a.mp4")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", tools.config, "--calc-metrics", a},
		streams{in: strings.NewReader(""), out: &stdout, err: &stderr})
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	data, err := os.ReadFile(filepath.Join(videos, "output-a-metrics.txt"))
	if err != nil {
		t.Fatalf("metrics file not written: %v (stderr %s)", err, stderr.String())
	}
	want := "{\n    \"psnr\": {\n        \"psnr_avg\": {\n            \"average\": Infinity,\n            \"min\": Infinity\n        }\n    }\n}"
	if string(data) != want {
		t.Fatalf("metrics = %q, want %q", data, want)
	}
}

func TestRunCollisionExhaustionExitsOne(t *testing.T) {
	tools := newFakeTools(t, metricsReport)
	videos := t.TempDir()
	a := writeInput(t, videos, "a.mp4")
	writeInput(t, videos, "output-a.mp4")
	for i := 2; i <= 100; i++ {
		writeInput(t, videos, fmt.Sprintf("output-a-%d.mp4", i))
	}

	var stdout bytes.Buffer
	code := run(context.Background(), []string{"--config", tools.config, a},
		streams{in: strings.NewReader(""), out: &stdout, err: &bytes.Buffer{}})
	if code != exitFailure {
		t.Fatalf("exit code = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stdout.String(), "Too many files with the same name") {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestRunInterruptedExits130(t *testing.T) {
	tools := newFakeTools(t, metricsReport)
	videos := t.TempDir()
	a := writeInput(t, videos, "a.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	code := run(ctx, []string{"--config", tools.config, a},
		streams{in: strings.NewReader(""), out: &stdout, err: &bytes.Buffer{}})
	if code != exitInterrupted {
		t.Fatalf("exit code = %d, want %d", code, exitInterrupted)
	}
	if !strings.Contains(stdout.String(), "Process interrupted by user.") {
		t.Fatalf("stdout = %q", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(videos, "output-a.mp4")); !os.IsNotExist(err) {
		t.Fatalf("no file should be encoded after interrupt: %v", err)
	}
}

func TestRunUsageErrors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cases := map[string][]string{
		"no inputs":      {},
		"unknown flag":   {"--speed", "3", "a.mp4"},
		"bad interval":   {"--interval", "soon", "a.mp4"},
		"unclosed quote": {"--ffmpeg-options", `-vf "scale`, "a.mp4"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			var stderr bytes.Buffer
			code := run(context.Background(), args, streams{in: strings.NewReader(""), out: &bytes.Buffer{}, err: &stderr})
			if code != exitUsage {
				t.Fatalf("exit code = %d, want %d (stderr %q)", code, exitUsage, stderr.String())
			}
			if !strings.Contains(stderr.String(), "Usage:") {
				t.Fatalf("expected usage text, got %q", stderr.String())
			}
		})
	}
}

func TestRunMissingConfigFails(t *testing.T) {
	var stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", filepath.Join(t.TempDir(), "nope.toml"), "a.mp4"},
		streams{in: strings.NewReader(""), out: &bytes.Buffer{}, err: &stderr})
	if code != exitFailure {
		t.Fatalf("exit code = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stderr.String(), "ffmpeg-for: stat config") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestRunReport(t *testing.T) {
	tools := newFakeTools(t, metricsReport)
	videos := t.TempDir()
	a := writeInput(t, videos, "a.mp4")

	var stdout bytes.Buffer
	code := run(context.Background(), []string{"--config", tools.config, "--report", a},
		streams{in: strings.NewReader(""), out: &stdout, err: &bytes.Buffer{}})
	if code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout.String(), "output-a.mp4") || !strings.Contains(stdout.String(), "encoded") {
		t.Fatalf("report missing:\n%s", stdout.String())
	}
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func writeInput(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("video "+name), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
