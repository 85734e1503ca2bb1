// Package naming derives non-clobbering output paths for encoded files.
package naming

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ffmpegfor/pkg/videoutil"
)

const (
	Prefix       = "output-"
	MaxStemRunes = 64
	MaxAttempts  = 100
)

var ErrTooManyCollisions = errors.New("too many files with the same name")

// OutputPath returns the first non-existing candidate of
//
//	<dir>/output-<stem>[-N]<ext>
//
// next to input, where stem is the first MaxStemRunes runes of the input
// basename without extension and N counts up from 2. ext is forcedExt when
// non-empty, otherwise the input's own extension. Nothing is created on disk.
func OutputPath(input, forcedExt string) (string, error) {
	dir := filepath.Dir(input)
	stem, ext := videoutil.SplitExt(filepath.Base(input))
	if forcedExt != "" {
		ext = NormalizeExt(forcedExt)
	}
	base := Prefix + truncateRunes(stem, MaxStemRunes)

	for count := 1; count <= MaxAttempts; count++ {
		name := base
		if count > 1 {
			name = fmt.Sprintf("%s-%d", base, count)
		}
		candidate := filepath.Join(dir, name+ext)
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: %w", filepath.Join(dir, base+ext), ErrTooManyCollisions)
}

func NormalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// MetricsPath returns the sibling metrics file for an encoded output.
func MetricsPath(output string) string {
	root, _ := videoutil.SplitExt(output)
	return root + "-metrics.txt"
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
