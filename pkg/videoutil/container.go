package videoutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies a supported video container by file extension.
type Kind int

const (
	KindUnknown Kind = iota
	KindAVI
	KindFLV
	KindM4V
	KindMKV
	KindMOV
	KindMP4
	KindWebM
)

func (k Kind) String() string {
	switch k {
	case KindAVI:
		return "avi"
	case KindFLV:
		return "flv"
	case KindM4V:
		return "m4v"
	case KindMKV:
		return "mkv"
	case KindMOV:
		return "mov"
	case KindMP4:
		return "mp4"
	case KindWebM:
		return "webm"
	default:
		return "unknown"
	}
}

var extKinds = map[string]Kind{
	".avi":  KindAVI,
	".flv":  KindFLV,
	".m4v":  KindM4V,
	".mkv":  KindMKV,
	".mov":  KindMOV,
	".mp4":  KindMP4,
	".webm": KindWebM,
}

func DetectExt(path string) Kind {
	_, ext := SplitExt(path)
	if kind, ok := extKinds[strings.ToLower(ext)]; ok {
		return kind
	}
	return KindUnknown
}

// IsValidVideoFile reports whether path has an allowed video extension and
// names an existing regular file. Symlinks are followed.
func IsValidVideoFile(path string) bool {
	if DetectExt(path) == KindUnknown {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// SplitExt splits path into root and extension so that root+ext == path.
// Leading dots of the final element are not treated as an extension
// separator, so ".mp4" and "dir/..mkv" have no extension.
func SplitExt(path string) (root, ext string) {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return path, ""
	}
	trimmed := strings.TrimLeft(base, ".")
	idx := strings.LastIndex(trimmed, ".")
	if idx < 0 {
		return path, ""
	}
	ext = trimmed[idx:]
	return path[:len(path)-len(ext)], ext
}
