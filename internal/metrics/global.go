// Package metrics persists the aggregate section of a quality-metrics report.
package metrics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

const GlobalKey = "global"

// ErrNoGlobal is returned when a report has no "global" section.
var ErrNoGlobal = errors.New(`report has no "global" section`)

// nonFinite lists the bare tokens the metrics tool emits for values JSON
// cannot represent. Longest first so "-Infinity" wins over "Infinity".
var nonFinite = []string{"-Infinity", "Infinity", "NaN"}

const placeholderPrefix = `"\u0000nonfinite:`

// ExtractGlobal decodes report and returns its "global" value re-indented
// with four spaces. Key order and number formatting are preserved, and the
// Infinity, -Infinity and NaN tokens are accepted and written back bare.
func ExtractGlobal(report string) ([]byte, error) {
	data := quoteNonFinite(report)
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, err
	}
	global, ok := doc[GlobalKey]
	if !ok {
		return nil, ErrNoGlobal
	}
	var out bytes.Buffer
	if err := json.Indent(&out, global, "", "    "); err != nil {
		return nil, err
	}
	return []byte(unquoteNonFinite(out.String())), nil
}

// quoteNonFinite replaces non-finite tokens outside of strings with
// placeholder strings so the document decodes as JSON.
func quoteNonFinite(s string) string {
	var b strings.Builder
	inString, escaped := false, false
	for i := 0; i < len(s); {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			b.WriteByte(c)
			i++
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			i++
			continue
		}
		if tok := nonFiniteAt(s[i:]); tok != "" {
			b.WriteString(placeholderPrefix + tok + `"`)
			i += len(tok)
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

func nonFiniteAt(s string) string {
	for _, tok := range nonFinite {
		if strings.HasPrefix(s, tok) {
			return tok
		}
	}
	return ""
}

func unquoteNonFinite(s string) string {
	for _, tok := range nonFinite {
		s = strings.ReplaceAll(s, placeholderPrefix+tok+`"`, tok)
	}
	return s
}

func WriteGlobal(report, path string) error {
	global, err := ExtractGlobal(report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, global, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
