// Package shellwords splits a command-line string into words using POSIX
// shell quoting rules.
package shellwords

import (
	"errors"
	"strings"
)

var (
	ErrUnterminatedQuote = errors.New("no closing quotation")
	ErrTrailingEscape    = errors.New("no escaped character")
)

type state int

const (
	stateSpace state = iota
	stateWord
	stateSingle
	stateDouble
)

// Split tokenizes s. Whitespace separates words; single quotes preserve
// everything literally; inside double quotes a backslash only escapes '"' and
// '\'; outside quotes a backslash escapes any character. Adjacent quoted and
// unquoted runs join into one word, and "" yields an empty word.
func Split(s string) ([]string, error) {
	var (
		words []string
		buf   strings.Builder
		st    = stateSpace
	)
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch st {
		case stateSpace, stateWord:
			switch {
			case isSpace(r):
				if st == stateWord {
					words = append(words, buf.String())
					buf.Reset()
				}
				st = stateSpace
			case r == '\\':
				if i+1 >= len(runes) {
					return nil, ErrTrailingEscape
				}
				i++
				buf.WriteRune(runes[i])
				st = stateWord
			case r == '\'':
				st = stateSingle
			case r == '"':
				st = stateDouble
			default:
				buf.WriteRune(r)
				st = stateWord
			}
		case stateSingle:
			if r == '\'' {
				st = stateWord
				continue
			}
			buf.WriteRune(r)
		case stateDouble:
			switch r {
			case '"':
				st = stateWord
			case '\\':
				if i+1 >= len(runes) {
					return nil, ErrTrailingEscape
				}
				next := runes[i+1]
				if next == '"' || next == '\\' {
					i++
					buf.WriteRune(next)
					continue
				}
				buf.WriteRune(r)
			default:
				buf.WriteRune(r)
			}
		}
	}

	switch st {
	case stateSingle, stateDouble:
		return nil, ErrUnterminatedQuote
	case stateWord:
		words = append(words, buf.String())
	}
	return words, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
