package store

import (
	"strings"
	"unicode"
)

// Mixed-script tokenization. Browser titles routinely interleave CJK and
// Latin text ("React教程 - 入门"), so runs of each script are extracted
// independently instead of splitting on whitespace alone.

// maxRunSuffixes caps per-run suffix expansion for pathological CJK runs.
const maxRunSuffixes = 64

// IsCJK reports whether r belongs to a CJK script (Han, Hiragana,
// Katakana, or Hangul).
func IsCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}

// ContainsCJK reports whether s contains at least one CJK rune.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if IsCJK(r) {
			return true
		}
	}
	return false
}

// SplitRuns splits text into maximal CJK runs and Latin/digit runs.
// Everything else (whitespace, punctuation) separates runs.
func SplitRuns(text string) []string {
	var runs []string
	var current strings.Builder
	currentCJK := false

	flush := func() {
		if current.Len() > 0 {
			runs = append(runs, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case IsCJK(r):
			if !currentCJK {
				flush()
			}
			currentCJK = true
			current.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if currentCJK {
				flush()
			}
			currentCJK = false
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return runs
}

// Tokenize produces the lowercase index tokens for content.
// Latin runs shorter than 2 characters are dropped. A CJK run is expanded
// into its rune suffixes so that any in-run substring is reachable through
// forward (prefix) search: "机器学习" yields "机器学习", "器学习", "学习", "习".
func Tokenize(text string) []string {
	var tokens []string

	for _, run := range SplitRuns(text) {
		if ContainsCJK(run) {
			runes := []rune(run)
			n := len(runes)
			if n > maxRunSuffixes {
				n = maxRunSuffixes
			}
			for i := 0; i < n; i++ {
				tokens = append(tokens, string(runes[i:]))
			}
			continue
		}

		lower := strings.ToLower(run)
		if len(lower) >= 2 {
			tokens = append(tokens, lower)
		}
	}

	return tokens
}
