package utils

import (
	"strings"
	"unicode"
)

// Heuristic content-quality screen for blog titles and bodies. This is a
// best-effort filter against keyboard mashing, not a security boundary.

const (
	repeatRunLimit     = 5
	keyboardRunLimit   = 6
	consonantTokenSize = 8
)

var keyboardRows = []string{
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
	"1234567890",
}

// IsGibberish reports whether the text trips any of the heuristics:
// a run of the same character, a run lifted straight off a keyboard row,
// or a long token with no vowels at all.
func IsGibberish(text string) bool {
	lower := strings.ToLower(text)
	if hasRepeatedRun(lower, repeatRunLimit) {
		return true
	}
	if hasKeyboardRun(lower, keyboardRunLimit) {
		return true
	}
	return hasConsonantToken(lower, consonantTokenSize)
}

func hasRepeatedRun(text string, limit int) bool {
	run := 0
	var prev rune
	for i, r := range text {
		if i > 0 && r == prev {
			run++
			if run+1 >= limit {
				return true
			}
		} else {
			run = 0
		}
		prev = r
	}
	return false
}

func hasKeyboardRun(text string, limit int) bool {
	for _, row := range keyboardRows {
		for i := 0; i+limit <= len(row); i++ {
			if strings.Contains(text, row[i:i+limit]) {
				return true
			}
		}
	}
	return false
}

func hasConsonantToken(text string, size int) bool {
	for _, token := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if len(token) >= size && !strings.ContainsAny(token, "aeiouy") {
			return true
		}
	}
	return false
}
