// Package validation provides pure format checks for words, guesses and
// clues. It holds no state and touches no storage.
package validation

import (
	"strings"
	"unicode"

	"github.com/signullgame/signull/internal/model"
)

const (
	MinWordLength = 2
	MaxWordLength = 32
	// MinStrictWordLength applies when a room enables strict word validation
	MinStrictWordLength = 3
	MaxClueLength       = 140
)

// Normalize upper-cases and trims a word or guess for comparison and storage
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Word checks that a word is well-formed. In strict mode only plain A-Z
// words of at least MinStrictWordLength are accepted; otherwise any unicode
// letters are fine.
func Word(word string, strict bool) error {
	w := Normalize(word)
	if w == "" {
		return model.ErrInvalidWord
	}

	runes := []rune(w)
	minLen := MinWordLength
	if strict {
		minLen = MinStrictWordLength
	}
	if len(runes) < minLen || len(runes) > MaxWordLength {
		return model.ErrInvalidWord
	}

	for _, r := range runes {
		if strict {
			if r < 'A' || r > 'Z' {
				return model.ErrInvalidWord
			}
		} else if !unicode.IsLetter(r) {
			return model.ErrInvalidWord
		}
	}
	return nil
}

// Guess checks that a guess is well-formed. Guesses are always validated
// loosely; strictness applies to the words being set, not to attempts.
func Guess(guess string) error {
	if err := Word(guess, false); err != nil {
		return model.ErrInvalidGuess
	}
	return nil
}

// Clue checks that a clue is non-empty and within the length limit.
// Clue content is not semantically validated.
func Clue(clue string) error {
	c := strings.TrimSpace(clue)
	if c == "" || len([]rune(c)) > MaxClueLength {
		return model.ErrInvalidClue
	}
	return nil
}

// Matches reports whether a guess matches a target word. Comparison is
// case-insensitive exact string equality after trimming.
func Matches(target, guess string) bool {
	return strings.EqualFold(strings.TrimSpace(target), strings.TrimSpace(guess))
}
