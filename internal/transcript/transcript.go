package transcript

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidWords = errors.New("invalid transcript words")

// single transcript word with timing; Ordinal is its position in the
// full transcript and is the unit the alignment cursor moves in
type Word struct {
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Ordinal int     `json:"ordinal"`
}

// builds ordered words from raw text/timing triples, skipping blank words
// and assigning ordinals by position
func NewWords(raw []Word) []Word {
	words := make([]Word, 0, len(raw))
	for _, w := range raw {
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		words = append(words, Word{
			Text:    text,
			Start:   w.Start,
			End:     w.End,
			Ordinal: len(words),
		})
	}
	return words
}

// checks the invariants the aligner relies on
func Validate(words []Word) error {
	for i, w := range words {
		if w.Ordinal != i {
			return fmt.Errorf(
				"%w: word %d has ordinal %d",
				ErrInvalidWords,
				i,
				w.Ordinal,
			)
		}
		if w.Start > w.End {
			return fmt.Errorf(
				"%w: word %d (%q) starts at %.3f after it ends at %.3f",
				ErrInvalidWords,
				i,
				w.Text,
				w.Start,
				w.End,
			)
		}
	}
	return nil
}

// full narration text, words joined by single spaces
func FullText(words []Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if text := strings.TrimSpace(w.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// shifts word timings by offset seconds, used when merging chunked
// transcriptions
func Offset(words []Word, offset float64) []Word {
	shifted := make([]Word, len(words))
	for i, w := range words {
		w.Start += offset
		w.End += offset
		shifted[i] = w
	}
	return shifted
}
