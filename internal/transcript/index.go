package transcript

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, removes punctuation and symbol runes and collapses
// whitespace. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = norm.NFC.String(s)
	// a Caser keeps state between calls and is not safe to share
	s = cases.Lower(language.Und).String(s)

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		if unicode.IsSpace(r) {
			r = ' '
		}
		sb.WriteRune(r)
	}

	return norm.NFC.String(strings.Join(strings.Fields(sb.String()), " "))
}

// splits a phrase on whitespace and normalizes every token
func Tokenize(phrase string) []string {
	fields := strings.Fields(phrase)
	tokens := make([]string, len(fields))
	for i, f := range fields {
		tokens[i] = Normalize(f)
	}
	return tokens
}

// Index maps normalized word text to its occurrences, in ordinal order.
type Index map[string][]Word

// BuildIndex groups words by their normalized text.
func BuildIndex(words []Word) Index {
	index := make(Index)
	for _, w := range words {
		key := Normalize(w.Text)
		index[key] = append(index[key], w)
	}
	return index
}

// Lookup returns occurrences of token (already normalized) whose ordinal is
// at or after cursor.
func (ix Index) Lookup(token string, cursor int) []Word {
	occurrences := ix[token]
	for i, w := range occurrences {
		if w.Ordinal >= cursor {
			return occurrences[i:]
		}
	}
	return nil
}
