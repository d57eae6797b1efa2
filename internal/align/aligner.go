package align

import (
	"fmt"
	"sort"

	"github.com/mgpai22/moodboard/internal/transcript"
)

const (
	DefaultThreshold       = 70.0
	DefaultEarlyExit       = 95.0
	DefaultFuzzyCutoff     = 80.0
	DefaultFuzzyCandidates = 3
	DefaultFuzzyWindow     = 500
)

// Options tunes the aligner. Scores are on the 0-100 similarity scale.
type Options struct {
	// a window is accepted only when its score is strictly above Threshold
	Threshold float64
	// candidate evaluation stops at the first window scoring above EarlyExit
	EarlyExit float64
	// fuzzy start candidates must score strictly above FuzzyCutoff
	FuzzyCutoff float64
	// at most this many fuzzy start candidates are kept
	FuzzyCandidates int
	// number of words scanned from the cursor by the fuzzy fallback;
	// zero or negative scans to the end of the transcript
	FuzzyWindow int
}

func DefaultOptions() Options {
	return Options{
		Threshold:       DefaultThreshold,
		EarlyExit:       DefaultEarlyExit,
		FuzzyCutoff:     DefaultFuzzyCutoff,
		FuzzyCandidates: DefaultFuzzyCandidates,
		FuzzyWindow:     DefaultFuzzyWindow,
	}
}

// Match is the best window found for a phrase. On a miss only Confidence is
// set, holding the best score seen.
type Match struct {
	Start      float64
	End        float64
	Confidence float64
	FirstWord  int
	LastWord   int
}

// Aligner finds phrases in a fixed, already materialized word sequence.
type Aligner struct {
	words      []transcript.Word
	normalized []string
	index      transcript.Index
	opts       Options
}

func NewAligner(words []transcript.Word, opts Options) (*Aligner, error) {
	if err := transcript.Validate(words); err != nil {
		return nil, err
	}
	if opts.FuzzyCandidates < 0 {
		return nil, fmt.Errorf("fuzzy candidates must not be negative, got %d", opts.FuzzyCandidates)
	}

	normalized := make([]string, len(words))
	for i, w := range words {
		normalized[i] = transcript.Normalize(w.Text)
	}

	return &Aligner{
		words:      words,
		normalized: normalized,
		index:      transcript.BuildIndex(words),
		opts:       opts,
	}, nil
}

func (a *Aligner) Words() []transcript.Word {
	return a.words
}

// Align finds the best-scoring window of len(tokens) words starting at or
// after cursor. It reports false when no window scores above the threshold.
func (a *Aligner) Align(phrase string, cursor int) (Match, bool) {
	tokens := transcript.Tokenize(phrase)
	if len(tokens) == 0 {
		return Match{}, false
	}
	if cursor < 0 {
		cursor = 0
	}

	bestScore := -1.0
	bestStart := -1
	for _, start := range a.startCandidates(tokens[0], cursor) {
		if start+len(tokens) > len(a.words) {
			continue
		}

		score := a.windowScore(tokens, start)
		if score > bestScore {
			bestScore = score
			bestStart = start
		}
		if score > a.opts.EarlyExit {
			break
		}
	}

	if bestStart < 0 {
		return Match{}, false
	}
	if bestScore <= a.opts.Threshold {
		return Match{Confidence: bestScore}, false
	}

	last := bestStart + len(tokens) - 1
	return Match{
		Start:      a.words[bestStart].Start,
		End:        a.words[last].End,
		Confidence: bestScore,
		FirstWord:  bestStart,
		LastWord:   last,
	}, true
}

// startCandidates returns ordinals where a window may begin: exact
// occurrences of the first token at or after cursor, or failing that the
// closest fuzzy matches within the search window, best first.
func (a *Aligner) startCandidates(first string, cursor int) []int {
	if exact := a.index.Lookup(first, cursor); len(exact) > 0 {
		ordinals := make([]int, len(exact))
		for i, w := range exact {
			ordinals[i] = w.Ordinal
		}
		return ordinals
	}

	limit := len(a.words)
	if a.opts.FuzzyWindow > 0 && cursor+a.opts.FuzzyWindow < limit {
		limit = cursor + a.opts.FuzzyWindow
	}

	type scored struct {
		ordinal int
		score   float64
	}
	var fuzzy []scored
	for i := cursor; i < limit; i++ {
		score := ratio(first, a.normalized[i])
		if score > a.opts.FuzzyCutoff {
			fuzzy = append(fuzzy, scored{ordinal: i, score: score})
		}
	}

	sort.SliceStable(fuzzy, func(i, j int) bool {
		return fuzzy[i].score > fuzzy[j].score
	})
	if len(fuzzy) > a.opts.FuzzyCandidates {
		fuzzy = fuzzy[:a.opts.FuzzyCandidates]
	}

	ordinals := make([]int, len(fuzzy))
	for i, f := range fuzzy {
		ordinals[i] = f.ordinal
	}
	return ordinals
}

// mean per-token similarity of tokens against the window at start
func (a *Aligner) windowScore(tokens []string, start int) float64 {
	var total float64
	for i, token := range tokens {
		total += ratio(token, a.normalized[start+i])
	}
	return total / float64(len(tokens))
}

// nextCursor returns the first ordinal at or after cursor whose word ends
// after end, or cursor+1 when there is none.
func (a *Aligner) nextCursor(cursor int, end float64) int {
	for i := cursor; i < len(a.words); i++ {
		if a.words[i].End > end {
			return i
		}
	}
	return cursor + 1
}
