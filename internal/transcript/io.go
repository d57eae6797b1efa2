package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type wordsFile struct {
	Words []Word `json:"words"`
}

// SaveWords writes words as {"words": [...]}.
func SaveWords(path string, words []Word) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create transcript directory: %w", err)
	}
	data, err := json.MarshalIndent(wordsFile{Words: words}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode words: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadWords reads a word list saved by SaveWords or a bare JSON array of
// words. Ordinals are reassigned and the result is validated.
func LoadWords(path string) ([]Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read words: %w", err)
	}

	var raw []Word
	var file wordsFile
	if err := json.Unmarshal(data, &file); err == nil && file.Words != nil {
		raw = file.Words
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse words %s: %w", path, err)
	}

	words := NewWords(raw)
	if err := Validate(words); err != nil {
		return nil, err
	}
	return words, nil
}
