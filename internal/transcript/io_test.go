package transcript

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis", "transcript_words.json")
	words := NewWords([]Word{
		{Text: "hello", Start: 0, End: 0.4},
		{Text: "world", Start: 0.5, End: 1.1},
	})

	if err := SaveWords(path, words); err != nil {
		t.Fatalf("SaveWords failed: %v", err)
	}
	loaded, err := LoadWords(path)
	if err != nil {
		t.Fatalf("LoadWords failed: %v", err)
	}
	if len(loaded) != 2 || loaded[1].Text != "world" || loaded[1].Ordinal != 1 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadWordsBareArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	data := `[{"text": "a", "start": 0, "end": 0.2}, {"text": "b", "start": 0.2, "end": 0.5}]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("LoadWords failed: %v", err)
	}
	if len(words) != 2 || words[0].Ordinal != 0 || words[1].Ordinal != 1 {
		t.Errorf("ordinals not assigned: %+v", words)
	}
}

func TestLoadWordsRejectsInvertedTiming(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	data := `{"words": [{"text": "late", "start": 2, "end": 1}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadWords(path); !errors.Is(err, ErrInvalidWords) {
		t.Fatalf("expected ErrInvalidWords, got %v", err)
	}
}
