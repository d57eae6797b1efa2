package transcribe

import (
	"testing"
)

func TestExtractWords(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name: "plain valid array",
			input: `[
				{"word": "Hello", "start": 0.0, "end": 0.5},
				{"word": "world", "start": 0.5, "end": 1.0}
			]`,
			wantCount: 2,
		},
		{
			name: "preamble and trailing text",
			input: `Here is your transcript:
			[{"word": "Test", "start": 1.0, "end": 1.3}]
			That's all!`,
			wantCount: 1,
		},
		{
			name:      "code fenced JSON",
			input:     "```json\n[{\"word\": \"Fenced\", \"start\": 0, \"end\": 0.4}]\n```",
			wantCount: 1,
		},
		{
			name:      "text key instead of word",
			input:     `[{"text": "Alias", "start": 0, "end": 0.4}]`,
			wantCount: 1,
		},
		{
			name:      "wrapper object with words key",
			input:     `{"words": [{"word": "Wrapped", "start": 0, "end": 0.4}]}`,
			wantCount: 1,
		},
		{
			name: "nested wrapper object",
			input: `{"response": {"words": [
				{"word": "Nested", "start": 0, "end": 0.4},
				{"word": "deeply", "start": 0.4, "end": 0.9}
			]}}`,
			wantCount: 2,
		},
		{
			name: "unrelated array first",
			input: `[1, 2, 3]
			[{"word": "Actual", "start": 0, "end": 0.4}]`,
			wantCount: 1,
		},
		{
			name:    "empty array",
			input:   `[]`,
			wantErr: true,
		},
		{
			name:    "only blank words",
			input:   `[{"word": " ", "start": 0, "end": 0}]`,
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   `This is just plain text with no JSON content.`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			input:   `[{"word": "incomplete", "start": 0.0`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, err := extractWords(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(words) != tt.wantCount {
				t.Errorf("got %d words, want %d", len(words), tt.wantCount)
			}
			for i, w := range words {
				if w.Ordinal != i {
					t.Errorf("word %d has ordinal %d", i, w.Ordinal)
				}
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON",
			input: `[{"word": "hello"}]`,
			want:  `[{"word": "hello"}]`,
		},
		{
			name:  "json code fence",
			input: "```json\n[{\"word\": \"hello\"}]\n```",
			want:  `[{"word": "hello"}]`,
		},
		{
			name:  "plain code fence",
			input: "```\n[{\"word\": \"hello\"}]\n```",
			want:  `[{"word": "hello"}]`,
		},
		{
			name:  "with leading/trailing whitespace",
			input: "  \n\n```json\n[{\"start\": 0}]\n```\n\n  ",
			want:  `[{"start": 0}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}
