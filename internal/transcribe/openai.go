package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mgpai22/moodboard/internal/audio"
	"github.com/mgpai22/moodboard/internal/transcript"
)

// implements Transcriber using the OpenAI audio API with word timestamps
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

// word from the whisper verbose_json response
type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string        `json:"text"`
	Words    []whisperWord `json:"words"`
	Language string        `json:"language"`
	Duration float64       `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word"},
	}

	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}

	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	result, err := parseVerboseWords(resp.RawJSON())
	if err != nil {
		return nil, err
	}

	if result.Duration == 0 {
		result.Duration, _ = audio.GetDuration(audioPath)
	}
	if result.Language == "" {
		result.Language = t.options.Language
	}

	return result, nil
}

func parseVerboseWords(rawJSON string) (*Result, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var verboseResp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verboseResp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(verboseResp.Words) == 0 {
		if verboseResp.Text == "" {
			return nil, fmt.Errorf("no words or text in response")
		}
		return nil, fmt.Errorf("response has text but no word timestamps")
	}

	raw := make([]transcript.Word, len(verboseResp.Words))
	for i, w := range verboseResp.Words {
		raw[i] = transcript.Word{Text: w.Word, Start: w.Start, End: w.End}
	}

	return &Result{
		Words:    transcript.NewWords(raw),
		Language: verboseResp.Language,
		Duration: secondsToDuration(verboseResp.Duration),
	}, nil
}
