package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/mgpai22/moodboard/internal/align"
	"github.com/mgpai22/moodboard/internal/enrich"
	"github.com/mgpai22/moodboard/internal/oracle"
)

// Alignment tunes the fuzzy sequence aligner.
type Alignment struct {
	Threshold       float64 `toml:"threshold"`
	EarlyExit       float64 `toml:"early_exit"`
	FuzzyCutoff     float64 `toml:"fuzzy_cutoff"`
	FuzzyCandidates int     `toml:"fuzzy_candidates"`
	FuzzyWindow     int     `toml:"fuzzy_window"`
}

type Enrichment struct {
	BatchSize   int `toml:"batch_size"`
	Concurrency int `toml:"concurrency"`
}

// Oracle configures the language model used for analysis, segmentation and
// enrichment.
type Oracle struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	APIKey            string  `toml:"api_key"`
	Temperature       float64 `toml:"temperature"`
	MaxRetries        int     `toml:"max_retries"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerMinute int     `toml:"requests_per_minute"`
}

type Transcription struct {
	Provider     string `toml:"provider"`
	Model        string `toml:"model"`
	APIKey       string `toml:"api_key"`
	Language     string `toml:"language"`
	ChunkMinutes int    `toml:"chunk_minutes"`
	Concurrency  int    `toml:"concurrency"`
}

type Audio struct {
	TrimSilence        bool    `toml:"trim_silence"`
	SilenceThresholdDB float64 `toml:"silence_threshold_db"`
	MinSilenceMS       int     `toml:"min_silence_ms"`
	KeepSilenceMS      int     `toml:"keep_silence_ms"`
}

type Render struct {
	FPS  int  `toml:"fps"`
	NTSC bool `toml:"ntsc"`
}

type Output struct {
	Dir string `toml:"dir"`
}

// Config is the full moodboard configuration.
type Config struct {
	Alignment     Alignment     `toml:"alignment"`
	Enrichment    Enrichment    `toml:"enrichment"`
	Oracle        Oracle        `toml:"oracle"`
	Transcription Transcription `toml:"transcription"`
	Audio         Audio         `toml:"audio"`
	Render        Render        `toml:"render"`
	Output        Output        `toml:"output"`
}

func Default() Config {
	return Config{
		Alignment: Alignment{
			Threshold:       align.DefaultThreshold,
			EarlyExit:       align.DefaultEarlyExit,
			FuzzyCutoff:     align.DefaultFuzzyCutoff,
			FuzzyCandidates: align.DefaultFuzzyCandidates,
			FuzzyWindow:     align.DefaultFuzzyWindow,
		},
		Enrichment: Enrichment{
			BatchSize: enrich.DefaultBatchSize,
		},
		Oracle: Oracle{
			Provider:       string(oracle.ProviderOpenAI),
			MaxRetries:     2,
			TimeoutSeconds: 300,
		},
		Transcription: Transcription{
			Provider:     "openai",
			ChunkMinutes: 10,
			Concurrency:  3,
		},
		Audio: Audio{
			TrimSilence:        true,
			SilenceThresholdDB: -40,
			MinSilenceMS:       500,
			KeepSilenceMS:      100,
		},
		Render: Render{
			FPS:  30,
			NTSC: true,
		},
		Output: Output{
			Dir: "moodboard_projects",
		},
	}
}

func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/moodboard/config.toml")
}

// Load reads environment overrides from .env (if present), then the TOML
// file at path or the default locations, and validates the result. It
// returns the resolved path and whether a file was found.
func Load(path string) (*Config, string, bool, error) {
	if err := loadDotEnv(); err != nil {
		return nil, "", false, err
	}

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv loads ./.env without overriding variables already set.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat .env: %w", err)
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file not found: %s", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("moodboard.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() {
	c.Oracle.Provider = strings.ToLower(strings.TrimSpace(c.Oracle.Provider))
	c.Transcription.Provider = strings.ToLower(strings.TrimSpace(c.Transcription.Provider))

	if c.Oracle.APIKey == "" {
		c.Oracle.APIKey = APIKeyFromEnv(c.Oracle.Provider)
	}
	if c.Transcription.APIKey == "" {
		c.Transcription.APIKey = APIKeyFromEnv(c.Transcription.Provider)
	}

	if c.Output.Dir != "" {
		if expanded, err := expandPath(c.Output.Dir); err == nil {
			c.Output.Dir = expanded
		}
	}
}

// APIKeyFromEnv returns the conventional API key variable for a provider.
func APIKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "gemini":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	default:
		return ""
	}
}

// Validate ensures the configuration is usable. API keys are checked when
// the clients are built, so offline commands work without them.
func (c *Config) Validate() error {
	a := c.Alignment
	if a.Threshold < 0 || a.Threshold > 100 {
		return errors.New("alignment.threshold must be between 0 and 100")
	}
	if a.EarlyExit < 0 || a.EarlyExit > 100 {
		return errors.New("alignment.early_exit must be between 0 and 100")
	}
	if a.FuzzyCutoff < 0 || a.FuzzyCutoff > 100 {
		return errors.New("alignment.fuzzy_cutoff must be between 0 and 100")
	}
	if a.FuzzyCandidates < 1 {
		return errors.New("alignment.fuzzy_candidates must be at least 1")
	}
	if a.FuzzyWindow < 0 {
		return errors.New("alignment.fuzzy_window must not be negative")
	}

	if c.Enrichment.BatchSize < 1 {
		return errors.New("enrichment.batch_size must be at least 1")
	}
	if c.Enrichment.Concurrency < 0 {
		return errors.New("enrichment.concurrency must not be negative")
	}

	switch oracle.Provider(c.Oracle.Provider) {
	case oracle.ProviderOpenAI, oracle.ProviderAnthropic, oracle.ProviderGemini:
	default:
		return fmt.Errorf("oracle.provider: unsupported value %q", c.Oracle.Provider)
	}
	if c.Oracle.MaxRetries < 0 || c.Oracle.TimeoutSeconds < 0 || c.Oracle.RequestsPerMinute < 0 {
		return errors.New("oracle retry, timeout and rate settings must not be negative")
	}

	switch c.Transcription.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("transcription.provider: unsupported value %q", c.Transcription.Provider)
	}
	if c.Transcription.ChunkMinutes < 0 || c.Transcription.Concurrency < 0 {
		return errors.New("transcription chunk and concurrency settings must not be negative")
	}

	if c.Render.FPS < 1 {
		return errors.New("render.fps must be at least 1")
	}
	if c.Audio.MinSilenceMS < 0 || c.Audio.KeepSilenceMS < 0 {
		return errors.New("audio silence durations must not be negative")
	}
	return nil
}

func (c *Config) AlignOptions() align.Options {
	return align.Options{
		Threshold:       c.Alignment.Threshold,
		EarlyExit:       c.Alignment.EarlyExit,
		FuzzyCutoff:     c.Alignment.FuzzyCutoff,
		FuzzyCandidates: c.Alignment.FuzzyCandidates,
		FuzzyWindow:     c.Alignment.FuzzyWindow,
	}
}

func (c *Config) EnrichOptions() enrich.Options {
	return enrich.Options{
		BatchSize:   c.Enrichment.BatchSize,
		Concurrency: c.Enrichment.Concurrency,
	}
}

func (c *Config) OracleOptions() oracle.Options {
	return oracle.Options{
		Model:       c.Oracle.Model,
		Temperature: c.Oracle.Temperature,
		MaxRetries:  c.Oracle.MaxRetries,
		Timeout:     time.Duration(c.Oracle.TimeoutSeconds) * time.Second,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return "", nil
	}
	if pathValue == "~" || strings.HasPrefix(pathValue, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		pathValue = filepath.Join(home, strings.TrimPrefix(pathValue, "~"))
	}
	return filepath.Abs(pathValue)
}
