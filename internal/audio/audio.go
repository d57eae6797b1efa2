package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/sync/errgroup"

	ffmpegbin "github.com/mgpai22/moodboard/internal/ffmpeg"
)

// audio chunk info
type ChunkInfo struct {
	Path      string
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
}

// settings for audio compression
type CompressionOptions struct {
	Format     string // output format (mp3, aac, wav)
	SampleRate int    // sample rate in Hz
	Channels   int    // number of channels (1=mono, 2=stereo)
	Bitrate    string // bitrate for lossy formats (e.g., "64k")
}

// defaults for transcription uploads
func DefaultCompressionOptions() CompressionOptions {
	return CompressionOptions{
		Format:     "mp3",
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "64k",
	}
}

// editing-quality PCM used when audio is pulled out of a video
func EditingAudioOptions() CompressionOptions {
	return CompressionOptions{
		Format:     "wav",
		SampleRate: 48000,
		Channels:   2,
	}
}

// SilenceOptions controls silence trimming. Pauses longer than MinSilence
// and quieter than ThresholdDB are cut down to KeepSilence.
type SilenceOptions struct {
	ThresholdDB float64
	MinSilence  time.Duration
	KeepSilence time.Duration
}

func DefaultSilenceOptions() SilenceOptions {
	return SilenceOptions{
		ThresholdDB: -40,
		MinSilence:  500 * time.Millisecond,
		KeepSilence: 100 * time.Millisecond,
	}
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// duration of an audio/video file
func GetDuration(filePath string) (time.Duration, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", filePath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeDuration(out.Bytes())
}

func parseProbeDuration(data []byte) (time.Duration, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var seconds float64
	if _, err := fmt.Sscanf(probe.Format.Duration, "%f", &seconds); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

func codecArgs(opts CompressionOptions) ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"vn": "",
		"y":  "",
	}
	if opts.SampleRate > 0 {
		kwargs["ar"] = opts.SampleRate
	}
	if opts.Channels > 0 {
		kwargs["ac"] = opts.Channels
	}

	switch opts.Format {
	case "aac":
		kwargs["acodec"] = "aac"
	case "flac":
		kwargs["acodec"] = "flac"
	case "wav":
		kwargs["acodec"] = "pcm_s16le"
	default:
		kwargs["acodec"] = "libmp3lame"
	}

	if opts.Bitrate != "" && (opts.Format == "mp3" || opts.Format == "aac" || opts.Format == "") {
		kwargs["b:a"] = opts.Bitrate
	}

	return kwargs
}

// re-encodes an audio or video file's audio stream with the given options
func CompressAudio(
	ctx context.Context,
	inputPath, outputPath string,
	opts CompressionOptions,
) error {
	return transcode(ctx, inputPath, outputPath, codecArgs(opts), "compression")
}

// extracts the audio track of a video file
func ExtractAudio(
	ctx context.Context,
	videoPath, outputPath string,
	opts CompressionOptions,
) error {
	return transcode(ctx, videoPath, outputPath, codecArgs(opts), "audio extraction")
}

// silenceFilter builds the silenceremove expression that drops every pause
// longer than MinSilence while keeping KeepSilence of it.
func silenceFilter(opts SilenceOptions) string {
	return fmt.Sprintf(
		"silenceremove=start_periods=1:start_duration=0:start_threshold=%gdB:start_silence=%.3f:"+
			"stop_periods=-1:stop_duration=%.3f:stop_threshold=%gdB:stop_silence=%.3f",
		opts.ThresholdDB,
		opts.KeepSilence.Seconds(),
		opts.MinSilence.Seconds(),
		opts.ThresholdDB,
		opts.KeepSilence.Seconds(),
	)
}

// removes long pauses; the output keeps the input's container format
func TrimSilence(
	ctx context.Context,
	inputPath, outputPath string,
	opts SilenceOptions,
) error {
	kwargs := ffmpeg.KwArgs{
		"af": silenceFilter(opts),
		"vn": "",
		"y":  "",
	}
	return transcode(ctx, inputPath, outputPath, kwargs, "silence trimming")
}

func transcode(
	ctx context.Context,
	inputPath, outputPath string,
	kwargs ffmpeg.KwArgs,
	step string,
) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	err = ffmpeg.Input(inputPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("%s failed: %w", step, err)
	}

	return nil
}

// chunkPlan splits total into consecutive windows of at most chunk.
func chunkPlan(total, chunk time.Duration) [][2]time.Duration {
	if chunk <= 0 || total <= 0 {
		return nil
	}
	var plan [][2]time.Duration
	for start := time.Duration(0); start < total; start += chunk {
		end := start + chunk
		if end > total {
			end = total
		}
		plan = append(plan, [2]time.Duration{start, end})
	}
	return plan
}

// splits an audio file into chunks of the given duration. Concurrency of 0
// or less defaults to 10 concurrent ffmpeg processes.
func ChunkAudio(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
	concurrency int,
) ([]ChunkInfo, error) {
	if chunkDuration <= 0 {
		return nil, fmt.Errorf(
			"chunk duration must be positive, got %v",
			chunkDuration,
		)
	}

	if concurrency <= 0 {
		concurrency = 10
	}

	totalDuration, err := GetDuration(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(audioPath)
	baseName := strings.TrimSuffix(filepath.Base(audioPath), ext)

	plan := chunkPlan(totalDuration, chunkDuration)
	chunks := make([]ChunkInfo, len(plan))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, window := range plan {
		chunks[i] = ChunkInfo{
			Path:      filepath.Join(outputDir, fmt.Sprintf("%s_chunk_%03d%s", baseName, i, ext)),
			Index:     i,
			StartTime: window[0],
			EndTime:   window[1],
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			kwargs := ffmpeg.KwArgs{
				"ss": window[0].Seconds(),
				"t":  (window[1] - window[0]).Seconds(),
				"y":  "",
				"c":  "copy",
			}

			err := ffmpeg.Input(audioPath).
				Output(chunks[i].Path, kwargs).
				OverWriteOutput().
				SetFfmpegPath(ffmpegPath).
				Run()
			if err != nil {
				return fmt.Errorf("failed to create chunk %d: %w", i, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return chunks, nil
}

// copies a file, creating the destination directory
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".wmv":  true,
		".flv":  true,
		".webm": true,
		".m4v":  true,
		".mpeg": true,
		".mpg":  true,
		".3gp":  true,
	}
	return videoExts[ext]
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	audioExts := map[string]bool{
		".mp3":  true,
		".wav":  true,
		".aac":  true,
		".flac": true,
		".ogg":  true,
		".m4a":  true,
		".wma":  true,
		".aiff": true,
	}
	return audioExts[ext]
}

// checks if the file is either audio or video
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}

// removes all chunk files
func CleanupChunks(chunks []ChunkInfo) error {
	var lastErr error
	for _, chunk := range chunks {
		if err := os.Remove(chunk.Path); err != nil && !os.IsNotExist(err) {
			lastErr = err
		}
	}
	return lastErr
}
