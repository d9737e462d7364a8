package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"clipforge/internal/captions"
)

const defaultPollInterval = 200 * time.Millisecond

// WhisperCLI transcribes by running the whisper command-line tool with
// JSON output and word-level timestamps.
type WhisperCLI struct {
	// Bin is the executable name, "whisper" if empty.
	Bin string
	// Model is the whisper model name, "base" if empty.
	Model string
	// Language forces a recognition language; empty means auto-detect.
	Language string
	// PollInterval bounds how often the cancellation token is checked
	// while the process runs.
	PollInterval time.Duration
	Logger       *slog.Logger
}

// whisperDoc mirrors the JSON the whisper CLI writes.
type whisperDoc struct {
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
		Words []struct {
			Word  string  `json:"word"`
			Start float64 `json:"start"`
			End   float64 `json:"end"`
		} `json:"words"`
	} `json:"segments"`
}

func (w *WhisperCLI) Transcribe(ctx context.Context, mediaPath string, tok *Token) (Result, error) {
	bin := w.Bin
	if bin == "" {
		bin = "whisper"
	}
	model := w.Model
	if model == "" {
		model = "base"
	}
	poll := w.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	outDir, err := os.MkdirTemp("", "clipforge_whisper_")
	if err != nil {
		return Result{Status: StatusFailed}, fmt.Errorf("transcribe: temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		mediaPath,
		"--model", model,
		"--output_format", "json",
		"--output_dir", outDir,
		"--word_timestamps", "True",
	}
	if w.Language != "" {
		args = append(args, "--language", w.Language)
	}

	logger.Info("transcription started", "media", mediaPath, "model", model)
	cmd := exec.CommandContext(ctx, bin, args...)
	if err := cmd.Start(); err != nil {
		return Result{Status: StatusFailed}, fmt.Errorf("transcribe: start %s: %w", bin, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			if err != nil {
				return Result{Status: StatusFailed}, fmt.Errorf("transcribe: %s: %w", bin, err)
			}
			res, err := w.readOutput(outDir, mediaPath)
			if err != nil {
				return Result{Status: StatusFailed}, err
			}
			logger.Info("transcription finished", "segments", len(res.Segments), "language", res.Language)
			return res, nil
		case <-ticker.C:
			if tok.Cancelled() {
				_ = cmd.Process.Kill()
				<-done
				logger.Info("transcription cancelled", "media", mediaPath)
				return Result{Status: StatusCancelled}, nil
			}
		case <-ctx.Done():
			<-done
			return Result{Status: StatusCancelled}, ctx.Err()
		}
	}
}

func (w *WhisperCLI) readOutput(outDir, mediaPath string) (Result, error) {
	base := filepath.Base(mediaPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	raw, err := os.ReadFile(filepath.Join(outDir, base+".json"))
	if err != nil {
		return Result{}, fmt.Errorf("transcribe: read whisper output: %w", err)
	}

	var doc whisperDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Result{}, fmt.Errorf("transcribe: parse whisper output: %w", err)
	}

	res := Result{Status: StatusCompleted, Language: doc.Language}
	for _, s := range doc.Segments {
		seg := captions.Segment{
			Text:  strings.TrimSpace(s.Text),
			Start: s.Start,
			End:   s.End,
		}
		for _, word := range s.Words {
			seg.Words = append(seg.Words, captions.WordTiming{
				Word:  strings.TrimSpace(word.Word),
				Start: word.Start,
				End:   word.End,
			})
		}
		if seg.Text == "" {
			continue
		}
		res.Segments = append(res.Segments, seg)
	}
	return res, nil
}
