package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"clipforge/internal/captions"
	"clipforge/internal/config"
	"clipforge/internal/probe"
	"clipforge/internal/project"
	"clipforge/internal/scheduler"
	"clipforge/internal/transcribe"
)

func main() {
	configPtr := flag.String("config", "", "Path to a YAML settings file")
	projectPtr := flag.String("project", "", "Open an existing project file instead of starting empty")
	basePtr := flag.String("base", "", "Primary video clip")
	overlaysPtr := flag.String("overlays", "", "YAML file with an overlay batch")
	captionsPtr := flag.String("captions", "", "SRT file to place as captions")
	transcribePtr := flag.Bool("transcribe", false, "Transcribe the base clip's audio into captions (whisper)")
	outputPtr := flag.String("output", "", "Render the timeline to this file")
	savePtr := flag.String("save", "", "Save the project to this file")
	srtPtr := flag.String("srt", "", "Write transcribed captions to this SRT file")
	presetPtr := flag.String("preset", "", "Format preset: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	encoderPtr := flag.String("encoder", "", "Video encoder (empty: auto-detect)")
	qualityPtr := flag.Int("quality", 0, "Video quality (0 - auto, x264: CRF 1-51, VideoToolbox: bitrate = Q*100kbit/s)")
	workersPtr := flag.Int("workers", 0, "Concurrent workers (0 - size from the machine)")
	verbosePtr := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbosePtr {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	probe.RaiseFileLimit(logger)

	settings := config.Default()
	if *configPtr != "" {
		var err error
		settings, err = config.Load(*configPtr)
		if err != nil {
			fatal(logger, "load config", err)
		}
	}
	if *presetPtr != "" {
		settings.Preset = *presetPtr
	}
	if *encoderPtr != "" {
		settings.Encoder = *encoderPtr
	}
	if *qualityPtr > 0 {
		settings.Quality = *qualityPtr
	}
	if *workersPtr > 0 {
		settings.Workers = *workersPtr
	}
	settings.Normalize()
	if err := settings.Validate(); err != nil {
		fatal(logger, "settings", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var p *project.Project
	var err error
	if *projectPtr != "" {
		p, err = project.Load(*projectPtr, logger)
	} else {
		p, err = project.New(settings, logger)
	}
	if err != nil {
		fatal(logger, "open project", err)
	}
	defer p.Close()

	if *basePtr != "" {
		if err := p.SetBase(ctx, *basePtr); err != nil {
			fatal(logger, "set base clip", err)
		}
	}

	if *overlaysPtr != "" {
		reqs, err := scheduler.LoadRequests(*overlaysPtr)
		if err != nil {
			fatal(logger, "load overlays", err)
		}
		handles, warnings, err := p.AddOverlays(ctx, reqs)
		for _, w := range warnings {
			logger.Warn("overlay rejected", "index", w.Index, "ref", w.Ref, "err", w.Err)
		}
		if err != nil {
			fatal(logger, "schedule overlays", err)
		}
		logger.Info("overlays scheduled", "placed", len(handles), "skipped", len(warnings))
	}

	if *captionsPtr != "" {
		if err := addCaptionFile(p, *captionsPtr, logger); err != nil {
			fatal(logger, "add captions", err)
		}
	}

	if *transcribePtr {
		if err := runTranscription(ctx, p, settings, *srtPtr, *basePtr, logger); err != nil {
			fatal(logger, "transcribe", err)
		}
	}

	if *savePtr != "" {
		if err := p.Save(*savePtr); err != nil {
			fatal(logger, "save project", err)
		}
		logger.Info("project saved", "path", *savePtr)
	}

	if *outputPtr != "" {
		if err := p.Export(ctx, *outputPtr); err != nil {
			fatal(logger, "export", err)
		}
		fmt.Printf("Done: %s\n", *outputPtr)
	}
}

func addCaptionFile(p *project.Project, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	segs := captions.ParseSRT(string(data))
	handles, warnings, err := p.AddCaptionSegments(segs)
	for _, w := range warnings {
		logger.Warn("caption rejected", "index", w.Index, "err", w.Err)
	}
	if err != nil {
		return err
	}
	logger.Info("captions placed", "segments", len(segs), "items", len(handles))
	return nil
}

// runTranscription runs whisper over the base clip with a cancellation
// token hooked to the interrupt signal, then places the result as
// captions.
func runTranscription(ctx context.Context, p *project.Project, settings config.Settings, srtPath, basePath string, logger *slog.Logger) error {
	if basePath == "" {
		return fmt.Errorf("transcription needs -base")
	}

	tok := transcribe.NewToken()
	go func() {
		<-ctx.Done()
		tok.Cancel()
	}()

	w := &transcribe.WhisperCLI{
		Model:    settings.WhisperModel,
		Language: settings.Language,
		Logger:   logger,
	}
	res, err := w.Transcribe(context.Background(), basePath, tok)
	if err != nil {
		return err
	}
	if res.Status != transcribe.StatusCompleted {
		logger.Info("transcription did not complete", "status", string(res.Status))
		return nil
	}

	if srtPath != "" {
		srt := captions.FormatSRT(res.Segments, settings.MaxLineChars, settings.MaxLines)
		if err := os.WriteFile(srtPath, []byte(srt), 0644); err != nil {
			return err
		}
		logger.Info("captions written", "path", srtPath)
	}

	handles, warnings, err := p.AddCaptionSegments(res.Segments)
	for _, warn := range warnings {
		logger.Warn("caption rejected", "index", warn.Index, "err", warn.Err)
	}
	if err != nil {
		return err
	}
	logger.Info("captions placed", "segments", len(res.Segments), "items", len(handles))
	return nil
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "err", err)
	os.Exit(1)
}
