// generator.go implements the Generator organism that orchestrates the
// end-to-end generation pipeline: provider call, optional download, atomic
// write to disk and a history record.
//
// This organism composes:
//   - Provider interface: GeminiProvider or OpenAIProvider
//   - Downloader: for URL-based results
//   - logging.Logger: for structured logging
//   - HistoryRecorder: for the generation history database
package imagegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"spritegen/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerationRecord is what the Generator hands to the history store after a
// successful run.
type GenerationRecord struct {
	CorrelationID string
	Provider      string
	Model         string
	Prompt        string
	OutputPath    string
	EditPath      string
	RefCount      int
	PromptTokens  int
	OutputTokens  int
	TotalTokens   int
	DurationMS    int64
	CreatedAt     time.Time
}

// HistoryRecorder persists generation records. A nil recorder disables
// history without changing the pipeline.
type HistoryRecorder interface {
	RecordGeneration(ctx context.Context, rec GenerationRecord) error
}

// Outcome reports what a completed generation produced.
type Outcome struct {
	// OutputPath is where the image was written.
	OutputPath string

	// ModelText is any commentary the model returned with the image.
	ModelText string

	// Usage is token accounting, nil when the provider reported none.
	Usage *Usage

	// ModelVersion is the concrete serving model, when reported.
	ModelVersion string

	// CorrelationID ties log lines and the history record to this run.
	CorrelationID string

	// Duration is the wall time of the provider call plus any download.
	Duration time.Duration
}

// Generator runs prompts through a provider and lands the result on disk.
//
// Thread Safety: Generator is safe for concurrent use as long as two runs
// do not target the same output path.
type Generator struct {
	provider   Provider
	downloader *Downloader
	logger     *logging.Logger
	history    HistoryRecorder
}

// NewGenerator creates a generator.
//
// The downloader may be nil when the provider returns inline bytes only;
// the history recorder may be nil to disable history.
func NewGenerator(provider Provider, downloader *Downloader, logger *logging.Logger, history HistoryRecorder) (*Generator, error) {
	if provider == nil {
		return nil, fmt.Errorf("imagegen: provider cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("imagegen: logger cannot be nil")
	}
	return &Generator{
		provider:   provider,
		downloader: downloader,
		logger:     logger.Named("generator"),
		history:    history,
	}, nil
}

// Generate runs one request end to end and writes the image to outputPath.
//
// An empty outputPath gets a timestamped name in the working directory. The
// file is written through a temp file in the target directory and renamed
// into place, so a failed run never leaves a truncated image behind.
//
// A history write failure is logged but does not fail the run; the image
// on disk is the primary artifact.
func (g *Generator) Generate(ctx context.Context, req Request, outputPath string) (*Outcome, error) {
	correlationID := uuid.New().String()[:8]
	log := g.logger.With(zap.String("correlation_id", correlationID))

	log.Info("starting image generation",
		zap.String("provider", g.provider.Name()),
		zap.Int("prompt_len", len(req.Prompt)),
		zap.Bool("edit", req.EditPath != ""),
		zap.Int("refs", len(req.RefPaths)),
	)

	start := time.Now()
	result, err := g.provider.Generate(ctx, req)
	if err != nil {
		log.Error("generation failed", zap.Error(err))
		return nil, err
	}

	data, mimeType := result.Data, result.MIMEType
	if result.URL != "" {
		if g.downloader == nil {
			return nil, fmt.Errorf("imagegen: provider returned a URL but no downloader is configured")
		}
		log.Debug("downloading generated image", zap.String("url", result.URL))
		data, mimeType, err = g.downloader.Fetch(ctx, result.URL)
		if err != nil {
			log.Error("download failed", zap.Error(err))
			return nil, err
		}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("imagegen: provider returned no image data")
	}
	duration := time.Since(start)

	if outputPath == "" {
		outputPath = fmt.Sprintf("generated-%s%s",
			time.Now().Format("20060102-150405"), ExtensionForMIME(mimeType))
	}
	if err := writeFileAtomic(outputPath, data); err != nil {
		return nil, err
	}

	log.Info("image generation complete",
		zap.String("output", outputPath),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", duration),
	)

	if g.history != nil {
		model := result.ModelVersion
		if model == "" {
			model = g.provider.Model()
		}
		rec := GenerationRecord{
			CorrelationID: correlationID,
			Provider:      g.provider.Name(),
			Model:         model,
			Prompt:        req.Prompt,
			OutputPath:    outputPath,
			EditPath:      req.EditPath,
			RefCount:      len(req.RefPaths),
			DurationMS:    duration.Milliseconds(),
			CreatedAt:     time.Now().UTC(),
		}
		if result.Usage != nil {
			rec.PromptTokens = result.Usage.PromptTokens
			rec.OutputTokens = result.Usage.OutputTokens
			rec.TotalTokens = result.Usage.TotalTokens
		}
		if err := g.history.RecordGeneration(ctx, rec); err != nil {
			log.Warn("failed to record generation history", zap.Error(err))
		}
	}

	return &Outcome{
		OutputPath:    outputPath,
		ModelText:     result.ModelText,
		Usage:         result.Usage,
		ModelVersion:  result.ModelVersion,
		CorrelationID: correlationID,
		Duration:      duration,
	}, nil
}

// writeFileAtomic writes data through a temp file in the destination
// directory and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".spritegen-*")
	if err != nil {
		return fmt.Errorf("imagegen: failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("imagegen: failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("imagegen: failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("imagegen: failed to replace %s: %w", path, err)
	}
	return nil
}
