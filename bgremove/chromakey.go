package bgremove

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Default chroma-key tolerances.
const (
	DefaultSimilarity = 0.08
	DefaultBlend      = 0.02
)

// ColorKeyFilter builds the ffmpeg filter expression that keys the given
// color to transparency across the whole frame.
func ColorKeyFilter(key Color, similarity, blend float64) string {
	return fmt.Sprintf("colorkey=0x%s:%g:%g,format=rgba", key.Hex(), similarity, blend)
}

// RemoveChromaKey keys out every pixel near the key color in the image at
// path, regardless of connectivity to the border, and writes the result back
// in place.
//
// The work is delegated to ffmpeg's colorkey filter. Output goes to a temp
// file next to the target and replaces the original only after ffmpeg
// succeeds, so a failure mid-process never corrupts the source file. The
// temp file is removed on every exit path.
func RemoveChromaKey(ctx context.Context, path string, key Color, similarity, blend float64) error {
	if similarity < 0 || similarity > 1 || blend < 0 || blend > 1 {
		return fmt.Errorf("%w: similarity=%g blend=%g", ErrInvalidTolerance, similarity, blend)
	}

	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFFmpegNotFound
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".chromakey-*.png")
	if err != nil {
		return fmt.Errorf("bgremove: failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	var stderr bytes.Buffer
	cmd := ffmpeg.Input(path).
		Output(tmpPath, ffmpeg.KwArgs{
			"vf":       ColorKeyFilter(key, similarity, blend),
			"frames:v": "1",
			"update":   "1",
		}).
		OverWriteOutput().
		WithErrorOutput(&stderr)
	cmd.Context = ctx

	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrFFmpegFailed, diag)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("bgremove: failed to replace %s: %w", path, err)
	}
	return nil
}
