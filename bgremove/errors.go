package bgremove

import "errors"

// Background removal errors.
var (
	// ErrInvalidColor indicates a malformed key color string.
	ErrInvalidColor = errors.New("bgremove: color must be 6 hex digits, e.g. FFFFFF")

	// ErrInvalidThreshold indicates a negative flood-fill threshold.
	ErrInvalidThreshold = errors.New("bgremove: threshold must be non-negative")

	// ErrInvalidTolerance indicates a chroma-key similarity or blend outside [0,1].
	ErrInvalidTolerance = errors.New("bgremove: similarity and blend must be in [0,1]")

	// ErrDecode indicates the input file is not a supported raster format.
	ErrDecode = errors.New("bgremove: failed to decode image")

	// ErrUnsupportedFormat indicates the output format cannot carry an alpha channel.
	ErrUnsupportedFormat = errors.New("bgremove: output format does not support alpha")

	// ErrFFmpegNotFound indicates the ffmpeg binary is not on PATH.
	ErrFFmpegNotFound = errors.New("bgremove: ffmpeg is required for chroma-key removal but was not found in PATH")

	// ErrFFmpegFailed indicates ffmpeg exited with an error.
	ErrFFmpegFailed = errors.New("bgremove: ffmpeg failed")

	// ErrNoKeyColor indicates automatic key detection found no backdrop color.
	ErrNoKeyColor = errors.New("bgremove: no dominant border color agrees with the image corners")
)
