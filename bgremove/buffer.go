package bgremove

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// PixelBuffer is an addressable RGBA grid owned by a remover during
// processing. It uses non-premultiplied alpha so clearing a pixel's alpha
// leaves its RGB channels untouched.
type PixelBuffer struct {
	img *image.NRGBA
}

// NewPixelBuffer creates an empty, fully transparent buffer of the given size.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// FromImage copies an arbitrary decoded image into an NRGBA buffer.
func FromImage(src image.Image) *PixelBuffer {
	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	return &PixelBuffer{img: dst}
}

// LoadPixelBuffer decodes the raster image at path into an RGBA grid.
// PNG, JPEG and GIF inputs are supported.
func LoadPixelBuffer(path string) (*PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bgremove: failed to open %s: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	return FromImage(src), nil
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int { return b.img.Bounds().Dx() }

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int { return b.img.Bounds().Dy() }

// Image exposes the underlying NRGBA image.
func (b *PixelBuffer) Image() *image.NRGBA { return b.img }

// colorAt returns the RGB channels at (x, y) as a key-comparable Color.
func (b *PixelBuffer) colorAt(x, y int) Color {
	off := b.img.PixOffset(x, y)
	return Color{R: b.img.Pix[off], G: b.img.Pix[off+1], B: b.img.Pix[off+2]}
}

// clearAlpha makes the pixel at (x, y) fully transparent, RGB untouched.
func (b *PixelBuffer) clearAlpha(x, y int) {
	b.img.Pix[b.img.PixOffset(x, y)+3] = 0
}

// Flatten composites the buffer over a fully opaque backing color and
// returns the result as a new buffer. Any pre-existing transparency is
// resolved against the backing so every output pixel is opaque.
//
// This step is mandatory before flood fill: a previously transparent pixel
// would otherwise never match the key color and would break connectivity.
func (b *PixelBuffer) Flatten(backing Color) *PixelBuffer {
	flat := image.NewNRGBA(b.img.Bounds())
	draw.Draw(flat, flat.Bounds(), image.NewUniform(backing.NRGBA()), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), b.img, b.img.Bounds().Min, draw.Over)
	return &PixelBuffer{img: flat}
}

// Save encodes the buffer back to path, overwriting it atomically (temp
// file in the same directory, then rename). The target format must support
// an alpha channel; only PNG output is allowed.
func (b *PixelBuffer) Save(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", "":
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".spritegen-*.png")
	if err != nil {
		return fmt.Errorf("bgremove: failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmp, b.img); err != nil {
		tmp.Close()
		return fmt.Errorf("bgremove: failed to encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("bgremove: failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("bgremove: failed to replace %s: %w", path, err)
	}
	return nil
}
