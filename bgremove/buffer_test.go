package bgremove

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG encodes img to a fresh file under a temp dir and returns its path.
func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding PNG: %v", err)
	}
	return path
}

// solidImage builds a w x h NRGBA image filled with c.
func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestLoadPixelBufferRoundTrip(t *testing.T) {
	src := solidImage(3, 2, color.NRGBA{10, 20, 30, 255})
	src.SetNRGBA(1, 1, color.NRGBA{200, 100, 50, 255})
	path := writePNG(t, src)

	buf, err := LoadPixelBuffer(path)
	if err != nil {
		t.Fatalf("LoadPixelBuffer() error: %v", err)
	}
	if buf.Width() != 3 || buf.Height() != 2 {
		t.Fatalf("dimensions = %dx%d, want 3x2", buf.Width(), buf.Height())
	}

	flat := buf.Flatten(White)
	if err := flat.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded, err := LoadPixelBuffer(path)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			want := src.NRGBAAt(x, y)
			got := reloaded.img.NRGBAAt(x, y)
			if got.R != want.R || got.G != want.G || got.B != want.B {
				t.Errorf("pixel (%d,%d) RGB = %v, want %v", x, y, got, want)
			}
			if got.A != 255 {
				t.Errorf("pixel (%d,%d) alpha = %d, want 255", x, y, got.A)
			}
		}
	}
}

func TestLoadPixelBufferErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPixelBuffer(filepath.Join(t.TempDir(), "nope.png"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("not an image", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk.png")
		if err := os.WriteFile(path, []byte("definitely not a PNG"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadPixelBuffer(path)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("error = %v, want ErrDecode", err)
		}
	})
}

func TestFlattenResolvesTransparency(t *testing.T) {
	// Half-transparent red over white should become an opaque pink.
	src := solidImage(2, 2, color.NRGBA{255, 0, 0, 128})
	buf := FromImage(src)

	flat := buf.Flatten(White)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			got := flat.img.NRGBAAt(x, y)
			if got.A != 255 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want 255", x, y, got.A)
			}
			if got.R != 255 {
				t.Errorf("pixel (%d,%d) R = %d, want 255", x, y, got.R)
			}
			// 128/255 red over white lands mid-range for G and B.
			if got.G < 120 || got.G > 135 || got.B < 120 || got.B > 135 {
				t.Errorf("pixel (%d,%d) GB = (%d,%d), want mid-range composite", x, y, got.G, got.B)
			}
		}
	}
}

func TestFlattenFullyTransparentBecomesBacking(t *testing.T) {
	src := solidImage(2, 2, color.NRGBA{0, 0, 0, 0})
	flat := FromImage(src).Flatten(Color{1, 2, 3})

	got := flat.img.NRGBAAt(0, 0)
	want := color.NRGBA{1, 2, 3, 255}
	if got != want {
		t.Errorf("flattened pixel = %v, want %v", got, want)
	}
}

func TestSaveRejectsAlphaLessFormats(t *testing.T) {
	buf := NewPixelBuffer(1, 1)

	for _, ext := range []string{".jpg", ".jpeg", ".gif", ".bmp"} {
		t.Run(ext, func(t *testing.T) {
			err := buf.Save(filepath.Join(t.TempDir(), "out"+ext))
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Save(*%s) error = %v, want ErrUnsupportedFormat", ext, err)
			}
		})
	}
}

func TestSaveLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	buf := FromImage(solidImage(2, 2, color.NRGBA{9, 9, 9, 255}))
	path := filepath.Join(dir, "out.png")

	if err := buf.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.png" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only out.png", names)
	}
}
