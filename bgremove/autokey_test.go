package bgremove

import (
	"errors"
	"image/color"
	"testing"
)

func TestDetectKeyColorSolidBackdrop(t *testing.T) {
	tests := []struct {
		name     string
		backdrop color.NRGBA
		want     Color
	}{
		{name: "white", backdrop: testWhite, want: White},
		{name: "magenta", backdrop: color.NRGBA{255, 0, 255, 255}, want: Color{R: 255, G: 0, B: 255}},
		{name: "green screen", backdrop: color.NRGBA{0, 255, 0, 255}, want: Color{R: 0, G: 255, B: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Backdrop with a foreground blob in the middle that must not
			// influence the detected key.
			img := solidImage(20, 20, tt.backdrop)
			for y := 6; y < 14; y++ {
				for x := 6; x < 14; x++ {
					img.SetNRGBA(x, y, color.NRGBA{40, 40, 40, 255})
				}
			}
			path := writePNG(t, img)

			got, err := DetectKeyColor(path)
			if err != nil {
				t.Fatalf("DetectKeyColor() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectKeyColor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectKeyColorRejectsBusyCorners(t *testing.T) {
	// The border band holds four unrelated colors, one per edge, and the
	// corners disagree with whatever ends up dominant. No corner sits close
	// to the dominant border color, so detection must refuse to guess.
	img := solidImage(20, 20, color.NRGBA{128, 128, 128, 255})
	quadrants := []color.NRGBA{
		{255, 0, 0, 255},
		{0, 0, 255, 255},
		{255, 255, 0, 255},
		{0, 255, 255, 255},
	}
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if x < 1 || y < 1 || x >= 19 || y >= 19 {
				img.SetNRGBA(x, y, quadrants[(x/10)+2*(y/10)])
			}
		}
	}
	// Corners far from every quadrant color in Lab space.
	black := color.NRGBA{0, 0, 0, 255}
	for _, c := range [][2]int{{0, 0}, {19, 0}, {0, 19}, {19, 19}} {
		img.SetNRGBA(c[0], c[1], black)
	}
	path := writePNG(t, img)

	_, err := DetectKeyColor(path)
	if !errors.Is(err, ErrNoKeyColor) {
		t.Errorf("error = %v, want ErrNoKeyColor", err)
	}
}

func TestDetectKeyColorFlattensTransparency(t *testing.T) {
	// A fully transparent border must read as the white backing after
	// flattening, not as black.
	img := solidImage(10, 10, color.NRGBA{0, 0, 0, 0})
	for y := 3; y < 7; y++ {
		for x := 3; x < 7; x++ {
			img.SetNRGBA(x, y, color.NRGBA{200, 30, 30, 255})
		}
	}
	path := writePNG(t, img)

	got, err := DetectKeyColor(path)
	if err != nil {
		t.Fatalf("DetectKeyColor() error: %v", err)
	}
	if got != White {
		t.Errorf("DetectKeyColor() = %v, want %v", got, White)
	}
}

func TestBandWidth(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want int
	}{
		{name: "tiny image floors to one", w: 4, h: 4, want: 1},
		{name: "uses shorter dimension", w: 100, h: 40, want: 2},
		{name: "large image", w: 200, h: 200, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bandWidth(tt.w, tt.h); got != tt.want {
				t.Errorf("bandWidth(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
			}
		})
	}
}
