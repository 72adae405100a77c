package bgremove

import (
	"errors"
	"image/color"
	"testing"
)

var (
	testWhite = color.NRGBA{255, 255, 255, 255}
	testBlack = color.NRGBA{0, 0, 0, 255}
)

func TestRemoveFloodFillAllWhite(t *testing.T) {
	// A 4x4 all-white image with key FFFFFF: every pixel is connected to a
	// corner, so everything goes transparent.
	path := writePNG(t, solidImage(4, 4, testWhite))

	if err := RemoveFloodFill(path, White, 10); err != nil {
		t.Fatalf("RemoveFloodFill() error: %v", err)
	}

	buf, err := LoadPixelBuffer(path)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := buf.img.NRGBAAt(x, y)
			if got.A != 0 {
				t.Errorf("pixel (%d,%d) alpha = %d, want 0", x, y, got.A)
			}
			if got.R != 255 || got.G != 255 || got.B != 255 {
				t.Errorf("pixel (%d,%d) RGB changed: %v", x, y, got)
			}
		}
	}
}

func TestRemoveFloodFillPreservesCenter(t *testing.T) {
	// 4x4 white with a 2x2 black center: the 12 border pixels go transparent,
	// the 4 center pixels stay opaque.
	img := solidImage(4, 4, testWhite)
	for y := 1; y <= 2; y++ {
		for x := 1; x <= 2; x++ {
			img.SetNRGBA(x, y, testBlack)
		}
	}
	path := writePNG(t, img)

	if err := RemoveFloodFill(path, White, 10); err != nil {
		t.Fatalf("RemoveFloodFill() error: %v", err)
	}

	buf, err := LoadPixelBuffer(path)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := buf.img.NRGBAAt(x, y)
			center := x >= 1 && x <= 2 && y >= 1 && y <= 2
			if center && got.A != 255 {
				t.Errorf("center pixel (%d,%d) alpha = %d, want 255", x, y, got.A)
			}
			if !center && got.A != 0 {
				t.Errorf("border pixel (%d,%d) alpha = %d, want 0", x, y, got.A)
			}
		}
	}
}

func TestFloodFillEnclosedIslandStaysOpaque(t *testing.T) {
	// White backdrop, a black ring, and a single white pixel inside the ring.
	// The enclosed white pixel is not border-connected and must stay opaque.
	img := solidImage(5, 5, testWhite)
	for i := 1; i <= 3; i++ {
		img.SetNRGBA(i, 1, testBlack)
		img.SetNRGBA(i, 3, testBlack)
		img.SetNRGBA(1, i, testBlack)
		img.SetNRGBA(3, i, testBlack)
	}
	// (2,2) stays white: the enclosed island.

	buf := FromImage(img)
	cleared := buf.FloodFill(White, 10)

	if got := buf.img.NRGBAAt(2, 2).A; got != 255 {
		t.Errorf("enclosed island alpha = %d, want 255", got)
	}
	// Outer ring of 16 pixels cleared, 8 ring pixels + island opaque.
	if cleared != 16 {
		t.Errorf("cleared = %d, want 16", cleared)
	}
	for i := 1; i <= 3; i++ {
		if buf.img.NRGBAAt(i, 1).A != 255 || buf.img.NRGBAAt(1, i).A != 255 {
			t.Error("ring pixel went transparent")
		}
	}
}

func TestFloodFillNoCornerMatchIsNoOp(t *testing.T) {
	// All four corners are black: nothing is seeded, nothing changes.
	img := solidImage(4, 4, testWhite)
	img.SetNRGBA(0, 0, testBlack)
	img.SetNRGBA(3, 0, testBlack)
	img.SetNRGBA(0, 3, testBlack)
	img.SetNRGBA(3, 3, testBlack)

	buf := FromImage(img)
	if cleared := buf.FloodFill(White, 10); cleared != 0 {
		t.Errorf("cleared = %d, want 0", cleared)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if buf.img.NRGBAAt(x, y).A != 255 {
				t.Errorf("pixel (%d,%d) changed in no-op case", x, y)
			}
		}
	}
}

func TestFloodFillPartialCornerSeeding(t *testing.T) {
	// Only the top-left corner is key-colored and the backdrop is split by a
	// full-height black column; only the left region is cleared.
	img := solidImage(5, 3, testWhite)
	for y := 0; y < 3; y++ {
		img.SetNRGBA(2, y, testBlack)
	}
	// Right corners off-key so the right region has no seed.
	img.SetNRGBA(4, 0, testBlack)
	img.SetNRGBA(4, 2, testBlack)

	buf := FromImage(img)
	buf.FloodFill(White, 10)

	for y := 0; y < 3; y++ {
		if buf.img.NRGBAAt(0, y).A != 0 || buf.img.NRGBAAt(1, y).A != 0 {
			t.Errorf("left region row %d not cleared", y)
		}
		if buf.img.NRGBAAt(3, y).A != 255 {
			t.Errorf("right region row %d was cleared without a seed", y)
		}
	}
}

func TestFloodFillThresholdBoundary(t *testing.T) {
	// Near-white pixels within the per-channel threshold are part of the
	// backdrop; pixels one step beyond are not.
	nearKey := color.NRGBA{245, 245, 245, 255}
	offKey := color.NRGBA{244, 255, 255, 255}

	img := solidImage(3, 1, testWhite)
	img.SetNRGBA(1, 0, nearKey)
	img.SetNRGBA(2, 0, offKey)

	buf := FromImage(img)
	buf.FloodFill(White, 10)

	if buf.img.NRGBAAt(0, 0).A != 0 {
		t.Error("exact key pixel not cleared")
	}
	if buf.img.NRGBAAt(1, 0).A != 0 {
		t.Error("within-threshold pixel not cleared")
	}
	if buf.img.NRGBAAt(2, 0).A != 255 {
		t.Error("beyond-threshold pixel cleared")
	}
}

func TestRemoveFloodFillIdempotent(t *testing.T) {
	img := solidImage(4, 4, testWhite)
	img.SetNRGBA(1, 1, testBlack)
	img.SetNRGBA(2, 2, testBlack)
	path := writePNG(t, img)

	if err := RemoveFloodFill(path, White, 10); err != nil {
		t.Fatalf("first pass error: %v", err)
	}
	first, err := LoadPixelBuffer(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := RemoveFloodFill(path, White, 10); err != nil {
		t.Fatalf("second pass error: %v", err)
	}
	second, err := LoadPixelBuffer(path)
	if err != nil {
		t.Fatal(err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if first.img.NRGBAAt(x, y) != second.img.NRGBAAt(x, y) {
				t.Errorf("pixel (%d,%d) differs between passes: %v vs %v",
					x, y, first.img.NRGBAAt(x, y), second.img.NRGBAAt(x, y))
			}
		}
	}
}

func TestRemoveFloodFillFlattensExistingAlpha(t *testing.T) {
	// A fully transparent pixel inside the backdrop must not break
	// connectivity: flattening turns it into backing white first.
	img := solidImage(3, 1, testWhite)
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 0})
	path := writePNG(t, img)

	if err := RemoveFloodFill(path, White, 10); err != nil {
		t.Fatalf("RemoveFloodFill() error: %v", err)
	}

	buf, err := LoadPixelBuffer(path)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 3; x++ {
		if buf.img.NRGBAAt(x, 0).A != 0 {
			t.Errorf("pixel (%d,0) alpha = %d, want 0", x, buf.img.NRGBAAt(x, 0).A)
		}
	}
}

func TestRemoveFloodFillRejectsNegativeThreshold(t *testing.T) {
	path := writePNG(t, solidImage(2, 2, testWhite))

	err := RemoveFloodFill(path, White, -1)
	if !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("error = %v, want ErrInvalidThreshold", err)
	}
}

func TestFloodFillResultSetIsOrderIndependent(t *testing.T) {
	// The cleared set must not depend on traversal order: clearing via the
	// BFS must match a brute-force reachability computation.
	img := solidImage(6, 6, testWhite)
	img.SetNRGBA(2, 2, testBlack)
	img.SetNRGBA(3, 2, testBlack)
	img.SetNRGBA(2, 3, testBlack)
	img.SetNRGBA(5, 5, testBlack) // off-key corner

	buf := FromImage(img)
	buf.FloodFill(White, 10)

	reachable := bruteForceReachable(img, White, 10)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			wantCleared := reachable[y*6+x]
			gotCleared := buf.img.NRGBAAt(x, y).A == 0
			if wantCleared != gotCleared {
				t.Errorf("pixel (%d,%d) cleared = %v, want %v", x, y, gotCleared, wantCleared)
			}
		}
	}
}

// bruteForceReachable computes border-connected key pixels by iterating a
// neighborhood expansion until fixpoint, with no queue ordering at all.
func bruteForceReachable(img interface {
	NRGBAAt(x, y int) color.NRGBA
}, key Color, threshold int) []bool {
	const w, h = 6, 6
	match := func(x, y int) bool {
		p := img.NRGBAAt(x, y)
		return key.Within(Color{p.R, p.G, p.B}, threshold)
	}

	reachable := make([]bool, w*h)
	for _, c := range [][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}} {
		if match(c[0], c[1]) {
			reachable[c[1]*w+c[0]] = true
		}
	}

	for changed := true; changed; {
		changed = false
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if reachable[y*w+x] || !match(x, y) {
					continue
				}
				for _, n := range [][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
					if n[0] < 0 || n[1] < 0 || n[0] >= w || n[1] >= h {
						continue
					}
					if reachable[n[1]*w+n[0]] {
						reachable[y*w+x] = true
						changed = true
						break
					}
				}
			}
		}
	}
	return reachable
}
