package bgremove

import (
	"image"

	"github.com/cenkalti/dominantcolor"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Key autodetection tuning.
const (
	// autoKeyBandFraction is the width of the sampled border band as a
	// fraction of the shorter image dimension.
	autoKeyBandFraction = 0.05

	// autoKeyMinBand is the minimum border band width in pixels.
	autoKeyMinBand = 1

	// autoKeyMaxLabDistance is how far (CIE-Lab) a corner pixel may be from
	// the dominant border color for the detection to be accepted.
	autoKeyMaxLabDistance = 0.12
)

// DetectKeyColor guesses the backdrop color of the image at path.
//
// It samples a thin band along the image border, finds the dominant color in
// that band, and accepts it only if at least one corner pixel is perceptually
// close to it in CIE-Lab space. Images whose corners all hold foreground
// content yield ErrNoKeyColor; flood fill would be a no-op on them anyway.
func DetectKeyColor(path string) (Color, error) {
	buf, err := LoadPixelBuffer(path)
	if err != nil {
		return Color{}, err
	}
	return detectKeyColor(buf.Flatten(White))
}

func detectKeyColor(flat *PixelBuffer) (Color, error) {
	w, h := flat.Width(), flat.Height()
	if w == 0 || h == 0 {
		return Color{}, ErrNoKeyColor
	}

	band := borderBand(flat, bandWidth(w, h))
	dom := dominantcolor.Find(band)
	key := Color{R: dom.R, G: dom.G, B: dom.B}

	domLab, _ := colorful.MakeColor(key.NRGBA())
	corners := [4][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}}
	for _, c := range corners {
		cornerLab, ok := colorful.MakeColor(flat.colorAt(c[0], c[1]).NRGBA())
		if !ok {
			continue
		}
		if domLab.DistanceLab(cornerLab) <= autoKeyMaxLabDistance {
			return key, nil
		}
	}

	return Color{}, ErrNoKeyColor
}

func bandWidth(w, h int) int {
	shorter := w
	if h < w {
		shorter = h
	}
	band := int(float64(shorter) * autoKeyBandFraction)
	if band < autoKeyMinBand {
		band = autoKeyMinBand
	}
	return band
}

// borderBand copies the pixels within band of any image edge into a
// 1-pixel-high strip for dominant-color analysis.
func borderBand(buf *PixelBuffer, band int) image.Image {
	w, h := buf.Width(), buf.Height()

	var points []image.Point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < band || y < band || x >= w-band || y >= h-band {
				points = append(points, image.Point{X: x, Y: y})
			}
		}
	}

	strip := image.NewNRGBA(image.Rect(0, 0, len(points), 1))
	for i, p := range points {
		strip.SetNRGBA(i, 0, buf.colorAt(p.X, p.Y).NRGBA())
	}
	return strip
}
