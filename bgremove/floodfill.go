package bgremove

import (
	"fmt"
	"image"
)

// DefaultThreshold is the default per-channel flood-fill tolerance.
const DefaultThreshold = 20

// RemoveFloodFill keys out the backdrop of the image at path by corner-seeded
// flood fill and writes the result back in place.
//
// The image is flattened onto opaque white first, then every pixel reachable
// from a matching corner through 4-connected pixels within the per-channel
// threshold of key has its alpha set to zero. Backdrop regions not connected
// to the border are left opaque, as is the whole image when no corner matches
// the key color.
func RemoveFloodFill(path string, key Color, threshold int) error {
	if threshold < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidThreshold, threshold)
	}

	buf, err := LoadPixelBuffer(path)
	if err != nil {
		return err
	}

	flat := buf.Flatten(White)
	flat.FloodFill(key, threshold)

	return flat.Save(path)
}

// FloodFill clears the alpha of every border-connected pixel within the
// per-channel threshold of key and returns the number of pixels cleared.
//
// Seeds are the four corner pixels; a corner that does not match the key is
// not seeded. The traversal is breadth-first over the four axis-aligned
// neighbors, but the cleared set is traversal-order independent.
func (b *PixelBuffer) FloodFill(key Color, threshold int) int {
	w, h := b.Width(), b.Height()
	if w == 0 || h == 0 {
		return 0
	}

	visited := make([]bool, w*h)
	queue := make([]image.Point, 0, 4)

	seeds := [4]image.Point{
		{X: 0, Y: 0},
		{X: w - 1, Y: 0},
		{X: 0, Y: h - 1},
		{X: w - 1, Y: h - 1},
	}
	for _, p := range seeds {
		if visited[p.Y*w+p.X] {
			continue // 1x1 and 1xN images repeat corners
		}
		if key.Within(b.colorAt(p.X, p.Y), threshold) {
			visited[p.Y*w+p.X] = true
			queue = append(queue, p)
		}
	}

	cleared := 0
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		b.clearAlpha(p.X, p.Y)
		cleared++

		neighbors := [4]image.Point{
			{X: p.X - 1, Y: p.Y},
			{X: p.X + 1, Y: p.Y},
			{X: p.X, Y: p.Y - 1},
			{X: p.X, Y: p.Y + 1},
		}
		for _, n := range neighbors {
			if n.X < 0 || n.Y < 0 || n.X >= w || n.Y >= h {
				continue
			}
			idx := n.Y*w + n.X
			if visited[idx] {
				continue
			}
			if key.Within(b.colorAt(n.X, n.Y), threshold) {
				visited[idx] = true
				queue = append(queue, n)
			}
		}
	}

	return cleared
}
