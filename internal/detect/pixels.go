// Package detect finds court line pixels and refines candidate lines
// against them.
package detect

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"court-fitter/internal/monitoring"
)

// LinePixels marks thin bright structures: pixels that are at least
// Threshold bright and brighter by more than DiffThreshold than both
// neighbours Tau pixels away, either horizontally or vertically.
// The result is 255 on line pixels and 0 elsewhere, with bounds starting
// at the origin.
func LinePixels(img image.Image, p Params) *image.Gray {
	var src image.Image = img
	if p.BlurRadius > 0 {
		src = blur.Gaussian(src, p.BlurRadius)
	}
	gray := effect.Grayscale(src)

	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := image.NewGray(image.Rect(0, 0, w, h))

	at := func(x, y int) int {
		return int(gray.Pix[gray.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}
	thr, diff, tau := int(p.Threshold), int(p.DiffThreshold), p.Tau

	var count int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := at(x, y)
			if v < thr {
				continue
			}
			line := false
			if x >= tau && x+tau < w {
				line = v-at(x-tau, y) > diff && v-at(x+tau, y) > diff
			}
			if !line && y >= tau && y+tau < h {
				line = v-at(x, y-tau) > diff && v-at(x, y+tau) > diff
			}
			if line {
				mask.Pix[y*mask.Stride+x] = 255
				count++
			}
		}
	}

	monitoring.Logf("Line pixels: %d of %d (%.1f%%)", count, w*h, 100*float64(count)/float64(max(w*h, 1)))
	return mask
}
