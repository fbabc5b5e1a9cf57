// Package render draws fitted courts and detected lines over images.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"court-fitter/internal/model"
	"court-fitter/pkg/geometry"
)

// Palette hues in degrees.
const (
	HorizontalHue = 200.0
	VerticalHue   = 30.0
	DetectedHue   = 120.0
)

// Hue returns a saturated color for the given hue.
func Hue(h float64) color.Color {
	return colorful.Hsv(h, 0.9, 1.0).Clamped()
}

// Overlay returns a copy of img with every court line of m drawn on it.
func Overlay(img image.Image, m *model.Model) *image.NRGBA {
	out := imaging.Clone(img)
	horizontal, vertical := Hue(HorizontalHue), Hue(VerticalHue)
	for _, proj := range m.Project() {
		c := vertical
		if proj.Horizontal {
			c = horizontal
		}
		DrawSegment(out, proj.Segment, c, 2)
	}
	return out
}

// DrawLines draws detected lines across the whole image.
func DrawLines(dst draw.Image, lines []geometry.Line) {
	b := dst.Bounds()
	size := geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
	c := Hue(DetectedHue)
	for _, l := range lines {
		v := l.Vector.Normalize()
		if !v.IsFinite() {
			continue
		}
		reach := 2 * (size.Width + size.Height)
		center := l.Project(geometry.NewPoint2D(size.Width/2, size.Height/2))
		seg := geometry.NewSegment(center.Sub(v.Scale(reach)), center.Add(v.Scale(reach)))
		DrawSegment(dst, seg, c, 1)
	}
}

// DrawSegment draws seg clipped to dst with the given half width.
func DrawSegment(dst draw.Image, seg geometry.Segment, c color.Color, halfWidth int) {
	b := dst.Bounds()
	clipped, ok := geometry.ClipSegment(seg, geometry.NewSize(float64(b.Dx()), float64(b.Dy())))
	if !ok {
		return
	}
	for _, p := range clipped.Sample(0.5) {
		x, y := int(p.X), int(p.Y)
		for dy := -halfWidth + 1; dy < halfWidth; dy++ {
			for dx := -halfWidth + 1; dx < halfWidth; dx++ {
				pt := image.Pt(b.Min.X+x+dx, b.Min.Y+y+dy)
				if pt.In(b) {
					dst.Set(pt.X, pt.Y, c)
				}
			}
		}
	}
}

// Save writes img to path; the format follows the file extension.
func Save(img image.Image, path string) error {
	return imaging.Save(img, path)
}
