// Package cv runs the OpenCV stages of line detection.
package cv

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"

	"gocv.io/x/gocv"

	"court-fitter/internal/detect"
	"court-fitter/internal/monitoring"
	"court-fitter/pkg/geometry"
)

// maskToMat converts a binary mask to a single channel gocv.Mat (parallelized)
func maskToMat(mask *image.Gray) gocv.Mat {
	bounds := mask.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC1)

	// Parallelize by horizontal stripes
	numWorkers := runtime.NumCPU()
	rowsPerWorker := (height + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startY := w * rowsPerWorker
		endY := min(startY+rowsPerWorker, height)
		if startY >= height {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for y := yStart; y < yEnd; y++ {
				row := mask.PixOffset(bounds.Min.X, bounds.Min.Y+y)
				for x := 0; x < width; x++ {
					mat.SetUCharAt(y, x, mask.Pix[row+x])
				}
			}
		}(startY, endY)
	}
	wg.Wait()

	return mat
}

// HoughLines runs the standard Hough transform on the mask and returns the
// raw lines, strongest vote first.
func HoughLines(mask *image.Gray, threshold int) ([]geometry.Line, error) {
	if mask == nil || mask.Bounds().Empty() {
		return nil, fmt.Errorf("empty mask")
	}

	src := maskToMat(mask)
	defer src.Close()

	lines := gocv.NewMat()
	defer lines.Close()

	gocv.HoughLines(src, &lines, 1, float32(math.Pi/180), threshold)

	out := make([]geometry.Line, 0, lines.Rows())
	for i := 0; i < lines.Rows(); i++ {
		v := lines.GetVecfAt(i, 0)
		if len(v) < 2 {
			continue
		}
		out = append(out, geometry.LineFromPolar(float64(v[0]), float64(v[1])))
	}
	return out, nil
}

// DetectLines builds the line pixel mask of img, finds Hough lines on it
// and refines them against the mask.
func DetectLines(img image.Image, p detect.Params) (*image.Gray, []geometry.Line, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid detection params: %w", err)
	}

	mask := detect.LinePixels(img, p)
	raw, err := HoughLines(mask, p.HoughThreshold)
	if err != nil {
		return nil, nil, fmt.Errorf("hough lines: %w", err)
	}
	monitoring.Logf("Hough: %d raw lines (threshold %d)", len(raw), p.HoughThreshold)

	return mask, detect.Refine(raw, mask, p), nil
}
