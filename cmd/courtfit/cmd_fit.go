package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"court-fitter/internal/court"
	"court-fitter/internal/detect"
	"court-fitter/internal/detect/cv"
	"court-fitter/internal/fitter"
	"court-fitter/internal/model"
	"court-fitter/internal/monitoring"
	"court-fitter/internal/render"
	"court-fitter/internal/store"
	"court-fitter/pkg/geometry"
)

type fitOptions struct {
	court       string
	courtFile   string
	overlayPath string
	maskPath    string
	linesPath   string
	dbPath      string
	workers     int
	finetune    int
}

func newFitCommand(root *rootOptions) *cobra.Command {
	opts := &fitOptions{}

	cmd := &cobra.Command{
		Use:   "fit <image>",
		Short: "Fit a court model to an image",
		Long: `Detect court line pixels and lines in the image, classify the lines
into horizontal and vertical families and search every pair combination for
the court placement that best matches the line pixels. The result is refined
and printed as a homography from court meters to image pixels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.court, "court", court.TennisName, "Registered court to fit")
	cmd.Flags().StringVar(&opts.courtFile, "court-file", "", "Load the court spec from a JSON file instead")
	cmd.Flags().StringVar(&opts.overlayPath, "overlay", "", "Write the image with the fitted court drawn on it")
	cmd.Flags().StringVar(&opts.maskPath, "mask", "", "Write the line pixel mask")
	cmd.Flags().StringVar(&opts.linesPath, "lines", "", "Write the mask with the detected lines drawn on it")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "Record the result in this SQLite database")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Concurrent search workers (default: config or CPU count)")
	cmd.Flags().IntVar(&opts.finetune, "finetune", -1, "Refinement iterations (default: config or 10)")

	return cmd
}

func resolveCourt(root *rootOptions, opts *fitOptions, courtChanged bool) (court.Spec, error) {
	if opts.courtFile != "" {
		spec, err := court.LoadFromFile(opts.courtFile)
		if err != nil {
			return nil, fmt.Errorf("loading court file: %w", err)
		}
		return spec, nil
	}
	name := opts.court
	if !courtChanged {
		name = root.cfg.GetCourt(opts.court)
	}
	spec := court.GetSpec(name)
	if spec == nil {
		return nil, fmt.Errorf("unknown court %q (known: %v)", name, court.ListSpecs())
	}
	return spec, nil
}

func runFit(cmd *cobra.Command, root *rootOptions, opts *fitOptions, imagePath string) error {
	start := time.Now()

	spec, err := resolveCourt(root, opts, cmd.Flags().Changed("court"))
	if err != nil {
		return err
	}

	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	monitoring.Logf("Loaded %s: %dx%d pixels, fitting %s court", imagePath, bounds.Dx(), bounds.Dy(), spec.Name())

	detectParams := root.cfg.ApplyDetect(detect.DefaultParams())
	mask, lines, err := cv.DetectLines(img, detectParams)
	if err != nil {
		return fmt.Errorf("line detection failed: %w", err)
	}
	if err := saveDebugImages(opts, mask, lines); err != nil {
		return err
	}

	fitterParams := root.cfg.ApplyFitter(fitter.DefaultParams())
	if cmd.Flags().Changed("workers") {
		fitterParams = fitterParams.WithWorkers(opts.workers)
	}
	if cmd.Flags().Changed("finetune") {
		fitterParams = fitterParams.WithFinetuneIterations(opts.finetune)
	}
	modelParams := root.cfg.ApplyModel(model.DefaultParams())
	if err := modelParams.Validate(); err != nil {
		return fmt.Errorf("invalid model params: %w", err)
	}

	ev := model.NewEvaluator(spec, modelParams)
	res, err := fitter.New(ev, fitterParams).FitCourt(lines, fitter.Frame{Mask: mask, Image: img})
	if err != nil {
		return fmt.Errorf("fitting %s: %w", imagePath, err)
	}
	m := res.Model.(*model.Model)
	monitoring.Logf("Fit finished in %s", time.Since(start).Round(time.Millisecond))

	printResult(cmd.OutOrStdout(), res, m)

	if opts.overlayPath != "" {
		if err := render.Save(render.Overlay(img, m), opts.overlayPath); err != nil {
			return fmt.Errorf("saving overlay: %w", err)
		}
	}

	if opts.dbPath != "" {
		db, err := store.Open(opts.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		id, err := db.Insert(&store.Fit{
			ImagePath:       imagePath,
			Court:           spec.Name(),
			Score:           m.Score(),
			SearchScore:     res.SearchScore,
			H:               m.H,
			HorizontalLines: len(res.Horizontal),
			VerticalLines:   len(res.Vertical),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded run %s\n", id)
	}
	return nil
}

func saveDebugImages(opts *fitOptions, mask *image.Gray, lines []geometry.Line) error {
	if opts.maskPath != "" {
		if err := render.Save(mask, opts.maskPath); err != nil {
			return fmt.Errorf("saving mask: %w", err)
		}
	}
	if opts.linesPath != "" {
		canvas := imaging.Clone(mask)
		render.DrawLines(canvas, lines)
		if err := render.Save(canvas, opts.linesPath); err != nil {
			return fmt.Errorf("saving lines: %w", err)
		}
	}
	return nil
}

func printResult(w io.Writer, res *fitter.Result, m *model.Model) {
	fmt.Fprintf(w, "Court:        %s\n", m.Court.Name())
	fmt.Fprintf(w, "Lines:        %d horizontal, %d vertical, %d unassigned\n",
		len(res.Horizontal), len(res.Vertical), res.Residual)
	for _, p := range res.Passes {
		fmt.Fprintf(w, "Pass %-8s %d x %d pairs, %d combinations, best %.1f\n",
			p.Name+":", p.HorizontalPairs, p.VerticalPairs, p.Combinations, p.BestScore)
	}
	fmt.Fprintf(w, "Score:        %.1f (search %.1f)\n", m.Score(), res.SearchScore)
	fmt.Fprintf(w, "Seeded from:  %s / %s x %s / %s\n", m.Reference[0], m.Reference[1], m.Reference[2], m.Reference[3])

	fmt.Fprintf(w, "Homography:\n")
	for _, row := range m.H.ToMatrix() {
		fmt.Fprintf(w, "  [%12.6f %12.6f %12.6f]\n", row[0], row[1], row[2])
	}
	fmt.Fprintf(w, "Corners:\n")
	for i, c := range m.Corners() {
		fmt.Fprintf(w, "  %s (%.1f, %.1f)\n", []string{"TL", "TR", "BR", "BL"}[i], c.X, c.Y)
	}
}
