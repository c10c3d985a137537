package predictor

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg" // png
)

var (
	actualColor    = color.RGBA{B: 255, A: 255}
	predictedColor = color.RGBA{R: 255, A: 255}
)

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

// RenderScatter writes the actual and predicted test scores of r to path.
// The image format follows the file extension.
func RenderScatter(path string, r *Report) error {
	p := plot.New()
	p.Title.Text = "Actual vs Predicted Scores"
	p.X.Label.Text = "Subject"
	p.Y.Label.Text = "Score"

	actual, err := plotter.NewScatter(xys(r.TestCodes, r.Actual))
	if err != nil {
		return fmt.Errorf("failed to build actual series: %w", err)
	}
	actual.GlyphStyle.Color = actualColor

	predicted, err := plotter.NewScatter(xys(r.TestCodes, r.Predicted))
	if err != nil {
		return fmt.Errorf("failed to build predicted series: %w", err)
	}
	predicted.GlyphStyle.Color = predictedColor

	p.Add(actual, predicted)
	p.Legend.Add("Actual Scores", actual)
	p.Legend.Add("Predicted Scores", predicted)
	p.NominalX(r.Categories...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
