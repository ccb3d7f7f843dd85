package figure

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/couchcryptid/warming-count-figures/internal/config"
)

var (
	lightGray  = color.NRGBA{R: 211, G: 211, B: 211, A: 255}
	mutedText  = color.NRGBA{A: 178} // black at alpha 0.7
	legendText = color.NRGBA{R: 0x67, G: 0x67, B: 0x67, A: 255}
)

// Style is the cosmetic configuration shared by every panel of every figure.
type Style struct {
	OccurrenceColor  color.Color
	ProbabilityColor color.Color
	EdgeColor        color.Color

	Width  vg.Length
	Height vg.Length
	DPI    int
}

// StyleFromConfig builds the figure style from the configured colors and geometry.
func StyleFromConfig(cfg *config.Config) Style {
	return Style{
		OccurrenceColor:  cfg.OccurrenceColor,
		ProbabilityColor: cfg.ProbabilityColor,
		EdgeColor:        cfg.EdgeColor,
		Width:            vg.Length(cfg.FigureWidth) * vg.Inch,
		Height:           vg.Length(cfg.FigureHeight) * vg.Inch,
		DPI:              cfg.FigureDPI,
	}
}

// applyStyle gives a panel light-gray axis lines, muted text and no tick
// marks. Legend text is recolored only when the panel shows a legend.
func applyStyle(p *plot.Plot, withLegend bool) *plot.Plot {
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.LineStyle.Color = lightGray
		ax.Tick.Length = 0
		ax.Tick.Label.Color = mutedText
		ax.Label.TextStyle.Color = mutedText
	}
	p.Title.TextStyle.Color = mutedText
	if withLegend {
		p.Legend.TextStyle.Color = legendText
	}
	return p
}
