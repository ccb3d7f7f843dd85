// Package figure renders the per-scenario comparison figures with gonum/plot.
package figure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/warming-count-figures/internal/config"
	"github.com/couchcryptid/warming-count-figures/internal/domain"
	"github.com/couchcryptid/warming-count-figures/internal/observability"
)

const (
	yLabel = "Percentage [%]"

	// Share of a bin's slot covered by its pair of bars.
	groupFill = 0.5
	tailFill  = 0.1

	cellPadding = 4 * vg.Millimeter
)

// Renderer draws one figure per scenario and writes it as a PNG.
// It implements pipeline.Loader.
type Renderer struct {
	dir     string
	pattern string
	style   Style
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRenderer creates a Renderer writing into the configured Figures directory.
func NewRenderer(cfg *config.Config, style Style, logger *slog.Logger, metrics *observability.Metrics) *Renderer {
	return &Renderer{
		dir:     cfg.FiguresDir,
		pattern: cfg.FigureFilePattern,
		style:   style,
		logger:  logger,
		metrics: metrics,
	}
}

// Path returns the image path of a scenario.
func (r *Renderer) Path(s domain.Scenario) string {
	return filepath.Join(r.dir, fmt.Sprintf(r.pattern, int(s)))
}

// Load renders the scenario's figure and writes it, replacing any earlier file.
func (r *Renderer) Load(ctx context.Context, p domain.Prepared) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Render(&buf, p, r.style); err != nil {
		return fmt.Errorf("render %s: %w", p.Scenario, err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create figures dir: %w", err)
	}
	path := r.Path(p.Scenario)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write figure: %w", err)
	}

	if r.metrics != nil {
		r.metrics.FiguresWritten.Inc()
	}
	r.logger.Info("figure written", "scenario", p.Scenario.String(), "path", path)
	return nil
}

// panel is one subplot of the figure grid.
type panel struct {
	title     string
	data      domain.Comparison
	row, col  int
	span      int
	fill      float64
	legend    bool
	tickSize  vg.Length
	hideTicks bool
}

// Render draws the figure of one scenario as PNG. The top row holds the full
// comparison across the whole width; the bottom row holds the comparison
// without the special report over two columns, then one column per tail.
func Render(w io.Writer, p domain.Prepared, style Style) error {
	cols := 2 + len(p.Tails)
	panels := []panel{
		{
			title:  "a) Temperature count in AR5 working group reports and special reports until 2020",
			data:   p.Full,
			row:    0,
			span:   cols,
			fill:   groupFill,
			legend: true,
		},
		{
			title:    "b) Excluding special report on 1.5°C warming",
			data:     p.Excluding,
			row:      1,
			span:     2,
			fill:     groupFill,
			tickSize: vg.Points(6),
		},
	}
	for i, tail := range p.Tails {
		panels = append(panels, panel{
			title:     fmt.Sprintf("%c) %g°C and above", 'c'+rune(i), tail.Rule.MinTemp),
			data:      tail.Comparison,
			row:       1,
			col:       2 + i,
			span:      1,
			fill:      tailFill,
			hideTicks: true,
		})
	}

	img := vgimg.NewWith(vgimg.UseWH(style.Width, style.Height), vgimg.UseDPI(style.DPI))
	dc := draw.New(img)
	for _, pn := range panels {
		c := cell(dc, 2, cols, pn.row, pn.col, pn.span)
		pl, err := newPanel(pn, style, c.Max.X-c.Min.X)
		if err != nil {
			return fmt.Errorf("panel %q: %w", pn.title, err)
		}
		pl.Draw(c)
	}

	_, err := vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	return err
}

// newPanel builds a grouped bar chart of occurrence and probability.
func newPanel(pn panel, style Style, width vg.Length) (*plot.Plot, error) {
	n := pn.data.Len()
	if n == 0 {
		return nil, plotter.ErrNoData
	}
	barWidth := width * vg.Length(pn.fill) / vg.Length(2*n)

	occurrence, err := plotter.NewBarChart(plotter.Values(pn.data.Occurrence), barWidth)
	if err != nil {
		return nil, err
	}
	occurrence.Color = style.OccurrenceColor
	occurrence.LineStyle.Color = style.EdgeColor
	occurrence.Offset = -barWidth / 2

	probability, err := plotter.NewBarChart(plotter.Values(pn.data.Probability), barWidth)
	if err != nil {
		return nil, err
	}
	probability.Color = style.ProbabilityColor
	probability.LineStyle.Color = style.EdgeColor
	probability.Offset = barWidth / 2

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = lightGray

	p := plot.New()
	p.Title.Text = pn.title
	p.Y.Label.Text = yLabel
	p.Add(grid, occurrence, probability)
	p.NominalX(pn.data.Bins...)
	p.X.Min = -0.5
	p.X.Max = float64(n) - 0.5
	p.Y.Min = 0

	if pn.legend {
		p.Legend.Add(domain.OccurrenceColumn, occurrence)
		p.Legend.Add(domain.ProbabilityColumn, probability)
		p.Legend.Top = true
	}

	applyStyle(p, pn.legend)

	if pn.tickSize > 0 {
		p.X.Tick.Label.Font.Size = pn.tickSize
	}
	if pn.hideTicks {
		p.X.Tick.Label.Color = style.EdgeColor
	}
	return p, nil
}

// cell returns the padded sub-canvas of a rows×cols grid spanning span
// columns from (row, col). Row 0 is the top row.
func cell(c draw.Canvas, rows, cols, row, col, span int) draw.Canvas {
	w := (c.Max.X - c.Min.X) / vg.Length(cols)
	h := (c.Max.Y - c.Min.Y) / vg.Length(rows)
	minX := c.Min.X + vg.Length(col)*w
	maxY := c.Max.Y - vg.Length(row)*h

	out := draw.Canvas{
		Canvas: c.Canvas,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: minX, Y: maxY - h},
			Max: vg.Point{X: minX + vg.Length(span)*w, Y: maxY},
		},
	}
	return draw.Crop(out, cellPadding, -cellPadding, cellPadding, -cellPadding)
}
