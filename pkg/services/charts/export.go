package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
)

// ErrExport marks a chart that could not be rasterized
var ErrExport = errors.New("chart export failed")

const fontRemedy = "set CHART_FONT_PATH to a readable TrueType (.ttf) font file, or unset it to use the built-in font"

// Apply gives c the explicit title and fills missing point colors from the colorway
func (t Theme) Apply(c Chart, title string) Chart {
	if title != "" {
		c.Title = title
	}
	points := make([]Point, len(c.Points))
	for i, p := range c.Points {
		if p.Color == "" && len(t.Colorway) > 0 {
			p.Color = t.Colorway[i%len(t.Colorway)]
		}
		points[i] = p
	}
	c.Points = points
	return c
}

type Exporter struct {
	theme Theme
	font  *truetype.Font
}

// NewExporter loads the font once. An empty fontPath uses the font bundled with go-chart.
func NewExporter(theme Theme, fontPath string) (*Exporter, error) {
	font, err := loadFont(fontPath)
	if err != nil {
		return nil, err
	}
	return &Exporter{theme: theme, font: font}, nil
}

func loadFont(path string) (*truetype.Font, error) {
	if path == "" {
		font, err := chart.GetDefaultFont()
		if err != nil {
			return nil, fmt.Errorf("%w: built-in font unavailable (%v); %s", ErrExport, err, fontRemedy)
		}
		return font, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read font %q (%v); %s", ErrExport, path, err, fontRemedy)
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse font %q (%v); %s", ErrExport, path, err, fontRemedy)
	}
	return font, nil
}

// Render writes c as a themed PNG
func (e *Exporter) Render(w io.Writer, c Chart) error {
	c = e.theme.Apply(c, "")
	if len(c.Points) == 0 {
		return fmt.Errorf("%w: chart %q has no data", ErrExport, c.Name)
	}

	var err error
	switch c.Kind {
	case KindPie:
		err = e.pie(c).Render(chart.PNG, w)
	default:
		err = e.bar(c).Render(chart.PNG, w)
	}
	if err != nil {
		return fmt.Errorf("%w: rasterizing %q: %v; %s", ErrExport, c.Name, err, fontRemedy)
	}
	return nil
}

// Export writes every chart to dir as <name>.png and returns the paths by chart name
func (e *Exporter) Export(dir string, charts ...Chart) (map[string]string, error) {
	paths := make(map[string]string, len(charts))
	for _, c := range charts {
		path := filepath.Join(dir, c.Name+".png")
		if err := e.exportFile(path, c); err != nil {
			return nil, err
		}
		paths[c.Name] = path
	}
	return paths, nil
}

func (e *Exporter) exportFile(path string, c Chart) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close chart file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return e.Render(f, c)
}

func (e *Exporter) scaled(v int) int {
	return int(math.Round(float64(v) * e.theme.Scale))
}

func (e *Exporter) titleStyle() chart.Style {
	return chart.Style{
		FontSize:  e.theme.TitleSize,
		FontColor: hexColor(e.theme.Text),
		Font:      e.font,
	}
}

func (e *Exporter) background() chart.Style {
	m := e.theme.Margins
	return chart.Style{
		FillColor: hexColor(e.theme.Background),
		Padding: chart.Box{
			Top:    e.scaled(m.Top),
			Right:  e.scaled(m.Right),
			Bottom: e.scaled(m.Bottom),
			Left:   e.scaled(m.Left),
		},
	}
}

func (e *Exporter) pie(c Chart) chart.PieChart {
	values := make([]chart.Value, 0, len(c.Points))
	var total float64
	for _, p := range c.Points {
		v := math.Max(p.Value, 0)
		total += v
		values = append(values, chart.Value{
			Label: p.Label,
			Value: v,
			Style: chart.Style{
				FillColor:   hexColor(p.Color),
				StrokeColor: hexColor(e.theme.Background),
				StrokeWidth: 2,
				FontSize:    e.theme.FontSize,
				FontColor:   hexColor(e.theme.Text),
			},
		})
	}
	if total == 0 {
		// a pie of zeros cannot be drawn; show equal slices instead
		for i := range values {
			values[i].Value = 1
		}
	}

	return chart.PieChart{
		Title:        c.Title,
		TitleStyle:   e.titleStyle(),
		ColorPalette: palette{theme: e.theme},
		Width:        e.scaled(e.theme.Height),
		Height:       e.scaled(e.theme.Height),
		DPI:          96 * e.theme.Scale,
		Font:         e.font,
		Background:   e.background(),
		Values:       values,
	}
}

func (e *Exporter) bar(c Chart) chart.BarChart {
	bars := make([]chart.Value, 0, len(c.Points))
	maxValue := 0.0
	for _, p := range c.Points {
		maxValue = math.Max(maxValue, p.Value)
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{
				FillColor:   hexColor(p.Color),
				StrokeColor: hexColor(p.Color),
			},
		})
	}

	width := e.scaled(e.theme.Width)
	m := e.theme.Margins
	canvas := width - e.scaled(m.Left+m.Right) - e.scaled(80)
	spacing := e.scaled(8)
	barWidth := max(canvas/len(bars)-spacing, e.scaled(4))

	yRange := &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1}
	if c.Percent {
		yRange.Max = math.Max(100, yRange.Max)
	}
	if yRange.Max <= 0 {
		yRange.Max = 1
	}

	formatter := func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return ""
		}
		if c.Percent {
			return fmt.Sprintf("%.0f%%", f)
		}
		return fmt.Sprintf("$%.0f", f)
	}

	return chart.BarChart{
		Title:        c.Title,
		TitleStyle:   e.titleStyle(),
		ColorPalette: palette{theme: e.theme},
		Width:        width,
		Height:       e.scaled(e.theme.Height),
		DPI:          96 * e.theme.Scale,
		Font:         e.font,
		Background:   e.background(),
		BarWidth:     barWidth,
		BarSpacing:   spacing,
		XAxis: chart.Style{
			FontSize:  e.theme.FontSize * 0.8,
			FontColor: hexColor(e.theme.Axis),
		},
		YAxis: chart.YAxis{
			Name:           c.YLabel,
			Range:          yRange,
			ValueFormatter: formatter,
			Style: chart.Style{
				FontSize:  e.theme.FontSize * 0.8,
				FontColor: hexColor(e.theme.Axis),
			},
			GridMajorStyle: chart.Style{
				StrokeColor: hexColor(e.theme.Grid),
				StrokeWidth: 1,
			},
		},
		Bars: bars,
	}
}
