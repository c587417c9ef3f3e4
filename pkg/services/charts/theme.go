package charts

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var payerColors = map[string]string{
	"Medicare":               "#438CF3",
	"Medicaid":               "#A2F2FC",
	"Blue Cross Blue Shield": "#35B76B",
	"Dual Eligible":          "#F28B82",
	"Humana":                 "#8A6FD1",
}

const fallbackPayerColor = "#9CA3AF"

// PayerColor returns the brand color of a payer, grey for anything unknown
func PayerColor(payer string) string {
	if c, ok := payerColors[payer]; ok {
		return c
	}
	return fallbackPayerColor
}

type Margins struct {
	Top, Right, Bottom, Left int
}

// Theme is the look shared by every exported chart
type Theme struct {
	Colorway   []string
	Background string
	Text       string
	Axis       string
	Grid       string
	Margins    Margins
	FontSize   float64
	TitleSize  float64
	Width      int
	Height     int
	// Scale multiplies the raster size and DPI
	Scale float64
}

func DefaultTheme() Theme {
	return Theme{
		Colorway: []string{
			payerColors["Medicare"],
			payerColors["Medicaid"],
			payerColors["Blue Cross Blue Shield"],
			payerColors["Dual Eligible"],
			payerColors["Humana"],
		},
		Background: "#FFFFFF",
		Text:       "#111827",
		Axis:       "#6B7280",
		Grid:       "#EBEBEB",
		Margins:    Margins{Top: 60, Right: 30, Bottom: 45, Left: 40},
		FontSize:   12,
		TitleSize:  14,
		Width:      700,
		Height:     270,
		Scale:      2,
	}
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// palette adapts a Theme to go-chart's ColorPalette
type palette struct {
	theme Theme
}

func (p palette) BackgroundColor() drawing.Color       { return hexColor(p.theme.Background) }
func (p palette) BackgroundStrokeColor() drawing.Color { return hexColor(p.theme.Background) }
func (p palette) CanvasColor() drawing.Color           { return hexColor(p.theme.Background) }
func (p palette) CanvasStrokeColor() drawing.Color     { return hexColor(p.theme.Background) }
func (p palette) AxisStrokeColor() drawing.Color       { return hexColor(p.theme.Axis) }
func (p palette) TextColor() drawing.Color             { return hexColor(p.theme.Text) }

func (p palette) GetSeriesColor(index int) drawing.Color {
	if len(p.theme.Colorway) == 0 {
		return hexColor(fallbackPayerColor)
	}
	return hexColor(p.theme.Colorway[index%len(p.theme.Colorway)])
}
