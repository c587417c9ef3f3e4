package document

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
)

type rgb struct {
	r, g, b int
}

func hexRGB(hex string) rgb {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return rgb{}
	}
	return rgb{r: int(v >> 16 & 0xFF), g: int(v >> 8 & 0xFF), b: int(v & 0xFF)}
}

// Palette of the PDF layout
type Palette struct {
	Brand       string
	Text        string
	Muted       string
	Card        string
	TableHeader string
	TableGrid   string
	TableStripe string
}

func DefaultPalette() Palette {
	return Palette{
		Brand:       "#2457C5",
		Text:        "#111827",
		Muted:       "#6B7280",
		Card:        "#F3F4F6",
		TableHeader: "#E8EEF9",
		TableGrid:   "#D1D5DB",
		TableStripe: "#FBFBFD",
	}
}

const (
	marginLeft   = 36.0
	marginRight  = 36.0
	marginTop    = 70.0
	marginBottom = 36.0
	footerBand   = 18.0
	headerBand   = 52.0

	bodyLeading  = 13.0
	tableFont    = 7.5
	tableLeading = 9.0
	tablePadX    = 5.0
	tablePadY    = 4.0
)

// relative widths of the review table columns
var tableWeights = []float64{78, 52, 118, 58, 60, 58, 62, 54}

type Renderer struct {
	palette Palette
}

func NewRenderer(p Palette) *Renderer {
	return &Renderer{palette: p}
}

// Render lays doc out on Letter pages and writes it to path. The file only
// appears once the whole document has been produced. It returns the number of
// physical pages.
func (r *Renderer) Render(doc Document, path string) (int, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom+footerBand)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("medcov", true)

	w := &writer{pdf: pdf, palette: r.palette, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetHeaderFuncMode(func() { w.header(doc) }, true)
	pdf.SetFooterFunc(func() { w.footer(doc) })

	pdf.AddPage()
	for _, e := range doc.Elements {
		w.element(e)
		if pdf.Err() {
			break
		}
	}
	if pdf.Err() {
		return 0, fmt.Errorf("failed to lay out document: %w", pdf.Error())
	}

	pages := pdf.PageCount()
	tmp := path + ".part"
	if err := pdf.OutputFileAndClose(tmp); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("failed to finalize document: %w", err)
	}
	return pages, nil
}

type writer struct {
	pdf     *fpdf.Fpdf
	palette Palette
	tr      func(string) string
}

func (w *writer) textColor(hex string) {
	c := hexRGB(hex)
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

func (w *writer) fillColor(hex string) {
	c := hexRGB(hex)
	w.pdf.SetFillColor(c.r, c.g, c.b)
}

func (w *writer) drawColor(hex string) {
	c := hexRGB(hex)
	w.pdf.SetDrawColor(c.r, c.g, c.b)
}

func (w *writer) contentWidth() float64 {
	pageW, _ := w.pdf.GetPageSize()
	return pageW - marginLeft - marginRight
}

func (w *writer) header(doc Document) {
	pageW, _ := w.pdf.GetPageSize()

	w.fillColor(w.palette.Brand)
	w.pdf.Rect(0, 0, pageW, headerBand, "F")

	w.pdf.SetTextColor(255, 255, 255)
	w.pdf.SetFont("Helvetica", "B", 14)
	w.pdf.Text(marginLeft, 34, w.tr(doc.Header))

	w.pdf.SetFont("Helvetica", "", 9)
	w.pdf.Text(marginLeft, 48, w.tr(doc.Subtitle))
}

func (w *writer) footer(doc Document) {
	pageW, pageH := w.pdf.GetPageSize()
	y := pageH - 22

	w.textColor(w.palette.Muted)
	w.pdf.SetFont("Helvetica", "", 8.5)
	w.pdf.Text(marginLeft, y, w.tr(doc.Footer))

	page := fmt.Sprintf("Page %d", w.pdf.PageNo())
	w.pdf.Text(pageW-marginRight-w.pdf.GetStringWidth(page), y, page)
}

func (w *writer) element(e Element) {
	pdf := w.pdf
	switch e.Kind {
	case ElementTitle:
		pdf.SetFont("Helvetica", "B", 18)
		w.textColor(w.palette.Text)
		pdf.MultiCell(0, 22, w.tr(e.Text), "", "L", false)
		pdf.Ln(10)
	case ElementMuted:
		w.textColor(w.palette.Muted)
		if e.Label != "" {
			pdf.SetFont("Helvetica", "B", 9)
			label := w.tr(e.Label) + " "
			pdf.CellFormat(pdf.GetStringWidth(label), 12, label, "", 0, "L", false, 0, "")
		}
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 12, w.tr(e.Text), "", "L", false)
	case ElementHeading:
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "B", 12.5)
		w.textColor(w.palette.Brand)
		pdf.MultiCell(0, 16, w.tr(e.Text), "", "L", false)
		pdf.Ln(6)
	case ElementBody:
		pdf.SetFont("Helvetica", "", 10)
		w.textColor(w.palette.Text)
		pdf.MultiCell(0, bodyLeading, w.tr(e.Text), "", "L", false)
	case ElementBullet:
		pdf.SetFont("Helvetica", "", 10)
		w.textColor(w.palette.Text)
		pdf.Ln(1)
		pdf.SetX(marginLeft + 6)
		pdf.CellFormat(8, bodyLeading, w.tr("•"), "", 0, "L", false, 0, "")
		pdf.MultiCell(0, bodyLeading, w.tr(e.Text), "", "L", false)
		pdf.Ln(1)
	case ElementSpacer:
		pdf.Ln(e.Space)
	case ElementImage:
		pdf.ImageOptions(e.Image, marginLeft, -1, e.Width, e.Height, true,
			fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}, 0, "")
	case ElementCards:
		w.cards(e.Cards)
	case ElementTable:
		w.table(e.Table)
	case ElementPageBreak:
		pdf.AddPage()
	}
}

func (w *writer) cards(cards []Card) {
	if len(cards) == 0 {
		return
	}
	pdf := w.pdf
	colW := w.contentWidth() / float64(len(cards))

	w.fillColor(w.palette.Card)
	w.drawColor(w.palette.TableGrid)
	pdf.SetLineWidth(0.6)

	w.textColor(w.palette.Muted)
	pdf.SetFont("Helvetica", "B", 9)
	for _, c := range cards {
		pdf.CellFormat(colW, 30, w.tr(c.Label), "1", 0, "CM", true, 0, "")
	}
	pdf.Ln(-1)

	w.textColor(w.palette.Text)
	pdf.SetFont("Helvetica", "B", 10)
	for _, c := range cards {
		pdf.CellFormat(colW, 32, w.tr(c.Value), "1", 0, "CM", true, 0, "")
	}
	pdf.Ln(-1)
}

func (w *writer) tableWidths(n int) []float64 {
	weights := tableWeights
	if len(weights) != n {
		weights = make([]float64, n)
		for i := range weights {
			weights[i] = 1
		}
	}
	var total float64
	for _, v := range weights {
		total += v
	}
	widths := make([]float64, n)
	for i, v := range weights {
		widths[i] = w.contentWidth() * v / total
	}
	return widths
}

func (w *writer) table(t *Table) {
	if t == nil || len(t.Header) == 0 {
		return
	}
	pdf := w.pdf
	widths := w.tableWidths(len(t.Header))
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	limit := pageH - bottom

	pdf.SetLineWidth(0.35)
	w.drawColor(w.palette.TableGrid)

	w.tableRow(t.Header, widths, true, 0)
	for i, row := range t.Rows {
		if pdf.GetY()+w.rowHeight(row, widths, false) > limit {
			pdf.AddPage()
			w.tableRow(t.Header, widths, true, 0)
		}
		w.tableRow(row, widths, false, i)
	}
	pdf.SetX(marginLeft)
}

func (w *writer) setTableFont(header bool) {
	if header {
		w.pdf.SetFont("Helvetica", "B", tableFont)
		return
	}
	w.pdf.SetFont("Helvetica", "", tableFont)
}

func (w *writer) rowHeight(cells []string, widths []float64, header bool) float64 {
	w.setTableFont(header)
	lines := 1
	for i, cell := range cells {
		if n := len(w.cellLines(cell, widths[i]-2*tablePadX)); n > lines {
			lines = n
		}
	}
	return float64(lines)*tableLeading + 2*tablePadY
}

// cellLines wraps a cell after translating it to the core font encoding.
// Splitting works on the translated bytes so every byte indexes the width table.
func (w *writer) cellLines(cell string, width float64) []string {
	split := w.pdf.SplitLines([]byte(w.tr(cell)), width)
	lines := make([]string, 0, len(split))
	for _, l := range split {
		lines = append(lines, string(l))
	}
	return lines
}

func (w *writer) tableRow(cells []string, widths []float64, header bool, index int) {
	pdf := w.pdf
	h := w.rowHeight(cells, widths, header)

	switch {
	case header:
		w.fillColor(w.palette.TableHeader)
	case index%2 == 1:
		w.fillColor(w.palette.TableStripe)
	default:
		pdf.SetFillColor(255, 255, 255)
	}
	w.textColor(w.palette.Text)
	w.setTableFont(header)

	x, y := marginLeft, pdf.GetY()
	for i, cell := range cells {
		pdf.Rect(x, y, widths[i], h, "FD")
		for j, line := range w.cellLines(cell, widths[i]-2*tablePadX) {
			pdf.SetXY(x+tablePadX, y+tablePadY+float64(j)*tableLeading)
			pdf.CellFormat(widths[i]-2*tablePadX, tableLeading, line, "", 0, "L", false, 0, "")
		}
		x += widths[i]
	}
	pdf.SetXY(marginLeft, y+h)
}
