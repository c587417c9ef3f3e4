package charts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func snapshot() *domain.Snapshot {
	return &domain.Snapshot{
		KPIs: domain.KPISet{TotalRx: 100, TotalCost: 1000, PayerPaid: 800, PatientPaid: 200, CoveragePct: 80},
		Payers: []domain.PayerAggregate{
			{PayerName: "Medicare", TotalCost: 600, PayerCoverage: 540, CoveragePct: 90},
			{PayerName: "Acme Health", TotalCost: 400, PayerCoverage: 260, CoveragePct: 65},
		},
		Medications: []domain.MedicationAggregate{
			{Code: " 310965 ", Name: "Ibuprofen 200 MG", TotalOOP: 120, TotalRx: 12},
			{Code: "197361", Name: "Amlodipine 5 MG", TotalOOP: 80, TotalRx: 8},
		},
	}
}

func TestBuilders(t *testing.T) {
	s := snapshot()

	t.Run("payment split", func(t *testing.T) {
		c := PaymentSplit(s.KPIs)
		assert.Equal(t, KindPie, c.Kind)
		require.Len(t, c.Points, 2)
		assert.Equal(t, 800.0, c.Points[0].Value)
		assert.Equal(t, 200.0, c.Points[1].Value)
	})

	t.Run("coverage sorted worst first with payer colors", func(t *testing.T) {
		c := CoverageByPayer(s.Payers)
		require.Len(t, c.Points, 2)
		assert.Equal(t, "Acme Health", c.Points[0].Label)
		assert.Equal(t, fallbackPayerColor, c.Points[0].Color)
		assert.Equal(t, "#438CF3", c.Points[1].Color)
		assert.True(t, c.Percent)
		assert.Equal(t, "Medicare", s.Payers[0].PayerName, "input must not be reordered")
	})

	t.Run("oop keeps rank order and trims codes", func(t *testing.T) {
		c := TopOOPMedications(s.Medications)
		require.Len(t, c.Points, 2)
		assert.Equal(t, "310965", c.Points[0].Label)
		assert.Equal(t, "197361", c.Points[1].Label)
	})

	t.Run("snapshot order", func(t *testing.T) {
		all := ForSnapshot(s)
		require.Len(t, all, 3)
		assert.Equal(t, []string{SplitChart, CoverageChart, OOPChart}, []string{all[0].Name, all[1].Name, all[2].Name})
	})
}

func TestTheme_Apply(t *testing.T) {
	theme := DefaultTheme()
	c := Chart{Name: "x", Title: "old", Points: []Point{{Label: "a", Value: 1}, {Label: "b", Value: 2, Color: "#000000"}}}

	styled := theme.Apply(c, "New Title")

	assert.Equal(t, "New Title", styled.Title)
	assert.Equal(t, theme.Colorway[0], styled.Points[0].Color)
	assert.Equal(t, "#000000", styled.Points[1].Color)
	assert.Empty(t, c.Points[0].Color, "input must not be modified")
	assert.Equal(t, "old", theme.Apply(c, "").Title)
}

func TestExporter(t *testing.T) {
	exporter, err := NewExporter(DefaultTheme(), "")
	require.NoError(t, err)

	t.Run("renders png", func(t *testing.T) {
		for _, c := range ForSnapshot(snapshot()) {
			var buf bytes.Buffer
			require.NoError(t, exporter.Render(&buf, c), c.Name)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), c.Name)
		}
	})

	t.Run("zero split still renders", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, exporter.Render(&buf, PaymentSplit(domain.KPISet{})))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
	})

	t.Run("empty chart", func(t *testing.T) {
		var buf bytes.Buffer
		err := exporter.Render(&buf, CoverageByPayer(nil))
		assert.ErrorIs(t, err, ErrExport)
	})

	t.Run("export writes files", func(t *testing.T) {
		dir := t.TempDir()
		paths, err := exporter.Export(dir, ForSnapshot(snapshot())...)
		require.NoError(t, err)

		require.Len(t, paths, 3)
		for _, name := range []string{SplitChart, CoverageChart, OOPChart} {
			assert.Equal(t, filepath.Join(dir, name+".png"), paths[name])
			data, err := os.ReadFile(paths[name])
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, pngMagic))
		}
	})
}

func TestNewExporter_BadFont(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewExporter(DefaultTheme(), filepath.Join(t.TempDir(), "missing.ttf"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExport)
		assert.Contains(t, err.Error(), "CHART_FONT_PATH")
	})

	t.Run("not a font", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.ttf")
		require.NoError(t, os.WriteFile(path, []byte("definitely not a font"), 0o600))

		_, err := NewExporter(DefaultTheme(), path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExport)
		assert.Contains(t, err.Error(), "CHART_FONT_PATH")
	})
}

func TestPayerColor(t *testing.T) {
	assert.Equal(t, "#35B76B", PayerColor("Blue Cross Blue Shield"))
	assert.Equal(t, fallbackPayerColor, PayerColor(domain.UnknownPayer))
}
