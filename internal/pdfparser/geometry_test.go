package pdfparser

import (
	"testing"

	"github.com/madebytinystudio/bank-analyzer/internal/logging"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string, x, y, w float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: 10}
}

func rect(x0, y0, x1, y1 float64) pdf.Rect {
	return pdf.Rect{
		Min: pdf.Point{X: x0, Y: y0},
		Max: pdf.Point{X: x1, Y: y1},
	}
}

func TestAssembleWords(t *testing.T) {
	source := NewGeometricSource(&logging.MockLogger{})

	t.Run("Adjacent fragments merge into one word", func(t *testing.T) {
		words := source.assembleWords([]pdf.Text{
			text("Da", 10, 700, 10),
			text("te", 20, 700, 10),
		})
		require.Len(t, words, 1)
		assert.Equal(t, "Date", words[0].text)
		assert.Equal(t, 10.0, words[0].x0)
		assert.Equal(t, 30.0, words[0].x1)
	})

	t.Run("Large gap starts a new word", func(t *testing.T) {
		words := source.assembleWords([]pdf.Text{
			text("Date", 10, 700, 20),
			text("Amount", 100, 700, 30),
		})
		require.Len(t, words, 2)
		assert.Equal(t, "Date", words[0].text)
		assert.Equal(t, "Amount", words[1].text)
		assert.Equal(t, words[0].line, words[1].line)
	})

	t.Run("Vertical distance starts a new line", func(t *testing.T) {
		words := source.assembleWords([]pdf.Text{
			text("second", 10, 680, 30),
			text("first", 10, 700, 25),
		})
		require.Len(t, words, 2)
		// Top of page comes first.
		assert.Equal(t, "first", words[0].text)
		assert.Equal(t, 0, words[0].line)
		assert.Equal(t, "second", words[1].text)
		assert.Equal(t, 1, words[1].line)
	})

	t.Run("Whitespace fragments are dropped", func(t *testing.T) {
		words := source.assembleWords([]pdf.Text{
			text("  ", 10, 700, 5),
			text("", 20, 700, 0),
		})
		assert.Empty(t, words)
	})
}

func TestLatticeGrid(t *testing.T) {
	source := NewGeometricSource(&logging.MockLogger{})

	// A ruled 3x2 grid: columns at 0/100/200/300, rows at 700/680/660.
	rects := []pdf.Rect{
		rect(0, 680, 100, 700), rect(100, 680, 200, 700), rect(200, 680, 300, 700),
		rect(0, 660, 100, 680), rect(100, 660, 200, 680), rect(200, 660, 300, 680),
	}
	texts := []pdf.Text{
		text("Date", 10, 690, 20),
		text("Description", 110, 690, 50),
		text("Amount", 210, 690, 35),
		text("01.02.2023", 10, 670, 50),
		text("Coffee", 110, 670, 30),
		text("Shop", 145, 670, 22),
		text("-500", 210, 670, 20),
	}

	grid := source.latticeGrid(pdf.Content{Rect: rects, Text: texts})

	require.Len(t, grid, 2)
	assert.Equal(t, []string{"Date", "Description", "Amount"}, grid[0])
	assert.Equal(t, []string{"01.02.2023", "Coffee Shop", "-500"}, grid[1])
}

func TestLatticeGridMultilineCell(t *testing.T) {
	source := NewGeometricSource(&logging.MockLogger{})

	// One tall header cell holding two text lines.
	rects := []pdf.Rect{
		rect(0, 660, 100, 700), rect(100, 660, 200, 700),
	}
	texts := []pdf.Text{
		text("Transaction", 110, 690, 50),
		text("currency", 110, 670, 40),
		text("Date", 10, 690, 20),
	}

	grid := source.latticeGrid(pdf.Content{Rect: rects, Text: texts})

	require.Len(t, grid, 1)
	assert.Equal(t, "Date", grid[0][0])
	assert.Equal(t, "Transaction\ncurrency", grid[0][1])
}

func TestLatticeGridNoRuledLines(t *testing.T) {
	source := NewGeometricSource(&logging.MockLogger{})

	grid := source.latticeGrid(pdf.Content{
		Text: []pdf.Text{text("Date", 10, 700, 20)},
	})

	assert.Nil(t, grid)
}

func TestTextGrid(t *testing.T) {
	source := NewGeometricSource(&logging.MockLogger{})

	texts := []pdf.Text{
		text("Date", 10, 700, 20),
		text("Description", 100, 700, 50),
		text("Amount", 220, 700, 35),
		text("01.02.2023", 10, 680, 50),
		text("Coffee", 100, 680, 30),
		text("Shop", 135, 680, 22), // small gap, same cell
		text("-500", 220, 680, 20),
	}

	grid := source.textGrid(pdf.Content{Text: texts})

	require.Len(t, grid, 2)
	assert.Equal(t, []string{"Date", "Description", "Amount"}, grid[0])
	assert.Equal(t, []string{"01.02.2023", "Coffee Shop", "-500"}, grid[1])
}

func TestTextGridMissingCellStaysEmpty(t *testing.T) {
	source := NewGeometricSource(&logging.MockLogger{})

	texts := []pdf.Text{
		text("Date", 10, 700, 20),
		text("Amount", 220, 700, 35),
		text("01.02.2023", 10, 680, 50),
		// no amount on the second line
	}

	grid := source.textGrid(pdf.Content{Text: texts})

	require.Len(t, grid, 2)
	require.Len(t, grid[1], 2)
	assert.Equal(t, "01.02.2023", grid[1][0])
	assert.Equal(t, "", grid[1][1])
}

func TestTextGridSingleColumn(t *testing.T) {
	source := NewGeometricSource(&logging.MockLogger{})

	texts := []pdf.Text{
		text("Statement", 10, 700, 45),
		text("Period", 10, 680, 30),
	}

	assert.Nil(t, source.textGrid(pdf.Content{Text: texts}))
}

func TestExtractTablesMissingFile(t *testing.T) {
	source := NewGeometricSource(&logging.MockLogger{})

	tables, err := source.ExtractTables("does-not-exist.pdf")

	assert.Error(t, err)
	assert.Nil(t, tables)
}
