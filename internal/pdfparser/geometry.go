package pdfparser

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/madebytinystudio/bank-analyzer/internal/logging"

	"github.com/ledongthuc/pdf"
)

// GeometricSource implements TableSource on top of the PDF text and geometry
// objects exposed by github.com/ledongthuc/pdf.
//
// Two detection strategies run in order. The lattice strategy rebuilds the
// cell grid from drawn rectangle edges, which is precise for statements with
// ruled tables. When it finds nothing in the whole document, extraction
// falls back to the looser text strategy, which infers column boundaries
// from horizontal gaps and aligned cell start positions.
type GeometricSource struct {
	// SnapTolerance is the distance within which parallel edges are merged
	// into one grid line.
	SnapTolerance float64
	// RowTolerance is the vertical distance within which characters are
	// considered part of the same text line.
	RowTolerance float64
	// GapThreshold is the minimum horizontal gap that separates two cells
	// in the text strategy.
	GapThreshold float64
	// ClusterTolerance is the distance within which cell start positions
	// are merged into one column in the text strategy.
	ClusterTolerance float64
	// WordSpaceMultiplier of the font size gives the gap that separates words.
	WordSpaceMultiplier float64

	log logging.Logger
}

// NewGeometricSource creates a GeometricSource with the default tolerances.
func NewGeometricSource(logger logging.Logger) *GeometricSource {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &GeometricSource{
		SnapTolerance:       3.0,
		RowTolerance:        3.0,
		GapThreshold:        12.0,
		ClusterTolerance:    10.0,
		WordSpaceMultiplier: 0.3,
		log:                 logger,
	}
}

// ExtractTables extracts candidate tables from every page of the document.
func (s *GeometricSource) ExtractTables(pdfPath string) (tables []Table, err error) {
	// The pdf library panics on some malformed documents; a bad file must
	// contribute zero records, not abort a multi-file run.
	defer func() {
		if r := recover(); r != nil {
			tables = nil
			err = fmt.Errorf("PDF processing failed for %s: %v", pdfPath, r)
		}
	}()

	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", pdfPath, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.log.WithError(cerr).Warn("Failed to close PDF file",
				logging.Field{Key: logging.FieldFile, Value: pdfPath})
		}
	}()

	tables = s.walkPages(reader, s.latticeGrid)
	if len(tables) == 0 {
		s.log.Info("No line-based tables found, falling back to text alignment",
			logging.Field{Key: logging.FieldFile, Value: pdfPath})
		tables = s.walkPages(reader, s.textGrid)
	}

	return tables, nil
}

// walkPages runs one grid strategy over every page, producing at most one
// candidate table per page.
func (s *GeometricSource) walkPages(reader *pdf.Reader, grid func(pdf.Content) [][]string) []Table {
	var tables []Table
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		rows := grid(page.Content())
		if len(rows) == 0 {
			s.log.Debug("No table on page",
				logging.Field{Key: logging.FieldPage, Value: pageNum})
			continue
		}

		tables = append(tables, Table{Page: pageNum, Rows: rows})
	}
	return tables
}

// word is a run of characters belonging to one text line.
type word struct {
	text   string
	x0, x1 float64
	y      float64
	line   int
}

// assembleWords converts raw character fragments into words grouped by text
// line, top of page first.
func (s *GeometricSource) assembleWords(texts []pdf.Text) []word {
	fragments := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) != "" {
			fragments = append(fragments, t)
		}
	}
	if len(fragments) == 0 {
		return nil
	}

	// Page origin is bottom-left; sort top-to-bottom, then left-to-right.
	sort.Slice(fragments, func(i, j int) bool {
		if math.Abs(fragments[i].Y-fragments[j].Y) > s.RowTolerance {
			return fragments[i].Y > fragments[j].Y
		}
		return fragments[i].X < fragments[j].X
	})

	var words []word
	line := 0
	lineY := fragments[0].Y
	current := word{text: fragments[0].S, x0: fragments[0].X, x1: fragments[0].X + fragments[0].W, y: fragments[0].Y}

	flush := func() {
		current.line = line
		words = append(words, current)
	}

	for _, t := range fragments[1:] {
		if math.Abs(t.Y-lineY) > s.RowTolerance {
			flush()
			line++
			lineY = t.Y
			current = word{text: t.S, x0: t.X, x1: t.X + t.W, y: t.Y}
			continue
		}

		spaceGap := s.WordSpaceMultiplier * t.FontSize
		if spaceGap < 1.0 {
			spaceGap = 1.0
		}
		if t.X-current.x1 > spaceGap {
			flush()
			current = word{text: t.S, x0: t.X, x1: t.X + t.W, y: t.Y}
			continue
		}

		current.text += t.S
		if t.X+t.W > current.x1 {
			current.x1 = t.X + t.W
		}
	}
	flush()

	return words
}

// latticeGrid rebuilds the table grid of one page from drawn rectangle
// edges and projects the page text into its cells. Returns nil when the
// page carries no ruled grid.
func (s *GeometricSource) latticeGrid(content pdf.Content) [][]string {
	xs, ys := s.gridPositions(content.Rect)
	if len(xs) < 3 || len(ys) < 2 {
		return nil
	}

	words := s.assembleWords(content.Text)
	if len(words) == 0 {
		return nil
	}

	type cellRef struct{ line int }
	grid := make([][]string, len(ys)-1)
	lastLine := make([][]cellRef, len(ys)-1)
	for i := range grid {
		grid[i] = make([]string, len(xs)-1)
		lastLine[i] = make([]cellRef, len(xs)-1)
		for j := range lastLine[i] {
			lastLine[i][j] = cellRef{line: -1}
		}
	}

	for _, w := range words {
		center := (w.x0 + w.x1) / 2
		col := intervalIndex(xs, center)
		row := reverseIntervalIndex(ys, w.y)
		if col < 0 || row < 0 {
			continue
		}

		switch {
		case grid[row][col] == "":
			grid[row][col] = w.text
		case lastLine[row][col].line != w.line:
			// A cell spanning several text lines keeps the line break so
			// header resolution can flatten it explicitly.
			grid[row][col] += "\n" + w.text
		default:
			grid[row][col] += " " + w.text
		}
		lastLine[row][col] = cellRef{line: w.line}
	}

	return dropEmptyRows(grid)
}

// gridPositions derives the snapped grid line coordinates from rectangle
// edges: xs ascending (columns), ys descending (rows, top first).
func (s *GeometricSource) gridPositions(rects []pdf.Rect) (xs, ys []float64) {
	xSet := map[float64]bool{}
	ySet := map[float64]bool{}
	snap := func(v float64) float64 {
		return math.Round(v/s.SnapTolerance) * s.SnapTolerance
	}
	for _, r := range rects {
		xSet[snap(r.Min.X)] = true
		xSet[snap(r.Max.X)] = true
		ySet[snap(r.Min.Y)] = true
		ySet[snap(r.Max.Y)] = true
	}

	for x := range xSet {
		xs = append(xs, x)
	}
	for y := range ySet {
		ys = append(ys, y)
	}
	sort.Float64s(xs)
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))
	return xs, ys
}

// textGrid infers a table from text alignment alone: each line is split
// into cells at large horizontal gaps, and cell start positions are
// clustered into shared column boundaries. Returns nil when fewer than two
// columns emerge.
func (s *GeometricSource) textGrid(content pdf.Content) [][]string {
	words := s.assembleWords(content.Text)
	if len(words) == 0 {
		return nil
	}

	type cell struct {
		text string
		x0   float64
	}

	var rows [][]cell
	var current []cell
	lastIdx := -1
	for _, w := range words {
		if w.line != lastIdx {
			if len(current) > 0 {
				rows = append(rows, current)
			}
			current = []cell{{text: w.text, x0: w.x0}}
			lastIdx = w.line
			continue
		}

		prev := &current[len(current)-1]
		prevEnd := wordEnd(words, w, prev.x0)
		if w.x0-prevEnd > s.GapThreshold {
			current = append(current, cell{text: w.text, x0: w.x0})
		} else {
			prev.text += " " + w.text
		}
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}

	// Cluster cell start positions into column boundaries.
	var starts []float64
	for _, row := range rows {
		for _, c := range row {
			starts = append(starts, c.x0)
		}
	}
	sort.Float64s(starts)

	var boundaries []float64
	for _, x := range starts {
		if len(boundaries) == 0 || x-boundaries[len(boundaries)-1] > s.ClusterTolerance {
			boundaries = append(boundaries, x)
		}
	}
	if len(boundaries) < 2 {
		return nil
	}

	grid := make([][]string, len(rows))
	for i, row := range rows {
		grid[i] = make([]string, len(boundaries))
		for _, c := range row {
			col := boundaryIndex(boundaries, c.x0, s.ClusterTolerance)
			if grid[i][col] == "" {
				grid[i][col] = c.text
			} else {
				grid[i][col] += " " + c.text
			}
		}
	}

	return dropEmptyRows(grid)
}

// wordEnd returns the x1 of the previous word in the same cell. The cell
// only tracks its start, so scan back for the word that ended last.
func wordEnd(words []word, next word, cellStart float64) float64 {
	end := cellStart
	for _, w := range words {
		if w.line == next.line && w.x0 >= cellStart && w.x0 < next.x0 && w.x1 > end {
			end = w.x1
		}
	}
	return end
}

// intervalIndex returns i such that xs[i] <= v < xs[i+1], or -1.
func intervalIndex(xs []float64, v float64) int {
	for i := 0; i < len(xs)-1; i++ {
		if v >= xs[i] && v < xs[i+1] {
			return i
		}
	}
	return -1
}

// reverseIntervalIndex returns i such that ys[i] >= v > ys[i+1] for a
// descending slice, or -1.
func reverseIntervalIndex(ys []float64, v float64) int {
	for i := 0; i < len(ys)-1; i++ {
		if v <= ys[i] && v > ys[i+1] {
			return i
		}
	}
	return -1
}

// boundaryIndex returns the column whose boundary is closest below x0.
func boundaryIndex(boundaries []float64, x0, tolerance float64) int {
	idx := 0
	for i, b := range boundaries {
		if x0+tolerance >= b {
			idx = i
		}
	}
	return idx
}

func dropEmptyRows(grid [][]string) [][]string {
	var rows [][]string
	for _, row := range grid {
		if anyNonEmpty(row) {
			rows = append(rows, row)
		}
	}
	return rows
}
