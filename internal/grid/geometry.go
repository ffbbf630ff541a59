// Package grid provides the coordinate math for the benchtop placement
// surface: conversions between linear cell numbers and (row, col) pairs,
// footprint enumeration for multi-cell widgets, bounds checks, and the
// pixel geometry used to position widgets on screen.
//
// Cells are numbered 1..TotalCells, row-major, left-to-right then
// top-to-bottom. Rows and columns are 0-based. All functions are pure;
// Config is immutable once constructed.
package grid

// Config describes a fixed placement grid.
type Config struct {
	Columns    int
	Rows       int
	CellWidth  int // pixel width of one cell
	CellHeight int // pixel height of one cell
	Gap        int // pixel gap between cells (and around the edges)
}

// Point is a pixel position on the surface.
type Point struct {
	X int
	Y int
}

// Rect is a pixel rectangle on the surface.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether p lies inside r, with inclusive left/top and
// exclusive right/bottom edges.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// RowCol is a 0-based grid coordinate.
type RowCol struct {
	Row int
	Col int
}

// TotalCells returns Columns × Rows.
func (c Config) TotalCells() int {
	return c.Columns * c.Rows
}

// InRange reports whether cell is a valid cell number for this grid.
func (c Config) InRange(cell int) bool {
	return cell >= 1 && cell <= c.TotalCells()
}

// CellToRowCol converts a 1-based cell number to 0-based (row, col).
// The second return value is false when the cell is out of range.
func (c Config) CellToRowCol(cell int) (RowCol, bool) {
	if !c.InRange(cell) {
		return RowCol{}, false
	}
	idx := cell - 1
	return RowCol{Row: idx / c.Columns, Col: idx % c.Columns}, true
}

// RowColToCell converts a 0-based (row, col) to a 1-based cell number.
// It performs no range checking; pair with InRange when the input is
// not already known to be valid.
func (c Config) RowColToCell(rc RowCol) int {
	return rc.Row*c.Columns + rc.Col + 1
}

// FootprintCells enumerates the rectangular block of cells anchored at
// anchor, extending cols to the right and rows down. Positions that
// fall outside the grid are reported as 0 (which InRange rejects)
// rather than wrapping into the next row, so the result never aliases
// a real cell.
func (c Config) FootprintCells(anchor, cols, rows int) []int {
	rc, ok := c.CellToRowCol(anchor)
	if !ok || cols < 1 || rows < 1 {
		return nil
	}
	cells := make([]int, 0, cols*rows)
	for dr := 0; dr < rows; dr++ {
		for dc := 0; dc < cols; dc++ {
			p := RowCol{Row: rc.Row + dr, Col: rc.Col + dc}
			cell := 0
			if p.Col < c.Columns && p.Row < c.Rows {
				cell = c.RowColToCell(p)
			}
			cells = append(cells, cell)
		}
	}
	return cells
}

// Fits reports whether a cols×rows footprint anchored at anchor lies
// entirely inside the grid. A 1×1 footprint fits anywhere its anchor is
// in range.
func (c Config) Fits(anchor, cols, rows int) bool {
	rc, ok := c.CellToRowCol(anchor)
	if !ok || cols < 1 || rows < 1 {
		return false
	}
	return rc.Col+cols <= c.Columns && rc.Row+rows <= c.Rows
}

// ClampAnchorForFootprint shifts target left/up just far enough for a
// cols×rows footprint to stay inside the grid. It returns 0 when no
// anchor can hold the footprint (target out of range, or the footprint
// is larger than the grid in either dimension).
func (c Config) ClampAnchorForFootprint(target, cols, rows int) int {
	rc, ok := c.CellToRowCol(target)
	if !ok || cols < 1 || rows < 1 {
		return 0
	}
	if cols > c.Columns || rows > c.Rows {
		return 0
	}
	if max := c.Columns - cols; rc.Col > max {
		rc.Col = max
	}
	if max := c.Rows - rows; rc.Row > max {
		rc.Row = max
	}
	return c.RowColToCell(rc)
}

// CellAtPosition resolves the cell owning the pixel at p. Each cell owns
// the half-open band starting at its origin and running through the gap
// that follows it, so every pixel belongs to exactly one cell; positions
// outside the surface are clamped to the nearest edge cell.
func (c Config) CellAtPosition(p Point) int {
	strideX := c.CellWidth + c.Gap
	strideY := c.CellHeight + c.Gap
	col := (p.X - c.Gap) / strideX
	row := (p.Y - c.Gap) / strideY
	if col < 0 {
		col = 0
	} else if col >= c.Columns {
		col = c.Columns - 1
	}
	if row < 0 {
		row = 0
	} else if row >= c.Rows {
		row = c.Rows - 1
	}
	return c.RowColToCell(RowCol{Row: row, Col: col})
}

// CellOrigin returns the top-left pixel of a cell.
func (c Config) CellOrigin(cell int) Point {
	rc, _ := c.CellToRowCol(cell)
	return Point{
		X: c.Gap + rc.Col*(c.CellWidth+c.Gap),
		Y: c.Gap + rc.Row*(c.CellHeight+c.Gap),
	}
}

// CellRect returns the pixel rectangle of a single cell.
func (c Config) CellRect(cell int) Rect {
	origin := c.CellOrigin(cell)
	return Rect{X: origin.X, Y: origin.Y, Width: c.CellWidth, Height: c.CellHeight}
}

// FootprintRect returns the pixel rectangle spanned by a cols×rows
// footprint anchored at anchor, including the interior gaps.
func (c Config) FootprintRect(anchor, cols, rows int) Rect {
	origin := c.CellOrigin(anchor)
	return Rect{
		X:      origin.X,
		Y:      origin.Y,
		Width:  cols*c.CellWidth + (cols-1)*c.Gap,
		Height: rows*c.CellHeight + (rows-1)*c.Gap,
	}
}

// PixelSize returns the total pixel dimensions of the surface,
// including the leading and trailing gaps.
func (c Config) PixelSize() (width, height int) {
	width = c.Gap + c.Columns*(c.CellWidth+c.Gap)
	height = c.Gap + c.Rows*(c.CellHeight+c.Gap)
	return width, height
}
