// Package bubbleshot implements the bubble shooter simulation: a staggered
// hexagonal grid of colored bubbles, a player-aimed projectile, cluster
// popping, island drops and periodic ceiling advancement. The package
// contains pure game logic with no TUI dependencies.
package bubbleshot

import "math"

// ColorID indexes the active palette. NoBubble marks an empty slot.
type ColorID int8

// NoBubble is the empty-slot marker.
const NoBubble ColorID = -1

// maxPaletteSize bounds the number of distinct bubble colors a board can hold.
const maxPaletteSize = 16

// Cell addresses a board slot by column and row.
type Cell struct {
	Col, Row int
}

// Board owns the staggered-row bubble grid. Even rows hold cols slots,
// odd rows cols-1 slots shifted right by one radius, which packs the
// bubbles hexagonally without polar coordinates.
type Board struct {
	cols     int // Slots on even rows; odd rows hold cols-1
	radius   float64
	diameter float64
	rowH     float64 // Vertical row spacing: diameter * √3/2
	rows     [][]ColorID
}

// NewBoard creates an empty board sized for the given play-field width.
// The even-row column count is floor(fieldWidth / diameter).
func NewBoard(fieldWidth, radius float64) *Board {
	d := radius * 2
	return &Board{
		cols:     int(fieldWidth / d),
		radius:   radius,
		diameter: d,
		rowH:     d * math.Sqrt(3) / 2,
	}
}

// Cols returns the even-row column count.
func (b *Board) Cols() int {
	return b.cols
}

// Rows returns the current number of rows.
func (b *Board) Rows() int {
	return len(b.rows)
}

// RowHeight returns the vertical spacing between rows in world units.
func (b *Board) RowHeight() float64 {
	return b.rowH
}

// RowWidth returns the parity-determined slot count for a row index.
func (b *Board) RowWidth(row int) int {
	if row%2 == 0 {
		return b.cols
	}
	return b.cols - 1
}

// EnsureRows grows the row sequence (never shrinks) to at least count rows,
// filling new rows with empty slots of the parity-correct length.
func (b *Board) EnsureRows(count int) {
	for len(b.rows) < count {
		b.rows = append(b.rows, b.emptyRow(len(b.rows)))
	}
}

func (b *Board) emptyRow(row int) []ColorID {
	r := make([]ColorID, b.RowWidth(row))
	for i := range r {
		r[i] = NoBubble
	}
	return r
}

// resizeRow renormalizes a row to its parity-determined length, truncating
// or padding with empty slots. Needed after a ceiling advance flips parity.
func (b *Board) resizeRow(row int) {
	want := b.RowWidth(row)
	cur := b.rows[row]
	switch {
	case len(cur) > want:
		b.rows[row] = cur[:want:want]
	case len(cur) < want:
		padded := make([]ColorID, want)
		copy(padded, cur)
		for i := len(cur); i < want; i++ {
			padded[i] = NoBubble
		}
		b.rows[row] = padded
	}
}

// CellToWorld maps a cell to the world-space center of its bubble.
func (b *Board) CellToWorld(col, row int) (x, y float64) {
	x = float64(col)*b.diameter + b.radius
	if row%2 == 1 {
		x += b.radius
	}
	y = float64(row)*b.rowH + b.radius
	return x, y
}

// WorldToCell maps a world point to the nearest cell: nearest row first,
// then nearest column given that row's parity offset. Near cell boundaries
// it is only approximate; callers refine it with a nearest-free-cell search.
func (b *Board) WorldToCell(x, y float64) (col, row int) {
	row = int(math.Round((y - b.radius) / b.rowH))
	if row < 0 {
		row = 0
	}
	off := 0.0
	if row%2 == 1 {
		off = b.radius
	}
	col = int(math.Round((x - b.radius - off) / b.diameter))
	if col < 0 {
		col = 0
	}
	if max := b.RowWidth(row) - 1; col > max {
		col = max
	}
	return col, row
}

// InBounds reports whether the cell addresses an existing slot.
func (b *Board) InBounds(col, row int) bool {
	return row >= 0 && row < len(b.rows) && col >= 0 && col < b.RowWidth(row)
}

// slotValid reports whether the cell is a legal slot position, including
// slots in rows that have not been materialized yet.
func (b *Board) slotValid(col, row int) bool {
	return row >= 0 && col >= 0 && col < b.RowWidth(row)
}

// OccupiedAt reports whether the cell holds a bubble.
func (b *Board) OccupiedAt(col, row int) bool {
	return b.ColorAt(col, row) != NoBubble
}

// ColorAt returns the bubble color at the cell, or NoBubble if the slot is
// empty or out of bounds.
func (b *Board) ColorAt(col, row int) ColorID {
	if !b.InBounds(col, row) {
		return NoBubble
	}
	return b.rows[row][col]
}

// PlaceAt puts a bubble into the cell, growing rows as needed.
// Returns false without mutating if the slot is invalid or already occupied.
func (b *Board) PlaceAt(col, row int, c ColorID) bool {
	if c == NoBubble || !b.slotValid(col, row) {
		return false
	}
	b.EnsureRows(row + 1)
	if b.rows[row][col] != NoBubble {
		return false
	}
	b.rows[row][col] = c
	return true
}

// RemoveAt clears the cell and returns the removed color,
// or NoBubble if the slot was empty or out of bounds.
func (b *Board) RemoveAt(col, row int) ColorID {
	if !b.InBounds(col, row) {
		return NoBubble
	}
	c := b.rows[row][col]
	b.rows[row][col] = NoBubble
	return c
}

// PrependRows shifts the whole grid down by n rows and fills the new top
// rows via fill. Every surviving row is renormalized to its new
// parity-determined length.
func (b *Board) PrependRows(n int, fill func(col, row int) ColorID) {
	if n <= 0 {
		return
	}
	fresh := make([][]ColorID, n, n+len(b.rows))
	for row := 0; row < n; row++ {
		fresh[row] = make([]ColorID, b.RowWidth(row))
		for col := range fresh[row] {
			fresh[row][col] = fill(col, row)
		}
	}
	b.rows = append(fresh, b.rows...)
	for row := n; row < len(b.rows); row++ {
		b.resizeRow(row)
	}
}

// OccupiedCount returns the number of bubbles on the board.
func (b *Board) OccupiedCount() int {
	count := 0
	for _, row := range b.rows {
		for _, c := range row {
			if c != NoBubble {
				count++
			}
		}
	}
	return count
}

// IsEmpty reports whether the board holds no bubbles.
func (b *Board) IsEmpty() bool {
	return b.OccupiedCount() == 0
}

// EachBubble calls fn for every occupied cell in row-major order.
func (b *Board) EachBubble(fn func(col, row int, c ColorID)) {
	for row := range b.rows {
		for col, c := range b.rows[row] {
			if c != NoBubble {
				fn(col, row, c)
			}
		}
	}
}

// Colors returns the distinct colors currently on the board in ascending
// ColorID order, keeping spawn draws deterministic.
func (b *Board) Colors() []ColorID {
	var present [maxPaletteSize]bool
	for _, row := range b.rows {
		for _, c := range row {
			if c != NoBubble {
				present[c] = true
			}
		}
	}
	var out []ColorID
	for id, ok := range present {
		if ok {
			out = append(out, ColorID(id))
		}
	}
	return out
}

// key packs a cell into a single integer for visited-set membership.
func (b *Board) key(col, row int) int32 {
	return int32(row*b.cols + col)
}

// cellCapacity bounds BFS queue sizes by the total slot count.
func (b *Board) cellCapacity() int {
	n := b.cols * len(b.rows)
	if n < b.cols {
		n = b.cols
	}
	return n
}

// Neighbor offsets over the six hex directions. The set depends on row
// parity because odd rows sit half a diameter to the right.
var (
	evenRowNeighbors = [6]Cell{{-1, 0}, {1, 0}, {-1, -1}, {0, -1}, {-1, 1}, {0, 1}}
	oddRowNeighbors  = [6]Cell{{-1, 0}, {1, 0}, {0, -1}, {1, -1}, {0, 1}, {1, 1}}
)

func neighborOffsets(row int) [6]Cell {
	if row%2 == 0 {
		return evenRowNeighbors
	}
	return oddRowNeighbors
}
