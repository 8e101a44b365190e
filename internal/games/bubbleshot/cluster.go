package bubbleshot

import "github.com/kamstrup/intmap"

// minClusterSize is the smallest same-color group that pops.
const minClusterSize = 3

// SameColorCluster returns the maximal set of board-adjacent cells sharing
// the seed cell's color, seed included. Returns nil for an empty seed.
// Breadth-first over the six hex neighbors; the queue is bounded by the
// total cell count and the visited set is keyed by packed cell integers.
func (b *Board) SameColorCluster(col, row int) []Cell {
	target := b.ColorAt(col, row)
	if target == NoBubble {
		return nil
	}

	queue := make([]Cell, 0, b.cellCapacity())
	visited := intmap.NewSet[int32](b.cellCapacity())

	queue = append(queue, Cell{col, row})
	visited.Add(b.key(col, row))

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, off := range neighborOffsets(cur.Row) {
			nc, nr := cur.Col+off.Col, cur.Row+off.Row
			if b.ColorAt(nc, nr) != target {
				continue
			}
			k := b.key(nc, nr)
			if visited.Has(k) {
				continue
			}
			visited.Add(k)
			queue = append(queue, Cell{nc, nr})
		}
	}
	return queue
}

// ceilingConnected returns the set of occupied cells connected, directly or
// transitively, to row 0. Traversal follows occupancy regardless of color.
func (b *Board) ceilingConnected() *intmap.Set[int32] {
	queue := make([]Cell, 0, b.cellCapacity())
	visited := intmap.NewSet[int32](b.cellCapacity())

	if len(b.rows) > 0 {
		for col, c := range b.rows[0] {
			if c == NoBubble {
				continue
			}
			queue = append(queue, Cell{col, 0})
			visited.Add(b.key(col, 0))
		}
	}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, off := range neighborOffsets(cur.Row) {
			nc, nr := cur.Col+off.Col, cur.Row+off.Row
			if !b.OccupiedAt(nc, nr) {
				continue
			}
			k := b.key(nc, nr)
			if visited.Has(k) {
				continue
			}
			visited.Add(k)
			queue = append(queue, Cell{nc, nr})
		}
	}
	return visited
}

// Islands returns every occupied cell with no adjacency path back to the
// ceiling, in row-major order.
func (b *Board) Islands() []Cell {
	anchored := b.ceilingConnected()
	var islands []Cell
	b.EachBubble(func(col, row int, _ ColorID) {
		if !anchored.Has(b.key(col, row)) {
			islands = append(islands, Cell{col, row})
		}
	})
	return islands
}
