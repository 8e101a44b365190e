package bubbleshot

import (
	"math"

	"github.com/kamstrup/intmap"

	"github.com/arcadelab/bubbleshot/internal/core"
)

// Projectile is the in-flight shot bubble. It exists from fire until it
// resolves against the grid, the ceiling, or the bottom bound.
type Projectile struct {
	Pos   core.Vec2
	Vel   core.Vec2 // World units per second
	Color ColorID
}

// Advance integrates the projectile position over dt seconds.
func (p *Projectile) Advance(dt float64) {
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
}

// ReflectWalls bounces the projectile off the play-field side bounds.
// Horizontal velocity flips only while still moving toward the wall,
// so a bubble resting on a bound cannot oscillate.
func (p *Projectile) ReflectWalls(radius, fieldWidth float64) {
	if p.Pos.X-radius <= 0 && p.Vel.X < 0 {
		p.Vel.X = -p.Vel.X
	}
	if p.Pos.X+radius >= fieldWidth && p.Vel.X > 0 {
		p.Vel.X = -p.Vel.X
	}
}

// Particle is a bubble severed from the ceiling, falling under gravity
// until it leaves the bottom of the field.
type Particle struct {
	Pos   core.Vec2
	VY    float64 // World units per second, gravity-accumulating
	Color ColorID
}

// collisionRowWindow is how many rows above and below the projectile's
// approximate row the grid-hit scan inspects. Two rows is enough: a bubble
// can only touch cells within one diameter, which spans at most two rows
// of hex packing.
const collisionRowWindow = 2

// HitsCeiling reports whether the projectile's top edge crossed the field top.
func (b *Board) HitsCeiling(p *Projectile) bool {
	return p.Pos.Y-b.radius <= 0
}

// HitsGrid reports whether the projectile center lies within one diameter
// of any occupied cell. Only rows near the projectile's approximate row are
// scanned; anything further cannot be within range.
func (b *Board) HitsGrid(p *Projectile) bool {
	limitSq := b.diameter * b.diameter
	approx := int(math.Round((p.Pos.Y - b.radius) / b.rowH))

	for row := approx - collisionRowWindow; row <= approx+collisionRowWindow; row++ {
		if row < 0 || row >= len(b.rows) {
			continue
		}
		for col, c := range b.rows[row] {
			if c == NoBubble {
				continue
			}
			x, y := b.CellToWorld(col, row)
			if p.Pos.DistSq(core.Vec2{X: x, Y: y}) <= limitSq {
				return true
			}
		}
	}
	return false
}

// snapHops is the neighbor search radius used when snapping an impact
// point to a free cell.
const snapHops = 2

// SnapCell maps an impact point to the nearest unoccupied legal slot among
// the seed cell (from WorldToCell) and its neighbors out to two hops,
// choosing by Euclidean distance to each candidate's center. The boolean is
// false when every candidate is occupied, which callers treat as a
// defensive discard.
func (b *Board) SnapCell(x, y float64) (Cell, bool) {
	seedCol, seedRow := b.WorldToCell(x, y)

	frontier := []Cell{{seedCol, seedRow}}
	visited := intmap.NewSet[int32](b.cellCapacity())
	visited.Add(b.key(seedCol, seedRow))
	candidates := []Cell{{seedCol, seedRow}}

	for hop := 0; hop < snapHops; hop++ {
		var next []Cell
		for _, cur := range frontier {
			for _, off := range neighborOffsets(cur.Row) {
				nc, nr := cur.Col+off.Col, cur.Row+off.Row
				if !b.slotValid(nc, nr) {
					continue
				}
				k := b.key(nc, nr)
				if visited.Has(k) {
					continue
				}
				visited.Add(k)
				next = append(next, Cell{nc, nr})
				candidates = append(candidates, Cell{nc, nr})
			}
		}
		frontier = next
	}

	impact := core.Vec2{X: x, Y: y}
	best := Cell{-1, -1}
	bestDist := math.MaxFloat64
	for _, cand := range candidates {
		if b.OccupiedAt(cand.Col, cand.Row) {
			continue
		}
		cx, cy := b.CellToWorld(cand.Col, cand.Row)
		if d := impact.DistSq(core.Vec2{X: cx, Y: cy}); d < bestDist {
			bestDist = d
			best = cand
		}
	}
	if best.Col < 0 {
		return Cell{}, false
	}
	return best, true
}
