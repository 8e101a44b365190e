package bubbleshot

// Snapshot captures the full simulation state as primitive values for
// determinism testing. Float positions are scaled to integers so two runs
// compare exactly rather than within epsilon.
type Snapshot struct {
	Tick        int
	Score       int
	Mode        int
	Paused      bool
	ShotsLeft   int
	DropPending bool

	AimMilli     int // Aim angle, milliradians
	CurrentColor int
	NextColor    int

	HasProj    bool
	ProjXMilli int
	ProjYMilli int
	ProjVX     int
	ProjVY     int
	ProjColor  int

	FallingData []int // x, y, vy (milli-units) and color per particle

	Cols      int
	RowCount  int
	BoardData []int // Row-major cell colors, NoBubble included
}

func milli(v float64) int {
	if v >= 0 {
		return int(v*1000 + 0.5)
	}
	return int(v*1000 - 0.5)
}

// Snapshot returns the current simulation state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:         g.tickCount,
		Score:        g.score,
		Mode:         int(g.mode),
		Paused:       g.paused,
		ShotsLeft:    g.shotsLeft,
		DropPending:  g.dropPending,
		AimMilli:     milli(g.shooter.Angle),
		CurrentColor: int(g.shooter.Current),
		NextColor:    int(g.shooter.Next),
		Cols:         g.board.Cols(),
		RowCount:     g.board.Rows(),
	}

	if g.proj != nil {
		s.HasProj = true
		s.ProjXMilli = milli(g.proj.Pos.X)
		s.ProjYMilli = milli(g.proj.Pos.Y)
		s.ProjVX = milli(g.proj.Vel.X)
		s.ProjVY = milli(g.proj.Vel.Y)
		s.ProjColor = int(g.proj.Color)
	}

	for i := range g.falling {
		p := &g.falling[i]
		s.FallingData = append(s.FallingData,
			milli(p.Pos.X), milli(p.Pos.Y), milli(p.VY), int(p.Color))
	}

	for row := 0; row < g.board.Rows(); row++ {
		for col := 0; col < g.board.RowWidth(row); col++ {
			s.BoardData = append(s.BoardData, int(g.board.ColorAt(col, row)))
		}
	}
	return s
}

// Hash computes a deterministic hash of the snapshot for replay comparison.
func (s Snapshot) Hash() uint64 {
	h := uint64(14695981039346656037)
	mix := func(v int) {
		h = h*31 + uint64(uint32(int32(v)))
	}
	mixBool := func(b bool) {
		if b {
			mix(1)
		} else {
			mix(0)
		}
	}

	mix(s.Tick)
	mix(s.Score)
	mix(s.Mode)
	mixBool(s.Paused)
	mix(s.ShotsLeft)
	mixBool(s.DropPending)
	mix(s.AimMilli)
	mix(s.CurrentColor)
	mix(s.NextColor)
	mixBool(s.HasProj)
	mix(s.ProjXMilli)
	mix(s.ProjYMilli)
	mix(s.ProjVX)
	mix(s.ProjVY)
	mix(s.ProjColor)
	mix(len(s.FallingData))
	for _, v := range s.FallingData {
		mix(v)
	}
	mix(s.Cols)
	mix(s.RowCount)
	mix(len(s.BoardData))
	for _, v := range s.BoardData {
		mix(v)
	}
	return h
}
