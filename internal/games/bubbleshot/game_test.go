package bubbleshot

import (
	"math"
	"testing"

	"github.com/arcadelab/bubbleshot/internal/config"
	"github.com/arcadelab/bubbleshot/internal/core"
)

func testConfig() config.BubbleshotConfig {
	cfg := config.DefaultBubbleshotConfig()
	cfg.Difficulty.Enabled = false
	return cfg
}

// emptyConfig disables board seeding so tests can lay out exact scenarios.
func emptyConfig() config.BubbleshotConfig {
	cfg := testConfig()
	cfg.Gameplay.SeedRows = 0
	cfg.Gameplay.SeedDensity = 0
	return cfg
}

func newTestGame(cfg config.BubbleshotConfig, seed int64) *Game {
	g := New()
	g.configure(core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 60, Seed: seed}, cfg)
	return g
}

// runUntilResolved ticks until the in-flight shot resolves.
func runUntilResolved(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 600; i++ {
		if g.proj == nil {
			return
		}
		g.Tick(1.0 / 60.0)
	}
	t.Fatal("projectile did not resolve within 600 ticks")
}

func TestSeededBoard(t *testing.T) {
	cfg := testConfig()
	g := newTestGame(cfg, 42)

	if g.board.Rows() != cfg.Gameplay.SeedRows {
		t.Errorf("seeded rows = %d, want %d", g.board.Rows(), cfg.Gameplay.SeedRows)
	}
	if g.board.IsEmpty() {
		t.Fatal("seeded board should not be empty")
	}
	g.board.EachBubble(func(col, row int, c ColorID) {
		if c < 0 || int(c) >= cfg.Gameplay.SeedColors {
			t.Errorf("seed color %d at (%d,%d) outside opening subset", c, col, row)
		}
	})
	if g.Mode() != ModePlaying {
		t.Errorf("mode = %v, want playing", g.Mode())
	}
}

func TestDeterministicReplay(t *testing.T) {
	run := func() Snapshot {
		g := newTestGame(testConfig(), 7)
		for tick := 0; tick < 400; tick++ {
			frame := core.NewInputFrame()
			switch {
			case tick < 30:
				frame.Set(core.ActionLeft)
			case tick == 30 || tick == 200:
				frame.Set(core.ActionFire)
			case tick > 300 && tick < 320:
				frame.Set(core.ActionRight)
			}
			g.Step(frame)
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if a.Hash() != b.Hash() {
		t.Errorf("replay diverged: %d vs %d", a.Hash(), b.Hash())
	}
	if a.Tick != 400 {
		t.Errorf("tick count = %d, want 400", a.Tick)
	}
}

func TestResolveClustersScoring(t *testing.T) {
	g := newTestGame(emptyConfig(), 1)

	// Three reds anchored at the ceiling, two blues hanging only off them,
	// one unrelated green elsewhere.
	g.board.PlaceAt(0, 0, 0)
	g.board.PlaceAt(1, 0, 0)
	g.board.PlaceAt(2, 0, 0)
	g.board.PlaceAt(0, 1, 1)
	g.board.PlaceAt(1, 1, 1)
	g.board.PlaceAt(15, 0, 2)

	g.resolveClusters(Cell{1, 0})

	if g.Score() != 40 {
		t.Errorf("score = %d, want 40 (3 popped * 10 + 2 dropped * 5)", g.Score())
	}
	if len(g.Falling()) != 2 {
		t.Errorf("falling particles = %d, want 2", len(g.Falling()))
	}
	if g.board.OccupiedCount() != 1 {
		t.Errorf("remaining bubbles = %d, want 1", g.board.OccupiedCount())
	}
}

func TestResolveClustersBelowMinimum(t *testing.T) {
	g := newTestGame(emptyConfig(), 1)
	g.board.PlaceAt(0, 0, 0)
	g.board.PlaceAt(1, 0, 0)

	g.resolveClusters(Cell{1, 0})

	if g.Score() != 0 {
		t.Errorf("score = %d, want 0 for a two-bubble group", g.Score())
	}
	if g.board.OccupiedCount() != 2 {
		t.Error("group below the pop minimum must stay on the board")
	}
}

func TestFireRejections(t *testing.T) {
	g := newTestGame(emptyConfig(), 1)

	if !g.Fire() {
		t.Fatal("first fire should succeed")
	}
	if g.Fire() {
		t.Error("fire must be rejected while a shot is in flight")
	}

	g.proj = nil
	g.Pause()
	if g.Fire() {
		t.Error("fire must be rejected while paused")
	}
	g.Resume()

	g.mode = ModeLose
	if g.Fire() {
		t.Error("fire must be rejected after the game ends")
	}
	if g.FireAt(10, 10) {
		t.Error("FireAt must be rejected after the game ends")
	}
}

func TestFirePromotesLookahead(t *testing.T) {
	g := newTestGame(emptyConfig(), 1)
	next := g.shooter.Next

	g.Fire()

	if g.proj == nil {
		t.Fatal("no projectile after fire")
	}
	if g.shooter.Current != next {
		t.Errorf("current = %d after fire, want promoted lookahead %d", g.shooter.Current, next)
	}
}

func TestCeilingAdvanceAfterResolution(t *testing.T) {
	cfg := emptyConfig()
	cfg.Gameplay.DropInterval = 2
	g := newTestGame(cfg, 3)

	// First shot: counter decrements, no advance scheduled yet.
	g.Fire()
	runUntilResolved(t, g)
	if g.dropPending {
		t.Fatal("advance scheduled one shot early")
	}
	if g.shotsLeft != 1 {
		t.Fatalf("shotsLeft = %d, want 1", g.shotsLeft)
	}
	rowsAfterFirst := g.board.Rows()

	// Second shot arms the advance at fire time, but the board must not
	// move while the shot is still in flight.
	g.Fire()
	if !g.dropPending {
		t.Fatal("advance not scheduled at fire time")
	}
	for i := 0; i < 10; i++ {
		g.Tick(1.0 / 60.0)
	}
	if g.board.Rows() != rowsAfterFirst {
		t.Fatal("ceiling advanced mid-flight")
	}

	runUntilResolved(t, g)
	if g.dropPending {
		t.Error("pending advance not applied at resolution")
	}
	if g.board.Rows() != rowsAfterFirst+2 {
		t.Errorf("rows = %d after advance, want %d", g.board.Rows(), rowsAfterFirst+2)
	}
	if g.shotsLeft != 2 {
		t.Errorf("shotsLeft = %d after reschedule, want 2", g.shotsLeft)
	}
}

func TestWinOnClearedBoard(t *testing.T) {
	g := newTestGame(emptyConfig(), 1)
	g.board.PlaceAt(7, 0, 0)
	g.board.PlaceAt(8, 0, 0)
	g.shooter.Current = 0

	// Straight up from the default aim: the shot snaps in under the pair
	// and completes a three-bubble cluster.
	g.Fire()
	runUntilResolved(t, g)

	if g.Mode() != ModeWin {
		t.Fatalf("mode = %v, want win", g.Mode())
	}
	if !g.board.IsEmpty() {
		t.Error("board not empty after winning pop")
	}
	if g.Score() != 30 {
		t.Errorf("score = %d, want 30", g.Score())
	}
}

func TestWinBeatsPendingAdvance(t *testing.T) {
	cfg := emptyConfig()
	cfg.Gameplay.DropInterval = 1
	g := newTestGame(cfg, 1)
	g.board.PlaceAt(7, 0, 0)
	g.board.PlaceAt(8, 0, 0)
	g.shooter.Current = 0

	g.Fire()
	if !g.dropPending {
		t.Fatal("advance not scheduled at fire time")
	}
	runUntilResolved(t, g)

	// The winning pop empties the board before the pending advance runs,
	// so the game ends in a win and no rows appear.
	if g.Mode() != ModeWin {
		t.Fatalf("mode = %v, want win", g.Mode())
	}
	if !g.board.IsEmpty() {
		t.Error("pending advance must not run after the board clears")
	}
}

func TestLoseWhenBubbleReachesBottom(t *testing.T) {
	g := newTestGame(emptyConfig(), 1)
	g.board.PlaceAt(0, 0, 0)
	g.board.PlaceAt(0, 16, 1) // Row 16 center sits past the lose line

	g.checkEndConditions()

	if g.Mode() != ModeLose {
		t.Errorf("mode = %v, want lose", g.Mode())
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	g := newTestGame(emptyConfig(), 1)
	g.Fire()
	g.Tick(1.0 / 60.0)
	posBefore := g.proj.Pos

	g.Pause()
	g.Tick(1.0 / 60.0)
	if g.proj.Pos != posBefore {
		t.Error("projectile moved while paused")
	}

	g.Resume()
	g.Tick(1.0 / 60.0)
	if g.proj.Pos == posBefore {
		t.Error("projectile frozen after resume")
	}
}

func TestPauseToggleViaStep(t *testing.T) {
	g := newTestGame(testConfig(), 1)

	frame := core.NewInputFrame()
	frame.Set(core.ActionPause)
	g.Step(frame)
	if !g.State().Paused {
		t.Fatal("not paused after pause action")
	}

	g.Step(frame)
	if g.State().Paused {
		t.Error("still paused after second pause action")
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	g := newTestGame(testConfig(), 5)
	g.mode = ModeLose
	g.score = 120

	frame := core.NewInputFrame()
	frame.Set(core.ActionRestart)
	g.Step(frame)

	if g.Mode() != ModePlaying {
		t.Errorf("mode = %v after restart, want playing", g.Mode())
	}
	if g.Score() != 0 {
		t.Errorf("score = %d after restart, want 0", g.Score())
	}
	if g.board.IsEmpty() {
		t.Error("board not reseeded after restart")
	}
}

func TestRestartIgnoredMidGame(t *testing.T) {
	g := newTestGame(testConfig(), 5)
	g.score = 50

	frame := core.NewInputFrame()
	frame.Set(core.ActionRestart)
	g.Step(frame)

	if g.Score() != 50 {
		t.Error("restart must be ignored while still playing")
	}
}

func TestAimClamp(t *testing.T) {
	g := newTestGame(emptyConfig(), 1)
	margin := g.cfg.Shooter.AngleMargin

	// Horizontal-left target clamps to the cone edge.
	g.AimAt(0, g.shooter.Y)
	if math.Abs(g.shooter.Angle-(math.Pi-margin)) > 1e-9 {
		t.Errorf("left clamp: angle = %f, want %f", g.shooter.Angle, math.Pi-margin)
	}

	// Target below the shooter clamps instead of aiming downward.
	g.AimAt(g.shooter.X, g.shooter.Y+10)
	if math.Abs(g.shooter.Angle-margin) > 1e-9 {
		t.Errorf("below clamp: angle = %f, want %f", g.shooter.Angle, margin)
	}

	// Straight-up target aims exactly up.
	g.AimAt(g.shooter.X, 0)
	if math.Abs(g.shooter.Angle-math.Pi/2) > 1e-9 {
		t.Errorf("up: angle = %f, want pi/2", g.shooter.Angle)
	}
}

func TestKeyboardAim(t *testing.T) {
	g := newTestGame(emptyConfig(), 1)
	start := g.shooter.Angle
	step := g.cfg.Shooter.AimSpeed / 60.0

	frame := core.NewInputFrame()
	frame.Set(core.ActionLeft)
	g.Step(frame)
	if math.Abs(g.shooter.Angle-(start+step)) > 1e-9 {
		t.Errorf("left aim: angle = %f, want %f", g.shooter.Angle, start+step)
	}

	frame = core.NewInputFrame()
	frame.Set(core.ActionRight)
	g.Step(frame)
	if math.Abs(g.shooter.Angle-start) > 1e-9 {
		t.Errorf("right aim: angle = %f, want %f", g.shooter.Angle, start)
	}
}

func TestPointerFire(t *testing.T) {
	g := newTestGame(emptyConfig(), 1)

	// Click inside the field fires toward the pointer.
	frame := core.NewInputFrame()
	frame.SetPointer(g.offsetX+5, g.offsetY+2)
	frame.Click()
	g.Step(frame)
	if g.proj == nil {
		t.Fatal("click inside the field did not fire")
	}

	// A click on the HUD, outside the field box, is ignored.
	g2 := newTestGame(emptyConfig(), 1)
	frame = core.NewInputFrame()
	frame.SetPointer(1, 0)
	frame.Click()
	g2.Step(frame)
	if g2.proj != nil {
		t.Error("click outside the field should not fire")
	}
}

func TestFallingParticlesFallAndCull(t *testing.T) {
	g := newTestGame(emptyConfig(), 1)
	g.falling = []Particle{{Pos: core.Vec2{X: 10, Y: 5}, Color: 1}}

	g.updateFalling(0.1)
	if len(g.falling) != 1 {
		t.Fatal("particle culled too early")
	}
	if g.falling[0].Pos.Y <= 5 || g.falling[0].VY <= 0 {
		t.Error("particle not accelerating downward")
	}

	// Run long enough to cross the bottom bound.
	for i := 0; i < 200; i++ {
		g.updateFalling(0.1)
	}
	if len(g.falling) != 0 {
		t.Error("particle not culled after leaving the field")
	}
}

func TestScreenTooSmall(t *testing.T) {
	g := New()
	g.configure(core.RuntimeConfig{ScreenW: 10, ScreenH: 5, TickRate: 60, Seed: 1}, testConfig())

	if !g.screenTooSmall {
		t.Fatal("10x5 screen should be flagged too small")
	}

	frame := core.NewInputFrame()
	frame.Set(core.ActionFire)
	g.Step(frame)
	if g.proj != nil {
		t.Error("simulation must not run on a too-small screen")
	}

	screen := core.NewScreen(10, 5)
	g.Render(screen) // Must not panic; shows the size hint instead
}

func TestSnapshotRoundsTrips(t *testing.T) {
	g := newTestGame(testConfig(), 9)
	g.Fire()
	g.Tick(1.0 / 60.0)

	s := g.Snapshot()
	if !s.HasProj {
		t.Error("snapshot missing in-flight projectile")
	}
	if s.Cols != g.board.Cols() || s.RowCount != g.board.Rows() {
		t.Error("snapshot board dimensions wrong")
	}
	if len(s.BoardData) == 0 {
		t.Error("snapshot board data empty")
	}
	if s.Hash() != g.Snapshot().Hash() {
		t.Error("hash of identical state differs")
	}
}
