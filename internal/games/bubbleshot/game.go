package bubbleshot

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/arcadelab/bubbleshot/internal/config"
	"github.com/arcadelab/bubbleshot/internal/core"
)

// Visual characters for rendering
const (
	BubbleChar   = '●'
	ShooterChar  = '△'
	AimChar      = '·'
	ParticleChar = 'o'
)

// Mode is the game lifecycle state. Win and Lose are terminal; only a full
// restart leaves them.
type Mode int

const (
	ModePlaying Mode = iota
	ModeWin
	ModeLose
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModePlaying:
		return "playing"
	case ModeWin:
		return "win"
	case ModeLose:
		return "lose"
	default:
		return "unknown"
	}
}

// Shooter holds the two-slot bubble lookahead and the aim angle.
// The angle is measured in radians from the positive x axis with the
// y component inverted, so straight up is π/2.
type Shooter struct {
	X, Y    float64
	Angle   float64
	Current ColorID
	Next    ColorID
}

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = ""
	}
}

// Game owns the whole simulation: board, shooter, transient entities,
// score, mode and the ceiling-drop schedule. One instance is mutated only
// inside Step/Tick, never concurrently.
type Game struct {
	// Board and transient entities
	board   *Board
	shooter Shooter
	proj    *Projectile
	falling []Particle

	// Game state
	mode        Mode
	paused      bool
	score       int
	tickCount   int
	shotsLeft   int  // Shots remaining before a ceiling advance is scheduled
	dropPending bool // Advance armed; applied when the in-flight shot resolves

	// Derived world parameters
	fieldW, fieldH float64
	radius         float64
	maxStep        float64 // Seconds; long frames are clamped to this
	minAngle       float64
	maxAngle       float64

	// Palette mapping from ColorID to display color
	palette []core.Color

	rng *rand.Rand

	// Configuration
	runtime    core.RuntimeConfig
	cfg        config.BubbleshotConfig
	difficulty *config.DifficultyManager

	// Last pointer position the aim followed
	lastPtrX, lastPtrY int
	ptrSeen            bool

	// Layout (computed from screen size)
	fieldCellsW    int // Field interior width in screen cells
	fieldCellsH    int // Field interior height in screen cells
	offsetX        int // Screen x of field interior
	offsetY        int // Screen y of field interior
	minScreenW     int
	minScreenH     int
	screenTooSmall bool
}

// New creates a new bubble shooter game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "bubbleshot"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Bubble Shooter"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	// Load game config
	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.DefaultBubbleshotConfig()
	}

	// Apply difficulty preset if set
	if difficultyPreset != "" {
		config.ApplyPreset(&cfg, difficultyPreset)
	}

	g.configure(runtime, cfg)
}

// configure applies a fully-resolved config and rebuilds the game state.
func (g *Game) configure(runtime core.RuntimeConfig, cfg config.BubbleshotConfig) {
	g.runtime = runtime
	g.cfg = cfg

	// Initialize difficulty manager
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	// Derived world parameters
	g.radius = cfg.Bubble.Radius
	g.fieldW = cfg.Field.Width
	g.fieldH = cfg.Field.Height
	g.maxStep = float64(cfg.Physics.MaxStepMS) / 1000.0
	g.minAngle = cfg.Shooter.AngleMargin
	g.maxAngle = math.Pi - cfg.Shooter.AngleMargin

	g.palette = parsePalette(cfg.Gameplay.Palette)

	// Seed RNG for deterministic gameplay
	g.rng = rand.New(rand.NewSource(runtime.Seed))

	// Calculate layout and check screen size
	g.calculateLayout()

	g.restart()
}

// parsePalette resolves the configured color names, falling back to the
// default palette on any bad name.
func parsePalette(names []string) []core.Color {
	if len(names) > maxPaletteSize {
		names = names[:maxPaletteSize]
	}
	out := make([]core.Color, 0, len(names))
	for _, name := range names {
		c, err := core.ParseColor(name)
		if err != nil {
			return parsePalette(config.DefaultBubbleshotConfig().Gameplay.Palette)
		}
		out = append(out, c)
	}
	if len(out) < 2 {
		return parsePalette(config.DefaultBubbleshotConfig().Gameplay.Palette)
	}
	return out
}

// calculateLayout computes the field's screen placement.
func (g *Game) calculateLayout() {
	board := NewBoard(g.fieldW, g.radius)

	// One screen cell per bubble radius horizontally, one row of cells per
	// grid row vertically. HUD takes the top 2 rows; the field is boxed.
	g.fieldCellsW = int(g.fieldW / g.radius)
	g.fieldCellsH = int(g.fieldH/board.RowHeight()) + 1

	g.offsetX = (g.runtime.ScreenW - g.fieldCellsW) / 2
	if g.offsetX < 1 {
		g.offsetX = 1
	}
	g.offsetY = 3 // HUD rows 0-1, top border row 2

	g.minScreenW = g.fieldCellsW + 2
	g.minScreenH = g.fieldCellsH + 4
	g.screenTooSmall = g.runtime.ScreenW < g.minScreenW || g.runtime.ScreenH < g.minScreenH
}

// restart rebuilds all game state: a fresh seeded board, reset score, mode,
// shooter queue and drop schedule.
func (g *Game) restart() {
	g.board = NewBoard(g.fieldW, g.radius)
	g.seedBoard()

	g.score = 0
	g.tickCount = 0
	g.mode = ModePlaying
	g.paused = false
	g.proj = nil
	g.falling = nil
	g.dropPending = false
	g.shotsLeft = g.cfg.Gameplay.DropInterval

	g.shooter = Shooter{
		X:       g.fieldW / 2,
		Y:       g.fieldH - g.radius,
		Angle:   math.Pi / 2, // Straight up
		Current: g.randomColor(),
		Next:    g.randomColor(),
	}
}

// seedBoard fills the opening rows at the configured density, drawing from
// a reduced palette prefix so the early board stays solvable.
func (g *Game) seedBoard() {
	colors := g.spawnColorCount()
	rows := g.cfg.Gameplay.SeedRows
	g.board.EnsureRows(rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < g.board.RowWidth(row); col++ {
			if g.rng.Float64() < g.cfg.Gameplay.SeedDensity {
				g.board.PlaceAt(col, row, ColorID(g.rng.Intn(colors)))
			}
		}
	}
}

// spawnColorCount returns how many palette colors spawns may use right now.
func (g *Game) spawnColorCount() int {
	base := g.cfg.Gameplay.SeedColors
	if base < 1 {
		base = 1
	}
	if base > len(g.palette) {
		base = len(g.palette)
	}
	return g.difficulty.SpawnColors(base, len(g.palette), g.score, g.tickCount)
}

// randomColor draws a spawn color restricted to colors still on the board,
// so every spawned bubble stays poppable. Falls back to the active palette
// subset when the board is empty.
func (g *Game) randomColor() ColorID {
	pool := g.board.Colors()
	if len(pool) == 0 {
		return ColorID(g.rng.Intn(g.spawnColorCount()))
	}
	return pool[g.rng.Intn(len(pool))]
}

// Step advances the game by one platform tick: sample aim input, fire
// intents, then run the fixed-timestep simulation update.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}

	// Handle restart
	if in.Has(core.ActionRestart) && g.mode != ModePlaying {
		g.Restart()
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		if g.paused {
			g.Resume()
		} else {
			g.Pause()
		}
	}

	dt := g.stepDT()

	// Aim: keyboard rotation, then pointer override. The pointer position
	// persists across frames, so only a fresh motion re-aims; otherwise a
	// single mouse move would pin the aim against the keyboard forever.
	if in.Has(core.ActionLeft) {
		g.rotateAim(g.cfg.Shooter.AimSpeed * dt)
	}
	if in.Has(core.ActionRight) {
		g.rotateAim(-g.cfg.Shooter.AimSpeed * dt)
	}
	if in.HasPointer && (!g.ptrSeen || in.PointerX != g.lastPtrX || in.PointerY != g.lastPtrY) {
		g.ptrSeen = true
		g.lastPtrX, g.lastPtrY = in.PointerX, in.PointerY
		if wx, wy, ok := g.screenToWorld(in.PointerX, in.PointerY); ok {
			g.AimAt(wx, wy)
		}
	}

	// Fire intents
	if in.Clicked && in.HasPointer {
		if wx, wy, ok := g.screenToWorld(in.PointerX, in.PointerY); ok {
			g.FireAt(wx, wy)
		}
	} else if in.Has(core.ActionFire) {
		g.Fire()
	}

	g.Tick(dt)
	g.tickCount++

	return core.StepResult{State: g.State()}
}

// stepDT returns the per-tick time step, clamped to the configured maximum
// so long frames cannot destabilize the integration.
func (g *Game) stepDT() float64 {
	rate := g.runtime.TickRate
	if rate <= 0 {
		rate = 60
	}
	dt := 1.0 / float64(rate)
	if dt > g.maxStep {
		dt = g.maxStep
	}
	return dt
}

// Tick advances the simulation by dt seconds: projectile integration and
// resolution first, then falling particles. No-op while paused or after the
// game ends.
func (g *Game) Tick(dt float64) {
	if g.paused || g.mode != ModePlaying {
		return
	}
	if dt > g.maxStep {
		dt = g.maxStep
	}
	g.updateProjectile(dt)
	g.updateFalling(dt)
}

// clampAngle restricts an aim angle to the upward-facing cone.
func (g *Game) clampAngle(a float64) float64 {
	return core.ClampF(a, g.minAngle, g.maxAngle)
}

// rotateAim rotates the aim angle by delta radians, clamped to the cone.
func (g *Game) rotateAim(delta float64) {
	g.shooter.Angle = g.clampAngle(g.shooter.Angle + delta)
}

// AimAt points the shooter at a world position. Targets below or behind the
// shooter clamp to the nearest cone edge instead of firing backward.
func (g *Game) AimAt(wx, wy float64) {
	a := math.Atan2(g.shooter.Y-wy, wx-g.shooter.X)
	g.shooter.Angle = g.clampAngle(a)
}

// Fire launches the current bubble along the aim angle. Rejected (returns
// false) while a shot is in flight, while paused, or once the game is over.
func (g *Game) Fire() bool {
	if g.proj != nil || g.paused || g.mode != ModePlaying {
		return false
	}

	speed := g.cfg.Physics.ShotSpeed
	a := g.shooter.Angle
	g.proj = &Projectile{
		Pos:   core.Vec2{X: g.shooter.X, Y: g.shooter.Y},
		Vel:   core.Vec2{X: math.Cos(a) * speed, Y: -math.Sin(a) * speed},
		Color: g.shooter.Current,
	}

	// Promote the lookahead and draw a replacement
	g.shooter.Current = g.shooter.Next
	g.shooter.Next = g.randomColor()

	// The drop counter decrements at fire time; the advance itself waits
	// for the shot to resolve.
	g.shotsLeft--
	if g.shotsLeft <= 0 {
		g.dropPending = true
		g.shotsLeft = g.difficulty.DropInterval(g.cfg.Gameplay.DropInterval, g.score, g.tickCount)
	}
	return true
}

// FireAt aims at the target point and fires in one motion.
func (g *Game) FireAt(wx, wy float64) bool {
	if g.proj != nil || g.paused || g.mode != ModePlaying {
		return false
	}
	g.AimAt(wx, wy)
	return g.Fire()
}

// Pause suspends simulation updates; rendering continues on last state.
func (g *Game) Pause() {
	g.paused = true
}

// Resume lifts a pause.
func (g *Game) Resume() {
	g.paused = false
}

// Restart performs a full reset: new random board, cleared score, mode,
// transients and schedule. The platform reseeds the RNG via Reset for a
// fresh session; Restart alone keeps the current RNG stream.
func (g *Game) Restart() {
	g.restart()
}

// updateProjectile integrates the in-flight shot and resolves collisions.
func (g *Game) updateProjectile(dt float64) {
	p := g.proj
	if p == nil {
		return
	}

	p.Advance(dt)
	p.ReflectWalls(g.radius, g.fieldW)

	// A shot that leaves the bottom resolves without placement but still
	// counts for the drop schedule.
	if p.Pos.Y-g.radius > g.fieldH && p.Vel.Y > 0 {
		g.proj = nil
		g.finishShot(false, Cell{})
		return
	}

	if g.board.HitsCeiling(p) || g.board.HitsGrid(p) {
		g.landProjectile(p)
	}
}

// landProjectile snaps the impact point to the nearest free cell and places
// the bubble there. A snap with no free candidate discards the shot.
func (g *Game) landProjectile(p *Projectile) {
	g.proj = nil

	cell, ok := g.board.SnapCell(p.Pos.X, p.Pos.Y)
	if !ok || !g.board.PlaceAt(cell.Col, cell.Row, p.Color) {
		// Defensive fallback: no free cell within the snap radius.
		g.finishShot(false, Cell{})
		return
	}
	g.finishShot(true, cell)
}

// finishShot runs the post-resolution pipeline: cluster pop and island drop
// for placed shots, then win/lose, then any pending ceiling advance with a
// re-check. A ceiling advance never happens mid-flight because this only
// runs once the shot has resolved.
func (g *Game) finishShot(placed bool, at Cell) {
	if placed {
		g.resolveClusters(at)
	}

	g.checkEndConditions()

	if g.mode == ModePlaying && g.dropPending {
		g.advanceCeiling()
		g.dropPending = false
		g.checkEndConditions()
	}
}

// resolveClusters pops the same-color cluster at the landing cell when it
// reaches the minimum size, then drops every island the pop disconnected.
func (g *Game) resolveClusters(at Cell) {
	cluster := g.board.SameColorCluster(at.Col, at.Row)
	if len(cluster) < minClusterSize {
		return
	}

	for _, c := range cluster {
		g.board.RemoveAt(c.Col, c.Row)
	}
	g.score += 10 * len(cluster)

	// A pop may sever support for other groups; convert them to particles.
	islands := g.board.Islands()
	for _, c := range islands {
		x, y := g.board.CellToWorld(c.Col, c.Row)
		color := g.board.RemoveAt(c.Col, c.Row)
		g.falling = append(g.falling, Particle{
			Pos:   core.Vec2{X: x, Y: y},
			Color: color,
		})
	}
	g.score += 5 * len(islands)
}

// advanceCeiling prepends the configured number of rows, colored from the
// active on-board pool so nothing unpoppable appears.
func (g *Game) advanceCeiling() {
	pool := g.board.Colors()
	fill := func(col, row int) ColorID {
		if len(pool) == 0 {
			return ColorID(g.rng.Intn(g.spawnColorCount()))
		}
		return pool[g.rng.Intn(len(pool))]
	}
	g.board.PrependRows(g.cfg.Gameplay.DropRows, fill)
}

// checkEndConditions transitions to win when the board is empty and to lose
// when any bubble's center is within one radius of the bottom edge.
func (g *Game) checkEndConditions() {
	if g.mode != ModePlaying {
		return
	}
	if g.board.IsEmpty() {
		g.mode = ModeWin
		return
	}
	loseY := g.fieldH - g.radius
	lost := false
	g.board.EachBubble(func(col, row int, _ ColorID) {
		_, y := g.board.CellToWorld(col, row)
		if y >= loseY {
			lost = true
		}
	})
	if lost {
		g.mode = ModeLose
	}
}

// updateFalling integrates dropped-island particles under gravity and culls
// the ones past the bottom bound.
func (g *Game) updateFalling(dt float64) {
	if len(g.falling) == 0 {
		return
	}
	gravity := g.cfg.Physics.Gravity
	alive := g.falling[:0]
	for i := range g.falling {
		p := g.falling[i]
		p.VY += gravity * dt
		p.Pos.Y += p.VY * dt
		if p.Pos.Y-g.radius <= g.fieldH {
			alive = append(alive, p)
		}
	}
	g.falling = alive
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.mode != ModePlaying,
		Paused:   g.paused,
	}
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.score
}

// Mode returns the current lifecycle mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// Shooter returns the shooter state for HUD display.
func (g *Game) Shooter() Shooter {
	return g.shooter
}

// Projectile returns a copy of the in-flight shot, if any.
func (g *Game) Projectile() (Projectile, bool) {
	if g.proj == nil {
		return Projectile{}, false
	}
	return *g.proj, true
}

// Falling returns the falling-island particles.
func (g *Game) Falling() []Particle {
	return g.falling
}

// ShotsUntilDrop returns the drop-schedule counter for HUD display.
func (g *Game) ShotsUntilDrop() int {
	return g.shotsLeft
}

// Board returns the board for read-only iteration by tests and rendering.
func (g *Game) Board() *Board {
	return g.board
}

// PaletteColor maps a ColorID to its display color.
func (g *Game) PaletteColor(c ColorID) core.Color {
	if c < 0 || int(c) >= len(g.palette) {
		return core.ColorDefault
	}
	return g.palette[c]
}

// worldToScreen maps a world point to screen cells inside the field box.
func (g *Game) worldToScreen(wx, wy float64) (int, int) {
	sx := g.offsetX + int(math.Round((wx-g.radius)/g.radius))
	sy := g.offsetY + int(math.Round((wy-g.radius)/g.board.RowHeight()))
	return sx, sy
}

// screenToWorld maps a screen cell back to world coordinates. Points
// outside the field box report ok=false so HUD clicks are ignored.
func (g *Game) screenToWorld(sx, sy int) (wx, wy float64, ok bool) {
	wx = float64(sx-g.offsetX)*g.radius + g.radius
	wy = float64(sy-g.offsetY)*g.board.RowHeight() + g.radius
	if wx < 0 || wx > g.fieldW || wy < 0 || wy > g.fieldH {
		return 0, 0, false
	}
	return wx, wy, true
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.screenTooSmall {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", g.minScreenW, g.minScreenH)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	g.renderHUD(dst)

	// Field border
	dst.DrawBox(core.NewRect(g.offsetX-1, g.offsetY-1, g.fieldCellsW+2, g.fieldCellsH+2))

	g.renderBoard(dst)
	g.renderShooter(dst)
	g.renderProjectile(dst)
	g.renderFalling(dst)
	g.renderOverlay(dst)
}

// renderHUD draws the score, drop counter and next-bubble preview.
func (g *Game) renderHUD(dst *core.Screen) {
	scoreText := fmt.Sprintf("Score: %d", g.score)
	dst.DrawText(1, 0, scoreText)

	dropText := fmt.Sprintf("Drop in: %d", g.shotsLeft)
	dst.DrawTextCentered(0, dropText)

	nextText := "Next: "
	x := dst.Width() - len(nextText) - 2
	dst.DrawText(x, 0, nextText)
	dst.SetCell(x+len(nextText), 0, BubbleChar, g.PaletteColor(g.shooter.Next))
}

// renderBoard draws every bubble at its world position.
func (g *Game) renderBoard(dst *core.Screen) {
	g.board.EachBubble(func(col, row int, c ColorID) {
		wx, wy := g.board.CellToWorld(col, row)
		sx, sy := g.worldToScreen(wx, wy)
		dst.SetCell(sx, sy, BubbleChar, g.PaletteColor(c))
	})
}

// renderShooter draws the shooter mount, the loaded bubble and a short aim ray.
func (g *Game) renderShooter(dst *core.Screen) {
	sx, sy := g.worldToScreen(g.shooter.X, g.shooter.Y)
	dst.Set(sx, sy+1, ShooterChar)
	dst.SetCell(sx, sy, BubbleChar, g.PaletteColor(g.shooter.Current))

	// Aim ray: a few dots along the launch direction
	for i := 1; i <= 3; i++ {
		dist := float64(i) * g.radius * 2.5
		ax := g.shooter.X + math.Cos(g.shooter.Angle)*dist
		ay := g.shooter.Y - math.Sin(g.shooter.Angle)*dist
		if ay < 0 || ax < 0 || ax > g.fieldW {
			break
		}
		px, py := g.worldToScreen(ax, ay)
		if dst.Get(px, py) == ' ' {
			dst.SetCell(px, py, AimChar, core.ColorGray)
		}
	}
}

// renderProjectile draws the in-flight shot.
func (g *Game) renderProjectile(dst *core.Screen) {
	if g.proj == nil {
		return
	}
	sx, sy := g.worldToScreen(g.proj.Pos.X, g.proj.Pos.Y)
	dst.SetCell(sx, sy, BubbleChar, g.PaletteColor(g.proj.Color))
}

// renderFalling draws dropped-island particles.
func (g *Game) renderFalling(dst *core.Screen) {
	for i := range g.falling {
		p := &g.falling[i]
		sx, sy := g.worldToScreen(p.Pos.X, p.Pos.Y)
		dst.SetCell(sx, sy, ParticleChar, g.PaletteColor(p.Color))
	}
}

// renderOverlay draws game state messages.
func (g *Game) renderOverlay(dst *core.Screen) {
	switch {
	case g.paused:
		g.drawCenteredBox(dst, "PAUSED", "Press P to resume")
	case g.mode == ModeLose:
		subtitle := fmt.Sprintf("Score: %d  |  Press R to restart", g.score)
		g.drawCenteredBox(dst, "GAME OVER", subtitle)
	case g.mode == ModeWin:
		subtitle := fmt.Sprintf("Final Score: %d  |  Press R to restart", g.score)
		g.drawCenteredBox(dst, "BOARD CLEARED!", subtitle)
	}
}

// drawCenteredBox draws a centered message box.
func (g *Game) drawCenteredBox(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	titleX := boxX + (boxW-len(title))/2
	dst.DrawText(titleX, boxY+1, title)

	subtitleX := boxX + (boxW-len(subtitle))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}
