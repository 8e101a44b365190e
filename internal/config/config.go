// Package config provides YAML-based game configuration loading and
// difficulty management for the bubble shooter.
package config

// BubbleshotConfig contains all configuration for the bubble shooter.
type BubbleshotConfig struct {
	Field      FieldConfig      `yaml:"field"`
	Bubble     BubbleConfig     `yaml:"bubble"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Shooter    ShooterConfig    `yaml:"shooter"`
	Gameplay   GameplayConfig   `yaml:"gameplay"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// FieldConfig defines the play-field bounds in world units.
// The column count N is derived as floor(width / bubble diameter).
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BubbleConfig defines bubble size, which drives grid spacing.
type BubbleConfig struct {
	Radius float64 `yaml:"radius"`
}

// PhysicsConfig defines projectile and particle physics parameters.
type PhysicsConfig struct {
	ShotSpeed float64 `yaml:"shot_speed"`  // Projectile speed, world units/sec
	Gravity   float64 `yaml:"gravity"`     // Falling-island acceleration, world units/sec²
	MaxStepMS int     `yaml:"max_step_ms"` // Tick time-step clamp, milliseconds
}

// ShooterConfig defines aiming parameters.
type ShooterConfig struct {
	AngleMargin float64 `yaml:"angle_margin"` // Radians excluded on each side of horizontal
	AimSpeed    float64 `yaml:"aim_speed"`    // Keyboard aim rotation, radians/sec
}

// GameplayConfig defines palette, scoring escalation and board seeding.
type GameplayConfig struct {
	Palette      []string `yaml:"palette"`       // Color names, see core.ParseColor
	DropInterval int      `yaml:"drop_interval"` // Shots between ceiling advances
	DropRows     int      `yaml:"drop_rows"`     // Rows added per ceiling advance
	SeedRows     int      `yaml:"seed_rows"`     // Rows filled at game start
	SeedDensity  float64  `yaml:"seed_density"`  // Initial fill probability per slot
	SeedColors   int      `yaml:"seed_colors"`   // Palette prefix used for the opening board
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	IntervalReduction int `yaml:"interval_reduction"` // Drop-interval shots removed at max difficulty
	ExtraColors       int `yaml:"extra_colors"`       // Palette colors unlocked at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
