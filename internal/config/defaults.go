package config

import (
	_ "embed"
)

//go:embed defaults/bubbleshot.yaml
var defaultBubbleshotYAML []byte

// DefaultBubbleshotConfig returns the default bubble shooter configuration.
func DefaultBubbleshotConfig() BubbleshotConfig {
	return BubbleshotConfig{
		Field: FieldConfig{
			Width:  32.0,
			Height: 28.0,
		},
		Bubble: BubbleConfig{
			Radius: 1.0,
		},
		Physics: PhysicsConfig{
			ShotSpeed: 28.0,
			Gravity:   60.0,
			MaxStepMS: 33,
		},
		Shooter: ShooterConfig{
			AngleMargin: 0.0943, // ~5.4 degrees
			AimSpeed:    2.4,
		},
		Gameplay: GameplayConfig{
			Palette:      []string{"red", "yellow", "green", "cyan", "blue", "magenta"},
			DropInterval: 5,
			DropRows:     1,
			SeedRows:     6,
			SeedDensity:  0.85,
			SeedColors:   4,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 2000,
			},
			Scaling: ScalingConfig{
				IntervalReduction: 2,
				ExtraColors:       2,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML configuration.
func GetDefaultYAML() []byte {
	return defaultBubbleshotYAML
}
