package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ValidateLevel checks a level for correctness and basic playability
func ValidateLevel(level *LevelConfig) error {
	if level == nil {
		return fmt.Errorf("level validation: level is nil")
	}
	if level.Name == "" {
		return fmt.Errorf("level validation: name is required")
	}
	if level.Description == "" {
		return fmt.Errorf("level validation: description is required")
	}

	layout, err := ParseLayout(level.Layout)
	if err != nil {
		return fmt.Errorf("level validation: %w", err)
	}
	for y, row := range layout.Tokens {
		if len(row) != layout.Width {
			return fmt.Errorf("level validation: row %d has %d cells, expected %d", y+1, len(row), layout.Width)
		}
	}

	if layout.Height < MinBoardSize || layout.Height > MaxBoardSize {
		return fmt.Errorf("level validation: layout must have between %d and %d rows, got %d",
			MinBoardSize, MaxBoardSize, layout.Height)
	}
	if layout.Width < MinBoardSize || layout.Width > MaxBoardSize {
		return fmt.Errorf("level validation: layout must have between %d and %d columns, got %d",
			MinBoardSize, MaxBoardSize, layout.Width)
	}

	if players := layout.Count(TokenPlayer); players != 1 {
		return fmt.Errorf("level validation: layout must contain exactly one player (P), got %d", players)
	}

	boxes := map[Color]int{}
	spots := map[Color]int{}
	for _, row := range layout.Tokens {
		for _, tok := range row {
			if color, spot, ok := coloredToken(tok); ok {
				if spot {
					spots[color]++
				} else {
					boxes[color]++
				}
			}
		}
	}
	if len(spots) == 0 {
		return fmt.Errorf("level validation: layout must contain at least one box spot")
	}

	colors := make([]string, 0, len(spots))
	for color := range spots {
		colors = append(colors, string(color))
	}
	sort.Strings(colors)
	for _, name := range colors {
		color := Color(name)
		if boxes[color] < spots[color] {
			return fmt.Errorf("level validation: %d %s spots but only %d %s boxes",
				spots[color], color, boxes[color], color)
		}
	}

	return nil
}

// NewSimulationStateFromLevel validates a level and builds its initial state
func NewSimulationStateFromLevel(level *LevelConfig) (*SimulationState, error) {
	if err := ValidateLevel(level); err != nil {
		return nil, err
	}
	layout, err := ParseLayout(level.Layout)
	if err != nil {
		return nil, err
	}
	world := NewWorld()
	if err := layout.Populate(world); err != nil {
		return nil, fmt.Errorf("building level %q: %w", level.Name, err)
	}
	return NewSimulationState(world, layout.Width, layout.Height), nil
}

// LoadLevel loads and validates a level from a JSON file
func LoadLevel(filename string) (*LevelConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var level LevelConfig
	if err := json.Unmarshal(data, &level); err != nil {
		return nil, err
	}

	if err := ValidateLevel(&level); err != nil {
		return nil, err
	}

	return &level, nil
}

// DefaultLevel returns the built-in classic level
func DefaultLevel() *LevelConfig {
	return &LevelConfig{
		Name:        "classic",
		Description: "The classic two-box warehouse: push the blue and red boxes onto their spots.",
		Layout: []string{
			"N N W W W W W W",
			"W W W . . . . W",
			"W . . . BB . . W",
			"W . . . . . . W",
			"W . P . . RB . W",
			"W . . . . . . W",
			"W . . BS . . . W",
			"W . . . . RS . W",
			"W W W W W W W W",
		},
		Messages: LevelMessages{
			Welcome:   "Push every box onto the spot of its color.",
			Won:       "All boxes are home. You won!",
			Blocked:   "Something solid is in the way.",
			Correct:   "Right spot!",
			Incorrect: "Wrong color for that spot.",
		},
	}
}
