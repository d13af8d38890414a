// Package config loads, caches and stores level files for the box pushing game.
//
// The config package handles:
//   - Loading levels from JSON files in a level directory
//   - Level validation through the engine's ValidateLevel
//   - Default level selection
//   - Level discovery and listing
//   - Saving new levels
//
// Level Format:
//
// Each level is a JSON file named <id>.json. The layout is a list of rows of
// space separated tokens:
//
//	N   void (no entity)
//	.   floor
//	W   wall
//	P   player
//	xB  box of color x (B, R, G or Y)
//	xS  spot of color x
//
// Default Level:
//
// classic.json is the default when present. Otherwise the first valid level
// by ID is used, and a directory without any level falls back to the
// built-in classic level.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.LoadLevel("classic")
//	id, defaultLevel := manager.GetDefault()
//	levels, err := manager.ListLevels()
package config
