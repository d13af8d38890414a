package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/boxpusher/game/engine"
	"github.com/wricardo/boxpusher/game/service"
)

var (
	ErrLevelNotFound = service.ErrLevelNotFound
	ErrInvalidLevel  = service.ErrInvalidLevel
)

// DefaultLevelID is loaded as the default level when present
const DefaultLevelID = "classic"

// Manager handles level loading and caching
type Manager struct {
	levelDir     string
	defaultID    string
	defaultLevel *engine.LevelConfig
	levels       map[string]*engine.LevelConfig
	mu           sync.RWMutex
}

// NewManager creates a new level manager reading from levelDir
func NewManager(levelDir string) (*Manager, error) {
	// Ensure level directory exists
	if _, err := os.Stat(levelDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("level directory does not exist: %s", levelDir)
	}

	m := &Manager{
		levelDir: levelDir,
		levels:   make(map[string]*engine.LevelConfig),
	}

	m.loadDefaultLevel()
	return m, nil
}

// Dir returns the directory levels are read from
func (m *Manager) Dir() string {
	return m.levelDir
}

func levelID(name string) string {
	return strings.TrimSuffix(name, ".json")
}

func checkLevelID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("%w: bad level id %q", ErrInvalidLevel, id)
	}
	return nil
}

// LoadLevel loads a level by ID, with or without the .json extension
func (m *Manager) LoadLevel(name string) (*engine.LevelConfig, error) {
	id := levelID(name)
	if err := checkLevelID(id); err != nil {
		return nil, err
	}

	m.mu.RLock()
	// Check cache first
	if level, exists := m.levels[id]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if level, exists := m.levels[id]; exists {
		return level, nil
	}

	data, err := os.ReadFile(filepath.Join(m.levelDir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLevelNotFound, id)
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	var level engine.LevelConfig
	if err := json.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidLevel, id, err)
	}

	if err := engine.ValidateLevel(&level); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	m.levels[id] = &level
	return &level, nil
}

// ListLevels returns information about every valid level in the directory,
// sorted by ID. Files that fail validation are skipped.
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	entries, err := os.ReadDir(m.levelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory: %w", err)
	}

	var levels []*service.LevelInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := levelID(entry.Name())
		level, err := m.LoadLevel(id)
		if err != nil {
			log.Printf("Warning: Skipping level %s: %v", entry.Name(), err)
			continue
		}

		info, err := Describe(level)
		if err != nil {
			log.Printf("Warning: Skipping level %s: %v", entry.Name(), err)
			continue
		}
		info.Filename = entry.Name()
		info.LevelID = id
		levels = append(levels, info)
	}

	sort.Slice(levels, func(i, j int) bool { return levels[i].LevelID < levels[j].LevelID })
	return levels, nil
}

// Describe summarizes a level's size and contents
func Describe(level *engine.LevelConfig) (*service.LevelInfo, error) {
	st, err := engine.NewSimulationStateFromLevel(level)
	if err != nil {
		return nil, err
	}
	return &service.LevelInfo{
		Name:        level.Name,
		Description: level.Description,
		Width:       st.Width,
		Height:      st.Height,
		Boxes:       st.World.Boxes.Len(),
		Spots:       st.World.Spots.Len(),
	}, nil
}

// GetDefault returns the default level and its ID
func (m *Manager) GetDefault() (string, *engine.LevelConfig) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID, m.defaultLevel
}

// SetDefault sets the default level by ID
func (m *Manager) SetDefault(name string) error {
	level, err := m.LoadLevel(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = levelID(name)
	m.defaultLevel = level
	return nil
}

// Reload drops every cached level and picks the default again
func (m *Manager) Reload() {
	m.mu.Lock()
	m.levels = make(map[string]*engine.LevelConfig)
	m.mu.Unlock()

	m.loadDefaultLevel()
}

// loadDefaultLevel prefers classic.json, then the first valid level on disk,
// then the built-in classic level
func (m *Manager) loadDefaultLevel() {
	id, level := DefaultLevelID, (*engine.LevelConfig)(nil)

	if l, err := m.LoadLevel(DefaultLevelID); err == nil {
		level = l
	} else if infos, listErr := m.ListLevels(); listErr == nil && len(infos) > 0 {
		if l, err := m.LoadLevel(infos[0].LevelID); err == nil {
			id, level = infos[0].LevelID, l
		}
	}
	if level == nil {
		level = engine.DefaultLevel()
	}

	m.mu.Lock()
	m.defaultID = id
	m.defaultLevel = level
	m.mu.Unlock()
}

// SaveLevel validates a level and writes it to disk as <name>.json
func (m *Manager) SaveLevel(name string, level *engine.LevelConfig) error {
	id := levelID(name)
	if err := checkLevelID(id); err != nil {
		return err
	}
	if err := engine.ValidateLevel(level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	data, err := json.MarshalIndent(level, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.levelDir, id+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	m.mu.Lock()
	m.levels[id] = level
	m.mu.Unlock()

	return nil
}
