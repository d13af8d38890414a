package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wricardo/boxpusher/game/ecs"
)

const (
	// Validation constants
	MinBoardSize        = 3
	MaxBoardSize        = 64
	MaxBulkMoves        = 100
	MaxPendingInputs    = 32
	MaxDispatchPasses   = 8
	WebSocketBufferSize = 256

	// Draw layers
	FloorZ = 5
	SpotZ  = 9
	PieceZ = 10
)

// Direction is one of the four axis-aligned moves
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every valid direction in a stable order
var Directions = []Direction{Up, Down, Left, Right}

// ParseDirection accepts full names and single-letter shorthands, case-insensitively
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Delta returns the grid offset of a single step
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	dx, dy := d.Delta()
	return dx != 0 || dy != 0
}

// Color tags boxes and the spots they belong on
type Color string

const (
	Blue   Color = "blue"
	Red    Color = "red"
	Green  Color = "green"
	Yellow Color = "yellow"
)

// colorCodes maps the first letter of a colored layout token to its color
var colorCodes = map[byte]Color{
	'B': Blue,
	'R': Red,
	'G': Green,
	'Y': Yellow,
}

func (c Color) String() string {
	return string(c)
}

// Cell is a grid coordinate without a draw layer
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the neighboring cell in direction d
func (c Cell) Step(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Position places an entity on the grid. Z orders drawing only.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Cell drops the draw layer
func (p Position) Cell() Cell {
	return Cell{X: p.X, Y: p.Y}
}

// Components. Movable and Immovable are mutually exclusive.
type (
	Movable   struct{}
	Immovable struct{}
	Wall      struct{}
	Floor     struct{}
	Player    struct{}

	Box struct {
		Color Color `json:"color"`
	}

	BoxSpot struct {
		Color Color `json:"color"`
	}
)

// EntityKind names what an entity represents, for snapshots and clients
type EntityKind string

const (
	KindFloor  EntityKind = "floor"
	KindWall   EntityKind = "wall"
	KindPlayer EntityKind = "player"
	KindBox    EntityKind = "box"
	KindSpot   EntityKind = "spot"
)

// Phase is the global play state of a level
type Phase int

const (
	Playing Phase = iota
	Won
)

func (p Phase) String() string {
	if p == Won {
		return "Won"
	}
	return "Playing"
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Playing", "playing":
		*p = Playing
	case "Won", "won":
		*p = Won
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// Gameplay is the level-wide record the evaluator and resolver update
type Gameplay struct {
	Phase Phase `json:"phase"`
	Moves int   `json:"moves"`
}

// PhaseString is the phase as shown to players
func (g Gameplay) PhaseString() string {
	return g.Phase.String()
}

// MovesString is the move counter as shown to players
func (g Gameplay) MovesString() string {
	return strconv.Itoa(g.Moves)
}

// Stats counts what the scoring reactor has seen since the level started
type Stats struct {
	Pushes              int `json:"pushes"`
	ObstacleHits        int `json:"obstacle_hits"`
	CorrectPlacements   int `json:"correct_placements"`
	IncorrectPlacements int `json:"incorrect_placements"`
}

// LevelMessages are the player-facing strings of a level
type LevelMessages struct {
	Welcome   string `json:"welcome,omitempty" jsonschema:"description=Shown when the level starts or resets"`
	Won       string `json:"won,omitempty" jsonschema:"description=Shown once every spot holds a matching box"`
	Blocked   string `json:"blocked,omitempty" jsonschema:"description=Shown when a move runs into a wall"`
	Correct   string `json:"correct,omitempty" jsonschema:"description=Shown when a box lands on a spot of its color"`
	Incorrect string `json:"incorrect,omitempty" jsonschema:"description=Shown when a box lands on a spot of another color"`
}

// LevelConfig is a level as stored in a JSON file
type LevelConfig struct {
	Name        string        `json:"name" jsonschema:"required,description=Unique level name"`
	Description string        `json:"description" jsonschema:"required"`
	Layout      []string      `json:"layout" jsonschema:"required,description=Rows of space separated tokens: N void . floor W wall P player xB box xS spot where x is B R G or Y"`
	Messages    LevelMessages `json:"messages,omitempty"`
}

// EntityState is one entity in a snapshot
type EntityState struct {
	ID    ecs.Entity `json:"id"`
	Kind  EntityKind `json:"kind"`
	X     int        `json:"x"`
	Y     int        `json:"y"`
	Z     int        `json:"z"`
	Color Color      `json:"color,omitempty"`
}

// GameState is the serializable view of a running level
type GameState struct {
	Level         string            `json:"level"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	Board         []string          `json:"board"`
	Legend        map[string]string `json:"legend,omitempty"`
	Player        Cell              `json:"player"`
	Entities      []EntityState     `json:"entities"`
	Phase         Phase             `json:"phase"`
	Won           bool              `json:"won"`
	Moves         int               `json:"moves"`
	Tick          uint64            `json:"tick"`
	Terminated    bool              `json:"terminated"`
	BoxesOnTarget int               `json:"boxes_on_target"`
	TotalTargets  int               `json:"total_targets"`
	Stats         Stats             `json:"stats"`
	Message       string            `json:"message"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// MoveHistoryEntry represents a single resolved input
type MoveHistoryEntry struct {
	Action     Direction `json:"action"`
	From       Cell      `json:"from"`
	To         Cell      `json:"to"`
	Pushed     int       `json:"pushed"`
	Success    bool      `json:"success"`
	Events     []string  `json:"events,omitempty"`
	Tick       uint64    `json:"tick"`
	Timestamp  int64     `json:"timestamp"`
	MoveNumber int       `json:"move_number"`
}
