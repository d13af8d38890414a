package engine

import (
	"fmt"
	"strings"

	"github.com/wricardo/boxpusher/game/ecs"
)

// Layout tokens
const (
	TokenVoid   = "N"
	TokenFloor  = "."
	TokenWall   = "W"
	TokenPlayer = "P"
)

// Layout is a parsed level grid. Rows may be shorter than Width; missing
// cells are void.
type Layout struct {
	Width  int
	Height int
	Tokens [][]string
}

// ParseLayout splits each row on whitespace and checks every token
func ParseLayout(rows []string) (*Layout, error) {
	l := &Layout{Height: len(rows), Tokens: make([][]string, len(rows))}
	for y, row := range rows {
		tokens := strings.Fields(row)
		for x, tok := range tokens {
			if err := checkToken(tok); err != nil {
				return nil, fmt.Errorf("%w %q at row %d, col %d", ErrInvalidToken, tok, y+1, x+1)
			}
		}
		l.Tokens[y] = tokens
		if len(tokens) > l.Width {
			l.Width = len(tokens)
		}
	}
	return l, nil
}

func checkToken(tok string) error {
	switch tok {
	case TokenVoid, TokenFloor, TokenWall, TokenPlayer:
		return nil
	}
	if _, _, ok := coloredToken(tok); ok {
		return nil
	}
	return ErrInvalidToken
}

// coloredToken decodes box ("BB", "RB") and spot ("BS", "RS") tokens
func coloredToken(tok string) (color Color, spot bool, ok bool) {
	if len(tok) != 2 {
		return "", false, false
	}
	color, ok = colorCodes[tok[0]]
	if !ok {
		return "", false, false
	}
	switch tok[1] {
	case 'B':
		return color, false, true
	case 'S':
		return color, true, true
	}
	return "", false, false
}

// Token returns the token at (x, y), or void outside the grid
func (l *Layout) Token(x, y int) string {
	if y < 0 || y >= len(l.Tokens) || x < 0 || x >= len(l.Tokens[y]) {
		return TokenVoid
	}
	return l.Tokens[y][x]
}

// Populate spawns the entities of every cell into w. Every non-void cell gets
// a floor under whatever else it holds.
func (l *Layout) Populate(w *World) error {
	for y, row := range l.Tokens {
		for x, tok := range row {
			c := Cell{X: x, Y: y}
			if tok == TokenVoid {
				continue
			}
			if _, err := SpawnFloor(w, c); err != nil {
				return err
			}

			var err error
			switch tok {
			case TokenFloor:
			case TokenWall:
				_, err = SpawnWall(w, c)
			case TokenPlayer:
				_, err = SpawnPlayer(w, c)
			default:
				color, spot, ok := coloredToken(tok)
				switch {
				case !ok:
					err = fmt.Errorf("%w %q at row %d, col %d", ErrInvalidToken, tok, y+1, x+1)
				case spot:
					_, err = SpawnSpot(w, c, color)
				default:
					_, err = SpawnBox(w, c, color)
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Count returns how many cells hold tok
func (l *Layout) Count(tok string) int {
	n := 0
	for _, row := range l.Tokens {
		for _, t := range row {
			if t == tok {
				n++
			}
		}
	}
	return n
}

func spawn(w *World, c Cell, z int, paths ...string) (*ecs.Builder, error) {
	r, err := NewRenderable(paths...)
	if err != nil {
		return nil, err
	}
	b := w.NewEntity()
	ecs.With(b, w.Positions, Position{X: c.X, Y: c.Y, Z: z})
	ecs.With(b, w.Renderables, r)
	return b, nil
}

// SpawnFloor adds a floor tile
func SpawnFloor(w *World, c Cell) (ecs.Entity, error) {
	b, err := spawn(w, c, FloorZ, "/images/floor.png")
	if err != nil {
		return ecs.Nil, err
	}
	ecs.With(b, w.Floors, Floor{})
	return b.Build(), nil
}

// SpawnWall adds an immovable wall
func SpawnWall(w *World, c Cell) (ecs.Entity, error) {
	b, err := spawn(w, c, PieceZ, "/images/wall.png")
	if err != nil {
		return ecs.Nil, err
	}
	ecs.With(b, w.Walls, Wall{})
	ecs.With(b, w.Immovables, Immovable{})
	return b.Build(), nil
}

// SpawnPlayer adds the movable, animated player
func SpawnPlayer(w *World, c Cell) (ecs.Entity, error) {
	b, err := spawn(w, c, PieceZ,
		"/images/player_1.png",
		"/images/player_2.png",
		"/images/player_3.png",
	)
	if err != nil {
		return ecs.Nil, err
	}
	ecs.With(b, w.Players, Player{})
	ecs.With(b, w.Movables, Movable{})
	return b.Build(), nil
}

// SpawnBox adds a movable box of the given color
func SpawnBox(w *World, c Cell, color Color) (ecs.Entity, error) {
	b, err := spawn(w, c, PieceZ,
		fmt.Sprintf("/images/box_%s_1.png", color),
		fmt.Sprintf("/images/box_%s_2.png", color),
	)
	if err != nil {
		return ecs.Nil, err
	}
	ecs.With(b, w.Boxes, Box{Color: color})
	ecs.With(b, w.Movables, Movable{})
	return b.Build(), nil
}

// SpawnSpot adds a box spot of the given color
func SpawnSpot(w *World, c Cell, color Color) (ecs.Entity, error) {
	b, err := spawn(w, c, SpotZ, fmt.Sprintf("/images/box_spot_%s.png", color))
	if err != nil {
		return ecs.Nil, err
	}
	ecs.With(b, w.Spots, BoxSpot{Color: color})
	return b.Build(), nil
}
