package engine

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/wricardo/boxpusher/game/ecs"
)

// Board glyphs
const (
	GlyphVoid         = ' '
	GlyphFloor        = '.'
	GlyphWall         = '#'
	GlyphPlayer       = '@'
	GlyphPlayerOnSpot = '+'
	GlyphBoxOnSpot    = '*'
)

// BoardLegend explains the glyphs used by RenderBoard
var BoardLegend = map[string]string{
	" ": "void",
	".": "floor",
	"#": "wall",
	"@": "player",
	"+": "player on a spot",
	"*": "box on a spot of its color",
	"B": "blue box (lowercase b: blue spot)",
	"R": "red box (lowercase r: red spot)",
	"G": "green box (lowercase g: green spot)",
	"Y": "yellow box (lowercase y: yellow spot)",
}

// Sprite is one renderable entity resolved for drawing
type Sprite struct {
	Entity   ecs.Entity `json:"entity"`
	Kind     EntityKind `json:"kind"`
	Color    Color      `json:"color,omitempty"`
	Position Position   `json:"position"`
	Path     string     `json:"path"`
}

// DrawList returns every renderable entity ordered by z, lowest first.
// Ties keep creation order so stacks draw the same way every frame.
func DrawList(w *World, elapsed time.Duration) []Sprite {
	rows := ecs.Join2(w.Positions, w.Renderables)
	sprites := make([]Sprite, 0, len(rows))
	for _, row := range rows {
		color, _ := w.ColorOf(row.Entity)
		sprites = append(sprites, Sprite{
			Entity:   row.Entity,
			Kind:     w.Kind(row.Entity),
			Color:    color,
			Position: row.A,
			Path:     row.B.Frame(elapsed),
		})
	}
	sort.SliceStable(sprites, func(i, j int) bool {
		return sprites[i].Position.Z < sprites[j].Position.Z
	})
	return sprites
}

// RenderBoard draws the grid as one string per row
func RenderBoard(st *SimulationState) []string {
	w := st.World
	grid := make([][]rune, st.Height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(string(GlyphVoid), st.Width))
	}

	spots := map[Cell]Color{}
	for _, row := range ecs.Join2(w.Spots, w.Positions) {
		spots[row.B.Cell()] = row.A.Color
	}

	put := func(c Cell, r rune) {
		if st.InBounds(c) {
			grid[c.Y][c.X] = r
		}
	}

	for _, sprite := range DrawList(w, 0) {
		c := sprite.Position.Cell()
		switch sprite.Kind {
		case KindFloor:
			put(c, GlyphFloor)
		case KindWall:
			put(c, GlyphWall)
		case KindSpot:
			put(c, ColorGlyph(sprite.Color, true))
		case KindBox:
			if spots[c] == sprite.Color {
				put(c, GlyphBoxOnSpot)
			} else {
				put(c, ColorGlyph(sprite.Color, false))
			}
		case KindPlayer:
			if _, onSpot := spots[c]; onSpot {
				put(c, GlyphPlayerOnSpot)
			} else {
				put(c, GlyphPlayer)
			}
		}
	}

	board := make([]string, len(grid))
	for y, row := range grid {
		board[y] = string(row)
	}
	return board
}

// ColorGlyph is the board letter of a colored box (upper case) or spot
// (lower case)
func ColorGlyph(c Color, spot bool) rune {
	if c == "" {
		return '?'
	}
	r := unicode.ToUpper(rune(c[0]))
	if spot {
		r = unicode.ToLower(r)
	}
	return r
}

// EntityStates lists every entity with its position for snapshots
func EntityStates(w *World) []EntityState {
	out := make([]EntityState, 0, w.Positions.Len())
	for _, e := range w.Entities() {
		pos, ok := w.Positions.Get(e)
		if !ok {
			continue
		}
		color, _ := w.ColorOf(e)
		out = append(out, EntityState{
			ID:    e,
			Kind:  w.Kind(e),
			X:     pos.X,
			Y:     pos.Y,
			Z:     pos.Z,
			Color: color,
		})
	}
	return out
}

// EntitiesAt returns the entities on cell c, lowest draw layer first
func EntitiesAt(w *World, c Cell) []EntityState {
	var out []EntityState
	for _, st := range EntityStates(w) {
		if st.X == c.X && st.Y == c.Y {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}
