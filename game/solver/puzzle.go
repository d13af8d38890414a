package solver

import (
	"fmt"
	"sort"

	"github.com/wricardo/boxpusher/game/engine"
)

// Puzzle is the static and dynamic layout the search works on
type Puzzle struct {
	Width  int
	Height int
	Walls  map[engine.Cell]bool
	Spots  map[engine.Cell]engine.Color
	Boxes  map[engine.Cell]engine.Color
	Player engine.Cell
}

// FromEntities builds a puzzle from an entity listing such as GameState.Entities
func FromEntities(width, height int, entities []engine.EntityState) (*Puzzle, error) {
	p := &Puzzle{
		Width:  width,
		Height: height,
		Walls:  make(map[engine.Cell]bool),
		Spots:  make(map[engine.Cell]engine.Color),
		Boxes:  make(map[engine.Cell]engine.Color),
	}
	players := 0
	for _, es := range entities {
		c := engine.Cell{X: es.X, Y: es.Y}
		switch es.Kind {
		case engine.KindWall:
			p.Walls[c] = true
		case engine.KindSpot:
			p.Spots[c] = es.Color
		case engine.KindBox:
			p.Boxes[c] = es.Color
		case engine.KindPlayer:
			p.Player = c
			players++
		}
	}
	if players != 1 {
		return nil, fmt.Errorf("puzzle needs exactly one player, found %d", players)
	}
	return p, nil
}

// FromWorld builds a puzzle from a running simulation
func FromWorld(st *engine.SimulationState) (*Puzzle, error) {
	return FromEntities(st.Width, st.Height, engine.EntityStates(st.World))
}

// FromState builds a puzzle from a game state snapshot
func FromState(gs *engine.GameState) (*Puzzle, error) {
	return FromEntities(gs.Width, gs.Height, gs.Entities)
}

// FromLevel builds a puzzle from a level's starting layout
func FromLevel(level *engine.LevelConfig) (*Puzzle, error) {
	st, err := engine.NewSimulationStateFromLevel(level)
	if err != nil {
		return nil, err
	}
	return FromWorld(st)
}

func (p *Puzzle) inBounds(c engine.Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < p.Width && c.Y < p.Height
}

// solid reports whether nothing can ever enter c
func (p *Puzzle) solid(c engine.Cell) bool {
	return !p.inBounds(c) || p.Walls[c]
}

// cornered reports whether a box on c can never move again
func (p *Puzzle) cornered(c engine.Cell) bool {
	vertical := p.solid(c.Step(engine.Up)) || p.solid(c.Step(engine.Down))
	horizontal := p.solid(c.Step(engine.Left)) || p.solid(c.Step(engine.Right))
	return vertical && horizontal
}

// surplus counts, per color, how many boxes have no spot of their own
func (p *Puzzle) surplus() map[engine.Color]int {
	out := make(map[engine.Color]int)
	for _, color := range p.Boxes {
		out[color]++
	}
	for _, color := range p.Spots {
		out[color]--
	}
	return out
}

// box is one movable box in a search node
type box struct {
	cell  engine.Cell
	color engine.Color
}

// node is one reachable arrangement of player and boxes
type node struct {
	player engine.Cell
	boxes  []box
}

func (p *Puzzle) start() node {
	n := node{player: p.Player, boxes: make([]box, 0, len(p.Boxes))}
	for c, color := range p.Boxes {
		n.boxes = append(n.boxes, box{cell: c, color: color})
	}
	n.sort()
	return n
}

func (n *node) sort() {
	sort.Slice(n.boxes, func(i, j int) bool {
		a, b := n.boxes[i].cell, n.boxes[j].cell
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}

// key encodes the node so equal arrangements compare equal
func (n node) key() string {
	buf := make([]byte, 0, 4+len(n.boxes)*5)
	buf = appendCell(buf, n.player)
	for _, b := range n.boxes {
		buf = appendCell(buf, b.cell)
		buf = append(buf, b.color[0])
	}
	return string(buf)
}

func appendCell(buf []byte, c engine.Cell) []byte {
	return append(buf, byte(c.X), byte(c.X>>8), byte(c.Y), byte(c.Y>>8))
}

func (n node) boxAt(c engine.Cell) int {
	for i, b := range n.boxes {
		if b.cell == c {
			return i
		}
	}
	return -1
}

// step applies dir the way the movement resolver does: the player and every
// box directly ahead of it shift together when a free cell ends the chain.
// It returns false when a wall or the grid edge ends the chain.
func (p *Puzzle) step(n node, dir engine.Direction) (node, int, bool) {
	var chain []int
	cur := n.player.Step(dir)
	for {
		if p.solid(cur) {
			return node{}, 0, false
		}
		i := n.boxAt(cur)
		if i < 0 {
			break
		}
		chain = append(chain, i)
		cur = cur.Step(dir)
	}

	next := node{player: n.player.Step(dir), boxes: make([]box, len(n.boxes))}
	copy(next.boxes, n.boxes)
	for _, i := range chain {
		next.boxes[i].cell = next.boxes[i].cell.Step(dir)
	}
	if len(chain) > 0 {
		next.sort()
	}
	return next, len(chain), true
}

// solved reports whether every spot holds a box of its color
func (p *Puzzle) solved(n node) bool {
	for c, color := range p.Spots {
		i := n.boxAt(c)
		if i < 0 || n.boxes[i].color != color {
			return false
		}
	}
	return true
}

// dead reports whether n can no longer reach a solution because cornered
// boxes block a spot or leave a color without enough free boxes
func (p *Puzzle) dead(n node, surplus map[engine.Color]int) bool {
	var stuck map[engine.Color]int
	for _, b := range n.boxes {
		if !p.cornered(b.cell) {
			continue
		}
		if spot, ok := p.Spots[b.cell]; ok {
			if spot != b.color {
				return true
			}
			continue
		}
		if stuck == nil {
			stuck = make(map[engine.Color]int)
		}
		stuck[b.color]++
		if stuck[b.color] > surplus[b.color] {
			return true
		}
	}
	return false
}
