package engine

import "time"

// RenderableKind tells static sprites from animated ones
type RenderableKind int

const (
	Static RenderableKind = iota
	Animated
)

// frameDuration is how long each animation frame stays on screen
const frameDuration = 250 * time.Millisecond

// Renderable is the list of image paths an entity is drawn with.
// A renderable always has at least one path; use NewRenderable to build one.
type Renderable struct {
	paths []string
}

// NewRenderable builds a renderable from one or more image paths
func NewRenderable(paths ...string) (Renderable, error) {
	if len(paths) == 0 {
		return Renderable{}, ErrInvalidRenderable
	}
	cp := make([]string, len(paths))
	copy(cp, paths)
	return Renderable{paths: cp}, nil
}

// Kind is Static for a single path and Animated otherwise.
// Panics on a zero Renderable, which can only come from bypassing NewRenderable.
func (r Renderable) Kind() RenderableKind {
	switch len(r.paths) {
	case 0:
		panic(ErrInvalidRenderable)
	case 1:
		return Static
	default:
		return Animated
	}
}

// Path returns the i-th frame, wrapping around the frame count
func (r Renderable) Path(i int) string {
	n := len(r.paths)
	if n == 0 {
		panic(ErrInvalidRenderable)
	}
	i %= n
	if i < 0 {
		i += n
	}
	return r.paths[i]
}

// Frame picks the path to draw after elapsed time: static sprites always use
// their only path, animated ones cycle four frames per second.
func (r Renderable) Frame(elapsed time.Duration) string {
	if r.Kind() == Static {
		return r.paths[0]
	}
	ms := elapsed.Milliseconds() % 1000
	return r.Path(int(ms / frameDuration.Milliseconds()))
}

// Paths returns a copy of every frame path
func (r Renderable) Paths() []string {
	cp := make([]string, len(r.paths))
	copy(cp, r.paths)
	return cp
}
