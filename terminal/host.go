package terminal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/boxpusher/game/engine"
)

// TickRate is the interval between resolved ticks
const TickRate = time.Second / 60

const helpLine = "arrows/hjkl/wasd move  r reset  esc quit"

// Result is how a play session ended
type Result struct {
	Won    bool
	Quit   bool
	Moves  int
	Pushes int
	Status string
}

// Host runs one engine on a terminal screen
type Host struct {
	screen tcell.Screen
	engine *engine.GameEngine
	start  time.Time
	status string
	quit   bool
}

// NewHost attaches eng to an initialized screen
func NewHost(screen tcell.Screen, eng *engine.GameEngine) *Host {
	h := &Host{
		screen: screen,
		engine: eng,
		start:  time.Now(),
	}
	h.status = eng.GetState().Message
	return h
}

// KeyDirection maps arrow keys, hjkl and wasd to directions
func KeyDirection(ev *tcell.EventKey) (engine.Direction, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return engine.Up, true
	case tcell.KeyDown:
		return engine.Down, true
	case tcell.KeyLeft:
		return engine.Left, true
	case tcell.KeyRight:
		return engine.Right, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k', 'w':
			return engine.Up, true
		case 'j', 's':
			return engine.Down, true
		case 'h', 'a':
			return engine.Left, true
		case 'l', 'd':
			return engine.Right, true
		}
	}
	return "", false
}

// HandleEvent applies one terminal event and reports whether to keep running
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			h.quit = true
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'r' {
			h.status = h.engine.Reset().Message
			return true
		}
		if dir, ok := KeyDirection(ev); ok {
			if err := h.engine.SubmitInput(dir); err != nil {
				if errors.Is(err, engine.ErrInputQueueFull) {
					h.status = "Too many keys queued"
				} else {
					h.status = err.Error()
				}
			}
		}
	case *tcell.EventResize:
		h.screen.Sync()
	}
	return true
}

// Step resolves one tick and refreshes the status line when input was used
func (h *Host) Step(delta time.Duration) *engine.TickReport {
	report := h.engine.ResolveTick(delta)
	if report.Input != nil {
		h.status = h.engine.GetState().Message
	}
	return report
}

var colorStyles = map[engine.Color]tcell.Color{
	engine.Blue:   tcell.ColorBlue,
	engine.Red:    tcell.ColorRed,
	engine.Green:  tcell.ColorGreen,
	engine.Yellow: tcell.ColorYellow,
}

func spriteCell(s engine.Sprite, spots map[engine.Cell]engine.Color) (rune, tcell.Style) {
	style := tcell.StyleDefault
	c := s.Position.Cell()
	switch s.Kind {
	case engine.KindFloor:
		return engine.GlyphFloor, style.Foreground(tcell.ColorGray)
	case engine.KindWall:
		return engine.GlyphWall, style.Foreground(tcell.ColorSilver)
	case engine.KindSpot:
		return engine.ColorGlyph(s.Color, true), style.Foreground(colorStyles[s.Color])
	case engine.KindBox:
		if color, ok := spots[c]; ok && color == s.Color {
			return engine.GlyphBoxOnSpot, style.Foreground(colorStyles[s.Color]).Bold(true)
		}
		return engine.ColorGlyph(s.Color, false), style.Foreground(colorStyles[s.Color]).Bold(true)
	case engine.KindPlayer:
		if _, ok := spots[c]; ok {
			return engine.GlyphPlayerOnSpot, style.Foreground(tcell.ColorWhite).Bold(true)
		}
		return engine.GlyphPlayer, style.Foreground(tcell.ColorWhite).Bold(true)
	}
	return '?', style
}

// Draw renders the draw list lowest z first, then the status lines
func (h *Host) Draw() {
	h.screen.Clear()

	sprites := h.engine.DrawList(time.Since(h.start))
	spots := map[engine.Cell]engine.Color{}
	for _, s := range sprites {
		if s.Kind == engine.KindSpot {
			spots[s.Position.Cell()] = s.Color
		}
	}
	for _, s := range sprites {
		r, style := spriteCell(s, spots)
		h.screen.SetContent(s.Position.X, s.Position.Y, r, nil, style)
	}

	st := h.engine.Simulation()
	row := st.Height + 1
	gameplay := h.engine.GetGameplay()
	h.drawText(0, row, tcell.StyleDefault.Bold(true),
		fmt.Sprintf("%s  %s  moves %s  pushes %d",
			h.engine.GetLevel().Name, gameplay.PhaseString(), gameplay.MovesString(), st.Stats.Pushes))
	h.drawText(0, row+1, tcell.StyleDefault, h.status)
	h.drawText(0, row+2, tcell.StyleDefault.Foreground(tcell.ColorGray), helpLine)

	h.screen.Show()
}

func (h *Host) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		h.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Run polls input and resolves ticks until the level terminates, the player
// quits or ctx is done. The screen is left open for the caller to Fini.
func (h *Host) Run(ctx context.Context) (*Result, error) {
	ticker := time.NewTicker(TickRate)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	h.Draw()
	for {
		select {
		case <-ctx.Done():
			return h.result(), ctx.Err()

		case ev := <-events:
			if !h.HandleEvent(ev) {
				return h.result(), nil
			}

		case <-ticker.C:
			report := h.Step(TickRate)
			h.Draw()
			if report.Terminated {
				return h.result(), nil
			}
		}
	}
}

func (h *Host) result() *Result {
	st := h.engine.Simulation()
	return &Result{
		Won:    h.engine.IsWon(),
		Quit:   h.quit,
		Moves:  h.engine.GetGameplay().Moves,
		Pushes: st.Stats.Pushes,
		Status: h.status,
	}
}
