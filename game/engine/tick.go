package engine

import "time"

// TickReport summarizes one resolved tick
type TickReport struct {
	Tick       uint64       `json:"tick"`
	Input      *Direction   `json:"input,omitempty"`
	Outcome    *MoveOutcome `json:"outcome,omitempty"`
	Events     []Event      `json:"events"`
	Sounds     []string     `json:"sounds"`
	Gameplay   Gameplay     `json:"gameplay"`
	Terminated bool         `json:"terminated"`
}

// Moved reports whether the tick's input changed any position
func (r *TickReport) Moved() bool {
	return r.Outcome != nil && r.Outcome.Moved()
}

// RunTick runs one full tick: movement for the given input (nil for none),
// win evaluation, clock advance, then event dispatch. Once the state is
// terminated further ticks change nothing.
func RunTick(st *SimulationState, input *Direction, d *Dispatcher, delta time.Duration) *TickReport {
	report := &TickReport{Tick: st.Clock.Tick, Input: input}
	if st.Terminated {
		report.Gameplay = st.Gameplay
		report.Terminated = true
		return report
	}

	if input != nil {
		outcome := ResolveMovement(st, *input)
		report.Outcome = &outcome
	}

	EvaluateWin(st)
	st.Clock.Advance(delta)

	result := d.Drain(st)
	report.Events = result.Events
	report.Sounds = result.Sounds
	report.Tick = st.Clock.Tick
	report.Gameplay = st.Gameplay
	report.Terminated = st.Terminated
	return report
}
