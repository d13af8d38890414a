package engine

import "github.com/wricardo/boxpusher/game/ecs"

// MovePlan is what a direction would do to the current layout
type MovePlan struct {
	Direction Direction    `json:"direction"`
	Player    ecs.Entity   `json:"player"`
	From      Cell         `json:"from"`
	Chain     []ecs.Entity `json:"chain,omitempty"`
	Blocked   bool         `json:"blocked"`
	Obstacle  ecs.Entity   `json:"obstacle,omitempty"`
	Boundary  bool         `json:"boundary"`
}

// PlanMovement scans from the player toward the edge of the grid and collects
// the chain of movables that would shift one cell in dir. The chain always
// starts with the player. It is empty when an immovable or the grid edge is
// reached before a free cell.
func PlanMovement(st *SimulationState, dir Direction) MovePlan {
	plan := MovePlan{Direction: dir}

	player, pos, ok := st.World.Player()
	if !ok || !dir.Valid() {
		return plan
	}
	plan.Player = player
	plan.From = pos.Cell()

	movables := st.World.cellIndex(st.World.Movables)
	immovables := st.World.cellIndex(st.World.Immovables)

	chain := []ecs.Entity{player}
	for cur := plan.From.Step(dir); ; cur = cur.Step(dir) {
		if !st.InBounds(cur) {
			plan.Boundary = true
			return plan
		}
		if e, ok := movables[cur]; ok {
			chain = append(chain, e)
			continue
		}
		if e, ok := immovables[cur]; ok {
			plan.Blocked = true
			plan.Obstacle = e
			return plan
		}
		plan.Chain = chain
		return plan
	}
}

// MoveOutcome describes one resolved input
type MoveOutcome struct {
	MovePlan
	To Cell `json:"to"`
}

// Moved reports whether any entity changed cell
func (o MoveOutcome) Moved() bool {
	return len(o.Chain) > 0
}

// Pushed returns how many boxes moved along with the player
func (o MoveOutcome) Pushed() int {
	if len(o.Chain) == 0 {
		return 0
	}
	return len(o.Chain) - 1
}

// ResolveMovement applies one directional input to the world. Every entity in
// the planned chain shifts one cell and raises EntityMoved, in chain order.
// Hitting an immovable moves nothing and raises PlayerHitObstacle. The move
// counter grows by one when anything moved.
func ResolveMovement(st *SimulationState, dir Direction) MoveOutcome {
	plan := PlanMovement(st, dir)
	out := MoveOutcome{MovePlan: plan, To: plan.From}

	if plan.Blocked {
		st.Events.Push(PlayerHitObstacle())
		return out
	}
	if len(plan.Chain) == 0 {
		return out
	}

	dx, dy := dir.Delta()
	for _, e := range plan.Chain {
		pos, ok := st.World.Positions.Get(e)
		if !ok {
			continue
		}
		pos.X += dx
		pos.Y += dy
		st.World.Positions.Set(e, pos)
		st.Events.Push(EntityMoved(e))
	}
	st.Gameplay.Moves++
	out.To = plan.From.Step(dir)
	return out
}
