// Package solver finds the shortest move sequence that wins a level.
//
// The search replays the movement rules of the engine package on a compact
// copy of the board, so a returned solution can be fed straight back through
// GameEngine.Move or the bulk-move endpoint.
package solver
