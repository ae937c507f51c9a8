package main

import (
	"math"

	"blockworld/internal/game"
	"blockworld/internal/input"
)

// leg is the length of one wander cycle in frames.
const leg = 240

// wander walks the actor in a square. Once per side it digs the block at
// its feet, places a block ahead of it and jumps.
func wander() game.Script {
	yaw := 0.0
	return func(frame uint64, in *input.Manager, s *game.Session) {
		switch frame % leg {
		case 0:
			yaw += math.Pi / 2
			s.Look(yaw, 0)
			in.Press(input.ActionMoveForward)
		case 150:
			in.Release(input.ActionMoveForward)
			s.Look(yaw, -math.Pi/2)
			in.Tap(input.ActionDig)
		case 190:
			s.Look(yaw, -math.Pi/5)
			in.Tap(input.ActionPlace)
		case 220:
			s.Look(yaw, 0)
			in.Tap(input.ActionJump)
		}
	}
}
