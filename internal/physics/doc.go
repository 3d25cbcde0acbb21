// Package physics is a small 2D rigid-body engine for the loop in package engine.
//
// Bodies live in an arena owned by [World] and are addressed by
// [engine.BodyHandle]; callers never hold pointers into the arena.
//
//   - [Circle]: disc fixture, the only shape dynamic bodies collide with
//   - [Chain]: open or closed polyline, static geometry such as walls
//   - [Edge]: single segment
//   - [Polygon]: closed convex outline
//
// Forces accumulate across [World.Step] calls until [World.ClearForces],
// so several fixed steps covering one frame see the same applied forces.
package physics
