// Package placement decides where a window frame may sit while it is being
// moved.
//
// An Engine answers one question for a caller driving a move: given a
// candidate origin, what origin is permitted, and which other windows must
// be relocated as a consequence. The pieces compose in a fixed order:
// ResolveGrid (optional), then ResolvePack or ResolvePush, then
// ConstrainToContainer, which always has the last word.
//
// Only ResolvePush has side effects. Every window it displaces is passed
// to the engine's Committer and its stored frame is updated.
package placement
