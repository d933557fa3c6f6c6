// Package anim drives the per-frame update and render cycle of a scene.
//
// A [Scheduler] moves through Idle, Running and Cancelled exactly once.
// While running it waits for a frame slot from its [FrameSource], advances
// every angle by one rate increment, renders, and notifies observers.
//
// # Thread Safety
//
// Frames run on the scheduler's own goroutine. [Scheduler.Do] runs a
// callback under the same frame lock, so work submitted from other
// goroutines (resizes, camera moves) lands strictly between two frames.
// Observers run inside the frame lock and must not call Do, Cancel or
// WaitFrames.
package anim
