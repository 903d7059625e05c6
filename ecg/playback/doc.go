// Package playback implements the cursor of the live ECG display.
//
// A Cursor is a small state machine (Stopped, Playing) over a buffer of N
// samples. While playing, each Tick advances the cursor by
// floor(rate * TickInterval * speed) samples and wraps to the start at the end
// of the buffer. Seeking is only honoured while stopped.
//
// A Scheduler drives Tick from a wall-clock ticker. Stopping the scheduler is
// synchronous: once Stop returns no further tick is applied.
package playback
