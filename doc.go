// Package gestures turns a stream of raw multi-touch hardware snapshots
// into a stream of high-level pointer gestures: move, scroll, fling,
// pinch, tap/click, swipe, buttons-change, and mouse-wheel.
//
// It is a cooperative, single-threaded pipeline. A host feeds one
// HardwareState at a time into a chain built by NewGestureInterpreter;
// the
// chain synchronously returns zero or more Gestures plus a timeout hint
// the host is responsible for scheduling. No stage in this package
// spawns a goroutine or performs blocking I/O on the data path.
package gestures
