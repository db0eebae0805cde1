// Package cycle drives the fieldbus master's control loop at a fixed,
// jitter-bounded period, optionally phase-locked to the Distributed
// Clock reference pulse.
//
// One dedicated goroutine (pinned to its OS thread) runs the whole
// cycle: wait for the deadline, one bus transaction, the user control
// callback. Ticks are strictly sequential; stop requests are checked
// only at tick boundaries and lead into a bounded shutdown sequence
// that keeps transacting until every slave confirms a safe state.
package cycle
