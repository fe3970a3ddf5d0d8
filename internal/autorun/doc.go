// Package autorun re-runs a spec command whenever watched source files
// change.
//
// A Loop runs its command once, then waits for a debounced change reported
// by a files.Watcher, pauses for the configured interval and runs it again.
// Each run is a separate process with FLOWP_AUTORUN=false in its
// environment, so a spec binary started with --autorun does not recurse.
//
// The loop and the watcher are coordinated by an errgroup: cancelling the
// context, SIGINT or SIGTERM stop the loop and close the watcher before Run
// returns.
package autorun
