// Package roster holds the players seen in the current game lobby.
//
// Players are keyed by the username reported in chat. Joining adds a player
// (or makes a cached one visible again), quitting and lobby changes only hide
// players, and entries are deleted once they outlive the configured TTL.
// Each player carries its progress through the fetch pipeline as a Stage
// that only moves forward, and a terminal *FetchError once any stage fails.
// A failed player is replaced by a fresh entry the next time it is added.
//
// The worker goroutine is the only writer. Presentation code reads copies via
// Snapshot and can use Version to skip redraws when nothing changed.
package roster
