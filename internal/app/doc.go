// Package app is the composition root of the overlay.
//
// # Overview
//
// Run builds the Mojang and Hypixel clients, checks the configured API key,
// creates the roster and fetch pipeline, and starts the update loop next to
// the TUI. Quitting the TUI stops the loop; a failing loop closes the TUI and
// its error is returned to the caller.
//
// # Update Loop
//
//	┌──────────────────────────────────────────┐
//	│ Worker.Run()                             │
//	│   Tailer.Prime()      skip log history   │
//	│   every tick:                            │
//	│     Tailer.Poll()     new lines          │
//	│     chat.Classify()   roster events      │
//	│     Roster.EvictExpired()                │
//	│     Pipeline.Sweep()  stage by stage     │
//	└──────────────────────────────────────────┘
//
// The worker is the only goroutine that writes to the roster. A panic inside
// a tick is logged with its stack and re-raised, ending the process.
//
// # API Keys
//
// A key announced in chat ("Your new API key is ...") is validated, adopted
// as the shared credential and written back to the config file. Network
// failures during validation are logged and the key is ignored.
package app
