// Package pipeline resolves roster players through four dependent remote
// lookups: Mojang UUID, session profile (skin URL), skin texture and Hypixel
// statistics.
//
// # Stages
//
//	NeedUUID -> NeedProfile -> NeedSkin -> NeedStats -> Done
//	        \-> Failed (terminal, from any stage)
//
// A sweep handles one stage at a time across the whole roster. The start
// phase checks each player's precondition and launches a request goroutine;
// the resolve phase waits for each of those requests independently and
// applies the outcome under the roster lock. Only then does the sweep move to
// the next stage, so in-flight requests never exceed one stage's width.
//
// Request goroutines never touch the roster. They return an outcome that is
// applied only if the player is still present and still at the stage that
// issued the request; results for evicted or replaced players are dropped.
//
// # Errors
//
// Every failure becomes a *roster.FetchError on the player with a message
// meant for display. A 403 from Hypixel also invalidates the shared
// credential so later players fail fast until a new key arrives.
package pipeline
