// Package logtail follows a growing game log file.
//
// # Overview
//
// The Minecraft client appends chat to logs/latest.log for the whole session
// and replaces the file when it restarts. Tailer turns that file into a
// stream of newly appended lines, polled once per update tick.
//
// # Reading
//
// Tailer remembers the byte offset of the first unread line and seeks there on
// every Poll, so each call costs O(new bytes) rather than O(file size). Only
// newline-terminated lines are returned; a partially flushed last line stays
// unread until the client finishes writing it. Windows line endings are
// trimmed.
//
// # Truncation and Rotation
//
// When the file is smaller than it was at the previous poll (or smaller than
// the read offset) the tailer assumes the client truncated or replaced it and
// starts again from byte 0. Rotation to a file that is already larger than
// the old one is not detectable by size and is not handled.
//
// # Startup
//
// Prime consumes whatever is already in the file without returning it. The
// update loop calls it once before the first tick so that a long session log
// does not replay old joins and quits as fresh events.
//
// Example usage:
//
//	tail := logtail.New(cfg.LogPath)
//	_ = tail.Prime()
//	for range ticker.C {
//		lines, err := tail.Poll()
//		if err != nil {
//			logger.Debug("log poll failed", slog.String("error", err.Error()))
//			continue
//		}
//		for _, line := range lines {
//			handle(chat.Classify(line))
//		}
//	}
//
// # Error Handling
//
// A missing or unopenable file yields no lines and no error (the game may not
// have started yet). Stat, seek and read failures on an open file are
// returned wrapped; the update loop treats them as fatal.
package logtail
