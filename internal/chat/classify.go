// Package chat turns Minecraft client log lines into roster events.
package chat

import (
	"regexp"
	"strings"
)

// Kind identifies the event a chat line announces.
type Kind int

const (
	None Kind = iota
	ResetRoster
	PlayerJoined
	PlayerQuit
	RosterList
	APIKeyIssued
)

func (k Kind) String() string {
	switch k {
	case ResetRoster:
		return "reset_roster"
	case PlayerJoined:
		return "player_joined"
	case PlayerQuit:
		return "player_quit"
	case RosterList:
		return "roster_list"
	case APIKeyIssued:
		return "api_key_issued"
	default:
		return "none"
	}
}

// Event is the result of classifying one line. Username is set for
// PlayerJoined and PlayerQuit, Usernames for RosterList and Key for
// APIKeyIssued.
type Event struct {
	Kind      Kind
	Username  string
	Usernames []string
	Key       string
}

const header = `^\[\d\d:\d\d:\d\d\] \[Client thread/INFO\]: \[CHAT\] `

var (
	compactSuffix = regexp.MustCompile(`^(.+) \[x\d+\]$`)

	resetPattern  = regexp.MustCompile(header + `(Sending you to mini\S+|       )$`)
	joinedPattern = regexp.MustCompile(header + `(\S+) has joined \(\d{1,2}/\d{1,2}\)!$`)
	quitPattern   = regexp.MustCompile(header + `(\S+) has quit!$`)
	onlinePattern = regexp.MustCompile(header + `ONLINE: (.+)$`)
	apiKeyPattern = regexp.MustCompile(header + `Your new API key is (.+)$`)
)

// StripCompact removes a trailing compact-chat repeat counter such as " [x3]".
func StripCompact(line string) string {
	if m := compactSuffix.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return line
}

// Classify maps a log line to an event. Patterns are tried in a fixed order
// and the first match wins; unmatched lines return an event of kind None.
func Classify(line string) Event {
	line = StripCompact(line)

	if resetPattern.MatchString(line) {
		return Event{Kind: ResetRoster}
	}
	if m := joinedPattern.FindStringSubmatch(line); m != nil {
		return Event{Kind: PlayerJoined, Username: m[1]}
	}
	if m := quitPattern.FindStringSubmatch(line); m != nil {
		return Event{Kind: PlayerQuit, Username: m[1]}
	}
	if m := onlinePattern.FindStringSubmatch(line); m != nil {
		return Event{Kind: RosterList, Usernames: splitNames(m[1])}
	}
	if m := apiKeyPattern.FindStringSubmatch(line); m != nil {
		return Event{Kind: APIKeyIssued, Key: strings.TrimSpace(m[1])}
	}
	return Event{}
}

// splitNames splits a comma separated /who listing. All spaces are removed
// from each entry; empty entries are kept so the roster can report them.
func splitNames(list string) []string {
	parts := strings.Split(list, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		names = append(names, strings.ReplaceAll(part, " ", ""))
	}
	return names
}
