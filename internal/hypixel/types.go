package hypixel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/five82/statsoverlay/internal/stats"
)

// ErrPlayerNotFound is returned when a 200 response carries no player object,
// which happens for accounts that never joined the network.
var ErrPlayerNotFound = errors.New("hypixel player not found")

// StatusError reports a non-200 response.
type StatusError struct {
	Code  int
	Cause string // "cause" field of the error body, if any
}

func (e *StatusError) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("hypixel api returned status %d: %s", e.Code, e.Cause)
	}
	return fmt.Sprintf("hypixel api returned status %d", e.Code)
}

// Player is the subset of a Hypixel player record the overlay uses. Fields
// missing from the payload are zero.
type Player struct {
	UUID           string
	DisplayName    string
	HasDisplayName bool
	NetworkExp     float64

	BedwarsExperience int
	Bedwars           map[stats.BedwarsMode]stats.Counters
	MiniWalls         stats.MiniWallsCounters
}

// Credential is the shared API key. A key becomes unusable when the stats
// service rejects it and stays that way until a new key is set.
type Credential struct {
	mu    sync.RWMutex
	key   string
	valid bool
}

// NewCredential returns a credential holding key.
func NewCredential(key string, valid bool) *Credential {
	return &Credential{key: key, valid: valid}
}

// Get returns the key and whether it may be used.
func (c *Credential) Get() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.key, c.valid && c.key != ""
}

// Set replaces the key.
func (c *Credential) Set(key string, valid bool) {
	c.mu.Lock()
	c.key = key
	c.valid = valid
	c.mu.Unlock()
}

// Invalidate marks the current key as rejected.
func (c *Credential) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// Redact shortens a key for logging.
func Redact(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}
