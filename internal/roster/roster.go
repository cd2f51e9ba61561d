package roster

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/five82/statsoverlay/internal/clock"
)

// Starter begins the first fetch for a newly created player. Start is called
// with the roster write lock held: it may modify p but must not call back into
// the roster.
type Starter interface {
	Start(p *Player)
}

// Roster is the set of players seen in the current lobby. A single worker
// mutates it; any number of readers may take snapshots concurrently.
type Roster struct {
	mu      sync.RWMutex
	players []*Player
	starter Starter
	clock   clock.Clock
	version atomic.Uint64
}

// New creates an empty roster. A nil clock uses the system clock; a nil
// starter leaves new players waiting for the next sweep.
func New(starter Starter, clk clock.Clock) *Roster {
	if clk == nil {
		clk = clock.New()
	}
	return &Roster{starter: starter, clock: clk}
}

// SetStarter replaces the starter used by Add.
func (r *Roster) SetStarter(s Starter) {
	r.mu.Lock()
	r.starter = s
	r.mu.Unlock()
}

// Add inserts username or marks an existing healthy entry visible. An errored
// entry is replaced by a fresh player. It reports whether a new player was
// created.
func (r *Roster) Add(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer r.touch()

	if i := r.index(username); i >= 0 {
		existing := r.players[i]
		if existing.Healthy() {
			existing.Render = true
			return false
		}
		r.players = append(r.players[:i], r.players[i+1:]...)
	}

	p := newPlayer(username, r.clock.Now())
	r.players = append(r.players, p)
	if r.starter != nil {
		r.starter.Start(p)
	}
	return true
}

// Remove hides username. Unknown names are ignored.
func (r *Roster) Remove(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.index(username); i >= 0 {
		r.players[i].Render = false
		r.touch()
	}
}

// HideAll hides every player without evicting any.
func (r *Roster) HideAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		p.Render = false
	}
	r.touch()
}

// EvictExpired deletes players whose age exceeds ttl, visible or not, and
// returns how many were removed.
func (r *Roster) EvictExpired(ttl time.Duration, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.players[:0]
	removed := 0
	for _, p := range r.players {
		if now.Sub(p.LastSeen) > ttl {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(r.players); i++ {
		r.players[i] = nil
	}
	r.players = kept
	if removed > 0 {
		r.touch()
	}
	return removed
}

// Snapshot returns copies of every player in roster order.
func (r *Roster) Snapshot() []Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.players) == 0 {
		return nil
	}
	out := make([]Player, len(r.players))
	for i, p := range r.players {
		out[i] = clonePlayer(p)
	}
	return out
}

// Lookup returns a copy of the player called username.
func (r *Roster) Lookup(username string) (Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.index(username); i >= 0 {
		return clonePlayer(r.players[i]), true
	}
	return Player{}, false
}

// Len returns the number of players, hidden ones included.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// Version increases whenever the roster changes.
func (r *Roster) Version() uint64 {
	return r.version.Load()
}

// Now returns the roster clock's current time.
func (r *Roster) Now() time.Time {
	return r.clock.Now()
}

// Range calls fn for each live player in order, holding the write lock. fn
// reports whether it changed the player; the version only moves when one
// did.
func (r *Roster) Range(fn func(p *Player) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := false
	for _, p := range r.players {
		if fn(p) {
			changed = true
		}
	}
	if changed {
		r.touch()
	}
}

// Apply calls fn on p under the write lock if p is still in the roster. It
// reports false when p was evicted or superseded.
func (r *Roster) Apply(p *Player, fn func(p *Player)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, live := range r.players {
		if live == p {
			fn(p)
			r.touch()
			return true
		}
	}
	return false
}

func (r *Roster) index(username string) int {
	for i, p := range r.players {
		if p.Username == username {
			return i
		}
	}
	return -1
}

func (r *Roster) touch() {
	r.version.Add(1)
}

func clonePlayer(p *Player) Player {
	dup := *p
	if p.Err != nil {
		errCopy := *p.Err
		dup.Err = &errCopy
	}
	return dup
}
