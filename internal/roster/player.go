package roster

import (
	"fmt"
	"time"

	"github.com/five82/statsoverlay/internal/stats"
)

// Stage is a player's position in the fetch pipeline. Stages only move
// forward; Failed is terminal.
type Stage int

const (
	NeedUUID Stage = iota
	NeedProfile
	NeedSkin
	NeedStats
	Done
	Failed
)

func (s Stage) String() string {
	switch s {
	case NeedUUID:
		return "uuid"
	case NeedProfile:
		return "profile"
	case NeedSkin:
		return "skin"
	case NeedStats:
		return "stats"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ErrorKind classifies why a player could not be resolved.
type ErrorKind int

const (
	InputInvalid ErrorKind = iota + 1
	NotFound
	RateLimited
	Forbidden
	Other
	DataIntegrity
)

func (k ErrorKind) String() string {
	switch k {
	case InputInvalid:
		return "input_invalid"
	case NotFound:
		return "not_found"
	case RateLimited:
		return "rate_limited"
	case Forbidden:
		return "forbidden"
	case Other:
		return "other"
	case DataIntegrity:
		return "data_integrity"
	default:
		return "unknown"
	}
}

// FetchError is the terminal error attached to a player.
type FetchError struct {
	Kind    ErrorKind
	Stage   Stage // stage that failed
	Code    int   // upstream status code, 0 when no response was received
	Message string
}

func (e *FetchError) Error() string {
	return e.Message
}

// Player is one roster entry. Skin is never modified after it is set, so
// snapshots may share it.
type Player struct {
	Username       string
	MojangUsername string
	UUID           string
	SkinURL        string
	Skin           []byte

	Stage    Stage
	Err      *FetchError
	Render   bool
	LastSeen time.Time

	NetworkLevel int
	Bedwars      stats.Bedwars
	MiniWalls    stats.MiniWalls
}

func newPlayer(username string, now time.Time) *Player {
	return &Player{
		Username:     username,
		Stage:        NeedUUID,
		Render:       true,
		LastSeen:     now,
		NetworkLevel: 1,
	}
}

// Healthy reports whether the player has no error.
func (p *Player) Healthy() bool {
	return p.Err == nil
}

// ErrorMessage returns the error text, or "" when the player is healthy.
func (p *Player) ErrorMessage() string {
	if p.Err == nil {
		return ""
	}
	return p.Err.Message
}

// Fail records a terminal error. The first error wins.
func (p *Player) Fail(err *FetchError) {
	if p.Err != nil || err == nil {
		return
	}
	if err.Stage == 0 && p.Stage != NeedUUID {
		err.Stage = p.Stage
	}
	p.Err = err
	p.Stage = Failed
}

// Advance moves the player forward to stage. Moving backwards, or moving a
// failed player, is ignored.
func (p *Player) Advance(stage Stage) bool {
	if p.Err != nil || p.Stage == Failed || stage <= p.Stage {
		return false
	}
	p.Stage = stage
	return true
}

// Ready reports whether the player finished every stage.
func (p *Player) Ready() bool {
	return p.Stage == Done && p.Err == nil
}
