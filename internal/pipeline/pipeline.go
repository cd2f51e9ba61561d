package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/five82/statsoverlay/internal/hypixel"
	"github.com/five82/statsoverlay/internal/mojang"
	"github.com/five82/statsoverlay/internal/roster"
	"github.com/five82/statsoverlay/internal/stats"
)

// MojangAPI resolves identities, profiles and skins.
type MojangAPI interface {
	LookupUUID(ctx context.Context, username string) (mojang.Identity, error)
	Profile(ctx context.Context, uuid string) (mojang.Profile, error)
	Texture(ctx context.Context, url string) ([]byte, error)
}

// HypixelAPI fetches player statistics.
type HypixelAPI interface {
	Player(ctx context.Context, key, uuid string) (hypixel.Player, error)
}

// Stages lists the fetch stages in sweep order.
var Stages = []roster.Stage{roster.NeedUUID, roster.NeedProfile, roster.NeedSkin, roster.NeedStats}

// Messages shown in place of stats.
const (
	MsgEmptyUsername   = "Invalid Username (empty)"
	MsgNickedUsername  = "Invalid Username (player is nicked)"
	MsgMojangRateLimit = "Mojang API ratelimited"
	MsgMissingUUID     = "Missing UUID"
	MsgNickedProfile   = "Profile not found (player is nicked)"
	MsgSessionLimit    = "Mojang sessionserver ratelimited"
	MsgNoSkin          = "No skin available"
	MsgTexturesLimit   = "Mojang textures ratelimited"
	MsgInvalidKey      = "Invalid Hypixel API key"
	MsgForbidden       = "Forbidden (invalid API key)"
	MsgHypixelLimit    = "Ratelimit reached (please slow down)"
	MsgNoStats         = "No Hypixel stats available"
	MsgNicked          = "Has nickname permissions and is nicked (is YT, Admin, etc.)"
)

// Options configures a Pipeline.
type Options struct {
	Mojang     MojangAPI
	Hypixel    HypixelAPI
	Credential *hypixel.Credential
	Logger     *slog.Logger
}

// Pipeline moves roster players through the fetch stages. Each player has
// at most one request in flight.
type Pipeline struct {
	ctx     context.Context // request context, outlives individual sweeps
	mojang  MojangAPI
	hypixel HypixelAPI
	cred    *hypixel.Credential
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[*roster.Player]*handle
}

type outcome func(p *roster.Player)

type handle struct {
	stage   roster.Stage
	done    chan struct{}
	outcome outcome
}

var _ roster.Starter = (*Pipeline)(nil)

// New creates a Pipeline. Requests it starts use ctx, so cancelling ctx
// aborts everything in flight.
func New(ctx context.Context, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	cred := opts.Credential
	if cred == nil {
		cred = hypixel.NewCredential("", false)
	}
	return &Pipeline{
		ctx:     ctx,
		mojang:  opts.Mojang,
		hypixel: opts.Hypixel,
		cred:    cred,
		logger:  logger,
		pending: make(map[*roster.Player]*handle),
	}
}

// Credential returns the shared API key holder.
func (pl *Pipeline) Credential() *hypixel.Credential {
	return pl.cred
}

// Pending returns the number of requests in flight.
func (pl *Pipeline) Pending() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return len(pl.pending)
}

// Start begins the request for p's current stage. It is called with the
// roster write lock held, either by Roster.Add or by a sweep.
func (pl *Pipeline) Start(p *roster.Player) {
	if !p.Healthy() {
		return
	}
	pl.mu.Lock()
	_, busy := pl.pending[p]
	pl.mu.Unlock()
	if busy {
		return
	}

	switch p.Stage {
	case roster.NeedUUID:
		if p.Username == "" {
			pl.fail(p, roster.InputInvalid, 0, MsgEmptyUsername)
			return
		}
		username := p.Username
		pl.launch(p, func(ctx context.Context) outcome { return pl.fetchUUID(ctx, username) })
	case roster.NeedProfile:
		if p.UUID == "" {
			pl.fail(p, roster.InputInvalid, 0, MsgMissingUUID)
			return
		}
		id := p.UUID
		pl.launch(p, func(ctx context.Context) outcome { return pl.fetchProfile(ctx, id) })
	case roster.NeedSkin:
		if p.SkinURL == "" {
			pl.fail(p, roster.InputInvalid, 0, MsgNoSkin)
			return
		}
		skinURL := p.SkinURL
		pl.launch(p, func(ctx context.Context) outcome { return pl.fetchSkin(ctx, skinURL) })
	case roster.NeedStats:
		key, ok := pl.cred.Get()
		if !ok {
			pl.fail(p, roster.Forbidden, 0, MsgInvalidKey)
			return
		}
		if p.UUID == "" {
			pl.fail(p, roster.InputInvalid, 0, MsgMissingUUID)
			return
		}
		id := p.UUID
		pl.launch(p, func(ctx context.Context) outcome { return pl.fetchStats(ctx, key, id) })
	}
}

// Sweep runs one start and resolve pass per stage, in stage order, over the
// whole roster. Only a cancelled context stops it early.
func (pl *Pipeline) Sweep(ctx context.Context, r *roster.Roster) error {
	for _, stage := range Stages {
		r.Range(func(p *roster.Player) bool {
			if p.Stage != stage || !p.Healthy() {
				return false
			}
			pl.Start(p)
			return !p.Healthy()
		})
		if err := pl.resolve(ctx, r, stage); err != nil {
			return err
		}
	}
	return nil
}

// resolve waits for every request of stage and applies its outcome to the
// player if the player is still in the roster.
func (pl *Pipeline) resolve(ctx context.Context, r *roster.Roster, stage roster.Stage) error {
	pl.mu.Lock()
	batch := make(map[*roster.Player]*handle)
	for p, h := range pl.pending {
		if h.stage == stage {
			batch[p] = h
		}
	}
	pl.mu.Unlock()
	if len(batch) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for p, h := range batch {
		p, h := p, h
		g.Go(func() error {
			select {
			case <-h.done:
			case <-gctx.Done():
				return gctx.Err()
			}
			pl.mu.Lock()
			delete(pl.pending, p)
			pl.mu.Unlock()

			applied := r.Apply(p, func(p *roster.Player) {
				if p.Healthy() && p.Stage == h.stage {
					h.outcome(p)
				}
			})
			if !applied {
				pl.logger.Debug("discarded result for departed player", "stage", stage.String())
			}
			return nil
		})
	}
	return g.Wait()
}

func (pl *Pipeline) launch(p *roster.Player, fetch func(ctx context.Context) outcome) {
	h := &handle{stage: p.Stage, done: make(chan struct{})}
	pl.mu.Lock()
	pl.pending[p] = h
	pl.mu.Unlock()

	pl.logger.Debug("fetch started", "player", p.Username, "stage", p.Stage.String())
	go func() {
		defer close(h.done)
		h.outcome = fetch(pl.ctx)
	}()
}

func (pl *Pipeline) fail(p *roster.Player, kind roster.ErrorKind, code int, msg string) {
	pl.logger.Warn("fetch failed",
		"player", p.Username,
		"stage", p.Stage.String(),
		"kind", kind.String(),
		"error", msg,
	)
	p.Fail(&roster.FetchError{Kind: kind, Stage: p.Stage, Code: code, Message: msg})
}

func (pl *Pipeline) failure(kind roster.ErrorKind, code int, msg string) outcome {
	return func(p *roster.Player) {
		pl.fail(p, kind, code, msg)
	}
}

func (pl *Pipeline) fetchUUID(ctx context.Context, username string) outcome {
	id, err := pl.mojang.LookupUUID(ctx, username)
	if err != nil {
		return pl.mojangFailure(err, "Mojang API", MsgNickedUsername, MsgMojangRateLimit)
	}
	return func(p *roster.Player) {
		p.UUID = id.UUID
		p.MojangUsername = id.Name
		p.Advance(roster.NeedProfile)
	}
}

func (pl *Pipeline) fetchProfile(ctx context.Context, id string) outcome {
	profile, err := pl.mojang.Profile(ctx, id)
	if err != nil {
		return pl.mojangFailure(err, "Mojang sessionserver", MsgNickedProfile, MsgSessionLimit)
	}
	if !profile.HasSkin() {
		return pl.failure(roster.DataIntegrity, 0, MsgNoSkin)
	}
	return func(p *roster.Player) {
		p.SkinURL = profile.SkinURL
		p.Advance(roster.NeedSkin)
	}
}

func (pl *Pipeline) fetchSkin(ctx context.Context, skinURL string) outcome {
	skin, err := pl.mojang.Texture(ctx, skinURL)
	if err != nil {
		return pl.mojangFailure(err, "Mojang textures", "", MsgTexturesLimit)
	}
	return func(p *roster.Player) {
		p.Skin = skin
		p.Advance(roster.NeedStats)
	}
}

func (pl *Pipeline) fetchStats(ctx context.Context, key, id string) outcome {
	data, err := pl.hypixel.Player(ctx, key, id)
	if err != nil {
		return pl.hypixelFailure(err)
	}
	return func(p *roster.Player) {
		if !data.HasDisplayName || data.DisplayName != p.Username || p.MojangUsername != p.Username {
			pl.logger.Debug("display name mismatch",
				"player", p.Username,
				"mojang_name", p.MojangUsername,
				"display_name", data.DisplayName,
			)
			pl.fail(p, roster.DataIntegrity, 0, MsgNicked)
			return
		}
		p.NetworkLevel = stats.NetworkLevel(data.NetworkExp)
		p.Bedwars = stats.ComputeBedwars(data.BedwarsExperience, data.Bedwars)
		p.MiniWalls = stats.ComputeMiniWalls(data.MiniWalls)
		p.Advance(roster.Done)
		pl.logger.Debug("player resolved", "player", p.Username, "stars", p.Bedwars.Stars)
	}
}

// mojangFailure maps a Mojang client error to a player error. An empty
// notFound message means 204 is not special for that service.
func (pl *Pipeline) mojangFailure(err error, service, notFound, rateLimited string) outcome {
	var statusErr *mojang.StatusError
	if !errors.As(err, &statusErr) {
		return pl.failure(roster.Other, 0, fmt.Sprintf("%s: %v", service, err))
	}
	switch {
	case statusErr.Code == http.StatusNoContent && notFound != "":
		return pl.failure(roster.NotFound, statusErr.Code, notFound)
	case statusErr.Code == http.StatusTooManyRequests:
		return pl.failure(roster.RateLimited, statusErr.Code, rateLimited)
	default:
		return pl.failure(roster.Other, statusErr.Code, fmt.Sprintf("%s: status_code=%d", service, statusErr.Code))
	}
}

func (pl *Pipeline) hypixelFailure(err error) outcome {
	if errors.Is(err, hypixel.ErrPlayerNotFound) {
		return pl.failure(roster.DataIntegrity, 0, MsgNoStats)
	}
	var statusErr *hypixel.StatusError
	if !errors.As(err, &statusErr) {
		return pl.failure(roster.Other, 0, fmt.Sprintf("Hypixel API: %v", err))
	}
	switch statusErr.Code {
	case http.StatusForbidden:
		pl.cred.Invalidate()
		pl.logger.Warn("hypixel rejected api key", "cause", statusErr.Cause)
		return pl.failure(roster.Forbidden, statusErr.Code, MsgForbidden)
	case http.StatusTooManyRequests:
		return pl.failure(roster.RateLimited, statusErr.Code, MsgHypixelLimit)
	default:
		return pl.failure(roster.Other, statusErr.Code, fmt.Sprintf("Hypixel API: status_code=%d", statusErr.Code))
	}
}
