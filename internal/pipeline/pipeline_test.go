package pipeline

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/five82/statsoverlay/internal/clock"
	"github.com/five82/statsoverlay/internal/hypixel"
	"github.com/five82/statsoverlay/internal/mojang"
	"github.com/five82/statsoverlay/internal/roster"
	"github.com/five82/statsoverlay/internal/stats"
	"github.com/five82/statsoverlay/internal/testutil"
)

type PipelineSuite struct {
	suite.Suite
	ctx     context.Context
	cancel  context.CancelFunc
	clock   *clock.Mock
	mojang  *testutil.Mojang
	hypixel *testutil.Hypixel
	cred    *hypixel.Credential
	pipe    *Pipeline
	roster  *roster.Roster
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Second)
	s.clock = clock.NewMock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	s.mojang = testutil.NewMojang("Steve", "Alice", "Bob")
	s.hypixel = testutil.NewHypixel("Steve", "Alice", "Bob")
	s.cred = hypixel.NewCredential("key-1", true)
	s.pipe = New(s.ctx, Options{
		Mojang:     s.mojang,
		Hypixel:    s.hypixel,
		Credential: s.cred,
		Logger:     testutil.NopLogger(),
	})
	s.roster = roster.New(s.pipe, s.clock)
}

func (s *PipelineSuite) TearDownTest() {
	s.cancel()
}

func (s *PipelineSuite) sweep() {
	s.Require().NoError(s.pipe.Sweep(s.ctx, s.roster))
}

func (s *PipelineSuite) player(name string) roster.Player {
	p, ok := s.roster.Lookup(name)
	s.Require().True(ok, "player %s missing", name)
	return p
}

func (s *PipelineSuite) TestSweepResolvesAllStages() {
	s.hypixel.Players[testutil.UUIDFor("Steve")] = hypixel.Player{
		DisplayName:       "Steve",
		HasDisplayName:    true,
		NetworkExp:        22500,
		BedwarsExperience: 7000,
		Bedwars: map[stats.BedwarsMode]stats.Counters{
			stats.Solos: {FinalKills: 10, Wins: 3, Losses: 1},
		},
		MiniWalls: stats.MiniWallsCounters{ActiveKit: "soldier", Kills: 4},
	}

	s.roster.Add("Steve")
	s.sweep()

	p := s.player("Steve")
	s.True(p.Ready())
	s.Equal(roster.Done, p.Stage)
	s.Equal(testutil.UUIDFor("Steve"), p.UUID)
	s.Equal("Steve", p.MojangUsername)
	s.Equal([]byte("skin"), p.Skin)
	s.Equal(3, p.NetworkLevel)
	s.Equal(4, p.Bedwars.Stars)
	s.Equal(10.0, p.Bedwars.Solos.FKDR)
	s.Equal("S", p.MiniWalls.Kit)
	s.Equal([]string{"key-1"}, s.hypixel.Keys())
	s.Zero(s.pipe.Pending())
}

func (s *PipelineSuite) TestDoneIsNotRefetched() {
	s.roster.Add("Steve")
	s.sweep()
	s.sweep()

	s.Equal(1, s.mojang.Calls("LookupUUID"))
	s.Equal(1, s.hypixel.Calls())
}

func (s *PipelineSuite) TestIdleSweepKeepsVersion() {
	s.roster.Add("Steve")
	s.sweep()
	before := s.roster.Version()

	s.sweep()
	s.sweep()

	s.Equal(before, s.roster.Version())
}

func (s *PipelineSuite) TestSweepFinishesIdentityBeforeProfiles() {
	slow := make(chan struct{})
	s.mojang.NameGates = map[string]chan struct{}{"Bob": slow}

	s.roster.Add("Alice")
	s.roster.Add("Bob")

	done := make(chan error, 1)
	go func() { done <- s.pipe.Sweep(s.ctx, s.roster) }()

	s.Require().Eventually(func() bool {
		return s.mojang.Calls("LookupUUID") == 2
	}, 2*time.Second, 5*time.Millisecond)
	// Alice's identity is already known, but profiles wait for Bob.
	time.Sleep(20 * time.Millisecond)
	s.Zero(s.mojang.Calls("Profile"))

	close(slow)
	s.Require().NoError(<-done)

	for _, name := range []string{"Alice", "Bob"} {
		p := s.player(name)
		s.Equal(roster.Done, p.Stage, name)
	}
	s.Equal(2, s.mojang.Calls("Profile"))
	s.Equal(2, s.hypixel.Calls())
}

func (s *PipelineSuite) TestNickedUsernameNeverRequestsProfile() {
	s.roster.Add("Nicked")
	s.sweep()

	p := s.player("Nicked")
	s.Equal(roster.Failed, p.Stage)
	s.Equal(MsgNickedUsername, p.ErrorMessage())
	s.Equal(roster.NotFound, p.Err.Kind)
	s.Equal(roster.NeedUUID, p.Err.Stage)
	s.Equal(http.StatusNoContent, p.Err.Code)
	s.Zero(s.mojang.Calls("Profile"))
}

func (s *PipelineSuite) TestErroredPlayerIsNeverAdvanced() {
	s.roster.Add("Nicked")
	s.sweep()
	s.mojang.AddPlayer("Nicked")

	for i := 0; i < 3; i++ {
		s.sweep()
	}

	p := s.player("Nicked")
	s.Equal(roster.Failed, p.Stage)
	s.Equal(1, s.mojang.Calls("LookupUUID"))
	s.Zero(s.mojang.Calls("Profile"))
}

func (s *PipelineSuite) TestReAddAfterErrorStartsFresh() {
	s.roster.Add("Nicked")
	s.sweep()
	s.mojang.AddPlayer("Nicked")
	s.hypixel.Players[testutil.UUIDFor("Nicked")] = hypixel.Player{DisplayName: "Nicked", HasDisplayName: true}

	s.roster.Add("Nicked")
	s.sweep()

	nicked := s.player("Nicked")
	s.True(nicked.Ready())
	s.Equal(2, s.mojang.Calls("LookupUUID"))
}

func (s *PipelineSuite) TestRosterListStartsIdentityRequests() {
	s.mojang.Gate = make(chan struct{})

	s.roster.Add("Steve")
	s.roster.HideAll()
	for _, name := range []string{"Alice", "Bob"} {
		s.roster.Add(name)
	}

	for _, name := range []string{"Alice", "Bob"} {
		p := s.player(name)
		s.True(p.Render, name)
		s.Equal(roster.NeedUUID, p.Stage, name)
	}
	s.False(s.player("Steve").Render)
	s.Equal(3, s.pipe.Pending())

	close(s.mojang.Gate)
	s.sweep()

	for _, name := range []string{"Alice", "Bob", "Steve"} {
		p := s.player(name)
		s.True(p.Ready(), name)
	}
	s.Equal(3, s.mojang.Calls("LookupUUID"))
}

func (s *PipelineSuite) TestEmptyUsernameFailsWithoutRequest() {
	s.roster.Add("")

	p := s.player("")
	s.Equal(roster.Failed, p.Stage)
	s.Equal(roster.InputInvalid, p.Err.Kind)
	s.Equal(MsgEmptyUsername, p.ErrorMessage())
	s.Zero(s.mojang.Calls("LookupUUID"))
	s.Zero(s.pipe.Pending())
}

func (s *PipelineSuite) TestProfileWithoutSkin() {
	id := testutil.UUIDFor("Steve")
	s.mojang.Profiles[id] = mojang.Profile{UUID: id, Name: "Steve"}

	s.roster.Add("Steve")
	s.sweep()

	p := s.player("Steve")
	s.Equal(roster.DataIntegrity, p.Err.Kind)
	s.Equal(MsgNoSkin, p.ErrorMessage())
	s.Equal(roster.NeedProfile, p.Err.Stage)
	s.Zero(s.mojang.Calls("Texture"))
}

func (s *PipelineSuite) TestUpstreamStatusMessages() {
	tests := []struct {
		name    string
		setup   func()
		kind    roster.ErrorKind
		stage   roster.Stage
		message string
	}{
		{
			name:    "uuid rate limited",
			setup:   func() { s.mojang.UUIDErr = &mojang.StatusError{Service: "api", Code: 429} },
			kind:    roster.RateLimited,
			stage:   roster.NeedUUID,
			message: MsgMojangRateLimit,
		},
		{
			name:    "uuid other",
			setup:   func() { s.mojang.UUIDErr = &mojang.StatusError{Service: "api", Code: 500} },
			kind:    roster.Other,
			stage:   roster.NeedUUID,
			message: "Mojang API: status_code=500",
		},
		{
			name:    "uuid transport",
			setup:   func() { s.mojang.UUIDErr = errors.New("dial tcp: refused") },
			kind:    roster.Other,
			stage:   roster.NeedUUID,
			message: "Mojang API: dial tcp: refused",
		},
		{
			name:    "profile nicked",
			setup:   func() { s.mojang.ProfileErr = &mojang.StatusError{Service: "sessionserver", Code: 204} },
			kind:    roster.NotFound,
			stage:   roster.NeedProfile,
			message: MsgNickedProfile,
		},
		{
			name:    "profile rate limited",
			setup:   func() { s.mojang.ProfileErr = &mojang.StatusError{Service: "sessionserver", Code: 429} },
			kind:    roster.RateLimited,
			stage:   roster.NeedProfile,
			message: MsgSessionLimit,
		},
		{
			name:    "skin no content is not special",
			setup:   func() { s.mojang.SkinErr = &mojang.StatusError{Service: "textures", Code: 204} },
			kind:    roster.Other,
			stage:   roster.NeedSkin,
			message: "Mojang textures: status_code=204",
		},
		{
			name:    "skin rate limited",
			setup:   func() { s.mojang.SkinErr = &mojang.StatusError{Service: "textures", Code: 429} },
			kind:    roster.RateLimited,
			stage:   roster.NeedSkin,
			message: MsgTexturesLimit,
		},
		{
			name:    "stats rate limited",
			setup:   func() { s.hypixel.Err = &hypixel.StatusError{Code: 429} },
			kind:    roster.RateLimited,
			stage:   roster.NeedStats,
			message: MsgHypixelLimit,
		},
		{
			name:    "stats other",
			setup:   func() { s.hypixel.Err = &hypixel.StatusError{Code: 503} },
			kind:    roster.Other,
			stage:   roster.NeedStats,
			message: "Hypixel API: status_code=503",
		},
		{
			name:    "stats missing player",
			setup:   func() { delete(s.hypixel.Players, testutil.UUIDFor("Steve")) },
			kind:    roster.DataIntegrity,
			stage:   roster.NeedStats,
			message: MsgNoStats,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			defer s.TearDownTest()
			tt.setup()

			s.roster.Add("Steve")
			s.sweep()

			p := s.player("Steve")
			s.Require().NotNil(p.Err)
			s.Equal(tt.kind, p.Err.Kind)
			s.Equal(tt.stage, p.Err.Stage)
			s.Equal(tt.message, p.ErrorMessage())
			s.Equal(roster.Failed, p.Stage)
		})
	}
}

func (s *PipelineSuite) TestForbiddenInvalidatesCredential() {
	s.hypixel.Err = &hypixel.StatusError{Code: http.StatusForbidden, Cause: "Invalid API key"}

	s.roster.Add("Steve")
	s.sweep()

	p := s.player("Steve")
	s.Equal(roster.Forbidden, p.Err.Kind)
	s.Equal(MsgForbidden, p.ErrorMessage())
	_, ok := s.cred.Get()
	s.False(ok)

	s.hypixel.Err = nil
	s.roster.Add("Alice")
	s.sweep()

	alice := s.player("Alice")
	s.Equal(roster.Forbidden, alice.Err.Kind)
	s.Equal(MsgInvalidKey, alice.ErrorMessage())
	s.Equal(1, s.hypixel.Calls(), "no stats request without a valid key")

	s.cred.Set("key-2", true)
	s.roster.Add("Alice")
	s.sweep()
	alice = s.player("Alice")
	s.True(alice.Ready())
	s.Equal([]string{"key-1", "key-2"}, s.hypixel.Keys())
}

func (s *PipelineSuite) TestNicknameMismatch() {
	tests := []struct {
		name   string
		mojang mojang.Identity
		stats  hypixel.Player
	}{
		{
			name:   "display name differs",
			mojang: mojang.Identity{UUID: testutil.UUIDFor("Steve"), Name: "Steve"},
			stats:  hypixel.Player{DisplayName: "RealName", HasDisplayName: true},
		},
		{
			name:   "mojang name differs",
			mojang: mojang.Identity{UUID: testutil.UUIDFor("Steve"), Name: "steve"},
			stats:  hypixel.Player{DisplayName: "Steve", HasDisplayName: true},
		},
		{
			name:   "display name missing",
			mojang: mojang.Identity{UUID: testutil.UUIDFor("Steve"), Name: "Steve"},
			stats:  hypixel.Player{},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			defer s.TearDownTest()
			s.mojang.Identities["Steve"] = tt.mojang
			s.hypixel.Players[tt.mojang.UUID] = tt.stats

			s.roster.Add("Steve")
			s.sweep()

			p := s.player("Steve")
			s.Require().NotNil(p.Err)
			s.Equal(roster.DataIntegrity, p.Err.Kind)
			s.Equal(MsgNicked, p.ErrorMessage())
			s.Equal(1, p.NetworkLevel, "derived stats are not computed")
		})
	}
}

func (s *PipelineSuite) TestEvictedPlayerResultIsDiscarded() {
	s.mojang.Gate = make(chan struct{})
	s.roster.Add("Steve")

	s.clock.Advance(time.Hour)
	s.Equal(1, s.roster.EvictExpired(time.Minute, s.clock.Now()))

	close(s.mojang.Gate)
	s.sweep()

	s.Zero(s.roster.Len())
	s.Zero(s.pipe.Pending())
	s.Zero(s.mojang.Calls("Profile"))
}

func (s *PipelineSuite) TestSweepStopsOnCancelledContext() {
	s.mojang.Gate = make(chan struct{})
	s.roster.Add("Steve")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.pipe.Sweep(ctx, s.roster)

	s.ErrorIs(err, context.Canceled)
	s.Equal(roster.NeedUUID, s.player("Steve").Stage)
	close(s.mojang.Gate)
}

func (s *PipelineSuite) TestStartIgnoresBusyPlayer() {
	s.mojang.Gate = make(chan struct{})
	s.roster.Add("Steve")

	s.roster.Range(func(p *roster.Player) bool { s.pipe.Start(p); return false })

	s.Equal(1, s.pipe.Pending())
	close(s.mojang.Gate)
	s.sweep()
	s.Equal(1, s.mojang.Calls("LookupUUID"))
}
