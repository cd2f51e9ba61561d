// Package testutil holds test doubles shared by package tests.
package testutil

import (
	"context"
	"net/http"
	"sync"

	"github.com/five82/statsoverlay/internal/hypixel"
	"github.com/five82/statsoverlay/internal/mojang"
)

// Mojang is an in-memory stand-in for the Mojang services. Names without an
// identity answer 204. When Gate is set every call blocks until it is
// closed; NameGates blocks only the UUID lookup of the named players.
type Mojang struct {
	mu         sync.Mutex
	Gate       chan struct{}
	NameGates  map[string]chan struct{}
	Identities map[string]mojang.Identity
	UUIDErr    error
	Profiles   map[string]mojang.Profile
	ProfileErr error
	Skin       []byte
	SkinErr    error
	calls      map[string]int
}

// NewMojang returns a fake that resolves every name in names, with a skin.
func NewMojang(names ...string) *Mojang {
	m := &Mojang{
		Identities: make(map[string]mojang.Identity),
		Profiles:   make(map[string]mojang.Profile),
		Skin:       []byte("skin"),
	}
	for _, name := range names {
		m.AddPlayer(name)
	}
	return m
}

// AddPlayer registers name with a generated UUID and skin URL.
func (m *Mojang) AddPlayer(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := UUIDFor(name)
	m.Identities[name] = mojang.Identity{UUID: id, Name: name}
	m.Profiles[id] = mojang.Profile{UUID: id, Name: name, SkinURL: "http://textures.invalid/" + id}
}

// Calls returns how often method was called.
func (m *Mojang) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *Mojang) enter(ctx context.Context, method, name string) error {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
	gate := m.Gate
	if g, ok := m.NameGates[name]; ok && method == "LookupUUID" {
		gate = g
	}
	m.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mojang) LookupUUID(ctx context.Context, username string) (mojang.Identity, error) {
	if err := m.enter(ctx, "LookupUUID", username); err != nil {
		return mojang.Identity{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UUIDErr != nil {
		return mojang.Identity{}, m.UUIDErr
	}
	id, ok := m.Identities[username]
	if !ok {
		return mojang.Identity{}, &mojang.StatusError{Service: "api", Code: http.StatusNoContent}
	}
	return id, nil
}

func (m *Mojang) Profile(ctx context.Context, uuid string) (mojang.Profile, error) {
	if err := m.enter(ctx, "Profile", ""); err != nil {
		return mojang.Profile{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ProfileErr != nil {
		return mojang.Profile{}, m.ProfileErr
	}
	p, ok := m.Profiles[uuid]
	if !ok {
		return mojang.Profile{}, &mojang.StatusError{Service: "sessionserver", Code: http.StatusNoContent}
	}
	return p, nil
}

func (m *Mojang) Texture(ctx context.Context, url string) ([]byte, error) {
	if err := m.enter(ctx, "Texture", ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SkinErr != nil {
		return nil, m.SkinErr
	}
	return m.Skin, nil
}

// Hypixel is an in-memory stand-in for the Hypixel API keyed by UUID.
// Unknown UUIDs answer with ErrPlayerNotFound.
type Hypixel struct {
	mu        sync.Mutex
	Players   map[string]hypixel.Player
	Err       error
	ValidKeys map[string]bool
	calls     int
	keys      []string
}

// NewHypixel returns a fake with a stats record for every name in names.
func NewHypixel(names ...string) *Hypixel {
	h := &Hypixel{Players: make(map[string]hypixel.Player), ValidKeys: make(map[string]bool)}
	for _, name := range names {
		h.Players[UUIDFor(name)] = hypixel.Player{
			UUID:           UUIDFor(name),
			DisplayName:    name,
			HasDisplayName: true,
		}
	}
	return h
}

// Calls returns how many stats requests were made.
func (h *Hypixel) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

// Keys returns the keys stats requests used.
func (h *Hypixel) Keys() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.keys...)
}

func (h *Hypixel) Player(_ context.Context, key, uuid string) (hypixel.Player, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	h.keys = append(h.keys, key)
	if h.Err != nil {
		return hypixel.Player{}, h.Err
	}
	p, ok := h.Players[uuid]
	if !ok {
		return hypixel.Player{}, hypixel.ErrPlayerNotFound
	}
	return p, nil
}

func (h *Hypixel) ValidateKey(_ context.Context, key string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ValidKeys[key], nil
}

// UUIDFor derives a stable fake UUID from a name.
func UUIDFor(name string) string {
	const hex = "0123456789abcdef"
	out := make([]byte, 32)
	for i := range out {
		var c byte
		if len(name) > 0 {
			c = name[i%len(name)]
		}
		out[i] = hex[(int(c)+i)%16]
	}
	return string(out)
}
