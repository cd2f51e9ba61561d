package mojang

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoContent is matched by a *StatusError for a 204 response, which Mojang
// uses for unknown names and profiles.
var ErrNoContent = errors.New("no content")

// StatusError reports a non-200 response.
type StatusError struct {
	Service string // "api", "sessionserver" or "textures"
	Code    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mojang %s returned status %d", e.Service, e.Code)
}

// Unwrap lets errors.Is(err, ErrNoContent) match 204 responses.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNoContent {
		return ErrNoContent
	}
	return nil
}

// Identity is the result of a username lookup.
type Identity struct {
	UUID string // 32 lowercase hex digits, no dashes
	Name string // canonical capitalisation
}

// Profile is the decoded session profile of a player.
type Profile struct {
	UUID    string
	Name    string
	SkinURL string // empty when the player has no custom skin
	Slim    bool
}

// HasSkin reports whether the profile carries a skin texture.
func (p Profile) HasSkin() bool {
	return p.SkinURL != ""
}

type identityResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type profileResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Properties []profileProperty `json:"properties"`
}

type profileProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
