// Package mojang provides HTTP clients for the Mojang identity, session and
// texture services.
//
// LookupUUID resolves a username to its UUID and canonical name, Profile
// decodes the base64 textures property of a session profile into a skin URL,
// and Texture downloads the skin PNG. Every non-200 response is returned as a
// *StatusError so callers can tell nicked players (204, see ErrNoContent) and
// rate limiting (429) apart from other failures.
package mojang
