package mojang

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	DefaultAPIURL     = "https://api.mojang.com"
	DefaultSessionURL = "https://sessionserver.mojang.com"

	defaultUserAgent = "statsoverlay/0.1"
	requestTimeout   = 10 * time.Second
	maxBodyBytes     = 1 << 20
)

// Client talks to the Mojang HTTP APIs.
type Client struct {
	apiURL     *url.URL
	sessionURL *url.URL
	http       *http.Client
	userAgent  string
}

// NewClient builds a Client. Empty URLs fall back to the public endpoints.
func NewClient(apiURL, sessionURL string) (*Client, error) {
	api, err := parseBaseURL(apiURL, DefaultAPIURL)
	if err != nil {
		return nil, fmt.Errorf("parse mojang_api_url %q: %w", apiURL, err)
	}
	session, err := parseBaseURL(sessionURL, DefaultSessionURL)
	if err != nil {
		return nil, fmt.Errorf("parse session_url %q: %w", sessionURL, err)
	}
	return &Client{
		apiURL:     api,
		sessionURL: session,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// LookupUUID resolves username to its UUID and canonical name.
func (c *Client) LookupUUID(ctx context.Context, username string) (Identity, error) {
	if c == nil {
		return Identity{}, fmt.Errorf("client is nil")
	}
	body, err := c.get(ctx, "api", endpoint(c.apiURL, "/users/profiles/minecraft/", username))
	if err != nil {
		return Identity{}, err
	}

	var payload identityResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	id, err := NormalizeUUID(payload.ID)
	if err != nil {
		return Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	return Identity{UUID: id, Name: payload.Name}, nil
}

// Profile fetches the session profile for id and extracts the skin texture.
func (c *Client) Profile(ctx context.Context, id string) (Profile, error) {
	if c == nil {
		return Profile{}, fmt.Errorf("client is nil")
	}
	body, err := c.get(ctx, "sessionserver", endpoint(c.sessionURL, "/session/minecraft/profile/", id))
	if err != nil {
		return Profile{}, err
	}

	var payload profileResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	profile := Profile{UUID: payload.ID, Name: payload.Name}

	encoded, ok := texturesProperty(payload.Properties)
	if !ok {
		return profile, nil
	}
	textures, err := decodeBase64(encoded)
	if err != nil {
		return Profile{}, fmt.Errorf("decode textures property: %w", err)
	}
	if !gjson.ValidBytes(textures) {
		return Profile{}, fmt.Errorf("decode textures property: invalid json")
	}
	skin := gjson.GetBytes(textures, "textures.SKIN")
	profile.SkinURL = skin.Get("url").String()
	profile.Slim = skin.Get("metadata.model").String() == "slim"
	return profile, nil
}

// Texture downloads the image at rawURL.
func (c *Client) Texture(ctx context.Context, rawURL string) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse texture url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse texture url: unsupported scheme %q", u.Scheme)
	}
	body, err := c.get(ctx, "textures", u)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("texture %s is empty", u.String())
	}
	return body, nil
}

// NormalizeUUID validates id and returns it as 32 lowercase hex digits.
func NormalizeUUID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("invalid uuid %q: %w", id, err)
	}
	return strings.ReplaceAll(parsed.String(), "-", ""), nil
}

func (c *Client) get(ctx context.Context, service string, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Service: service, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func texturesProperty(props []profileProperty) (string, bool) {
	for _, p := range props {
		if p.Name == "textures" {
			return p.Value, true
		}
	}
	return "", false
}

func decodeBase64(s string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return decoded, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
		return raw, nil
	}
	return nil, err
}

// endpoint appends prefix and a single escaped path segment to base. Dots are
// escaped too, so a segment such as ".." stays a literal name.
func endpoint(base *url.URL, prefix, segment string) *url.URL {
	u := *base
	escaped := strings.ReplaceAll(url.PathEscape(segment), ".", "%2E")
	u.Path = strings.TrimSuffix(base.Path, "/") + prefix + segment
	u.RawPath = strings.TrimSuffix(base.EscapedPath(), "/") + prefix + escaped
	return &u
}

func parseBaseURL(raw, fallback string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = fallback
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
