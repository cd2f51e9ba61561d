package hypixel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/five82/statsoverlay/internal/stats"
)

const (
	DefaultAPIURL = "https://api.hypixel.net"

	defaultUserAgent = "statsoverlay/0.1"
	requestTimeout   = 10 * time.Second
	maxBodyBytes     = 8 << 20
)

// Client talks to the Hypixel public API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// NewClient builds a Client. An empty baseURL uses the public endpoint.
func NewClient(baseURL string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// ValidateKey asks the API whether key is usable. A rejected key is reported
// as false with a nil error; transport failures and unreadable replies are
// errors.
func (c *Client) ValidateKey(ctx context.Context, key string) (bool, error) {
	if c == nil {
		return false, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return false, nil
	}
	values := url.Values{}
	values.Set("key", key)
	status, body, err := c.get(ctx, &url.URL{Path: "/key", RawQuery: values.Encode()})
	if err != nil {
		return false, err
	}
	if !gjson.ValidBytes(body) {
		if status != http.StatusOK {
			return false, &StatusError{Code: status}
		}
		return false, fmt.Errorf("decode key response: invalid json")
	}
	return gjson.GetBytes(body, "success").Bool(), nil
}

// Player fetches the player record for uuid.
func (c *Client) Player(ctx context.Context, key, uuid string) (Player, error) {
	if c == nil {
		return Player{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("key", key)
	values.Set("uuid", uuid)
	status, body, err := c.get(ctx, &url.URL{Path: "/player", RawQuery: values.Encode()})
	if err != nil {
		return Player{}, err
	}
	if status != http.StatusOK {
		return Player{}, &StatusError{Code: status, Cause: gjson.GetBytes(body, "cause").String()}
	}
	if !gjson.ValidBytes(body) {
		return Player{}, fmt.Errorf("decode player response: invalid json")
	}
	return parsePlayer(gjson.GetBytes(body, "player"))
}

func parsePlayer(data gjson.Result) (Player, error) {
	if !data.Exists() || !data.IsObject() || len(data.Map()) == 0 {
		return Player{}, ErrPlayerNotFound
	}

	display := data.Get("displayname")
	p := Player{
		UUID:           data.Get("uuid").String(),
		DisplayName:    display.String(),
		HasDisplayName: display.Type == gjson.String,
		NetworkExp:     data.Get("networkExp").Float(),
		Bedwars:        make(map[stats.BedwarsMode]stats.Counters, len(stats.BedwarsModes)),
	}

	bedwars := data.Get("stats.Bedwars")
	p.BedwarsExperience = int(bedwars.Get("Experience").Int())
	for _, mode := range stats.BedwarsModes {
		prefix := mode.Key() + "_"
		p.Bedwars[mode] = stats.Counters{
			FinalKills:  intField(bedwars, prefix+"final_kills_bedwars"),
			FinalDeaths: intField(bedwars, prefix+"final_deaths_bedwars"),
			Wins:        intField(bedwars, prefix+"wins_bedwars"),
			Losses:      intField(bedwars, prefix+"losses_bedwars"),
		}
	}

	arcade := data.Get("stats.Arcade")
	p.MiniWalls = stats.MiniWallsCounters{
		ActiveKit:    arcade.Get("miniwalls_activeKit").String(),
		Kills:        intField(arcade, "kills_mini_walls"),
		Deaths:       intField(arcade, "deaths_mini_walls"),
		FinalKills:   intField(arcade, "final_kills_mini_walls"),
		Wins:         intField(arcade, "wins_mini_walls"),
		WitherKills:  intField(arcade, "wither_kills_mini_walls"),
		WitherDamage: intField(arcade, "wither_damage_mini_walls"),
		ArrowsShot:   intField(arcade, "arrows_shot_mini_walls"),
		ArrowsHit:    intField(arcade, "arrows_hit_mini_walls"),
	}
	return p, nil
}

func intField(obj gjson.Result, path string) int {
	return int(obj.Get(path).Int())
}

func (c *Client) get(ctx context.Context, rel *url.URL) (int, []byte, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse hypixel_api_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse hypixel_api_url %q: %w", raw, errors.New("missing host"))
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
