// Package mtgio is a minimal client for the magicthegathering.io card API,
// used as a secondary card source when Scryfall is unavailable. Cards are
// returned in Scryfall's shape so callers handle one type.
package mtgio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/cards/scryfall"
)

const (
	// DefaultBaseURL is the public magicthegathering.io API root.
	DefaultBaseURL = "https://api.magicthegathering.io/v1"

	rateLimitDelay = 200 * time.Millisecond
	requestTimeout = 30 * time.Second
)

// card is the subset of an API card the mana base needs.
type card struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ManaCost      string   `json:"manaCost"`
	CMC           float64  `json:"cmc"`
	Type          string   `json:"type"`
	Layout        string   `json:"layout"`
	Colors        []string `json:"colors"`
	ColorIdentity []string `json:"colorIdentity"`
	Names         []string `json:"names"`
}

type cardsResponse struct {
	Cards []card `json:"cards"`
}

// Client fetches cards by exact name.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	baseURL     string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithRateInterval sets the minimum gap between requests.
func WithRateInterval(d time.Duration) Option {
	return func(c *Client) { c.rateLimiter = rate.NewLimiter(rate.Every(d), 1) }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a client with a 5 req/sec limit.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "mtg-manabase/1.0",
		baseURL:     DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCardByName returns the first printing whose name matches exactly,
// case-insensitively. The front face of a multi-face card also matches.
// A name with no match is a *scryfall.NotFoundError.
func (c *Client) GetCardByName(ctx context.Context, name string) (*scryfall.Card, error) {
	u := fmt.Sprintf("%s/cards?name=%s", c.baseURL, url.QueryEscape(`"`+name+`"`))

	var resp cardsResponse
	if err := c.get(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("failed to get card %q: %w", name, err)
	}

	for _, raw := range resp.Cards {
		if strings.EqualFold(raw.Name, name) || strings.EqualFold(fullName(raw), name) {
			return raw.toScryfall(), nil
		}
	}
	return nil, &scryfall.NotFoundError{URL: u}
}

// GetCardsByNames looks names up one at a time; the API has no batch endpoint.
func (c *Client) GetCardsByNames(ctx context.Context, names []string) ([]scryfall.Card, []string, error) {
	var (
		cards    []scryfall.Card
		notFound []string
	)
	for _, name := range names {
		card, err := c.GetCardByName(ctx, name)
		if scryfall.IsNotFound(err) {
			notFound = append(notFound, name)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		cards = append(cards, *card)
	}
	return cards, notFound, nil
}

func (c *Client) get(ctx context.Context, u string, result any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &scryfall.NotFoundError{URL: u}
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

// fullName joins the faces of a split or transforming card the way Scryfall names it.
func fullName(c card) string {
	if len(c.Names) < 2 {
		return c.Name
	}
	return strings.Join(c.Names, " // ")
}

func (c card) toScryfall() *scryfall.Card {
	out := &scryfall.Card{
		ID:            c.ID,
		Name:          fullName(c),
		Layout:        c.Layout,
		ManaCost:      c.ManaCost,
		CMC:           c.CMC,
		TypeLine:      c.Type,
		Colors:        c.Colors,
		ColorIdentity: c.ColorIdentity,
	}
	// Each face is listed separately; keep the one we found as the front.
	if len(c.Names) >= 2 {
		out.CardFaces = []scryfall.CardFace{{Name: c.Name, ManaCost: c.ManaCost, TypeLine: c.Type, Colors: c.Colors}}
	}
	return out
}
