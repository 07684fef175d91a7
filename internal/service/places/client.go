package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFieldMask limits the Places response to the fields the search uses.
const DefaultFieldMask = "places.id,places.location,places.displayName,places.name,places.primaryType," +
	"places.rating,places.userRatingCount,places.googleMapsUri,places.websiteUri,places.currentOpeningHours"

var (
	ErrRequestFailed     = errors.New("places request failed")
	ErrUnexpectedStatus  = errors.New("places returned non-2xx status")
	ErrMalformedResponse = errors.New("places response is malformed")
)

// Config holds the Places text search endpoint settings.
type Config struct {
	URL         string
	BearerToken string
	UserProject string
	FieldMask   string
	Timeout     time.Duration
}

// LocalizedText mirrors the Places API displayName object.
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// LatLng is an optional coordinate; either half may be missing.
type LatLng struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Candidate is a raw, unfiltered text search hit.
type Candidate struct {
	ID              string         `json:"id"`
	WebsiteURI      string         `json:"websiteUri,omitempty"`
	GoogleMapsURI   string         `json:"googleMapsUri,omitempty"`
	DisplayName     *LocalizedText `json:"displayName,omitempty"`
	PrimaryType     string         `json:"primaryType,omitempty"`
	Rating          *float64       `json:"rating,omitempty"`
	UserRatingCount *int           `json:"userRatingCount,omitempty"`
	Location        *LatLng        `json:"location,omitempty"`
}

// Name returns the display name text, if any.
func (c Candidate) Name() string {
	if c.DisplayName == nil {
		return ""
	}
	return c.DisplayName.Text
}

type searchTextRequest struct {
	TextQuery string `json:"textQuery"`
}

type searchTextResponse struct {
	Places []Candidate `json:"places"`
}

// Client calls the Places API text search endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient builds a client. A zero timeout falls back to 15 seconds.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.FieldMask == "" {
		cfg.FieldMask = DefaultFieldMask
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "places").Logger(),
	}
}

// SearchText runs a free-text place search and returns the raw candidates.
func (c *Client) SearchText(ctx context.Context, query string) ([]Candidate, error) {
	body, err := json.Marshal(searchTextRequest{TextQuery: query})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", ErrRequestFailed, err)
	}

	endpoint, err := c.endpoint()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-FieldMask", c.cfg.FieldMask)
	if c.cfg.UserProject != "" {
		req.Header.Set("X-Goog-User-Project", c.cfg.UserProject)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("body", strings.TrimSpace(string(snippet))).
			Msg("text search rejected")
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var payload searchTextResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	c.logger.Debug().
		Str("query", query).
		Int("candidates", len(payload.Places)).
		Dur("elapsed", time.Since(started)).
		Msg("text search completed")

	return payload.Places, nil
}

func (c *Client) endpoint() (string, error) {
	parsed, err := url.Parse(c.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("invalid places url %q: %w", c.cfg.URL, err)
	}
	if c.cfg.BearerToken != "" {
		query := parsed.Query()
		query.Set("key", c.cfg.BearerToken)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String(), nil
}
