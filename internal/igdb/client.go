package igdb

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tessadover/gamelog/internal/errors"
)

// Production endpoints. Overridable through Config for tests.
const (
	defaultTokenURL  = "https://id.twitch.tv/oauth2/token"
	defaultSearchURL = "https://api.igdb.com/v4/games"
	defaultImageBase = "https://images.igdb.com/igdb/image/upload"
)

const (
	// searchLimit is how many candidates a full search requests; the
	// thumbnail variant only needs the winner.
	searchLimit    = 5
	thumbnailLimit = 1

	// maxThrottleRetries is the number of extra attempts after a throttled
	// response.
	maxThrottleRetries = 2

	// defaultRetryDelay is the first backoff interval; it doubles per attempt.
	defaultRetryDelay = time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20
)

// Sentinel errors returned by lookups.
var (
	// ErrEmptyQuery indicates the search term was empty after sanitizing.
	ErrEmptyQuery = errors.New("empty search query")

	// ErrNoMatch indicates the catalog returned no candidates.
	ErrNoMatch = errors.New("no matching game found")
)

// Game is one catalog match.
type Game struct {
	// Name is the catalog's display name; may be empty.
	Name string

	// CoverURL is the constructed cover image URL; empty when the candidate
	// has no cover.
	CoverURL string

	// Score is the candidate's popularity used for ranking.
	Score float64
}

// Config configures a Client. Zero values fall back to production defaults.
type Config struct {
	ClientID     string
	ClientSecret string

	// CoverSize is the image size token for cover URLs (default t_cover_big).
	CoverSize string

	HTTPClient *http.Client
	Logger     *slog.Logger

	TokenURL  string
	SearchURL string
	ImageBase string

	// RetryDelay is the initial throttle backoff (default 1s).
	RetryDelay time.Duration
}

// Client queries the IGDB catalog. It caches its bearer credential between
// calls and retries throttled requests with exponential backoff.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger

	tokenURL  string
	searchURL string
	imageBase string
	coverSize string

	retryDelay time.Duration
	sleep      func(time.Duration)
	now        func() time.Time

	mu           sync.Mutex
	clientID     string
	clientSecret string
	cred         *credential
}

// New creates a catalog client.
func New(cfg Config) *Client {
	c := &Client{
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
		tokenURL:   cfg.TokenURL,
		searchURL:  cfg.SearchURL,
		imageBase:  cfg.ImageBase,
		coverSize:  cfg.CoverSize,
		retryDelay: cfg.RetryDelay,
		sleep:      time.Sleep,
		now:        time.Now,

		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.tokenURL == "" {
		c.tokenURL = defaultTokenURL
	}
	if c.searchURL == "" {
		c.searchURL = defaultSearchURL
	}
	if c.imageBase == "" {
		c.imageBase = defaultImageBase
	}
	if c.coverSize == "" {
		c.coverSize = "t_cover_big"
	}
	if c.retryDelay <= 0 {
		c.retryDelay = defaultRetryDelay
	}
	return c
}

// SetCredentials replaces the client id and secret and invalidates the
// cached credential, since a token issued under the old secret must not be
// reused.
func (c *Client) SetCredentials(clientID, clientSecret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clientID = clientID
	c.clientSecret = clientSecret
	c.cred = nil
}

// Search returns the most popular candidate matching name.
func (c *Client) Search(ctx context.Context, name string) (*Game, error) {
	games, err := c.Candidates(ctx, name)
	if err != nil {
		return nil, err
	}
	return &games[0], nil
}

// SearchThumbnail returns a single candidate with a small cover image,
// for callers that only need a thumbnail.
func (c *Client) SearchThumbnail(ctx context.Context, name string) (*Game, error) {
	candidates, err := c.query(ctx, name, thumbnailLimit)
	if err != nil {
		return nil, err
	}
	games := c.rank(candidates, "t_cover_small")
	return &games[0], nil
}

// Candidates returns all matches for name ranked by popularity, most
// popular first. Candidates with equal scores keep the catalog's response
// order (sort.SliceStable), so the first returned match wins ties.
func (c *Client) Candidates(ctx context.Context, name string) ([]Game, error) {
	candidates, err := c.query(ctx, name, searchLimit)
	if err != nil {
		return nil, err
	}
	return c.rank(candidates, c.coverSize), nil
}

// candidate is the catalog's wire representation of one match.
type candidate struct {
	Name  string `json:"name"`
	Cover struct {
		ImageID string `json:"image_id"`
	} `json:"cover"`
	TotalRatingCount *float64 `json:"total_rating_count"`
	RatingCount      *float64 `json:"rating_count"`
}

func (c *Client) query(ctx context.Context, name string, limit int) ([]candidate, error) {
	term := sanitizeQuery(name)
	if term == "" {
		return nil, ErrEmptyQuery
	}

	c.mu.Lock()
	clientID := c.clientID
	c.mu.Unlock()
	if clientID == "" {
		return nil, errors.ErrNoCredentials
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	query := `search "` + term + `"; fields name,cover.image_id,total_rating_count,rating_count; limit ` +
		strconv.Itoa(limit) + `;`

	var lastErr error
	for attempt := 0; attempt <= maxThrottleRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay << (attempt - 1)
			c.logger.Warn("catalog throttled, backing off",
				"attempt", attempt, "delay", delay.String())
			c.sleep(delay)
		}

		candidates, retryable, err := c.doSearch(ctx, clientID, token, query)
		if err == nil {
			if len(candidates) == 0 {
				return nil, errors.Wrapf(ErrNoMatch, "%q", term)
			}
			return candidates, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	// Retries exhausted: throttling demotes to a plain transport failure.
	return nil, lastErr
}

// doSearch performs one search request. retryable is true only for
// throttling responses.
func (c *Client) doSearch(ctx context.Context, clientID, token, query string) (_ []candidate, retryable bool, _ error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, strings.NewReader(query))
	if err != nil {
		return nil, false, errors.Wrap(err, "building search request")
	}
	req.Header.Set("Client-ID", clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("catalog search transport error", "error", err)
		return nil, mentionsThrottling(err.Error()), errors.Wrap(err, "catalog search")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retryable := resp.StatusCode == http.StatusTooManyRequests || mentionsThrottling(string(body))
		c.logger.Debug("catalog search failed",
			"status", resp.StatusCode, "body", strings.TrimSpace(string(body)))
		return nil, retryable, errors.Newf("catalog search failed: HTTP %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var candidates []candidate
	if err := json.Unmarshal(body, &candidates); err != nil {
		// A structurally wrong response will not improve on retry.
		return nil, false, errors.Wrap(err, "parsing catalog response")
	}
	return candidates, false, nil
}

// rank converts and orders candidates by popularity, most popular first.
func (c *Client) rank(candidates []candidate, size string) []Game {
	games := make([]Game, len(candidates))
	for i, cand := range candidates {
		games[i] = Game{
			Name:     cand.Name,
			CoverURL: c.coverURL(cand.Cover.ImageID, size),
			Score:    popularity(cand),
		}
	}
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Score > games[j].Score
	})
	return games
}

// popularity is the ranking score: the larger of the candidate's two rating
// counters, never negative. The catalog's search endpoint orders by text
// relevance, not by how well-known a game is, so near-duplicate titles are
// re-ranked locally by popularity.
func popularity(c candidate) float64 {
	score := 0.0
	for _, v := range []*float64{c.TotalRatingCount, c.RatingCount} {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		if *v > score {
			score = *v
		}
	}
	return score
}

// coverURL builds the CDN image URL for imageID at the given size token.
func (c *Client) coverURL(imageID, size string) string {
	if imageID == "" {
		return ""
	}
	return c.imageBase + "/" + size + "/" + imageID + ".jpg"
}

// sanitizeQuery prepares a note title for the catalog's quoted query string:
// embedded double quotes are escaped, whitespace runs collapse to single
// spaces, and outer whitespace is trimmed.
func sanitizeQuery(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `\"`)
	collapsed := strings.Join(strings.Fields(escaped), " ")
	return collapsed
}

// mentionsThrottling reports whether a response body or error message names
// the catalog's rate limit.
func mentionsThrottling(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "too many requests")
}
