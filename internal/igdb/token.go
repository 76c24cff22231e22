package igdb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tessadover/gamelog/internal/errors"
)

// credentialMargin is how long before the declared expiry a cached
// credential is considered stale, so a request never races token expiry.
const credentialMargin = 60 * time.Second

// credential is a cached bearer token with its expiry.
type credential struct {
	token     string
	expiresAt time.Time
}

// token returns a valid bearer token, reusing the cached credential while it
// has more than credentialMargin of life left and acquiring a fresh one
// otherwise. Acquisition is a standard client-credentials exchange.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clientID == "" || c.clientSecret == "" {
		return "", errors.ErrNoCredentials
	}

	if c.cred != nil && c.now().Before(c.cred.expiresAt.Add(-credentialMargin)) {
		return c.cred.token, nil
	}
	c.cred = nil

	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"client_credentials"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "building token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("token request transport error", "error", err)
		return "", errors.Wrap(err, "acquiring credential")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		c.logger.Debug("token request failed",
			"status", resp.StatusCode, "body", strings.TrimSpace(string(body)))
		return "", errors.Newf("acquiring credential: HTTP %d", resp.StatusCode)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   any    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(err, "parsing token response")
	}
	if parsed.AccessToken == "" {
		return "", errors.New("token response missing access_token")
	}

	// A credential without a numeric expiry cannot be cached safely.
	lifetime, ok := expirySeconds(parsed.ExpiresIn)
	if !ok {
		return "", errors.New("token response missing numeric expires_in")
	}

	c.cred = &credential{
		token:     parsed.AccessToken,
		expiresAt: c.now().Add(lifetime),
	}
	c.logger.Debug("acquired catalog credential", "expires_in", lifetime.String())
	return c.cred.token, nil
}

// InvalidateCredential drops the cached credential so the next lookup
// re-acquires one. Called when the issuing secret changes.
func (c *Client) InvalidateCredential() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cred = nil
}

// CheckCredentials performs a live token acquisition without a lookup.
// Used by doctor to verify the configured credentials.
func (c *Client) CheckCredentials(ctx context.Context) error {
	_, err := c.token(ctx)
	return err
}

// expirySeconds coerces the token response's expires_in field, which may be
// a JSON number or a numeric string, into a duration.
func expirySeconds(v any) (time.Duration, bool) {
	switch n := v.(type) {
	case float64:
		return secondsToDuration(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return secondsToDuration(f)
	default:
		return 0, false
	}
}

func secondsToDuration(f float64) (time.Duration, bool) {
	if f <= 0 {
		return 0, false
	}
	return time.Duration(f * float64(time.Second)), true
}
