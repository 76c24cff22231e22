package igdb

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessadover/gamelog/internal/logging"
)

func newTokenClient(t *testing.T, handler http.HandlerFunc) (*Client, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := New(Config{
		ClientID:     "cid",
		ClientSecret: "secret",
		TokenURL:     srv.URL,
		Logger:       logging.ForTest(t),
	})
	return c, &calls
}

func TestTokenExchange(t *testing.T) {
	var form map[string][]string
	c, calls := newTokenClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		io.WriteString(w, `{"access_token": "tok-1", "expires_in": 3600}`)
	})

	token, err := c.token(t.Context())
	require.NoError(t, err)

	assert.Equal(t, "tok-1", token)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, []string{"cid"}, form["client_id"])
	assert.Equal(t, []string{"secret"}, form["client_secret"])
	assert.Equal(t, []string{"client_credentials"}, form["grant_type"])
}

func TestTokenCachedWithinValidity(t *testing.T) {
	c, calls := newTokenClient(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"access_token": "tok-1", "expires_in": 3600}`)
	})

	_, err := c.token(t.Context())
	require.NoError(t, err)
	_, err = c.token(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 1, *calls, "second call within validity must not hit the network")
}

func TestTokenReacquiredNearExpiry(t *testing.T) {
	c, calls := newTokenClient(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"access_token": "tok-1", "expires_in": 3600}`)
	})

	base := time.Now()
	c.now = func() time.Time { return base }
	_, err := c.token(t.Context())
	require.NoError(t, err)

	// 30s before declared expiry is inside the 60s safety margin.
	c.now = func() time.Time { return base.Add(3600*time.Second - 30*time.Second) }
	_, err = c.token(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 2, *calls)
}

func TestTokenInvalidation(t *testing.T) {
	c, calls := newTokenClient(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"access_token": "tok-1", "expires_in": 3600}`)
	})

	_, err := c.token(t.Context())
	require.NoError(t, err)

	c.InvalidateCredential()
	_, err = c.token(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 2, *calls)
}

func TestSetCredentialsInvalidatesCache(t *testing.T) {
	c, calls := newTokenClient(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"access_token": "tok-1", "expires_in": 3600}`)
	})

	_, err := c.token(t.Context())
	require.NoError(t, err)

	c.SetCredentials("cid", "new-secret")
	_, err = c.token(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 2, *calls)
}

func TestTokenNumericStringExpiry(t *testing.T) {
	c, _ := newTokenClient(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"access_token": "tok-1", "expires_in": "3600"}`)
	})

	token, err := c.token(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestTokenFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"http error status",
			func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		},
		{
			"missing access_token",
			func(w http.ResponseWriter, _ *http.Request) {
				io.WriteString(w, `{"expires_in": 3600}`)
			},
		},
		{
			"missing expires_in",
			func(w http.ResponseWriter, _ *http.Request) {
				io.WriteString(w, `{"access_token": "tok-1"}`)
			},
		},
		{
			"non-numeric expires_in",
			func(w http.ResponseWriter, _ *http.Request) {
				io.WriteString(w, `{"access_token": "tok-1", "expires_in": "soon"}`)
			},
		},
		{
			"not json",
			func(w http.ResponseWriter, _ *http.Request) {
				io.WriteString(w, `<html>nope</html>`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTokenClient(t, tt.handler)

			_, err := c.token(t.Context())
			assert.Error(t, err)
		})
	}
}

func TestTokenWithoutSecret(t *testing.T) {
	c, calls := newTokenClient(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"access_token": "tok-1", "expires_in": 3600}`)
	})
	c.SetCredentials("cid", "")

	err := c.CheckCredentials(t.Context())

	assert.Error(t, err)
	assert.Equal(t, 0, *calls)
}

func TestExpirySeconds(t *testing.T) {
	d, ok := expirySeconds(float64(90))
	assert.True(t, ok)
	assert.Equal(t, 90*time.Second, d)

	d, ok = expirySeconds("120")
	assert.True(t, ok)
	assert.Equal(t, 120*time.Second, d)

	_, ok = expirySeconds(nil)
	assert.False(t, ok)

	_, ok = expirySeconds("later")
	assert.False(t, ok)

	_, ok = expirySeconds(float64(0))
	assert.False(t, ok)
}
