package commands

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessadover/gamelog/internal/igdb"
	"github.com/tessadover/gamelog/internal/logging"
)

func TestRefreshAll(t *testing.T) {
	v := newCommandVault(t)
	seedNote(t, v, "Hades", "---\nstatus: playing\n---\n\nbody")
	seedNote(t, v, "Nonexistent Game", "---\nstatus: backlog\n---\n\nbody")
	seedNote(t, v, "Current", "---\ntitle: Hades\ncover: https://img.example/t_cover_big/co1rgi.jpg\n---\n\nbody")

	// Answer per query: the made-up title gets no candidates.
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"access_token": "tok-1", "expires_in": 3600}`)
	}))
	t.Cleanup(tokenSrv.Close)
	searchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "Nonexistent") {
			io.WriteString(w, `[]`)
			return
		}
		io.WriteString(w, hadesMatch)
	}))
	t.Cleanup(searchSrv.Close)

	client := igdb.New(igdb.Config{
		ClientID:     "cid",
		ClientSecret: "secret",
		TokenURL:     tokenSrv.URL,
		SearchURL:    searchSrv.URL,
		ImageBase:    "https://img.example",
		Logger:       logging.ForTest(t),
	})

	var buf bytes.Buffer
	err := refreshAll(t.Context(), &buf, v, client)
	require.NoError(t, err, "a failed lookup must not abort the batch")

	assert.Contains(t, buf.String(), "Refreshed 3 note(s): 1 updated, 1 unchanged, 1 failed")

	// The successful lookup set cover and backfilled the title.
	raw := readNoteRaw(t, v, "Hades")
	assert.Contains(t, raw, "cover: https://img.example/t_cover_big/co1rgi.jpg")
	assert.Contains(t, raw, "title: Hades")

	// The failed lookup left its note alone.
	assert.Equal(t, "---\nstatus: backlog\n---\n\nbody", readNoteRaw(t, v, "Nonexistent Game"))
}

func TestRefreshAllEmptyVault(t *testing.T) {
	v := newCommandVault(t)
	client := newTestCatalog(t, `[]`)

	var buf bytes.Buffer
	err := refreshAll(t.Context(), &buf, v, client)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "No game notes found.")
}
