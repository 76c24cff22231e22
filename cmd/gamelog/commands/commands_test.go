package commands

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tessadover/gamelog/internal/igdb"
	"github.com/tessadover/gamelog/internal/logging"
	"github.com/tessadover/gamelog/internal/vault"
)

// newTestCatalog builds an IGDB client backed by fake token and search
// endpoints. The search endpoint always answers with searchBody.
func newTestCatalog(t *testing.T, searchBody string) *igdb.Client {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"access_token": "tok-1", "expires_in": 3600}`)
	}))
	t.Cleanup(tokenSrv.Close)

	searchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, searchBody)
	}))
	t.Cleanup(searchSrv.Close)

	return igdb.New(igdb.Config{
		ClientID:     "cid",
		ClientSecret: "secret",
		TokenURL:     tokenSrv.URL,
		SearchURL:    searchSrv.URL,
		ImageBase:    "https://img.example",
		Logger:       logging.ForTest(t),
	})
}

// newCommandVault creates a vault with a Games folder in a temp dir.
func newCommandVault(t *testing.T) *vault.Vault {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Games"), 0755))
	return vault.New(root, "Games", logging.ForTest(t))
}

func seedNote(t *testing.T, v *vault.Vault, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(v.NotePath(name), []byte(content), 0644))
}

func readNoteRaw(t *testing.T, v *vault.Vault, name string) string {
	t.Helper()
	data, err := os.ReadFile(v.NotePath(name))
	require.NoError(t, err)
	return string(data)
}
