package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessadover/gamelog/internal/config"
	"github.com/tessadover/gamelog/internal/errors"
	"github.com/tessadover/gamelog/internal/logging"
	"github.com/tessadover/gamelog/internal/vault"
)

// stubCheck returns a fixed result.
type stubCheck struct {
	name   string
	status Severity
}

func (c *stubCheck) Name() string     { return c.name }
func (c *stubCheck) Category() string { return "test" }
func (c *stubCheck) Run(_ context.Context) *CheckResult {
	return &CheckResult{Name: c.name, Category: "test", Status: c.status}
}

func TestRunnerAggregatesSummary(t *testing.T) {
	r := NewRunner()
	r.AddCheck(&stubCheck{name: "a", status: SeverityPass})
	r.AddCheck(&stubCheck{name: "b", status: SeverityWarning})
	r.AddCheck(&stubCheck{name: "c", status: SeverityError})
	r.AddCheck(&stubCheck{name: "d", status: SeverityInfo})

	report := r.Run(t.Context())

	require.Len(t, report.Results, 4)
	assert.Equal(t, Summary{Passed: 1, Info: 1, Warnings: 1, Errors: 1}, report.Summary)
	assert.True(t, report.HasErrors())
	assert.True(t, report.HasWarnings())
	assert.False(t, report.Timestamp.IsZero())
}

func TestRunnerEmptyReport(t *testing.T) {
	report := NewRunner().Run(t.Context())

	assert.Empty(t, report.Results)
	assert.False(t, report.HasErrors())
	assert.False(t, report.HasWarnings())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "pass", SeverityPass.String())
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestConfigCheck(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &config.Config{
			Vault:       t.TempDir(),
			GamesFolder: "Games",
			CoverSize:   config.CoverSizeBig,
		}

		result := NewConfigCheck(cfg).Run(t.Context())

		assert.Equal(t, SeverityPass, result.Status)
	})

	t.Run("invalid", func(t *testing.T) {
		result := NewConfigCheck(&config.Config{}).Run(t.Context())

		assert.Equal(t, SeverityError, result.Status)
		assert.NotEmpty(t, result.FixHint)
	})
}

func TestVaultCheck(t *testing.T) {
	t.Run("missing folder", func(t *testing.T) {
		v := vault.New(t.TempDir(), "Games", logging.ForTest(t))

		result := NewVaultCheck(v).Run(t.Context())

		assert.Equal(t, SeverityError, result.Status)
	})

	t.Run("empty folder", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "Games"), 0755))
		v := vault.New(root, "Games", logging.ForTest(t))

		result := NewVaultCheck(v).Run(t.Context())

		assert.Equal(t, SeverityInfo, result.Status)
	})

	t.Run("counts notes", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "Games"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "Games", "Hades.md"), []byte("x"), 0644))
		v := vault.New(root, "Games", logging.ForTest(t))

		result := NewVaultCheck(v).Run(t.Context())

		assert.Equal(t, SeverityPass, result.Status)
		assert.Equal(t, 1, result.Details["count"])
	})
}

func TestStatusesCheck(t *testing.T) {
	t.Run("built-in schema", func(t *testing.T) {
		result := NewStatusesCheck(&config.Config{}).Run(t.Context())

		assert.Equal(t, SeverityPass, result.Status)
		assert.Contains(t, result.Message, "built-in")
	})

	t.Run("broken override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "statuses.toml")
		require.NoError(t, os.WriteFile(path, []byte("statuses = []"), 0644))

		result := NewStatusesCheck(&config.Config{StatusesFile: path}).Run(t.Context())

		assert.Equal(t, SeverityError, result.Status)
	})
}

// stubCredentialChecker fakes the catalog client's credential check.
type stubCredentialChecker struct {
	err error
}

func (s *stubCredentialChecker) CheckCredentials(_ context.Context) error {
	return s.err
}

func TestCredentialsCheck(t *testing.T) {
	withCreds := &config.Config{ClientID: "cid", ClientSecret: "secret"}

	t.Run("not configured", func(t *testing.T) {
		result := NewCredentialsCheck(&config.Config{}, &stubCredentialChecker{}).Run(t.Context())

		assert.Equal(t, SeverityWarning, result.Status)
	})

	t.Run("rejected", func(t *testing.T) {
		check := NewCredentialsCheck(withCreds, &stubCredentialChecker{err: errors.New("HTTP 403")})

		result := check.Run(t.Context())

		assert.Equal(t, SeverityError, result.Status)
	})

	t.Run("accepted", func(t *testing.T) {
		result := NewCredentialsCheck(withCreds, &stubCredentialChecker{}).Run(t.Context())

		assert.Equal(t, SeverityPass, result.Status)
	})
}
