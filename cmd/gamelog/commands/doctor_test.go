package commands

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessadover/gamelog/internal/doctor"
)

func sampleReport() *doctor.Report {
	return &doctor.Report{
		Timestamp: time.Now().UTC(),
		Results: []*doctor.CheckResult{
			{Name: "config-valid", Category: "config", Status: doctor.SeverityPass, Message: "configuration is valid"},
			{Name: "vault-accessible", Category: "vault", Status: doctor.SeverityError,
				Message: "games folder not found", FixHint: "check the 'vault' setting"},
		},
		Summary: doctor.Summary{Passed: 1, Errors: 1},
	}
}

func TestOutputDoctorTextDefaultHidesPassed(t *testing.T) {
	var buf bytes.Buffer
	doctorVerbose = false

	require.NoError(t, outputDoctorText(&buf, sampleReport()))

	out := buf.String()
	assert.NotContains(t, out, "config-valid")
	assert.Contains(t, out, "vault-accessible")
	assert.Contains(t, out, "hint: check the 'vault' setting")
	assert.Contains(t, out, "Summary: 1 passed, 0 info, 0 warnings, 1 errors")
}

func TestOutputDoctorTextVerboseShowsAll(t *testing.T) {
	var buf bytes.Buffer
	doctorVerbose = true
	t.Cleanup(func() { doctorVerbose = false })

	require.NoError(t, outputDoctorText(&buf, sampleReport()))

	assert.Contains(t, buf.String(), "config-valid")
}

func TestOutputDoctorJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, outputDoctorJSON(&buf, sampleReport()))

	var decoded doctor.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Results, 2)
	assert.Equal(t, 1, decoded.Summary.Errors)
}

func TestValidateDoctorFlagsMutuallyExclusive(t *testing.T) {
	doctorJSON, doctorQuiet = true, true
	t.Cleanup(func() { doctorJSON, doctorQuiet = false, false })

	err := validateDoctorFlags(nil, nil)

	assert.Error(t, err)
}
