package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "request failed", errors.New("eof")))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.Equal(t, "outer: request failed: eof", wrapped.Error())
}

func TestOutputFormatter_JSON(t *testing.T) {
	var out bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out}

	require.NoError(t, f.Success(map[string]int{"count": 2}, func(w io.Writer) {
		t.Fatal("text renderer must not run in JSON mode")
	}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"count": float64(2)}, resp.Data)

	out.Reset()
	require.NoError(t, f.Error("not_found", "That item no longer exists."))
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "not_found", resp.Error.Code)
}

func TestOutputFormatter_Text(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &out, ErrWriter: &errOut}

	require.NoError(t, f.Success("ignored", func(w io.Writer) {
		fmt.Fprintln(w, "rendered")
	}))
	assert.Equal(t, "rendered\n", out.String())

	require.NoError(t, f.Error("network_error", "offline"))
	assert.Equal(t, "Error [network_error]: offline\n", errOut.String())

	f.VerboseLog("hidden %d", 1)
	assert.NotContains(t, errOut.String(), "hidden")
	f.Verbose = true
	f.VerboseLog("shown %d", 2)
	assert.Contains(t, errOut.String(), "shown 2")
}

func TestReportMarksError(t *testing.T) {
	var errOut bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: io.Discard, ErrWriter: &errOut}

	err := f.report(ExitFailure, "rate_limited", "Too many requests.", errors.New("429"))
	assert.True(t, err.Reported())
	assert.Equal(t, ExitFailure, err.Code)
	assert.Contains(t, errOut.String(), "Too many requests.")
	assert.False(t, NewExitError(ExitFailure, "x").Reported())
	assert.NotContains(t, errOut.String(), "cause")

	f.Verbose = true
	f.report(ExitFailure, "network_error", "offline", errors.New("dial tcp"))
	assert.Contains(t, errOut.String(), "cause: dial tcp")
}
