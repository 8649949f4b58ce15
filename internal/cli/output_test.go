package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixed/pixed/internal/config"
	"github.com/pixed/pixed/internal/document"
	"github.com/pixed/pixed/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Success(PixelResult{X: 1, Y: 2, Color: "#ff0000ff"})
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   PixelResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, PixelResult{X: 1, Y: 2, Color: "#ff0000ff"}, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error(ErrCodeFormat, "bad magic", map[string]string{"file": "a.pixd"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E001", resp.Error.Code)
	assert.Equal(t, "bad magic", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(PixelResult{X: 3, Y: 4, Color: "#00000000"}))
	assert.Equal(t, "(3, 4) #00000000\n", buf.String())

	buf.Reset()
	require.NoError(t, formatter.Error("E002", "out of bounds", map[string]int{"x": 9}))
	assert.Equal(t, "Error [E002]: out of bounds\n", buf.String(), "details only show when verbose")

	buf.Reset()
	formatter.Verbose = true
	require.NoError(t, formatter.Error("E002", "out of bounds", map[string]int{"x": 9}))
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, diag := &bytes.Buffer{}, &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag, Verbose: tt.verbose}

			formatter.VerboseLog("loading %s", "a.pixd")

			assert.Empty(t, out.String(), "diagnostics never reach the JSON stream")
			if tt.wantLog {
				assert.Equal(t, "loading a.pixd\n", diag.String())
			} else {
				assert.Empty(t, diag.String())
			}
		})
	}
}

func TestClassify(t *testing.T) {
	_, decodeErr := document.Decode(bytes.NewReader([]byte("nope")), "x")
	require.Error(t, decodeErr)
	doc, err := document.New("x", 2, 2)
	require.NoError(t, err)
	_, boundsErr := doc.Pixel(5, 5)
	_, cfgErr := config.Parse([]byte("view: zoom: -1\n"), "bad.cue")
	_, statErr := os.Stat("/definitely/not/here")

	tests := []struct {
		name string
		err  error
		code string
		exit int
	}{
		{"format", decodeErr, ErrCodeFormat, ExitFailure},
		{"bounds", boundsErr, ErrCodeBounds, ExitFailure},
		{"unsupported", doc.Resize(3, 3), ErrCodeUnsupported, ExitFailure},
		{"allocation", &document.AllocationError{Width: 1 << 20, Height: 1 << 20}, ErrCodeAllocation, ExitFailure},
		{"config", cfgErr, ErrCodeConfig, ExitCommandError},
		{"missing file", statErr, ErrCodeNotFound, ExitCommandError},
		{"missing row", fmt.Errorf("latest snapshot: %w", store.ErrNotFound), ErrCodeNotFound, ExitCommandError},
		{"other", errors.New("boom"), ErrCodeGeneric, ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit := Classify(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.exit, exit)
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad args")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "inner", errors.New("cause")))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.Equal(t, "outer: inner: cause", wrapped.Error())
}
