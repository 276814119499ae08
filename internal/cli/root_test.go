package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runRoot(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	code = run(context.Background(), cmd, args)
	return code, out.String(), errOut.String()
}

func TestRun_Success(t *testing.T) {
	code, stdout, stderr := runRoot(t,
		`{"time":"2024-01-01T00:00:00Z"}`+"\n"+`{"time":"2024-01-01T00:00:01Z"}`+"\n",
		"-I")

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Equal(t,
		`{"time":"2024-01-01T00:00:00Z"}`+"\n"+`{"time":"2024-01-01T00:00:01Z","millis_since_previous_line":1000}`+"\n",
		stdout)
}

func TestRun_ErrorExitCode(t *testing.T) {
	code, stdout, stderr := runRoot(t, "{\"a\":1}\nnot json\n")

	assert.Equal(t, 2, code)
	assert.Equal(t, "{\"a\":1}\n", stdout, "output before the failure is kept")
	assert.True(t, strings.HasPrefix(stderr, "Error: "), stderr)
	assert.Contains(t, stderr, "stdin:2: invalid JSON")
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, stderr := runRoot(t, "", "--no-such-flag")

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "no-such-flag")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runRoot(t, "", "--version")

	assert.Equal(t, 0, code)
	assert.Equal(t, "logdelta dev\n", stdout)
}

func TestRun_TooManyArgs(t *testing.T) {
	code, _, stderr := runRoot(t, "", "a.ndjson", "b.ndjson")

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "accepts at most 1 arg")
}
