package shell

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}
}

func collect(t *testing.T, r *Runner) ([]Line, Result) {
	t.Helper()

	var lines []Line
	for line := range r.Lines() {
		lines = append(lines, line)
	}

	select {
	case result := <-r.Result():
		return lines, result
	case <-time.After(5 * time.Second):
		t.Fatal("command did not finish")
		return nil, Result{}
	}
}

func TestStartStreamsStdoutAndStderr(t *testing.T) {
	skipOnWindows(t)

	r, err := Start(`printf 'one\ntwo\n'; printf 'oops\n' >&2`, "")
	require.NoError(t, err)

	lines, result := collect(t, r)
	assert.Equal(t, 0, result.ExitCode)
	assert.False(t, result.Interrupted)

	var stdout, stderr []string
	for _, line := range lines {
		if line.Kind == Stdout {
			stdout = append(stdout, line.Text)
		} else {
			stderr = append(stderr, line.Text)
		}
	}
	assert.Equal(t, []string{"one", "two"}, stdout)
	assert.Equal(t, []string{"oops"}, stderr)
}

func TestStartStripsCarriageReturns(t *testing.T) {
	skipOnWindows(t)

	r, err := Start(`printf 'progress\r\n'`, "")
	require.NoError(t, err)

	lines, _ := collect(t, r)
	require.Len(t, lines, 1)
	assert.Equal(t, "progress", lines[0].Text)
}

func TestStartReportsExitCode(t *testing.T) {
	skipOnWindows(t)

	r, err := Start("exit 3", "")
	require.NoError(t, err)

	_, result := collect(t, r)
	assert.Equal(t, 3, result.ExitCode)
	assert.False(t, result.Interrupted)
}

func TestStartHonorsWorkingDir(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	r, err := Start("pwd", dir)
	require.NoError(t, err)

	lines, result := collect(t, r)
	require.Len(t, lines, 1)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, lines[0].Text, filepath.Base(dir))
}

// drainUntilResult reads lines and the result concurrently, for runs where an
// interrupt may leave the lines channel open.
func drainUntilResult(t *testing.T, r *Runner, timeout time.Duration) ([]Line, Result) {
	t.Helper()

	var lines []Line
	deadline := time.After(timeout)
	for {
		select {
		case line := <-r.Lines():
			lines = append(lines, line)
		case result := <-r.Result():
			return lines, result
		case <-deadline:
			t.Fatal("no result before deadline")
			return nil, Result{}
		}
	}
}

func TestInterruptKillsAndReportsSentinel(t *testing.T) {
	skipOnWindows(t)

	r, err := Start("sleep 30", "")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	r.Interrupt()

	_, result := drainUntilResult(t, r, 5*time.Second)
	assert.True(t, result.Interrupted)
	assert.Equal(t, InterruptExitCode, result.ExitCode)
}

func TestInterruptWithLingeringGrandchild(t *testing.T) {
	skipOnWindows(t)

	// The killed shell orphans the sleep, which keeps the pipes open; the
	// result must not wait for it.
	r, err := Start(`echo start; sleep 30; echo never`, "")
	require.NoError(t, err)

	select {
	case line := <-r.Lines():
		require.Equal(t, "start", line.Text)
	case <-time.After(5 * time.Second):
		t.Fatal("no output")
	}

	interruptedAt := time.Now()
	r.Interrupt()

	lines, result := drainUntilResult(t, r, 5*time.Second)
	assert.Less(t, time.Since(interruptedAt), 3*time.Second)
	assert.True(t, result.Interrupted)
	assert.Equal(t, InterruptExitCode, result.ExitCode)
	for _, line := range lines {
		assert.NotEqual(t, "never", line.Text)
	}
}

func TestInterruptIsIdempotent(t *testing.T) {
	skipOnWindows(t)

	r, err := Start("sleep 30", "")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	r.Interrupt()
	r.Interrupt()

	_, result := drainUntilResult(t, r, 5*time.Second)
	assert.True(t, result.Interrupted)
}

func TestColorEnv(t *testing.T) {
	env := colorEnv([]string{"PATH=/bin", "TERM=screen"})
	assert.Contains(t, env, "CLICOLOR_FORCE=1")
	assert.Contains(t, env, "FORCE_COLOR=1")
}

func TestExitCodeMapping(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, -1, exitCode(errors.New("wait: broken handle")))
}

func TestRunInherited(t *testing.T) {
	skipOnWindows(t)

	code, err := RunInherited("exit 7", "")
	require.NoError(t, err)
	assert.Equal(t, 7, code)

	code, err = RunInherited("true", "")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}
