// Package shell spawns catalog commands through the system shell and streams
// their output line by line.
package shell

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/cristianoliveira/quickfire/internal/logging"
)

// InterruptExitCode stands in for the exit status of a child killed by the
// user, mirroring the shell convention for SIGINT.
const InterruptExitCode = 130

// interruptDrainWindow is how long buffered output may keep flowing after an
// interrupt before the readers are abandoned. A killed shell can leave a
// grandchild holding the pipes open indefinitely; the result must not wait
// for that.
const interruptDrainWindow = 10 * time.Millisecond

// LineKind tags which stream a captured line came from.
type LineKind int

const (
	Stdout LineKind = iota
	Stderr
)

// Line is one captured output line, stripped of its trailing newline.
type Line struct {
	Kind LineKind
	Text string
}

// Result reports how a streamed run ended.
type Result struct {
	ExitCode    int
	Interrupted bool
}

// Runner is a single streamed child process. Lines arrive on Lines while
// output flows; Result delivers exactly one value. After an interrupt the
// lines channel may stay open with nothing left to read, so consumers must
// select on both channels rather than wait for Lines to close.
type Runner struct {
	cmd   *exec.Cmd
	lines chan Line
	done  chan Result
	// quit abandons line delivery: readers stuck on a pipe a grandchild
	// still holds stop forwarding once it closes.
	quit chan struct{}

	mu          sync.Mutex
	interrupted bool
	interruptCh chan struct{}
}

// Start launches command through the system shell with its working directory
// set to dir (when non-empty) and color output forced on.
func Start(command, dir string) (*Runner, error) {
	cmd := shellCommand(command)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = colorEnv(os.Environ())
	cmd.Stdin = nil

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	logging.Debug("command started", "command", command, "pid", cmd.Process.Pid)

	r := &Runner{
		cmd:         cmd,
		lines:       make(chan Line, 64),
		done:        make(chan Result, 1),
		quit:        make(chan struct{}),
		interruptCh: make(chan struct{}),
	}

	var readers sync.WaitGroup
	readers.Add(2)
	go r.readStream(stdout, Stdout, &readers)
	go r.readStream(stderr, Stderr, &readers)

	readersDone := make(chan struct{})
	go func() {
		readers.Wait()
		close(readersDone)
	}()

	go func() {
		select {
		case <-readersDone:
			close(r.lines)
			err := cmd.Wait()
			result := Result{ExitCode: exitCode(err), Interrupted: r.wasInterrupted()}
			if result.Interrupted {
				result.ExitCode = InterruptExitCode
			}
			logging.Debug("command finished", "command", command,
				"exit_code", result.ExitCode, "interrupted", result.Interrupted)
			r.done <- result
			return

		case <-r.interruptCh:
		}

		// Interrupted. Let already-captured output drain briefly, then stop
		// waiting: a grandchild may keep the pipes open long after the shell
		// is dead.
		timer := time.NewTimer(interruptDrainWindow)
		select {
		case <-readersDone:
			timer.Stop()
			close(r.lines)
		case <-timer.C:
			close(r.quit)
		}

		// Reap in the background; Wait also closes the pipes, which frees
		// any reader still blocked.
		go func() { _ = cmd.Wait() }()

		logging.Debug("command interrupted", "command", command)
		r.done <- Result{ExitCode: InterruptExitCode, Interrupted: true}
	}()

	return r, nil
}

// Lines returns the stream of captured output lines. The channel closes when
// both pipes are exhausted, but stays open when an interrupt abandoned the
// readers.
func (r *Runner) Lines() <-chan Line {
	return r.lines
}

// Result returns the channel delivering the final run result.
func (r *Runner) Result() <-chan Result {
	return r.done
}

// Interrupt kills the child process. Buffered lines drain for a short window,
// then the sentinel result is delivered without waiting for the pipes.
func (r *Runner) Interrupt() {
	r.mu.Lock()
	if r.interrupted {
		r.mu.Unlock()
		return
	}
	r.interrupted = true
	close(r.interruptCh)
	r.mu.Unlock()

	if r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
}

func (r *Runner) wasInterrupted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interrupted
}

func (r *Runner) readStream(stream io.Reader, kind LineKind, wg *sync.WaitGroup) {
	defer wg.Done()

	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := scanner.Text()
		// Carriage returns survive bufio's newline split on CRLF output.
		for len(text) > 0 && text[len(text)-1] == '\r' {
			text = text[:len(text)-1]
		}
		select {
		case r.lines <- Line{Kind: kind, Text: text}:
		case <-r.quit:
			return
		}
	}
}

// RunInherited executes command with the terminal's own stdin, stdout, and
// stderr, for the exit-to-shell flow. Returns the command's exit code.
func RunInherited(command, dir string) (int, error) {
	cmd := shellCommand(command)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return 0, err
		}
	}
	return exitCode(err), nil
}

func shellCommand(command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/C", command)
	}
	return exec.Command("sh", "-c", command)
}

// colorEnv forces color output in the child: most tools disable colors when
// stdout is not a terminal.
func colorEnv(env []string) []string {
	env = append(env, "CLICOLOR_FORCE=1", "FORCE_COLOR=1")
	if os.Getenv("TERM") == "" {
		env = append(env, "TERM=xterm-256color")
	}
	return env
}

// exitCode maps a cmd.Wait error to the reported exit status. Failures that
// carry no exit status (I/O errors on the process handle) must not look like
// success.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
