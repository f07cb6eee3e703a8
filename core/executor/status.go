package executor

import (
	"errors"
	"io/fs"
	"os/exec"
	"syscall"

	"github.com/rush-shell/rush/core/resolver"
)

// POSIX-convention statuses for commands that never ran.
const (
	// StatusSpawnFailed means the command was found but could not be
	// executed, e.g. permission denied.
	StatusSpawnFailed = 126
	// StatusNotFound means command resolution failed.
	StatusNotFound = 127
	// statusSignalBase plus the signal number is the status of a child
	// terminated by a signal.
	statusSignalBase = 128
)

// resolveStatus maps a resolution failure to its exit status.
func resolveStatus(err error) int {
	if errors.Is(err, resolver.ErrNotFound) {
		return StatusNotFound
	}
	return StatusSpawnFailed
}

// spawnStatus maps an exec start failure to its exit status.
func spawnStatus(err error) int {
	if errors.Is(err, fs.ErrNotExist) {
		return StatusNotFound
	}
	return StatusSpawnFailed
}

// waitStatus maps the result of exec.Cmd.Wait to an exit status: the exit
// code on normal termination, 128+signal when the child was killed.
func waitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return statusSignalBase + int(ws.Signal())
		}
		return exitErr.ExitCode()
	}
	return 1
}
