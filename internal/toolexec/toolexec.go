// Package toolexec invokes the external GUI applications the pipeline
// delegates to (Photoshop via osascript, Nuke, darktable-cli).
//
// The applications are black boxes: toolexec only starts them, waits,
// and surfaces their output when they fail. The Runner interface exists
// so the pipeline packages can be tested without the applications
// installed.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Runner executes one external command and waits for it to finish.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// CommandRunner runs commands on the local machine.
type CommandRunner struct{}

var _ Runner = CommandRunner{}

// Run starts name with args and blocks until it exits. On failure the
// error carries the tail of the combined output, which is all the GUI
// tools ever give us.
func (CommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		if tail := lastLine(out.String()); tail != "" {
			return fmt.Errorf("%s: %w: %s", filepath.Base(name), err, tail)
		}
		return fmt.Errorf("%s: %w", filepath.Base(name), err)
	}
	return nil
}

// KillByName force-kills every process matching name via pgrep.
// Photoshop holds the Camera Raw dialog open across invocations, so a
// stale instance has to go before a conversion run starts. No matching
// process is not an error.
func KillByName(ctx context.Context, name string) error {
	out, err := exec.CommandContext(ctx, "pgrep", name).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil // nothing running
		}
		return fmt.Errorf("pgrep %s: %w", name, err)
	}

	for _, line := range strings.Fields(string(out)) {
		pid, err := strconv.Atoi(line)
		if err != nil {
			continue
		}
		proc, err := os.FindProcess(pid)
		if err != nil {
			continue
		}
		if err := proc.Kill(); err != nil {
			return fmt.Errorf("kill %s (pid %d): %w", name, pid, err)
		}
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
