package files

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Runner executes a command line through the platform shell.
type Runner struct {
	shell []string
}

func NewRunner() *Runner {
	if runtime.GOOS == "windows" {
		return &Runner{shell: []string{"cmd", "/C"}}
	}
	return &Runner{shell: []string{"/bin/sh", "-c"}}
}

// Run returns stdout of the command. On failure the error carries stderr.
func (r *Runner) Run(ctx context.Context, command string) (string, error) {
	args := append(append([]string(nil), r.shell[1:]...), command)
	cmd := exec.CommandContext(ctx, r.shell[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &ShellError{
			Command: command,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return stdout.String(), nil
}

type ShellError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *ShellError) Error() string {
	msg := fmt.Sprintf("shell %q failed: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

func (e *ShellError) Unwrap() error {
	return e.Err
}

// quote wraps s in single quotes for /bin/sh.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
