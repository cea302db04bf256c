// Package shell runs external commands inside a pseudo terminal.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor. Commands run in a PTY so tools keep
// their interactive formatting; stdout and stderr arrive merged.
type Executor struct{}

// NewExecutor creates an Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute implements ports.Executor. An empty command is a no-op.
func (e *Executor) Execute(ctx context.Context, dir string, command []string, stdout io.Writer) error {
	if len(command) == 0 {
		return nil
	}
	if stdout == nil {
		stdout = io.Discard
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...) //nolint:gosec // command comes from atlas.yaml
	cmd.Dir = dir
	cmd.Env = os.Environ()

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), "command", command[0])
	}

	copied := make(chan struct{})
	go func() {
		defer close(copied)
		defer func() { _ = ptmx.Close() }()
		// Reading the master fails with EIO once the child has exited.
		_, _ = io.Copy(stdout, ptmx)
	}()

	waitErr := cmd.Wait()
	<-copied

	if waitErr == nil {
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return zerr.With(zerr.With(zerr.Wrap(waitErr, domain.ErrCommandFailed.Error()), "command", command[0]), "exit_code", exitCode)
}
