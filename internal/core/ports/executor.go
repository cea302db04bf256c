// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Executor defines the interface for running external commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs command in dir and streams its combined output to stdout.
	// It returns an error if the command cannot start or exits unsuccessfully.
	Execute(ctx context.Context, dir string, command []string, stdout io.Writer) error
}
