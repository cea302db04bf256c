package ports

import "context"

// ArtifactWriter writes emitted atlas outputs.
//
//go:generate mockgen -source=writer.go -destination=mocks/mock_writer.go -package=mocks
type ArtifactWriter interface {
	// Write stores content at the posix path composed for an output, relative to root.
	Write(ctx context.Context, root, path string, content []byte) error
}
