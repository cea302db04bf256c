package ports

import (
	"context"

	"go.trai.ch/atlas/internal/core/domain"
)

// AssetScanner enumerates and fingerprints the assets of an atlas.
//
//go:generate mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type AssetScanner interface {
	// Scan walks every source entry below atlasRoot and returns the matching image files.
	// It fails with domain.ErrScanFailed when a source directory does not exist.
	Scan(ctx context.Context, atlasRoot string, sources []domain.SourceEntry) ([]domain.AssetRecord, error)
}

// ContentReader reads asset bytes at build time.
type ContentReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// ScannerFactory creates scanners for a configured fingerprint mode.
type ScannerFactory interface {
	NewScanner(mode domain.FingerprintMode) (AssetScanner, error)
}
