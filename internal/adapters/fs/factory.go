package fs

import (
	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/atlas/internal/core/ports"
)

var _ ports.ScannerFactory = (*ScannerFactory)(nil)

// ScannerFactory creates scanners for a configured fingerprint mode.
type ScannerFactory struct {
	walker *Walker
}

// NewScannerFactory creates a ScannerFactory sharing the given walker.
func NewScannerFactory(walker *Walker) *ScannerFactory {
	return &ScannerFactory{walker: walker}
}

// NewScanner returns a scanner fingerprinting assets with mode.
func (f *ScannerFactory) NewScanner(mode domain.FingerprintMode) (ports.AssetScanner, error) {
	hasher, err := NewFingerprinter(mode)
	if err != nil {
		return nil, err
	}
	return NewScanner(f.walker, hasher), nil
}
