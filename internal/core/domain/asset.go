// Package domain contains the core types of the atlas builder.
package domain

// AssetRecord is one discovered source image.
type AssetRecord struct {
	// Path is the absolute filesystem path of the file.
	Path string `json:"path"`
	// Name is the posix path of the file relative to the atlas root.
	Name string `json:"name"`
	// Fingerprint is a cheap digest of the name and file metadata.
	Fingerprint string `json:"fingerprint"`
}

// PackInput is one named buffer handed to the packer.
type PackInput struct {
	Name     string `cbor:"name" json:"name"`
	Contents []byte `cbor:"contents" json:"contents"`
}

// OutputAsset is one named buffer produced by the packer.
type OutputAsset struct {
	Name     string `cbor:"name" json:"name"`
	Contents []byte `cbor:"contents" json:"contents"`
}

// EmittedAsset is an output written to its composed artifact path.
type EmittedAsset struct {
	Path    string
	Content []byte
}

// OutputNames returns the names of the given outputs in order.
// The result is never nil so that an empty build is distinguishable from an unknown one.
func OutputNames(outputs []OutputAsset) []string {
	names := make([]string, 0, len(outputs))
	for _, o := range outputs {
		names = append(names, o.Name)
	}
	return names
}
