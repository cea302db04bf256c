// Package build holds build-time information.
package build

// Version, Commit and Date default to development values and are
// overwritten by linker flags in release builds.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// URL identifies the builder in packer manifests.
const URL = "https://go.trai.ch/atlas"
