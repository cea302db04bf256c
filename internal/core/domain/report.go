package domain

import "time"

// AtlasResult is the outcome of one atlas in a build pass.
type AtlasResult struct {
	Name string
	// Key is the output key of the atlas.
	Key string
	// Cached is true when previously built outputs were reused.
	Cached bool
	// Assets is the number of scanned assets.
	Assets int
	// Emitted lists the artifacts written for the atlas.
	Emitted []EmittedAsset
	// Err is set when the atlas failed.
	Err error
}

// BuildReport summarizes a build pass.
type BuildReport struct {
	Atlases  []AtlasResult
	Duration time.Duration
}

// Failed returns the results of atlases that failed.
func (r *BuildReport) Failed() []AtlasResult {
	var failed []AtlasResult
	for _, a := range r.Atlases {
		if a.Err != nil {
			failed = append(failed, a)
		}
	}
	return failed
}

// CachedCount returns how many atlases were served from the cache.
func (r *BuildReport) CachedCount() int {
	n := 0
	for _, a := range r.Atlases {
		if a.Cached && a.Err == nil {
			n++
		}
	}
	return n
}
