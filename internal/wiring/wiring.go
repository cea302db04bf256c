// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/atlas/internal/adapters/cas"
	_ "go.trai.ch/atlas/internal/adapters/config"
	_ "go.trai.ch/atlas/internal/adapters/fs"
	_ "go.trai.ch/atlas/internal/adapters/logger"
	_ "go.trai.ch/atlas/internal/adapters/packer"
	_ "go.trai.ch/atlas/internal/adapters/shell"
	_ "go.trai.ch/atlas/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/atlas/internal/app"
)
