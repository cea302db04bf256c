package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/atlas/internal/adapters/cas"     //nolint:depguard // Wired in app layer
	"go.trai.ch/atlas/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/atlas/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/atlas/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/atlas/internal/adapters/packer"  //nolint:depguard // Wired in app layer
	"go.trai.ch/atlas/internal/adapters/shell"   //nolint:depguard // Wired in app layer
	"go.trai.ch/atlas/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/atlas/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds the objects main needs to run the CLI.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.ScannerNodeID,
			fs.ReaderNodeID,
			fs.WriterNodeID,
			packer.NodeID,
			cas.NodeID,
			shell.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			scanners, err := graft.Dep[ports.ScannerFactory](ctx)
			if err != nil {
				return nil, err
			}
			reader, err := graft.Dep[ports.ContentReader](ctx)
			if err != nil {
				return nil, err
			}
			writer, err := graft.Dep[ports.ArtifactWriter](ctx)
			if err != nil {
				return nil, err
			}
			packers, err := graft.Dep[ports.PackerFactory](ctx)
			if err != nil {
				return nil, err
			}
			stores, err := graft.Dep[ports.StoreOpener](ctx)
			if err != nil {
				return nil, err
			}
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, scanners, packers, stores, reader, writer, executor, w, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}
