// Package app implements the application layer for atlas.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/atlas/internal/adapters/linear"
	"go.trai.ch/atlas/internal/adapters/telemetry"
	"go.trai.ch/atlas/internal/adapters/watcher"
	"go.trai.ch/atlas/internal/build"
	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/atlas/internal/core/ports"
	"go.trai.ch/atlas/internal/engine/cache"
	"go.trai.ch/atlas/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// AfterBuildSpan names the span streaming the afterBuild command output.
const AfterBuildSpan = "afterBuild"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scanners     ports.ScannerFactory
	packers      ports.PackerFactory
	stores       ports.StoreOpener
	reader       ports.ContentReader
	writer       ports.ArtifactWriter
	executor     ports.Executor
	watcher      ports.Watcher
	logger       ports.Logger

	stdout io.Writer
	stderr io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	scanners ports.ScannerFactory,
	packers ports.PackerFactory,
	stores ports.StoreOpener,
	reader ports.ContentReader,
	writer ports.ArtifactWriter,
	executor ports.Executor,
	w ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		scanners:     scanners,
		packers:      packers,
		stores:       stores,
		reader:       reader,
		writer:       writer,
		executor:     executor,
		watcher:      w,
		logger:       log,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithOutput redirects progress output. This is primarily used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// BuildOptions configures a build pass.
type BuildOptions struct {
	NoCache     bool
	Parallelism int
}

// Build runs one build pass over the configuration found from the working directory.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	_, err = a.pass(ctx, cfg, opts)
	return err
}

// pass runs one build pass for cfg and reports its progress.
func (a *App) pass(ctx context.Context, cfg *domain.Configuration, opts BuildOptions) (*domain.BuildReport, error) {
	scanner, err := a.scanners.NewScanner(cfg.Fingerprint)
	if err != nil {
		return nil, err
	}
	packer, err := a.packers.NewPacker(cfg.Packer)
	if err != nil {
		return nil, err
	}
	store, err := a.stores.Open(cfg.CacheDir(), cfg.Cache.Compression)
	if err != nil {
		return nil, err
	}

	renderer := linear.NewRenderer(a.stdout, a.stderr)
	if err := renderer.Start(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = renderer.Stop()
	}()

	provider := telemetry.NewProvider(renderer)
	defer func() {
		_ = provider.Shutdown(context.WithoutCancel(ctx))
	}()
	tracer := telemetry.NewOTelTracer(provider, "atlas").WithRenderer(renderer)

	hooks := domain.NewHooks()
	if len(cfg.AfterBuild) > 0 {
		hooks.OnEmitComplete(func(ctx context.Context) error {
			ctx, span := tracer.Start(ctx, AfterBuildSpan)
			defer span.End()

			if err := a.executor.Execute(ctx, cfg.Root, cfg.AfterBuild, span); err != nil {
				span.RecordError(err)
				return err
			}
			return nil
		})
	}

	sched := scheduler.NewScheduler(a.reader, a.writer, tracer, a.logger, domain.AppInfo{
		DisplayName: "atlas",
		URL:         build.URL,
		Version:     build.Version,
	})

	report, err := sched.Run(ctx, &scheduler.Pass{
		Config:      cfg,
		Scanner:     scanner,
		Packer:      packer,
		Cache:       cache.New(store, a.logger),
		Hooks:       hooks,
		Parallelism: opts.Parallelism,
		NoCache:     opts.NoCache,
	})

	if len(cfg.Items) > 0 {
		a.logger.Info(fmt.Sprintf("%d atlas(es), %d cached, %d failed in %v",
			len(report.Atlases), report.CachedCount(), len(report.Failed()),
			report.Duration.Round(time.Millisecond)))
	}
	return report, err
}

// WatchOptions configures watch mode.
type WatchOptions struct {
	BuildOptions
	// Debounce is the quiet window before a batch of changes triggers a pass.
	Debounce time.Duration
}

// Watch runs a build pass, then another one for every debounced batch of
// changes below the atlas roots, until ctx is canceled. Failed passes are
// logged and do not end the watch.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = watcher.DefaultDebounceWindow
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ignore := newIgnoreSet(cfg)
	runPass := func() {
		report, err := a.pass(ctx, cfg, opts.BuildOptions)
		if report != nil {
			ignore.record(cfg, report)
		}
		if err != nil && !errors.Is(err, domain.ErrBuildFailed) {
			a.logger.Error(err)
		}
	}

	runPass()

	if err := a.watcher.Start(ctx, watchRoots(cfg)...); err != nil {
		return err
	}
	defer func() {
		_ = a.watcher.Stop()
	}()
	go func() {
		<-ctx.Done()
		_ = a.watcher.Stop()
	}()

	debouncer := watcher.NewDebouncer(opts.Debounce, func(paths []string) {
		if ctx.Err() != nil {
			return
		}
		a.logger.Info(fmt.Sprintf("%d change(s) detected, rebuilding", len(paths)))
		runPass()
	})
	defer debouncer.Stop()

	for event := range a.watcher.Events() {
		if ignore.match(event.Path) {
			continue
		}
		debouncer.Add(event.Path)
	}
	return nil
}

// watchRoots returns the source directories of every atlas.
func watchRoots(cfg *domain.Configuration) []string {
	seen := make(map[string]struct{})
	var roots []string
	for i := range cfg.Items {
		atlas := &cfg.Items[i]
		for _, entry := range atlas.Sources {
			dir := filepath.Join(cfg.AtlasRoot(atlas), filepath.FromSlash(entry.Path))
			if _, ok := seen[dir]; ok {
				continue
			}
			seen[dir] = struct{}{}
			roots = append(roots, dir)
		}
	}
	return roots
}

// ignoreSet holds the paths a pass writes itself, so they never trigger the next one.
type ignoreSet struct {
	cacheDir string

	mu        sync.Mutex
	artifacts map[string]struct{}
}

func newIgnoreSet(cfg *domain.Configuration) *ignoreSet {
	return &ignoreSet{
		cacheDir:  cfg.CacheDir(),
		artifacts: make(map[string]struct{}),
	}
}

func (s *ignoreSet) record(cfg *domain.Configuration, report *domain.BuildReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, atlas := range report.Atlases {
		for _, e := range atlas.Emitted {
			s.artifacts[filepath.Join(cfg.Root, filepath.FromSlash(e.Path))] = struct{}{}
		}
	}
}

func (s *ignoreSet) match(path string) bool {
	path = filepath.Clean(path)
	if path == s.cacheDir || strings.HasPrefix(path, s.cacheDir+string(filepath.Separator)) {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.artifacts[path]
	return ok
}

// CleanOptions configures the Clean method. When neither flag is set both apply.
type CleanOptions struct {
	Cache  bool
	Output bool
}

// Clean removes emitted artifacts recorded in the cache and the cache itself.
func (a *App) Clean(ctx context.Context, options CleanOptions) error {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if !options.Cache && !options.Output {
		options.Cache, options.Output = true, true
	}

	var errs error
	if options.Output {
		errs = errors.Join(errs, a.cleanOutputs(ctx, cfg))
	}

	if options.Cache {
		dir := cfg.CacheDir()
		a.logger.Info(fmt.Sprintf("removing %s...", dir))
		if err := os.RemoveAll(dir); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove cache"), "path", dir))
		} else {
			a.logger.Info(fmt.Sprintf("removed %s", dir))
		}
	}

	return errs
}

func (a *App) cleanOutputs(ctx context.Context, cfg *domain.Configuration) error {
	store, err := a.stores.Open(cfg.CacheDir(), cfg.Cache.Compression)
	if err != nil {
		return err
	}
	c := cache.New(store, a.logger)
	c.Load(ctx)

	var errs error
	removed := 0
	for _, key := range c.Keys() {
		s, _ := c.Get(key)
		for _, name := range s.ResultAssetNames {
			path := filepath.Join(cfg.Root, filepath.FromSlash(cfg.ArtifactPath(&s.Config, name)))
			if err := os.Remove(path); err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrFailedToCleanOutput.Error()), "path", path))
				}
				continue
			}
			removed++
		}
	}
	a.logger.Info(fmt.Sprintf("removed %d output file(s)", removed))
	return errs
}
