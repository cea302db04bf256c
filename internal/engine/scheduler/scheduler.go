// Package scheduler runs build passes over the configured atlases.
package scheduler

import (
	"context"
	"errors"
	"runtime"
	"time"

	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/atlas/internal/core/ports"
	"go.trai.ch/atlas/internal/engine/builder"
	"go.trai.ch/atlas/internal/engine/cache"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Scheduler runs build passes. A Scheduler holds no per-pass state and may be reused.
type Scheduler struct {
	reader ports.ContentReader
	writer ports.ArtifactWriter
	tracer ports.Tracer
	logger ports.Logger
	app    domain.AppInfo
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	reader ports.ContentReader,
	writer ports.ArtifactWriter,
	tracer ports.Tracer,
	logger ports.Logger,
	app domain.AppInfo,
) *Scheduler {
	return &Scheduler{
		reader: reader,
		writer: writer,
		tracer: tracer,
		logger: logger,
		app:    app,
	}
}

// Pass holds the collaborators and settings of one build pass.
type Pass struct {
	Config  *domain.Configuration
	Scanner ports.AssetScanner
	Packer  ports.Packer
	Cache   *cache.StructureCache
	// Hooks observe emitted atlases and the end of the pass. May be nil.
	Hooks *domain.Hooks
	// Parallelism bounds concurrently processed atlases. Zero selects the CPU count.
	Parallelism int
	// NoCache rebuilds every atlas. The cache is still refreshed.
	NoCache bool
}

// slot is the in-flight state of one atlas.
type slot struct {
	atlas   *domain.AtlasConfig
	key     string
	span    ports.Span
	assets  int
	outputs []domain.OutputAsset
	cached  bool
	err     error
}

// Run executes one build pass. Atlases are scanned, compared and built in
// parallel; their artifacts are then written and announced one atlas at a
// time in configuration order. Failures are isolated per atlas and reported
// together in the returned error, next to the full report.
func (s *Scheduler) Run(ctx context.Context, pass *Pass) (*domain.BuildReport, error) {
	start := time.Now()
	cfg := pass.Config

	names := make([]string, len(cfg.Items))
	keys := make([]string, len(cfg.Items))
	for i := range cfg.Items {
		names[i] = cfg.Items[i].Name
		keys[i] = domain.OutputKey(&cfg.Items[i])
	}
	s.tracer.EmitPlan(ctx, names)

	pass.Cache.Load(ctx)

	slots := make([]*slot, len(cfg.Items))
	b := builder.New(s.reader, pass.Packer, s.logger)

	parallelism := pass.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(parallelism)
	for i := range cfg.Items {
		sl := &slot{atlas: &cfg.Items[i], key: keys[i]}
		slots[i] = sl
		g.Go(func() error {
			s.process(ctx, pass, b, sl)
			return nil
		})
	}
	_ = g.Wait()

	report := &domain.BuildReport{Atlases: make([]domain.AtlasResult, 0, len(slots))}
	for _, sl := range slots {
		emitted := s.emit(ctx, pass, sl)
		if sl.err != nil {
			sl.span.RecordError(sl.err)
		}
		sl.span.End()

		report.Atlases = append(report.Atlases, domain.AtlasResult{
			Name:    sl.atlas.Name,
			Key:     sl.key,
			Cached:  sl.cached,
			Assets:  sl.assets,
			Emitted: emitted,
			Err:     sl.err,
		})
	}

	for _, err := range pass.Hooks.EmitComplete(ctx) {
		s.logger.Error(err)
	}

	pass.Cache.Retain(keys)
	// Atlases finished before a cancellation are still persisted. Write
	// failures only cost durability and are already logged by the cache.
	_ = pass.Cache.Write(context.WithoutCancel(ctx))

	report.Duration = time.Since(start)

	var errs []error
	for _, a := range report.Failed() {
		errs = append(errs, a.Err)
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return report, errors.Join(append([]error{domain.ErrBuildFailed}, errs...)...)
	}
	return report, nil
}

// process scans one atlas and either reuses its previous outputs or builds it.
// The slot's span is left open for emission.
func (s *Scheduler) process(ctx context.Context, pass *Pass, b *builder.Builder, sl *slot) {
	ctx, span := s.tracer.Start(ctx, sl.atlas.Name)
	sl.span = span

	if err := ctx.Err(); err != nil {
		sl.err = err
		return
	}

	cfg := pass.Config
	root := cfg.AtlasRoot(sl.atlas)
	assets, err := pass.Scanner.Scan(ctx, root, sl.atlas.Sources)
	if err != nil {
		sl.err = zerr.With(err, "atlas", sl.atlas.Name)
		return
	}
	sl.assets = len(assets)
	span.SetAttribute(ports.AttrAssets, len(assets))

	options := domain.ResolvePackerOptions(cfg.PackerOptions, sl.atlas, s.app)
	fresh := domain.NewAtlasStructure(root, *sl.atlas, options, assets)

	if !pass.NoCache {
		if prev, ok := pass.Cache.Get(sl.key); ok && prev.Equals(fresh) {
			if outputs, ok := pass.Cache.Outputs(ctx, sl.key); ok {
				sl.outputs = outputs
				sl.cached = true
				span.SetAttribute(ports.AttrCached, true)
				return
			}
		}
	}

	pass.Cache.Set(sl.key, fresh)
	outputs, err := b.Build(ctx, fresh)
	if err != nil {
		pass.Cache.Delete(sl.key)
		sl.err = err
		return
	}
	pass.Cache.SetOutputs(sl.key, outputs)
	sl.outputs = outputs
	span.SetAttribute(ports.AttrCached, false)
}

// emit writes the outputs of a successful atlas and notifies the hooks.
func (s *Scheduler) emit(ctx context.Context, pass *Pass, sl *slot) []domain.EmittedAsset {
	if sl.err != nil {
		return nil
	}

	cfg := pass.Config
	emitted := make([]domain.EmittedAsset, 0, len(sl.outputs))
	for _, out := range sl.outputs {
		path := cfg.ArtifactPath(sl.atlas, out.Name)
		if err := s.writer.Write(ctx, cfg.Root, path, out.Contents); err != nil {
			sl.err = zerr.With(err, "atlas", sl.atlas.Name)
			return nil
		}
		emitted = append(emitted, domain.EmittedAsset{Path: path, Content: out.Contents})
	}
	sl.span.SetAttribute(ports.AttrOutputs, len(emitted))

	for _, err := range pass.Hooks.EmitAtlas(ctx, emitted, sl.atlas.Extra) {
		s.logger.Error(zerr.With(err, "atlas", sl.atlas.Name))
	}
	return emitted
}
