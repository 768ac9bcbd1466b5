// Package build turns a parsed build request into an executed pipeline: it
// runs input discovery, composes the pipeline document, and either prints it
// or hands it to the container engine.
package build

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/pkg/errors"

	"github.com/wehagy/owpib/internal/dockerfile"
	"github.com/wehagy/owpib/internal/feed"
	"github.com/wehagy/owpib/internal/style"
	"github.com/wehagy/owpib/pkg/logging"
)

// timestampFmt names output directories with second resolution.
const timestampFmt = "20060102-150405"

// DaemonPinger is the slice of the Docker client used to verify the engine
// is reachable before a build is attempted.
type DaemonPinger interface {
	Ping(ctx context.Context) (types.Ping, error)
}

// Options carries everything one invocation needs. Constructed once by the
// argument parser and read-only afterwards.
type Options struct {
	Pipeline dockerfile.Pipeline

	// DryRun prints the composed document instead of invoking the engine.
	DryRun bool

	// Discovery roots, relative to the build context.
	CustomFeedDir string
	PatchesDir    string
	FilesDir      string

	// ContextDir is the engine build context; "." when empty.
	ContextDir string
}

// Builder orchestrates a single build request.
type Builder struct {
	logger logging.Logger
	engine Engine
	daemon DaemonPinger // optional; nil skips the engine check
	clock  func() time.Time
}

func NewBuilder(logger logging.Logger, engine Engine, daemon DaemonPinger, opts ...func(*Builder)) *Builder {
	b := &Builder{
		logger: logger,
		engine: engine,
		daemon: daemon,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithClock overrides the timestamp source, for tests.
func WithClock(clock func() time.Time) func(*Builder) {
	return func(b *Builder) {
		b.clock = clock
	}
}

// Build discovers inputs, composes the document, and executes or prints it.
// A non-zero engine exit surfaces as *ExitError; there is no retry and no
// cleanup of partial output.
func (b *Builder) Build(ctx context.Context, opts Options) error {
	discovery, err := feed.Discover(opts.CustomFeedDir, opts.PatchesDir, opts.FilesDir)
	if err != nil {
		return err
	}

	pipeline := opts.Pipeline
	if pipeline.SDK {
		// Each custom-feed directory is one installable package.
		pipeline.Packages.ExtendFromDiscovery(discovery.CustomFeeds)
	}

	b.logDiscovery(discovery)

	document := pipeline.Compose(discovery)

	if opts.DryRun {
		_, err := fmt.Fprint(b.logger.Writer(), document)
		return errors.Wrap(err, "writing pipeline document")
	}

	if b.daemon != nil {
		if _, err := b.daemon.Ping(ctx); err != nil {
			return errors.Wrap(err, "pinging container engine")
		}
	}

	outputDir := b.outputDir(pipeline)
	b.logger.Infof("Building %s into %s", style.Symbol(pipeline.ImageBuilderImage()), style.Symbol(outputDir))

	return b.engine.Build(ctx, document, contextDir(opts), outputDir)
}

func (b *Builder) logDiscovery(d feed.Discovery) {
	for _, name := range d.CustomFeeds {
		b.logger.Debugf("Found custom-feed package %s", style.Symbol(name))
	}
	for _, p := range d.Patches {
		b.logger.Debugf("Found patch %s", style.Symbol(p.Path()))
	}
}

// outputDir encodes target, subtarget, profile, and a second-resolution
// timestamp under bin/.
func (b *Builder) outputDir(p dockerfile.Pipeline) string {
	return filepath.Join("bin", fmt.Sprintf("%s-%s-%s-%s",
		p.Target, p.Subtarget, p.Profile, b.clock().Format(timestampFmt)))
}

func contextDir(opts Options) string {
	if opts.ContextDir == "" {
		return "."
	}
	return opts.ContextDir
}
