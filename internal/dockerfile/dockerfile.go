// Package dockerfile synthesizes the multi-stage build pipeline document for
// an OpenWrt firmware image.
//
// The document has up to three stages: an SDK stage that compiles custom and
// patched packages from source feeds, an ImageBuilder stage that bakes
// packages into a flashable image, and an export stage that collects the
// produced binaries. Every optional piece of the document is an optional
// fragment: disabled stages and inapplicable directives are absent from the
// output entirely, not commented out or left empty.
//
// Synthesis is pure text composition. All filesystem knowledge arrives
// pre-computed in a feed.Discovery, which makes composition deterministic:
// the same inputs always produce a byte-identical document.
package dockerfile

import (
	"fmt"
	"strings"

	"github.com/wehagy/owpib/internal/feed"
	"github.com/wehagy/owpib/internal/packages"
)

// Pipeline describes one build pipeline to synthesize. It is assembled once
// from parsed arguments and ambient configuration and never mutated here.
type Pipeline struct {
	Target    string
	Subtarget string
	Profile   string
	Release   string

	Registry string

	// Stage toggles. The argument parser guarantees at least one is set.
	SDK          bool
	ImageBuilder bool

	// RootFSSize is the requested rootfs partition size in MB; 0 keeps the
	// ImageBuilder default.
	RootFSSize int

	// Jobs is the compile concurrency threaded into the emitted commands.
	Jobs int

	Packages *packages.List
}

// Tag returns the image tag shared by the SDK and ImageBuilder base images.
func (p Pipeline) Tag() string {
	return fmt.Sprintf("%s-%s-%s", p.Target, p.Subtarget, p.Release)
}

// SDKImage returns the fully qualified SDK base image reference.
func (p Pipeline) SDKImage() string {
	return fmt.Sprintf("%s/openwrt/sdk:%s", p.Registry, p.Tag())
}

// ImageBuilderImage returns the fully qualified ImageBuilder base image reference.
func (p Pipeline) ImageBuilderImage() string {
	return fmt.Sprintf("%s/openwrt/imagebuilder:%s", p.Registry, p.Tag())
}

// Compose renders the pipeline document: SDK stage, ImageBuilder stage, and
// export stage, in that order, each present only when enabled.
func (p Pipeline) Compose(d feed.Discovery) string {
	return render("\n\n",
		when(p.SDK, p.sdkStage(d)),
		when(p.ImageBuilder, p.imageBuilderStage(d)),
		always(p.exportStage()),
	) + "\n"
}

// exportStage declares an empty base and copies binaries out of whichever
// producer stages were enabled. The parser guarantees at least one was.
func (p Pipeline) exportStage() string {
	return render("\n\n",
		always("FROM scratch AS export"),
		when(p.SDK, "COPY --from=sdk /builder/bin/ /sdk/"),
		when(p.ImageBuilder, "COPY --from=imagebuilder /builder/bin/ /"),
	)
}

// fragment is a block of document text that may be absent. Absent fragments
// leave zero trace in the rendered output.
type fragment struct {
	present bool
	text    string
}

func when(cond bool, text string) fragment {
	return fragment{present: cond, text: text}
}

func whenf(cond bool, format string, a ...interface{}) fragment {
	return fragment{present: cond, text: fmt.Sprintf(format, a...)}
}

func always(text string) fragment {
	return fragment{present: true, text: text}
}

func alwaysf(format string, a ...interface{}) fragment {
	return fragment{present: true, text: fmt.Sprintf(format, a...)}
}

// render joins the present, non-empty fragments with sep.
func render(sep string, frags ...fragment) string {
	var parts []string
	for _, f := range frags {
		if f.present && f.text != "" {
			parts = append(parts, f.text)
		}
	}
	return strings.Join(parts, sep)
}

// renderRun joins command fragments into a single RUN instruction, one
// command per line chained with &&.
func renderRun(cmds ...fragment) string {
	return "RUN " + render(" \\\n && ", cmds...)
}
