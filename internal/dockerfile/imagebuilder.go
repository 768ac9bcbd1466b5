package dockerfile

import (
	"github.com/wehagy/owpib/internal/feed"
)

// versionSuffixTrim is the shell expansion that derives an installable
// package name from a binary package file name. The version suffix begins at
// the first hyphen or underscore immediately followed by a digit; names
// without such a suffix pass through unchanged.
const versionSuffixTrim = `${base%%[-_][0-9]*}`

// imageBuilderStage renders the stage that assembles the flashable image.
//
// When the SDK stage ran, its compiled packages are imported into this
// stage's package search path and their names are appended to PACKAGES at
// pipeline runtime; the names are derived from files that only exist once
// the SDK stage has actually compiled them.
func (p Pipeline) imageBuilderStage(d feed.Discovery) string {
	return render("\n\n",
		alwaysf("FROM %s AS imagebuilder", p.ImageBuilderImage()),
		when(p.SDK, "COPY --from=sdk /builder/bin/packages/ /builder/packages_sdk/"),
		when(d.HasFiles, "COPY ./files/ /builder/files/"),
		always(p.environment()),
		always(p.imageBuild(d)),
	)
}

// environment binds the resolved package list, profile, rootfs size, and
// concurrency for the final build invocation.
func (p Pipeline) environment() string {
	return render("\n",
		alwaysf(`ENV PACKAGES=%q`, p.Packages.String()),
		alwaysf(`ENV PROFILE=%q`, p.Profile),
		whenf(p.RootFSSize > 0, `ENV ROOTFS_PARTSIZE="%d"`, p.RootFSSize),
		alwaysf(`ENV BUILD_JOBS="%d"`, p.Jobs),
	)
}

// imageBuild links every SDK-built binary package into the local package
// directory, extends PACKAGES with the derived names, and invokes the image
// build.
func (p Pipeline) imageBuild(d feed.Discovery) string {
	return renderRun(
		when(p.SDK, "mkdir -p packages"),
		when(p.SDK,
			`for ipk in packages_sdk/*/*/*.ipk; do [ -e "$ipk" ] || continue; ln -sr "$ipk" packages/; base="${ipk##*/}"; PACKAGES="$PACKAGES `+versionSuffixTrim+`"; done`),
		always(render(" ",
			always(`make image PROFILE="$PROFILE" PACKAGES="$PACKAGES"`),
			when(d.HasFiles, `FILES="files"`),
			when(p.RootFSSize > 0, `ROOTFS_PARTSIZE="$ROOTFS_PARTSIZE"`),
			always(`-j"$BUILD_JOBS"`),
		)),
	)
}
