package dockerfile

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver"

	"github.com/wehagy/owpib/internal/feed"
)

// sdkStage renders the stage that compiles custom and patched packages from
// source feeds.
//
// The stage always updates feeds and generates a default configuration, even
// when there is nothing extra to compile; a build with no custom feed and no
// patches is a valid, silent configuration.
func (p Pipeline) sdkStage(d feed.Discovery) string {
	hasCustomFeed := len(d.CustomFeeds) > 0
	hasPatches := len(d.Patches) > 0

	return render("\n\n",
		alwaysf("FROM %s AS sdk", p.SDKImage()),
		when(hasCustomFeed, "COPY ./custom-feed/ /builder/custom-feed/"),
		when(hasPatches, "COPY ./patches/ /builder/patches/"),
		always("RUN ./setup.sh"),
		always(p.feedConfiguration()),
		always("RUN ./scripts/feeds update -a"),
		when(hasCustomFeed, customFeedUpdate()),
		when(hasPatches, patchApplications(d.Patches)),
		always(p.compileBlock(d)),
	)
}

// feedConfiguration rewrites the canonical upstream feed URLs to their GitHub
// mirrors and registers the custom feed source. Versioned releases also pin
// the feeds to the matching release branch.
func (p Pipeline) feedConfiguration() string {
	exprs := render(" ",
		always(`-e 's|https://git.openwrt.org/feed/|https://github.com/openwrt/|'`),
		always(`-e 's|https://git.openwrt.org/project/|https://github.com/openwrt/|'`),
		whenf(feedBranch(p.Release) != "", `-e 's|\.git$|.git;%s|'`, feedBranch(p.Release)),
	)

	return renderRun(
		alwaysf("sed -i %s feeds.conf.default", exprs),
		always("echo 'src-link custom /builder/custom-feed' >> feeds.conf.default"),
	)
}

// customFeedUpdate refreshes only the custom feed and rewrites the luci.mk
// include path that out-of-tree LuCI packages commonly hardcode. The rewrite
// is cosmetic and best-effort; its failure must never fail the stage.
func customFeedUpdate() string {
	return renderRun(
		always("./scripts/feeds update custom"),
		always(`sed -i 's|\.\./\.\./luci\.mk|$(TOPDIR)/feeds/luci/luci.mk|' /builder/custom-feed/*/Makefile || true`),
	)
}

// patchApplications emits one apply command per patch, in discovery order:
// categories in their fixed order, files lexicographic within a category.
// Order is load-bearing; later patches may depend on earlier ones.
func patchApplications(patches []feed.Patch) string {
	var runs []string
	for _, patch := range patches {
		runs = append(runs, fmt.Sprintf(
			"RUN git -C feeds/%s apply --verbose /builder/patches/%s",
			patch.Category, patch.Path(),
		))
	}
	return strings.Join(runs, "\n\n")
}

// compileBlock generates the default configuration, compiles every discovered
// package stem, and deletes transient build artifacts so only the package
// output survives into the export.
func (p Pipeline) compileBlock(d feed.Discovery) string {
	stems := d.CompileStems()

	return renderRun(
		always("make defconfig"),
		whenf(len(stems) > 0,
			`for pkg in %s; do ./scripts/feeds install "$pkg" && make "package/$pkg/compile" -j%d; done`,
			strings.Join(stems, " "), p.Jobs),
		always("rm -rf tmp dl build_dir logs bin/targets"),
	)
}

// feedBranch maps a versioned release to its feed branch (e.g. 23.05.3 to
// openwrt-23.05). Branch identifiers such as "main" return "".
func feedBranch(release string) string {
	v, err := semver.NewVersion(release)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("openwrt-%d.%02d", v.Major(), v.Minor())
}
