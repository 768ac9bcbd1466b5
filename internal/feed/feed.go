// Package feed discovers the local build inputs that shape a pipeline: the
// custom feed, the patch sets, and the files overlay.
//
// Discovery is a read-only filesystem walk performed once, before any
// rendering. Stage builders consume the resulting Discovery value and never
// touch the filesystem themselves.
package feed

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Categories are the upstream feed names patches may target, in application
// order. Patches are applied category by category, lexicographically within
// each category.
var Categories = []string{"base", "luci", "packages", "routing", "telephony"}

// Patch is one discovered patch file.
type Patch struct {
	Category string // upstream feed the patch applies to
	File     string // file name within the category directory
}

// Path returns the patch location relative to the patches root.
func (p Patch) Path() string {
	return p.Category + "/" + p.File
}

// Stem returns the name of the package the patch belongs to: the file name up
// to the first underscore, or the file name without its extension when it has
// no underscore.
func (p Patch) Stem() string {
	if i := strings.Index(p.File, "_"); i >= 0 {
		return p.File[:i]
	}
	return strings.TrimSuffix(p.File, ".patch")
}

// Discovery holds the build inputs found on disk. It is immutable once
// returned by Discover.
type Discovery struct {
	CustomFeeds []string // top-level directory names under the custom-feed root
	Patches     []Patch  // category order, lexicographic within a category
	HasFiles    bool     // whether a files overlay directory exists
}

// Discover enumerates the custom-feed root, the patches root, and the files
// overlay. Missing directories are valid and yield empty results; directories
// that exist but cannot be read are a fatal error, since treating them as
// absent would silently drop packages or patches from the build.
func Discover(customFeedDir, patchesDir, filesDir string) (Discovery, error) {
	var d Discovery

	feeds, err := readDirNames(customFeedDir, func(e os.DirEntry) bool { return e.IsDir() })
	if err != nil {
		return Discovery{}, errors.Wrapf(err, "discovering custom feed %s", customFeedDir)
	}
	d.CustomFeeds = feeds

	for _, category := range Categories {
		files, err := readDirNames(filepath.Join(patchesDir, category), func(e os.DirEntry) bool {
			return !e.IsDir() && strings.HasSuffix(e.Name(), ".patch")
		})
		if err != nil {
			return Discovery{}, errors.Wrapf(err, "discovering patches for feed %s", category)
		}
		for _, f := range files {
			d.Patches = append(d.Patches, Patch{Category: category, File: f})
		}
	}

	info, err := os.Stat(filesDir)
	if err != nil && !os.IsNotExist(err) {
		return Discovery{}, errors.Wrapf(err, "discovering files overlay %s", filesDir)
	}
	d.HasFiles = err == nil && info.IsDir()

	return d, nil
}

// CompileStems returns the package names the SDK stage must compile: every
// custom-feed entry by directory name, then every patch by stem. Duplicates
// keep their first position.
func (d Discovery) CompileStems() []string {
	var stems []string
	seen := map[string]bool{}

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		stems = append(stems, name)
	}

	for _, name := range d.CustomFeeds {
		add(name)
	}
	for _, p := range d.Patches {
		add(p.Stem())
	}
	return stems
}

// readDirNames lists the names in dir matching keep, in lexicographic order.
// A missing dir yields a nil slice.
func readDirNames(dir string, keep func(os.DirEntry) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if keep(e) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
