package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/wehagy/owpib/internal/config"
	h "github.com/wehagy/owpib/testhelpers"
)

func TestConfig(t *testing.T) {
	spec.Run(t, "Config", testConfig, spec.Sequential(), spec.Report(report.Terminal{}))
}

func testConfig(t *testing.T, when spec.G, it spec.S) {
	var tmpDir string

	it.Before(func() {
		tmpDir = t.TempDir()
	})

	when("#Read", func() {
		it("returns the defaults when no file exists", func() {
			cfg, err := config.Read(filepath.Join(tmpDir, "config.toml"))
			h.AssertNil(t, err)
			h.AssertEq(t, cfg.DefaultRegistry, "docker.io")
			h.AssertEq(t, cfg.BuildJobs, runtime.NumCPU())
			h.AssertEq(t, cfg.CustomFeedDir, "custom-feed")
			h.AssertEq(t, cfg.PatchesDir, "patches")
			h.AssertEq(t, cfg.FilesDir, "files")
			h.AssertEq(t, cfg.RootFSSize, 0)
		})

		it("overlays file values onto the defaults", func() {
			path := filepath.Join(tmpDir, "config.toml")
			h.AssertNil(t, os.WriteFile(path, []byte(`
default-registry = "registry.example.com"
rootfs-size = 512
`), 0644))

			cfg, err := config.Read(path)
			h.AssertNil(t, err)
			h.AssertEq(t, cfg.DefaultRegistry, "registry.example.com")
			h.AssertEq(t, cfg.RootFSSize, 512)
			h.AssertEq(t, cfg.PatchesDir, "patches")
		})

		it("fails on a file that does not parse", func() {
			path := filepath.Join(tmpDir, "config.toml")
			h.AssertNil(t, os.WriteFile(path, []byte(`default-registry = [`), 0644))

			_, err := config.Read(path)
			h.AssertError(t, err, "reading config")
		})
	})

	when("#OwpibHome", func() {
		it("honors OWPIB_HOME", func() {
			t.Setenv("OWPIB_HOME", tmpDir)
			h.AssertEq(t, config.OwpibHome(), tmpDir)
			h.AssertEq(t, config.DefaultConfigPath(), filepath.Join(tmpDir, "config.toml"))
		})

		it("falls back to the user home", func() {
			t.Setenv("OWPIB_HOME", "")
			home, err := os.UserHomeDir()
			h.AssertNil(t, err)
			h.AssertEq(t, config.OwpibHome(), filepath.Join(home, ".owpib"))
		})
	})
}
