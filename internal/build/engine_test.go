package build_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/wehagy/owpib/internal/build"
	h "github.com/wehagy/owpib/testhelpers"
)

func TestDockerEngine(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("engine tests use a shell stub")
	}
	spec.Run(t, "DockerEngine", testDockerEngine, spec.Sequential(), spec.Report(report.Terminal{}))
}

func testDockerEngine(t *testing.T, when spec.G, it spec.S) {
	var (
		tmpDir string
		engine *build.DockerEngine
	)

	// stubCLI writes a fake docker binary that records its arguments and
	// stdin, then exits with the given status.
	stubCLI := func(exitCode string) string {
		path := filepath.Join(tmpDir, "docker")
		script := "#!/bin/sh\n" +
			`printf '%s\n' "$@" > "` + tmpDir + `/args"` + "\n" +
			`cat > "` + tmpDir + `/stdin"` + "\n" +
			"exit " + exitCode + "\n"
		h.AssertNil(t, os.WriteFile(path, []byte(script), 0755))
		return path
	}

	it.Before(func() {
		tmpDir = t.TempDir()
		engine = &build.DockerEngine{}
	})

	when("#Build", func() {
		it("streams the document on stdin with a local output destination", func() {
			engine.CLI = stubCLI("0")

			h.AssertNil(t, engine.Build(context.Background(), "FROM scratch\n", ".", "bin/out"))

			stdin, err := os.ReadFile(filepath.Join(tmpDir, "stdin"))
			h.AssertNil(t, err)
			h.AssertEq(t, string(stdin), "FROM scratch\n")

			args, err := os.ReadFile(filepath.Join(tmpDir, "args"))
			h.AssertNil(t, err)
			h.AssertContains(t, string(args), "buildx")
			h.AssertContains(t, string(args), "--progress\nplain")
			h.AssertContains(t, string(args), "type=local,dest=bin/out")
			h.AssertContains(t, string(args), "--file\n-")
		})

		it("propagates a non-zero exit status unchanged", func() {
			engine.CLI = stubCLI("42")

			err := engine.Build(context.Background(), "FROM scratch\n", ".", "bin/out")
			exitErr, ok := err.(*build.ExitError)
			h.AssertTrue(t, ok)
			h.AssertEq(t, exitErr.Code, 42)
		})

		it("wraps failures to start the engine at all", func() {
			engine.CLI = filepath.Join(tmpDir, "does-not-exist")

			h.AssertError(t, engine.Build(context.Background(), "FROM scratch\n", ".", "bin/out"),
				"invoking container engine")
		})
	})
}
