package build

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Engine executes a composed pipeline document against a build context and
// writes the produced artifacts to outputDir. The engine is an opaque
// executor: owpib hands it the document and forwards its verdict.
type Engine interface {
	Build(ctx context.Context, document, contextDir, outputDir string) error
}

// ExitError reports a non-zero engine exit. The code is propagated to the
// owpib process exit status unchanged.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("container engine exited with status %d", e.Code)
}

// DockerEngine drives `docker buildx build`, feeding the document on stdin
// and exporting the build result to a local directory.
type DockerEngine struct {
	CLI    string // docker binary; "docker" when empty
	Stdout io.Writer
	Stderr io.Writer
}

func (e *DockerEngine) Build(ctx context.Context, document, contextDir, outputDir string) error {
	cmd := exec.CommandContext(ctx, e.cli(), "buildx", "build",
		"--progress", "plain",
		"--output", "type=local,dest="+outputDir,
		"--file", "-",
		contextDir,
	)
	cmd.Stdin = strings.NewReader(document)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return errors.Wrap(err, "invoking container engine")
	}
	return nil
}

func (e *DockerEngine) cli() string {
	if e.CLI == "" {
		return "docker"
	}
	return e.CLI
}
