// Package commands wires the owpib CLI surface: the root build command and
// the hand-rolled argument parser behind it.
//
// Flag parsing is intentionally not delegated to cobra/pflag: the grammar is
// positional-first with greedy multi-token options (--packages consumes every
// following plain token), which pflag cannot express. Cobra provides the
// command shell, context plumbing, and usage surface only.
package commands

import (
	"context"
	"fmt"

	"github.com/heroku/color"
	"github.com/spf13/cobra"

	"github.com/wehagy/owpib/internal/build"
	"github.com/wehagy/owpib/internal/config"
	"github.com/wehagy/owpib/pkg/logging"
)

const usage = `Usage:
  owpib TARGET SUBTARGET PROFILE [RELEASE] [OPTIONS...]

Synthesizes a multi-stage container build pipeline for an OpenWrt firmware
image and runs it with Docker. RELEASE defaults to "main".

Options:
  --packages PKG...          Install extra packages (greedy, until next option)
  --remove-packages PKG...   Exclude packages from the image (greedy)
  --disable-sdk              Skip compiling custom/patched packages
  --disable-imagebuilder     Skip assembling the flashable image
  --dry-run                  Print the pipeline document instead of building
  --no-color                 Disable color output
  --timestamps               Enable timestamps in output
  --quiet                    Show less output
  --version                  Show version
  --help                     Show this help

Build inputs are discovered relative to the current directory: ./custom-feed
(one package per top-level directory), ./patches/{base,luci,packages,routing,
telephony}, and ./files (overlaid onto the image root filesystem).
`

// BuildRunner is the slice of the builder the command depends on.
type BuildRunner interface {
	Build(ctx context.Context, opts build.Options) error
}

// Logger adds the output toggles the command applies after parsing.
type Logger interface {
	logging.Logger
	WantQuiet(bool)
	WantTime(bool)
}

// Build creates the root owpib command.
func Build(version string, logger Logger, cfg config.Config, runner BuildRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:                "owpib TARGET SUBTARGET PROFILE [RELEASE] [OPTIONS...]",
		Short:              "Build custom OpenWrt firmware images with Docker",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseArgs(args, cfg)
			if err != nil {
				logger.Error(err.Error())
				fmt.Fprint(cmd.ErrOrStderr(), usage)
				return err
			}

			if parsed.showHelp {
				fmt.Fprint(logger.Writer(), usage)
				return nil
			}
			if parsed.showVersion {
				logger.Info(version)
				return nil
			}

			if parsed.noColor {
				color.Disable(true)
			}
			logger.WantQuiet(parsed.quiet)
			logger.WantTime(parsed.timestamps)

			return runner.Build(cmd.Context(), parsed.build)
		},
	}
	cmd.SetOut(logger.Writer())
	return cmd
}
