package commands

import (
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/pkg/errors"

	"github.com/wehagy/owpib/internal/build"
	"github.com/wehagy/owpib/internal/config"
	"github.com/wehagy/owpib/internal/dockerfile"
	"github.com/wehagy/owpib/internal/packages"
)

// defaultRelease selects the upstream development branch when no release is
// given on the command line.
const defaultRelease = "main"

// parsedArgs is the validated result of one command line.
type parsedArgs struct {
	build build.Options

	showHelp    bool
	showVersion bool

	quiet      bool
	timestamps bool
	noColor    bool
}

// parseArgs validates the raw argument list.
//
// Grammar: TARGET SUBTARGET PROFILE [RELEASE] [OPTIONS...]. Options are
// double-dash tokens; --packages and --remove-packages greedily consume every
// following plain token up to the next option. A single-dash token is a
// malformed option, which is a distinct failure from a well-formed but
// unrecognized one.
func parseArgs(args []string, cfg config.Config) (parsedArgs, error) {
	parsed := parsedArgs{}

	// Help wins over everything else on the line.
	for _, arg := range args {
		if arg == "--help" {
			parsed.showHelp = true
			return parsed, nil
		}
	}

	if len(args) < 3 {
		return parsedArgs{}, errors.Wrapf(ErrMissingArguments, "expected TARGET SUBTARGET PROFILE, got %d argument(s)", len(args))
	}
	for _, arg := range args[:3] {
		if strings.HasPrefix(arg, "-") {
			return parsedArgs{}, errors.Wrapf(ErrMissingArguments, "expected a positional argument, got %s", arg)
		}
	}

	pipeline := dockerfile.Pipeline{
		Target:       args[0],
		Subtarget:    args[1],
		Profile:      args[2],
		Release:      defaultRelease,
		Registry:     cfg.DefaultRegistry,
		SDK:          true,
		ImageBuilder: true,
		RootFSSize:   cfg.RootFSSize,
		Jobs:         cfg.BuildJobs,
		Packages:     packages.NewList(),
	}

	i := 3
	if i < len(args) && !strings.HasPrefix(args[i], "-") {
		pipeline.Release = args[i]
		i++
	}

	dryRun := false

	for ; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--disable-sdk":
			if !pipeline.ImageBuilder {
				return parsedArgs{}, errors.WithStack(ErrConflictingStageToggles)
			}
			pipeline.SDK = false

		case arg == "--disable-imagebuilder":
			if !pipeline.SDK {
				return parsedArgs{}, errors.WithStack(ErrConflictingStageToggles)
			}
			pipeline.ImageBuilder = false

		case arg == "--packages":
			if _, err := consumePackages(args, &i, pipeline.Packages.Install); err != nil {
				return parsedArgs{}, err
			}

		case arg == "--remove-packages":
			if _, err := consumePackages(args, &i, pipeline.Packages.Remove); err != nil {
				return parsedArgs{}, err
			}

		case arg == "--dry-run":
			dryRun = true

		case arg == "--quiet":
			parsed.quiet = true

		case arg == "--timestamps":
			parsed.timestamps = true

		case arg == "--no-color":
			parsed.noColor = true

		case arg == "--version":
			parsed.showVersion = true
			return parsed, nil

		case strings.HasPrefix(arg, "--"):
			return parsedArgs{}, errors.Wrap(ErrUnknownOption, arg)

		case strings.HasPrefix(arg, "-"):
			return parsedArgs{}, errors.Wrap(ErrMalformedOption, arg)

		default:
			return parsedArgs{}, errors.Wrap(ErrUnexpectedArgument, arg)
		}
	}

	if err := validateReferences(pipeline); err != nil {
		return parsedArgs{}, err
	}

	parsed.build = build.Options{
		Pipeline:      pipeline,
		DryRun:        dryRun,
		CustomFeedDir: cfg.CustomFeedDir,
		PatchesDir:    cfg.PatchesDir,
		FilesDir:      cfg.FilesDir,
	}
	return parsed, nil
}

// consumePackages greedily appends every plain token following the option at
// args[*i] until the next option or end of input. Zero tokens is an error.
func consumePackages(args []string, i *int, appendToken func(string)) (int, error) {
	option := args[*i]
	consumed := 0
	for *i+1 < len(args) && !strings.HasPrefix(args[*i+1], "-") {
		*i++
		appendToken(args[*i])
		consumed++
	}
	if consumed == 0 {
		return 0, errors.Wrapf(ErrMissingPackageArgument, "%s expects at least one package name", option)
	}
	return consumed, nil
}

// validateReferences rejects request/registry combinations that cannot form
// valid image references before any pipeline is composed.
func validateReferences(p dockerfile.Pipeline) error {
	for _, ref := range []string{p.SDKImage(), p.ImageBuilderImage()} {
		if _, err := name.ParseReference(ref, name.WeakValidation); err != nil {
			return errors.Wrap(ErrInvalidImageReference, ref)
		}
	}
	return nil
}
