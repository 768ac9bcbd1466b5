package commands

import "github.com/pkg/errors"

// Usage error classes. Each parse failure wraps exactly one of these so
// callers and tests can match with errors.Is while the message carries the
// offending token.
var (
	ErrMissingArguments        = errors.New("missing required arguments")
	ErrUnexpectedArgument      = errors.New("unexpected argument")
	ErrMalformedOption         = errors.New("malformed option")
	ErrUnknownOption           = errors.New("unknown option")
	ErrMissingPackageArgument  = errors.New("missing package argument")
	ErrConflictingStageToggles = errors.New("conflicting stage toggles: at least one build stage must remain enabled")
	ErrInvalidImageReference   = errors.New("invalid image reference")
)
