package cli

import (
	"errors"
	"fmt"

	"github.com/forPelevin/scribe/internal/types"
)

// Distinct exit codes per fatal category, for scripting around the tool.
const (
	exitOther       = 1
	exitConfig      = 2
	exitNotFound    = 3
	exitUnsupported = 4
	exitDecode      = 5
	exitAuth        = 6
	exitRateLimited = 7
)

// configError marks a failure detected before any pipeline stage ran
// (missing credential, bad flag combination).
type configError struct{ err error }

func (e *configError) Error() string { return fmt.Sprintf("config: %v", e.err) }
func (e *configError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ce *configError
	if errors.As(err, &ce) {
		return exitConfig
	}
	switch {
	case errors.Is(err, types.ErrNotFound):
		return exitNotFound
	case errors.Is(err, types.ErrUnsupportedFormat):
		return exitUnsupported
	case errors.Is(err, types.ErrDecodeFailed),
		errors.Is(err, types.ErrInvalidInput),
		errors.Is(err, types.ErrSegmentTooLarge):
		return exitDecode
	}
	if kind, ok := types.APIErrorKindOf(err); ok {
		switch kind {
		case types.APIAuthFailed:
			return exitAuth
		case types.APIRateLimited:
			return exitRateLimited
		}
	}
	return exitOther
}
