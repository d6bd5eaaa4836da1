package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a malformed work description (negative counts,
	// non-positive worker pool, unknown distribution). Raised before any
	// distribution happens; never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoSamples means the combined sample count after a gather was zero,
	// so the mean is undefined. Surfaced as a computed-result error, not a
	// crash.
	ErrNoSamples = errors.New("division undefined: no samples gathered")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
