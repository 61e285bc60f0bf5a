package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument flags a blank required argument. Operations check
// their inputs before any I/O happens. Test with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// RequireNonBlank validates name/value pairs and reports the first blank
// value as an ErrInvalidArgument.
func RequireNonBlank(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if blank(pairs[i+1]) {
			return fmt.Errorf("%w: %s must not be blank", ErrInvalidArgument, pairs[i])
		}
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// AmbiguousProfileError reports a profile listing that cannot be resolved
// to a single profile: several candidates where not exactly one is marked
// as the default.
type AmbiguousProfileError struct {
	Language   string
	Candidates int
	Defaults   int
}

func (e *AmbiguousProfileError) Error() string {
	return fmt.Sprintf("ambiguous quality profile for language %q: %d candidates, %d marked default",
		e.Language, e.Candidates, e.Defaults)
}
