package road

import (
	"errors"
	"fmt"
)

var (
	// ErrBuild is wrapped by every construction failure.
	ErrBuild = errors.New("failed build")
	// ErrConsumed is returned by a Builder that already built a Network.
	ErrConsumed = errors.New("builder already consumed")
	// ErrNotFound is wrapped when a query names a vehicle that does not exist.
	ErrNotFound = errors.New("not found")
)

func buildErrorf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrBuild, fmt.Sprintf(format, a...))
}
