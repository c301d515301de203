package spatial

import "errors"

// Input validation failures. All of them are permanent: retrying with the
// same arguments fails the same way.
var (
	ErrInvalidBounds       = errors.New("invalid bounds")
	ErrInvalidResolution   = errors.New("invalid resolution")
	ErrInsufficientSamples = errors.New("insufficient samples")
	ErrEmptyInput          = errors.New("empty input")
	ErrInvalidGeometry     = errors.New("invalid geometry")
	ErrInvalidParameter    = errors.New("invalid parameter")
)

// IsInputError reports whether err was caused by invalid pipeline input.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrInvalidBounds,
		ErrInvalidResolution,
		ErrInsufficientSamples,
		ErrEmptyInput,
		ErrInvalidGeometry,
		ErrInvalidParameter,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
