package loadeq

import (
	"errors"

	"github.com/PeterZhouSZ/Equalizer/internal/model"
)

// ErrNoChannel indicates a leaf compound returned a nil Channel.
var ErrNoChannel = model.ErrNoChannel

// ErrInvalidConfig indicates a Config value failed validation, e.g. a
// damping factor outside [0,1] or a non-positive pixel boundary.
var ErrInvalidConfig = errors.New("loadeq: invalid configuration")

// InvariantError reports a violated contract of the caller — a bug, not a
// recoverable runtime condition. See model.InvariantError for the
// rationale; this is a type alias so callers can errors.As into it without
// reaching into an internal package.
type InvariantError = model.InvariantError
