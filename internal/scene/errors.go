package scene

import (
	"errors"
	"fmt"

	"github.com/san-kum/orrery/internal/asset"
)

// ErrInvalidConfig indicates a body or environment value that cannot be built.
var ErrInvalidConfig = errors.New("scene: invalid configuration")

// ConfigError describes one rejected configuration value.
type ConfigError struct {
	Index  int // body index, -1 for environment and generator parameters
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("scene: %s=%g: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("scene: body %d: %s=%g: %s", e.Index, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// Warning reports a texture that failed to resolve. The affected surface
// was still built, using the fallback color.
type Warning struct {
	Index  int // body index, -1 for center and background
	Body   string
	Handle asset.Handle
	Err    error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: texture %q: %v (using fallback color)", w.Body, w.Handle, w.Err)
}
