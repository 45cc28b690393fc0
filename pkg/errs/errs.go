// Package errs defines the error taxonomy shared by the stimulus engine.
//
// Every error the engine raises is a configuration problem detected at
// construction time. Callers match on the sentinels with errors.Is and
// inspect details with errors.As.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is matched by every ConfigError.
	ErrConfig = errors.New("invalid configuration")

	// ErrProjection is matched by every ProjectionError.
	ErrProjection = errors.New("degenerate projection")
)

// ConfigError reports a bad skeleton, pose table, keyframe set or binding.
type ConfigError struct {
	Component string // e.g. "skeleton", "keyframe"
	Reason    string
}

// Config builds a ConfigError with a formatted reason.
func Config(component, format string, args ...any) *ConfigError {
	return &ConfigError{Component: component, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Component, ErrConfig, e.Reason)
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// ProjectionError reports a camera whose focal plane coincides with a point.
type ProjectionError struct {
	Reason string
}

// Projection builds a ProjectionError with a formatted reason.
func Projection(format string, args ...any) *ProjectionError {
	return &ProjectionError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("projection: %s: %s", ErrProjection, e.Reason)
}

// Is reports whether target is ErrProjection.
func (e *ProjectionError) Is(target error) bool {
	return target == ErrProjection
}
