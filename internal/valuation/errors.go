package valuation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrModelsNotLoaded means a required model artifact is missing or
	// corrupt. The engine must not report itself ready in this state;
	// callers surface it as a degraded-service signal, never as a
	// per-request failure.
	ErrModelsNotLoaded = errors.New("valuation models not loaded")

	// ErrNoIdentityMatch means no resolver strategy produced a row for
	// the requested name.
	ErrNoIdentityMatch = errors.New("no matching player found")

	// ErrMissingRequiredStat means the profile lacks a discriminating
	// metric the role requires. This is a caller input error, rejected
	// before feature assembly rather than imputed.
	ErrMissingRequiredStat = errors.New("missing required statistic")
)

// AmbiguousMatchError reports a name that resolved to more than one
// distinct player. It wraps ErrNoIdentityMatch so callers that only care
// about "could not pick one" keep working, while richer callers surface
// the alternatives.
type AmbiguousMatchError struct {
	Query string
	Names []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("name %q matches multiple players: %s", e.Query, strings.Join(e.Names, ", "))
}

func (e *AmbiguousMatchError) Unwrap() error {
	return ErrNoIdentityMatch
}
