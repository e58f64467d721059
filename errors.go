package protoclust

import "errors"

var (
	// ErrInvalidInput reports a malformed distance oracle (wrong shape,
	// asymmetric, nonzero diagonal, NaN or negative entries), fewer than two
	// points, or an invalid Config. It is detected before any merge happens.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfRange reports a DistanceStore access with an id outside the
	// table or an id that is not currently active.
	ErrOutOfRange = errors.New("cluster id out of range or inactive")

	// ErrUndefinedSelfDistance reports a DistanceStore lookup with i == j.
	ErrUndefinedSelfDistance = errors.New("self-distance is undefined")

	// ErrInvariantViolation reports corrupted internal state: a chain that
	// failed to reach a reciprocal pair within its bound, or a broken
	// partition of the points among active clusters. It is never retryable.
	ErrInvariantViolation = errors.New("internal invariant violation")
)
