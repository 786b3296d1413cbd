package bridge

import (
	"errors"
	"fmt"

	"github.com/cagrikilic/cartographer-ros/cartographer"
)

// QueryError reports a failed submap query. It carries the backend's
// human-readable message so callers can log it, while remaining matchable as
// a type. Recoverable: the caller may retry or ignore.
type QueryError struct {
	Trajectory cartographer.TrajectoryID
	Index      int
	Message    string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("submap query (trajectory %d, submap %d): %s", e.Trajectory, e.Index, e.Message)
}

// IsQueryError reports whether err is a QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// ConsistencyError reports that the backend returned a submap transform list
// whose length disagrees with its reported submap count. This indicates a
// violated backend contract, not a recoverable user error.
type ConsistencyError struct {
	Trajectory     cartographer.TrajectoryID
	SubmapCount    int
	TransformCount int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("trajectory %d reports %d submaps but %d submap transforms",
		e.Trajectory, e.SubmapCount, e.TransformCount)
}

// IsConsistencyError reports whether err is a ConsistencyError.
func IsConsistencyError(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}

// TransitionError reports a failed trajectory transition. The previous
// trajectory remains current; the system cannot safely continue ingesting
// into a trajectory that was never allocated.
type TransitionError struct {
	Previous cartographer.TrajectoryID
	cause    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("finishing trajectory %d: %v", e.Previous, e.cause)
}

func (e *TransitionError) Unwrap() error {
	return e.cause
}

// IsTransitionError reports whether err is a TransitionError.
func IsTransitionError(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}
