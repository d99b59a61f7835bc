package engine

import "fmt"

// ErrUnsupportedProtocol is returned when protocol_type is outside {PID,
// MR_PID}.
type ErrUnsupportedProtocol struct{ Value string }

func (e *ErrUnsupportedProtocol) Error() string {
	return fmt.Sprintf("engine: unsupported protocol_type %q", e.Value)
}

// ErrUnsupportedSortStrategy is returned when sort_strategy is outside
// {sort, keep_original}.
type ErrUnsupportedSortStrategy struct{ Value string }

func (e *ErrUnsupportedSortStrategy) Error() string {
	return fmt.Sprintf("engine: unsupported sort_strategy %q", e.Value)
}

// ErrIdMissingInSpine is returned by IdSwap when a data row's id-tuple is
// absent from the spine.
type ErrIdMissingInSpine struct{ Key string }

func (e *ErrIdMissingInSpine) Error() string {
	return fmt.Sprintf("engine: id %q missing in spine", e.Key)
}

// ErrIntParse is returned wherever an integer-typed field fails to parse
// (publisher-Lift duplicate aggregation, SortIntegralValues).
type ErrIntParse struct {
	Field string
	Value string
	Cause error
}

func (e *ErrIntParse) Error() string {
	return fmt.Sprintf("engine: failed to parse %q as integer in column %q: %v", e.Value, e.Field, e.Cause)
}

func (e *ErrIntParse) Unwrap() error { return e.Cause }
