package sharding

// ErrNoOutputShards is returned when Shard is invoked with zero output
// writers; there is no way to route any row.
type ErrNoOutputShards struct{}

func (e *ErrNoOutputShards) Error() string {
	return "sharding: at least one output shard is required"
}

// ErrEmptyInput is returned when the input stream has no header line.
type ErrEmptyInput struct{}

func (e *ErrEmptyInput) Error() string {
	return "sharding: input has no header line"
}
