package sharding

// RoundRobin assigns shards by cycling through 0..numShards-1 regardless of
// id, matching RoundRobinBasedSharder. Not safe for concurrent use — its
// cursor is sequential state.
type RoundRobin struct {
	idx int
}

func NewRoundRobin() *RoundRobin { return &RoundRobin{} }

func (r *RoundRobin) GetShardFor(_ string, numShards int) int {
	res := r.idx % numShards
	r.idx++
	return res
}
