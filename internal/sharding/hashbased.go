package sharding

import "encoding/binary"

// HashBased assigns shards deterministically from the id's bytes, matching
// HashBasedSharder: the first up to 8 bytes of id are interpreted as a
// big-endian (network-order) uint64 — the reference implementation's
// ntohl_64 byte-rearrangement exists precisely so a publisher and partner
// machine of differing native endianness agree on the same shard, which a
// fixed big-endian read gives directly. Shorter ids are zero-padded on the
// right, matching the reference's partial memcpy into a zeroed buffer.
type HashBased struct{}

func NewHashBased() *HashBased { return &HashBased{} }

func (HashBased) GetShardFor(id string, numShards int) int {
	var buf [8]byte
	n := len(id)
	if n > 8 {
		n = 8
	}
	copy(buf[:n], id[:n])
	v := binary.BigEndian.Uint64(buf[:])
	return int(v % uint64(numShards))
}
