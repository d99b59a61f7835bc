package sharding

// Config parameterizes the Sharder: which raw-line column positions
// carry an id (scanned in this order, mirroring IdSwap's multi-key priority
// scan — the first non-empty cell wins), and the optional base64-encoded
// HMAC key used to salt each id cell before GetShardFor sees it.
type Config struct {
	IDColumnIndices []int
	HMACKey         string
	// LogThrottle bounds how often a dropped/malformed-row message is
	// logged, matching the reference implementation's XLOG_EVERY_MS(INFO,
	// 5000).
	LogThrottle int64 // milliseconds; 0 defaults to 5000
}
