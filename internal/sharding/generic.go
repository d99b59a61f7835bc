// Package sharding splits one input file's rows across N output shards by
// an id-derived routing decision, with an
// interchangeable GetShardFor strategy (round-robin, hash-based, or
// secure-random), grounded on fbpcs's GenericSharder/HashBasedSharder/
// RoundRobinBasedSharder/SecureRandomSharder.
package sharding

import (
	"bufio"
	"io"
	"log"
	"strings"
	"time"

	"github.com/facebookresearch/fbpcs-sub002/internal/hashsalt"
)

// Sharder decides which of numShards outputs an id routes to. Strategies
// hold whatever state they need (a round-robin cursor, a PRG) and are not
// expected to be safe for concurrent use from multiple goroutines sharing
// one instance.
type Sharder interface {
	GetShardFor(id string, numShards int) int
}

func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

func dos2Unix(s string) string {
	return strings.ReplaceAll(s, "\r", "")
}

// throttledLogger emits at most one message per interval, matching
// XLOG_EVERY_MS(INFO, 5000) in the reference sharder.
type throttledLogger struct {
	logger   *log.Logger
	interval time.Duration
	last     time.Time
}

func newThrottledLogger(logger *log.Logger, throttleMs int64) *throttledLogger {
	if throttleMs <= 0 {
		throttleMs = 5000
	}
	return &throttledLogger{logger: logger, interval: time.Duration(throttleMs) * time.Millisecond}
}

func (t *throttledLogger) Printf(format string, args ...any) {
	if t.logger == nil {
		return
	}
	now := time.Now()
	if now.Sub(t.last) < t.interval {
		return
	}
	t.last = now
	t.logger.Printf(format, args...)
}

// Shard reads the header and fans it out to every output, then routes each
// subsequent row to exactly one output via s.GetShardFor, salting the id
// columns first when cfg.HMACKey is set. Returns the per-shard row count.
func Shard(in io.Reader, outs []io.Writer, cfg Config, s Sharder, logger *log.Logger) (map[int]int64, error) {
	if len(outs) == 0 {
		return nil, &ErrNoOutputShards{}
	}
	numShards := len(outs)
	throttle := newThrottledLogger(logger, cfg.LogThrottle)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, &ErrEmptyInput{}
	}
	header := dos2Unix(stripQuotes(scanner.Text()))
	for _, w := range outs {
		if _, err := io.WriteString(w, header+"\n"); err != nil {
			return nil, err
		}
	}

	rowsInShard := make(map[int]int64, numShards)
	for scanner.Scan() {
		line := dos2Unix(stripQuotes(scanner.Text()))
		shard, rewritten, ok, err := routeRow(line, cfg, numShards, s, throttle)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if _, err := io.WriteString(outs[shard], rewritten+"\n"); err != nil {
			return nil, err
		}
		rowsInShard[shard]++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rowsInShard, nil
}

// routeRow extracts the routing id from line's configured columns
// (optionally HMAC-salting each one in place), then asks s for the shard.
// ok is false when the row is dropped: a configured column index is out of
// range, or every id cell is empty.
func routeRow(line string, cfg Config, numShards int, s Sharder, throttle *throttledLogger) (shard int, rewritten string, ok bool, err error) {
	cols := strings.Split(line, ",")
	id := ""
	for _, idx := range cfg.IDColumnIndices {
		if idx >= len(cols) {
			throttle.Printf("sharding: discrepancy with header: %q does not have column %d", line, idx)
			return 0, "", false, nil
		}
		col := cols[idx]
		if col == "" {
			continue
		}
		if cfg.HMACKey != "" {
			hashed, herr := hashsalt.Base64SaltedHashFromBase64Key(col, cfg.HMACKey)
			if herr != nil {
				return 0, "", false, herr
			}
			cols[idx] = hashed
			col = hashed
		}
		if id == "" {
			id = col
		}
	}
	if id == "" {
		throttle.Printf("sharding: all id values are empty in this row")
		return 0, "", false, nil
	}
	shard = s.GetShardFor(id, numShards)
	return shard, strings.Join(cols, ","), true, nil
}
