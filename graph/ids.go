// ABOUTME: Identifier generation for nodes and connections as ULIDs.
// ABOUTME: The caller-supplied counter fills the entropy bytes, so ids are unique and ordered.
package graph

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/oklog/ulid/v2"
)

// NodeID identifies a node for the lifetime of its registry.
type NodeID string

func (id NodeID) String() string { return string(id) }

// ConnectionID identifies a connection for the lifetime of its registry.
type ConnectionID string

func (id ConnectionID) String() string { return string(id) }

// NextID returns the id for the counter-th allocation made at wall-clock millisecond ms.
// It is a pure function of its arguments: the timestamp occupies the ULID time field and
// the counter occupies the low bytes of the entropy field. Distinct counters never collide,
// and ids sort by (ms, counter). ms must not exceed ulid.MaxTime(); NextID panics otherwise.
func NextID(counter uint64, ms uint64) string {
	var entropy [10]byte
	binary.BigEndian.PutUint64(entropy[2:], counter)
	return ulid.MustNew(ms, bytes.NewReader(entropy[:])).String()
}

// idSource hands out ids from a private, strictly increasing counter.
type idSource struct {
	counter uint64
	now     func() time.Time
}

func (s *idSource) next() string {
	s.counter++
	return NextID(s.counter, clampMillis(s.now()))
}

// clampMillis maps t onto the ULID time range: instants before the Unix epoch become 0
// and instants past the 48-bit limit become ulid.MaxTime().
func clampMillis(t time.Time) uint64 {
	ms := t.UnixMilli()
	if ms < 0 {
		return 0
	}
	return min(uint64(ms), ulid.MaxTime())
}
