// Package util provides identifier, clock and calendar helpers for brewops.
package util

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator provides thread-safe UUIDv7 generation with monotonic timestamps.
// The clock is injectable so ids stay ordered under a manual test clock.
type IDGenerator struct {
	mu       sync.Mutex
	clock    Clock
	lastTime int64
	counter  uint16
}

// NewIDGenerator creates an ID generator reading time from clock.
// A nil clock uses the system clock.
func NewIDGenerator(clock Clock) *IDGenerator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &IDGenerator{clock: clock}
}

// NewID generates a new UUIDv7 identifier from this generator.
func (g *IDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now().UnixMilli()
	if now <= g.lastTime {
		// Same (or rewound) millisecond: keep ordering through the counter.
		now = g.lastTime
		g.counter++
		if g.counter == 0 {
			now++
		}
	} else {
		g.counter = 0
	}
	g.lastTime = now

	return generateUUIDv7(now, g.counter)
}

var defaultGenerator = NewIDGenerator(nil)

// NewID generates a new UUIDv7 identifier from the package generator.
func NewID() string {
	return defaultGenerator.NewID()
}

func generateUUIDv7(unixMilli int64, counter uint16) string {
	var id uuid.UUID

	binary.BigEndian.PutUint32(id[0:4], uint32(unixMilli>>16))
	binary.BigEndian.PutUint16(id[4:6], uint16(unixMilli))

	// 4 bit version, 12 bit counter
	id[6] = 0x70 | (byte(counter>>8) & 0x0F)
	id[7] = byte(counter)

	_, _ = rand.Read(id[8:])
	id[8] = (id[8] & 0x3F) | 0x80

	return id.String()
}
