// internal/orderstore/idgen.go
package orderstore

import (
	"fmt"
	"sync"
	"time"
)

const idPrefix = "ORD"

// seqPerMilli is how many ids fit in the 3-digit suffix of one millisecond.
const seqPerMilli = 1000

// IDGenerator issues ORD<ms><seq> ids that are strictly increasing within a process.
type IDGenerator struct {
	mu     sync.Mutex
	now    func() time.Time
	sleep  func(time.Duration)
	lastMs int64
	seq    int
}

func NewIDGenerator() *IDGenerator {
	return newIDGenerator(time.Now, time.Sleep)
}

func newIDGenerator(now func() time.Time, sleep func(time.Duration)) *IDGenerator {
	return &IDGenerator{now: now, sleep: sleep, lastMs: -1}
}

// Next returns a new id and the millisecond timestamp encoded in it.
// After 1000 ids in the same millisecond it waits for the clock to move on.
// A clock that steps backwards keeps using the last millisecond seen.
func (g *IDGenerator) Next() (string, int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		ms := g.now().UnixMilli()
		switch {
		case ms > g.lastMs:
			g.lastMs = ms
			g.seq = 0
		case g.seq+1 < seqPerMilli:
			g.seq++
		default:
			g.sleep(time.Millisecond)
			continue
		}
		return fmt.Sprintf("%s%d%03d", idPrefix, g.lastMs, g.seq), g.lastMs
	}
}
