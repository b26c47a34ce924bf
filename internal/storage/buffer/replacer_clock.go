package buffer

import (
	"sync"

	util "github.com/arraydb/buffercore/internal/utils"
)

// ClockReplacer is a clock-sweep policy: a circular scan over member frame
// ids with a one-bit reference flag per frame, grounded on the teacher's
// clock hand and usage-count fields but trimmed to the narrow replacer
// contract — pin/dirty/page bookkeeping stays on Instance.
//
// A frame newly inserted gets its reference bit set (a fresh grace
// period). PickVictim advances the hand, clearing reference bits as it
// passes members that have one set, and evicts the first member it finds
// with the bit already clear.
type ClockReplacer struct {
	mu sync.Mutex

	inSet  []bool
	refBit []bool

	hand     int
	size     int
	capacity int
}

// NewClockReplacer returns an empty clock replacer with room for capacity
// frames.
func NewClockReplacer(capacity int) *ClockReplacer {
	if capacity <= 0 {
		panic(util.ErrInvalidPoolSize)
	}
	return &ClockReplacer{
		inSet:    make([]bool, capacity),
		refBit:   make([]bool, capacity),
		capacity: capacity,
	}
}

func (c *ClockReplacer) Insert(fid util.FrameID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if int(fid) < 0 || int(fid) >= c.capacity {
		panic(util.ErrOutOfBoundFrame)
	}

	if c.inSet[fid] {
		return
	}
	if c.size >= c.capacity {
		return
	}

	c.inSet[fid] = true
	c.refBit[fid] = true
	c.size++
}

func (c *ClockReplacer) Remove(fid util.FrameID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if int(fid) < 0 || int(fid) >= c.capacity || !c.inSet[fid] {
		return
	}
	c.inSet[fid] = false
	c.refBit[fid] = false
	c.size--
}

func (c *ClockReplacer) PickVictim() (util.FrameID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.size == 0 {
		return util.InvalidFrameID, false
	}

	for {
		idx := c.hand
		c.hand = (c.hand + 1) % c.capacity

		if !c.inSet[idx] {
			continue
		}
		if c.refBit[idx] {
			c.refBit[idx] = false
			continue
		}

		c.inSet[idx] = false
		c.size--
		return util.FrameID(idx), true
	}
}

func (c *ClockReplacer) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}
