package buffer

import (
	"sync"

	util "github.com/arraydb/buffercore/internal/utils"
)

// LRUReplacer is a bounded, O(1)-per-operation recency replacer: a doubly
// linked list of member frame ids plus a position index, the same shape
// as a hand-rolled LRU list, generalized to the narrow Insert/Remove/
// PickVictim/Size contract (pin/dirty/page bookkeeping lives on Instance,
// not here).
type LRUReplacer struct {
	mu sync.Mutex

	next  []util.FrameID // forward links, oldest -> newest
	prev  []util.FrameID // backward links, newest -> oldest
	inSet []bool

	head util.FrameID // oldest member: next victim
	tail util.FrameID // newest member

	size     int
	capacity int
}

// NewLRUReplacer returns an empty replacer with room for capacity frames.
func NewLRUReplacer(capacity int) *LRUReplacer {
	if capacity <= 0 {
		panic(util.ErrInvalidPoolSize)
	}

	r := &LRUReplacer{
		next:     make([]util.FrameID, capacity),
		prev:     make([]util.FrameID, capacity),
		inSet:    make([]bool, capacity),
		head:     util.InvalidFrameID,
		tail:     util.InvalidFrameID,
		capacity: capacity,
	}
	for i := range r.next {
		r.next[i] = util.InvalidFrameID
		r.prev[i] = util.InvalidFrameID
	}
	return r
}

func (r *LRUReplacer) Insert(fid util.FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(fid) < 0 || int(fid) >= r.capacity {
		panic(util.ErrOutOfBoundFrame)
	}
	if r.inSet[fid] || r.size >= r.capacity {
		return
	}

	r.prev[fid] = r.tail
	r.next[fid] = util.InvalidFrameID
	if r.tail != util.InvalidFrameID {
		r.next[r.tail] = fid
	}
	r.tail = fid
	if r.head == util.InvalidFrameID {
		r.head = fid
	}

	r.inSet[fid] = true
	r.size++
}

func (r *LRUReplacer) Remove(fid util.FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(fid) < 0 || int(fid) >= r.capacity || !r.inSet[fid] {
		return
	}
	r.unlink(fid)
	r.inSet[fid] = false
	r.size--
}

func (r *LRUReplacer) PickVictim() (util.FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.head == util.InvalidFrameID {
		return util.InvalidFrameID, false
	}

	victim := r.head
	r.unlink(victim)
	r.inSet[victim] = false
	r.size--
	return victim, true
}

func (r *LRUReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// unlink removes fid from the list without touching inSet/size. Caller
// must hold r.mu.
func (r *LRUReplacer) unlink(fid util.FrameID) {
	prev := r.prev[fid]
	next := r.next[fid]

	if prev != util.InvalidFrameID {
		r.next[prev] = next
	} else {
		r.head = next
	}
	if next != util.InvalidFrameID {
		r.prev[next] = prev
	} else {
		r.tail = prev
	}

	r.next[fid] = util.InvalidFrameID
	r.prev[fid] = util.InvalidFrameID
}
