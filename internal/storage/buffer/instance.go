// Package buffer implements the buffer pool core: a single-shard Instance,
// its pluggable Replacer, and the sharded Pool that aggregates instances.
package buffer

import (
	"fmt"
	"sync"

	"github.com/arraydb/buffercore/internal/logging"
	"github.com/arraydb/buffercore/internal/storage/file"
	"github.com/arraydb/buffercore/internal/storage/page"
	"github.com/arraydb/buffercore/internal/storage/wal"
	util "github.com/arraydb/buffercore/internal/utils"
)

// frame is one resident slot: a page payload plus the metadata that
// forbids eviction while it is pinned.
type frame struct {
	page     *page.Page
	pinCount int32
	dirty    bool
}

// Stats is a read-only snapshot of an Instance's activity, for
// observability only — it has no bearing on the pool's state machine.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Pinned    int
}

// Instance is a single fixed-capacity buffer pool: P frames, a directory
// from page id to frame, a free list, and one Replacer, all serialized by
// a single latch.
type Instance struct {
	mu sync.Mutex

	frames    []frame
	directory map[util.PageID]util.FrameID
	freeList  []util.FrameID
	replacer  Replacer

	disk   file.Manager
	logMgr wal.Manager

	numShards uint32
	shardIdx  uint32
	nextPID   util.PageID

	hits, misses, evictions uint64
}

// NewInstance builds a single, unsharded instance (numShards=1) using the
// default LRU replacer.
func NewInstance(poolSize int, disk file.Manager, logMgr wal.Manager) *Instance {
	return NewShardedInstance(poolSize, 1, 0, disk, logMgr, NewLRUReplacer(poolSize))
}

// NewShardedInstance builds one shard of an N-way pool: shardIdx in
// [0, numShards), allocating page ids congruent to shardIdx mod numShards.
// replacer lets callers choose the eviction policy (LRU, clock, ...).
func NewShardedInstance(poolSize int, numShards, shardIdx uint32, disk file.Manager, logMgr wal.Manager, replacer Replacer) *Instance {
	if poolSize <= 0 {
		panic(util.ErrInvalidPoolSize)
	}
	if numShards == 0 {
		panic(util.ErrInvalidShardCount)
	}
	if shardIdx >= numShards {
		panic(util.ErrInvalidShardIndex)
	}

	inst := &Instance{
		frames:    make([]frame, poolSize),
		directory: make(map[util.PageID]util.FrameID, poolSize),
		freeList:  make([]util.FrameID, poolSize),
		replacer:  replacer,
		disk:      disk,
		logMgr:    logMgr,
		numShards: numShards,
		shardIdx:  shardIdx,
		nextPID:   util.PageID(shardIdx),
	}
	for i := range inst.freeList {
		inst.freeList[i] = util.FrameID(i)
	}
	return inst
}

// PoolSize returns this instance's frame count (P).
func (inst *Instance) PoolSize() int {
	return len(inst.frames)
}

// Fetch pins and returns the page for pid, reading it from disk on a
// cache miss. Returns ok=false when every frame is pinned, when writing
// back a dirty victim fails, or when reading pid from disk fails.
func (inst *Instance) Fetch(pid util.PageID) (p *page.Page, ok bool) {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if fid, exists := inst.directory[pid]; exists {
		inst.hits++
		inst.pinLocked(fid)
		return inst.frames[fid].page, true
	}
	inst.misses++

	fid, err := inst.acquireFrameLocked()
	if err != nil {
		return nil, false
	}

	loaded, err := inst.disk.ReadPage(pid)
	if err != nil {
		// Failed read: the frame never entered the directory under pid, so
		// it goes straight back to the free list. If it was taken from the
		// replacer, its previous page stays evicted (written back if dirty).
		inst.freeList = append(inst.freeList, fid)
		logging.WithFields(map[string]any{"page_id": pid, "frame_id": fid}).WithError(err).Warn("fetch: disk read failed")
		return nil, false
	}

	f := &inst.frames[fid]
	f.page = loaded
	f.dirty = false
	inst.directory[pid] = fid
	inst.pinLocked(fid)
	return f.page, true
}

// Create acquires a fresh frame, zeroes it, allocates a new page id for
// this shard, and returns it pre-pinned with pin count 1.
func (inst *Instance) Create() (pid util.PageID, p *page.Page, ok bool) {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	fid, err := inst.acquireFrameLocked()
	if err != nil {
		return util.InvalidPageID, nil, false
	}

	pid = inst.allocatePIDLocked()
	f := &inst.frames[fid]
	f.page = page.New(pid)
	f.dirty = true
	f.pinCount = 1
	inst.directory[pid] = fid
	return pid, f.page, true
}

// Unpin releases one pin on pid. dirty, once true for this residency,
// stays true until the page is flushed or evicted. Returns
// util.ErrUnmatchedUnpin only on an unmatched unpin (pin count already
// zero); an unknown pid is a no-op, not an error.
func (inst *Instance) Unpin(pid util.PageID, dirty bool) error {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	fid, exists := inst.directory[pid]
	if !exists {
		return nil
	}

	f := &inst.frames[fid]
	if f.pinCount == 0 {
		return util.ErrUnmatchedUnpin
	}

	f.pinCount--
	if dirty {
		f.dirty = true
	}
	if f.pinCount == 0 {
		inst.replacer.Insert(fid)
	}
	return nil
}

// Flush writes pid's current image to disk and clears its dirty flag.
// Returns util.ErrPageOutOfBounds for the invalid page id,
// util.ErrFrameNotAllocated for an unresident page id, or a wrapped disk
// write error on I/O failure.
func (inst *Instance) Flush(pid util.PageID) error {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.flushLocked(pid)
}

func (inst *Instance) flushLocked(pid util.PageID) error {
	if pid == util.InvalidPageID {
		return util.ErrPageOutOfBounds
	}
	fid, exists := inst.directory[pid]
	if !exists {
		return util.ErrFrameNotAllocated
	}

	f := &inst.frames[fid]
	if err := inst.disk.WritePage(f.page); err != nil {
		logging.WithFields(map[string]any{"page_id": pid, "frame_id": fid}).WithError(err).Warn("flush: disk write failed")
		return fmt.Errorf("flush page %d: %w", pid, err)
	}
	f.dirty = false
	return nil
}

// FlushAll flushes every page resident at the time it is visited. It
// re-acquires the latch per page, so it is best-effort under concurrent
// mutation: a page inserted or deleted mid-call may or may not be
// included, but every page continuously resident and unflushed across the
// call is flushed at least once.
func (inst *Instance) FlushAll() {
	inst.mu.Lock()
	pids := make([]util.PageID, 0, len(inst.directory))
	for pid := range inst.directory {
		pids = append(pids, pid)
	}
	inst.mu.Unlock()

	for _, pid := range pids {
		if err := inst.Flush(pid); err != nil {
			logging.WithFields(map[string]any{"page_id": pid}).WithError(err).Warn("flush_all: page flush failed")
		}
	}
}

// DeletePage forgets pid without writing it back. Returns
// util.ErrPagePinned only if pid is currently pinned; an unknown pid is a
// no-op, not an error.
func (inst *Instance) DeletePage(pid util.PageID) error {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	fid, exists := inst.directory[pid]
	if !exists {
		return nil
	}

	f := &inst.frames[fid]
	if f.pinCount != 0 {
		return util.ErrPagePinned
	}

	inst.replacer.Remove(fid)
	delete(inst.directory, pid)
	f.page.Reset()
	f.dirty = false
	inst.freeList = append(inst.freeList, fid)
	return nil
}

// Stats returns a snapshot of this instance's counters.
func (inst *Instance) Stats() Stats {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	pinned := 0
	for i := range inst.frames {
		if inst.frames[i].pinCount > 0 {
			pinned++
		}
	}
	return Stats{Hits: inst.hits, Misses: inst.misses, Evictions: inst.evictions, Pinned: pinned}
}

// pinLocked removes fid from the replacer (if it was evictable) and bumps
// its pin count. Caller must hold inst.mu.
func (inst *Instance) pinLocked(fid util.FrameID) {
	f := &inst.frames[fid]
	if f.pinCount == 0 {
		inst.replacer.Remove(fid)
	}
	f.pinCount++
}

// acquireFrameLocked implements victim selection: free list first, then
// the replacer, writing back a dirty victim before handing over its
// frame. Returns util.ErrCapacityExhausted only when every frame is
// pinned, or a wrapped disk write error if write-back fails. Caller must
// hold inst.mu.
func (inst *Instance) acquireFrameLocked() (util.FrameID, error) {
	if n := len(inst.freeList); n > 0 {
		fid := inst.freeList[n-1]
		inst.freeList = inst.freeList[:n-1]
		return fid, nil
	}

	fid, ok := inst.replacer.PickVictim()
	if !ok {
		return util.InvalidFrameID, util.ErrCapacityExhausted
	}

	f := &inst.frames[fid]
	if f.dirty {
		if err := inst.disk.WritePage(f.page); err != nil {
			// Leave is_dirty set and put the frame back where it was:
			// still unpinned, still resident under its old page id.
			inst.replacer.Insert(fid)
			logging.WithFields(map[string]any{"page_id": f.page.Header.PageID, "frame_id": fid}).WithError(err).Warn("evict: write-back failed")
			return util.InvalidFrameID, fmt.Errorf("evict frame %d: %w", fid, err)
		}
		f.dirty = false
		logging.WithFields(map[string]any{"page_id": f.page.Header.PageID, "frame_id": fid}).Info("evicted dirty page")
	}

	delete(inst.directory, f.page.Header.PageID)
	inst.evictions++
	return fid, nil
}

// allocatePIDLocked returns the next page id owned by this shard and
// advances the counter. Caller must hold inst.mu.
func (inst *Instance) allocatePIDLocked() util.PageID {
	pid := inst.nextPID
	inst.nextPID += util.PageID(inst.numShards)
	if int64(pid)%int64(inst.numShards) != int64(inst.shardIdx) {
		panic("allocated page id violates shard partition invariant")
	}
	return pid
}
