package buffer

import util "github.com/arraydb/buffercore/internal/utils"

// Replacer is a bounded membership set over frame ids: the frames it holds
// are exactly the ones currently evictable (resident, unpinned). An
// Instance calls Insert when a frame's pin count falls to zero and Remove
// when a frame becomes pinned or is otherwise made ineligible.
//
// Implementations must be internally thread-safe and must never call back
// into an Instance or a disk manager while holding their own lock.
type Replacer interface {
	// Insert adds fid as the most-recently-evictable member. No-op if fid
	// is already present or the replacer is already at capacity.
	Insert(fid util.FrameID)
	// Remove deletes fid from the set if present; no-op otherwise.
	Remove(fid util.FrameID)
	// PickVictim removes and returns the next victim, or
	// (util.InvalidFrameID, false) if the set is empty.
	PickVictim() (util.FrameID, bool)
	// Size reports the current member count.
	Size() int
}
