package util

import "errors"

var (
	ErrInvalidPageSize      = errors.New("invalid page size")
	ErrChecksumMismatch     = errors.New("checksum mismatch")
	ErrInvalidInitialPages  = errors.New("initial pages must be positive")
	ErrMaxMapSizeExceeded   = errors.New("mapping size exceeds maximum")
	ErrPageOutOfBounds      = errors.New("page out of bounds")
	ErrFileManagerNil       = errors.New("file manager is nil")
	ErrInvalidPoolSize      = errors.New("invalid pool size")
	ErrInvalidShardCount    = errors.New("invalid shard count")
	ErrInvalidShardIndex    = errors.New("shard index out of range")
	ErrOutOfBoundFrame      = errors.New("frame index out of bound")
	ErrFrameNotAllocated    = errors.New("frame is not allocated")
	ErrCapacityExhausted    = errors.New("every frame is pinned: no evictable frame")
	ErrPagePinned           = errors.New("page is pinned")
	ErrUnmatchedUnpin       = errors.New("unpin without a matching pin")
	ErrBucketFull           = errors.New("bucket has no free slot")
)
