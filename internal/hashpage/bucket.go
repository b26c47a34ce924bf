// Package hashpage implements the on-page hash bucket: a fixed-capacity
// associative array occupying exactly one page, with two parallel bitmaps
// tracking slot occupancy and liveness. The buffer pool is the substrate
// that hands out pages of this shape; the bucket's capacity is derived
// from a page-size budget the same way a generic page entry's footprint
// is derived by unsafe.Sizeof elsewhere in this corpus.
package hashpage

import (
	"fmt"
	"unsafe"

	util "github.com/arraydb/buffercore/internal/utils"
)

// entry is one (key, value) slot.
type entry[K comparable, V comparable] struct {
	key   K
	value V
}

// Bucket is the associative array. K and V must be fixed-size comparable
// types (ints, fixed-size arrays/structs of those) so the bucket's
// capacity can be derived from their in-memory size and, if needed, its
// contents reinterpreted as raw page bytes.
type Bucket[K comparable, V comparable] struct {
	occupied []byte
	readable []byte
	slots    []entry[K, V]
	capacity int
}

// New derives the bucket's capacity (BUCKET_ARRAY_SIZE) from pageSize and
// the sizes of K and V, the same budget the original fixed-size template
// instantiation computed at compile time.
func New[K comparable, V comparable](pageSize int) *Bucket[K, V] {
	var e entry[K, V]
	slotSize := int(unsafe.Sizeof(e))

	// Each slot costs slotSize bytes plus 2 bitmap bits (occupied, readable).
	capacity := (pageSize * 8) / (8*slotSize + 2)
	if capacity <= 0 {
		panic(util.ErrInvalidPageSize)
	}

	bitmapBytes := (capacity + 7) / 8
	return &Bucket[K, V]{
		occupied: make([]byte, bitmapBytes),
		readable: make([]byte, bitmapBytes),
		slots:    make([]entry[K, V], capacity),
		capacity: capacity,
	}
}

// Capacity returns B, the bucket's fixed slot count.
func (b *Bucket[K, V]) Capacity() int {
	return b.capacity
}

// Get appends every value whose slot is readable and whose key equals
// key, scanning in ascending slot order. Returns true iff at least one
// value was appended.
func (b *Bucket[K, V]) Get(key K) ([]V, bool) {
	var result []V
	for i := 0; i < b.capacity; i++ {
		if !b.isReadable(i) {
			continue
		}
		if b.slots[i].key == key {
			result = append(result, b.slots[i].value)
		}
	}
	return result, len(result) > 0
}

// Insert places (key, value) in the lowest-indexed non-readable slot.
// Returns an error if an equal (key, value) pair is already readable, or
// util.ErrBucketFull if the bucket has no free slot.
func (b *Bucket[K, V]) Insert(key K, value V) error {
	insertIdx := -1
	for i := 0; i < b.capacity; i++ {
		if !b.isReadable(i) {
			if insertIdx == -1 {
				insertIdx = i
			}
			continue
		}
		if b.slots[i].key == key && b.slots[i].value == value {
			return fmt.Errorf("insert (%v, %v): pair already readable", key, value)
		}
	}
	if insertIdx == -1 {
		return util.ErrBucketFull
	}

	b.slots[insertIdx] = entry[K, V]{key: key, value: value}
	b.setOccupied(insertIdx)
	b.setReadable(insertIdx)
	return nil
}

// Remove clears the readable bit of the first readable slot whose
// (key, value) pair equals the arguments. occupied is left untouched.
func (b *Bucket[K, V]) Remove(key K, value V) bool {
	for i := 0; i < b.capacity; i++ {
		if !b.isReadable(i) {
			continue
		}
		if b.slots[i].key == key && b.slots[i].value == value {
			b.clearReadable(i)
			return true
		}
	}
	return false
}

// KeyAt returns the key stored at i if readable, else the zero value.
func (b *Bucket[K, V]) KeyAt(i int) K {
	if !b.isReadable(i) {
		var zero K
		return zero
	}
	return b.slots[i].key
}

// ValueAt returns the value stored at i if readable, else the zero value.
func (b *Bucket[K, V]) ValueAt(i int) V {
	if !b.isReadable(i) {
		var zero V
		return zero
	}
	return b.slots[i].value
}

// IsOccupied reports whether slot i has ever been written.
func (b *Bucket[K, V]) IsOccupied(i int) bool {
	return b.occupied[i/8]&(1<<(uint(i)%8)) != 0
}

// IsReadable reports whether slot i currently holds a live pair.
func (b *Bucket[K, V]) IsReadable(i int) bool {
	return b.isReadable(i)
}

// IsFull reports whether every slot is readable.
func (b *Bucket[K, V]) IsFull() bool {
	return b.NumReadable() == b.capacity
}

// IsEmpty reports whether no slot is readable.
func (b *Bucket[K, V]) IsEmpty() bool {
	return b.NumReadable() == 0
}

// NumReadable is the population count of the readable bitmap over the
// first b.capacity bits.
func (b *Bucket[K, V]) NumReadable() int {
	n := 0
	for i := 0; i < b.capacity; i++ {
		if b.isReadable(i) {
			n++
		}
	}
	return n
}

func (b *Bucket[K, V]) isReadable(i int) bool {
	return b.readable[i/8]&(1<<(uint(i)%8)) != 0
}

func (b *Bucket[K, V]) setOccupied(i int) {
	b.occupied[i/8] |= 1 << (uint(i) % 8)
}

func (b *Bucket[K, V]) setReadable(i int) {
	b.readable[i/8] |= 1 << (uint(i) % 8)
}

func (b *Bucket[K, V]) clearReadable(i int) {
	b.readable[i/8] &^= 1 << (uint(i) % 8)
}
