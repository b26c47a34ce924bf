package hashpage

import "unsafe"

// Serialize returns the bit-exact on-page layout: occupied bitmap,
// readable bitmap, then the slot array, with no padding beyond the
// trailing bytes a caller pads out to a full page. The bucket's
// persistent identity is exactly these bytes.
func (b *Bucket[K, V]) Serialize() []byte {
	var e entry[K, V]
	slotSize := int(unsafe.Sizeof(e))

	buf := make([]byte, len(b.occupied)+len(b.readable)+b.capacity*slotSize)
	off := copy(buf, b.occupied)
	off += copy(buf[off:], b.readable)

	for i := range b.slots {
		src := unsafe.Slice((*byte)(unsafe.Pointer(&b.slots[i])), slotSize)
		copy(buf[off:], src)
		off += slotSize
	}
	return buf
}

// Deserialize rebuilds a Bucket from bytes previously produced by
// Serialize for the same K, V, and capacity.
func Deserialize[K comparable, V comparable](data []byte, capacity int) *Bucket[K, V] {
	bitmapBytes := (capacity + 7) / 8
	b := &Bucket[K, V]{
		occupied: make([]byte, bitmapBytes),
		readable: make([]byte, bitmapBytes),
		slots:    make([]entry[K, V], capacity),
		capacity: capacity,
	}

	off := copy(b.occupied, data[:bitmapBytes])
	off += copy(b.readable, data[bitmapBytes:2*bitmapBytes])

	var e entry[K, V]
	slotSize := int(unsafe.Sizeof(e))
	for i := range b.slots {
		dst := unsafe.Slice((*byte)(unsafe.Pointer(&b.slots[i])), slotSize)
		copy(dst, data[off:off+slotSize])
		off += slotSize
	}
	return b
}
