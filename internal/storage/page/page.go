// Package page defines the fixed-size on-disk page format: a small header
// (page id plus an integrity checksum) followed by a payload that fills
// out the rest of the page.
package page

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	util "github.com/arraydb/buffercore/internal/utils"
)

// HeaderSize is the size of the serialized PageHeader: PageID(8) + Checksum(8).
const HeaderSize = 16

// Page is the unit read from and written to disk.
type Page struct {
	Header PageHeader
	Data   [util.PageSize - HeaderSize]byte
}

// PageHeader carries everything about a page that isn't payload.
type PageHeader struct {
	PageID   util.PageID
	Checksum uint64
}

// New returns a zeroed page stamped with pid.
func New(pid util.PageID) *Page {
	return &Page{Header: PageHeader{PageID: pid}}
}

// Reset zeroes the payload and clears the page id, turning the page back
// into the "holds nothing meaningful" state a freed frame must have.
func (p *Page) Reset() {
	p.Header = PageHeader{PageID: util.InvalidPageID}
	for i := range p.Data {
		p.Data[i] = 0
	}
}

// Serialize packs the page into a fresh PageSize-length buffer, stamping a
// checksum of the payload into the header as it goes.
func (p *Page) Serialize() []byte {
	buf := make([]byte, util.PageSize)
	checksum := xxhash.Sum64(p.Data[:])
	binary.LittleEndian.PutUint64(buf[0:8], uint64(p.Header.PageID))
	binary.LittleEndian.PutUint64(buf[8:16], checksum)
	copy(buf[HeaderSize:], p.Data[:])
	return buf
}

// Deserialize unpacks a PageSize-length buffer, verifying the checksum
// against the payload it was computed over.
func Deserialize(data []byte) (*Page, error) {
	if len(data) != util.PageSize {
		return nil, util.ErrInvalidPageSize
	}

	p := &Page{}
	p.Header.PageID = util.PageID(binary.LittleEndian.Uint64(data[0:8]))
	p.Header.Checksum = binary.LittleEndian.Uint64(data[8:16])
	copy(p.Data[:], data[HeaderSize:])

	if got := xxhash.Sum64(p.Data[:]); got != p.Header.Checksum {
		return nil, util.ErrChecksumMismatch
	}
	return p, nil
}
