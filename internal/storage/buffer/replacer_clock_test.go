package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	util "github.com/arraydb/buffercore/internal/utils"
)

func TestClockReplacerSkipsReferencedFrames(t *testing.T) {
	c := NewClockReplacer(3)
	c.Insert(0)
	c.Insert(1)
	c.Insert(2)
	assert.Equal(t, 3, c.Size())

	// Every member still has its reference bit set from Insert; the first
	// sweep only clears bits, the second sweep evicts.
	fid, ok := c.PickVictim()
	assert.True(t, ok)
	assert.Contains(t, []util.FrameID{0, 1, 2}, fid)
	assert.Equal(t, 2, c.Size())
}

func TestClockReplacerRemoveDropsMembership(t *testing.T) {
	c := NewClockReplacer(2)
	c.Insert(0)
	c.Insert(1)
	c.Remove(0)
	assert.Equal(t, 1, c.Size())

	fid, ok := c.PickVictim()
	assert.True(t, ok)
	assert.Equal(t, util.FrameID(1), fid)
}

func TestClockReplacerEmptyPickVictim(t *testing.T) {
	c := NewClockReplacer(2)
	_, ok := c.PickVictim()
	assert.False(t, ok)
}

func TestClockReplacerDrainsAllMembers(t *testing.T) {
	c := NewClockReplacer(4)
	for i := util.FrameID(0); i < 4; i++ {
		c.Insert(i)
	}

	seen := map[util.FrameID]bool{}
	for i := 0; i < 4; i++ {
		fid, ok := c.PickVictim()
		assert.True(t, ok)
		seen[fid] = true
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, 0, c.Size())
}
