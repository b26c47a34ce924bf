package hashpage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	util "github.com/arraydb/buffercore/internal/utils"
)

func smallBucket(t *testing.T) *Bucket[int64, int64] {
	t.Helper()
	// A slot is 16 bytes (two int64s); budget a page just large enough
	// for a handful of slots so IsFull is reachable in tests.
	b := New[int64, int64](64)
	require.Greater(t, b.Capacity(), 1)
	return b
}

func TestInsertGetRemoveScenario(t *testing.T) {
	b := smallBucket(t)

	assert.NoError(t, b.Insert(1, 10))
	assert.NoError(t, b.Insert(1, 20))
	assert.NoError(t, b.Insert(2, 10))

	values, found := b.Get(1)
	require.True(t, found)
	assert.Equal(t, []int64{10, 20}, values, "scan order is ascending by slot index")

	assert.Error(t, b.Insert(1, 10), "duplicate (key, value) pair already readable")

	assert.True(t, b.Remove(1, 10))
	values, found = b.Get(1)
	require.True(t, found)
	assert.Equal(t, []int64{20}, values)

	assert.Equal(t, 2, b.NumReadable())
}

func TestRemoveMissingPairFails(t *testing.T) {
	b := smallBucket(t)
	require.NoError(t, b.Insert(1, 1))
	assert.False(t, b.Remove(1, 999))
	assert.False(t, b.Remove(999, 1))
}

func TestOccupiedIsTombstonePreserving(t *testing.T) {
	b := smallBucket(t)
	require.NoError(t, b.Insert(1, 1))
	require.True(t, b.Remove(1, 1))

	assert.True(t, b.IsOccupied(0), "occupied bit survives removal")
	assert.False(t, b.IsReadable(0))
}

func TestIsFullAndIsEmpty(t *testing.T) {
	b := smallBucket(t)
	assert.True(t, b.IsEmpty())
	assert.False(t, b.IsFull())

	for i := 0; i < b.Capacity(); i++ {
		assert.NoError(t, b.Insert(int64(i), int64(i)))
	}

	assert.True(t, b.IsFull())
	assert.False(t, b.IsEmpty())
	assert.Equal(t, b.Capacity(), b.NumReadable())
}

func TestInsertFailsWhenBucketFull(t *testing.T) {
	b := smallBucket(t)
	for i := 0; i < b.Capacity(); i++ {
		require.NoError(t, b.Insert(int64(i), int64(i)))
	}
	assert.ErrorIs(t, b.Insert(int64(1000), int64(1000)), util.ErrBucketFull)
}

func TestKeyAtValueAtReturnZeroWhenNotReadable(t *testing.T) {
	b := smallBucket(t)
	assert.Equal(t, int64(0), b.KeyAt(0))
	assert.Equal(t, int64(0), b.ValueAt(0))

	require.NoError(t, b.Insert(7, 9))
	assert.Equal(t, int64(7), b.KeyAt(0))
	assert.Equal(t, int64(9), b.ValueAt(0))
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	b := smallBucket(t)
	require.NoError(t, b.Insert(1, 10))
	require.NoError(t, b.Insert(2, 20))
	require.True(t, b.Remove(1, 10))

	buf := b.Serialize()
	restored := Deserialize[int64, int64](buf, b.Capacity())

	assert.Equal(t, b.NumReadable(), restored.NumReadable())
	assert.True(t, restored.IsOccupied(0), "tombstone survives round trip")
	assert.False(t, restored.IsReadable(0))
	values, found := restored.Get(2)
	require.True(t, found)
	assert.Equal(t, []int64{20}, values)
}
