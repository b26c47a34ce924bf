package file

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arraydb/buffercore/internal/storage/page"
	util "github.com/arraydb/buffercore/internal/utils"
)

func TestNewFileManager(t *testing.T) {
	tests := []struct {
		name          string
		initialPages  int
		expectedError error
		shouldSucceed bool
	}{
		{name: "valid creation with 1 page", initialPages: 1, shouldSucceed: true},
		{name: "valid creation with 10 pages", initialPages: 10, shouldSucceed: true},
		{name: "invalid negative pages", initialPages: -1, expectedError: util.ErrInvalidInitialPages},
		{name: "zero pages", initialPages: 0, expectedError: util.ErrInvalidInitialPages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempFile, cleanup := util.CreateTempFile(t)
			defer cleanup()

			fm, err := NewFileManager(tempFile, tt.initialPages)

			if tt.shouldSucceed {
				require.NoError(t, err)
				require.NotNil(t, fm)
				defer fm.Close()

				assert.Equal(t, int64(tt.initialPages)*int64(util.PageSize), fm.Size)
				_, statErr := os.Stat(tempFile)
				assert.NoError(t, statErr, "backing file should exist")
				return
			}

			assert.ErrorIs(t, err, tt.expectedError)
			assert.Nil(t, fm)
		})
	}
}

func TestWriteThenReadPage(t *testing.T) {
	tempFile, cleanup := util.CreateTempFile(t)
	defer cleanup()

	fm, err := NewFileManager(tempFile, 2)
	require.NoError(t, err)
	defer fm.Close()

	p := page.New(util.PageID(0))
	copy(p.Data[:5], []byte("hello"))
	require.NoError(t, fm.WritePage(p))

	got, err := fm.ReadPage(util.PageID(0))
	require.NoError(t, err)
	assert.Equal(t, p.Header.PageID, got.Header.PageID)
	assert.Equal(t, p.Data, got.Data)
}

func TestWritePageGrowsMapping(t *testing.T) {
	tempFile, cleanup := util.CreateTempFile(t)
	defer cleanup()

	fm, err := NewFileManager(tempFile, 1)
	require.NoError(t, err)
	defer fm.Close()

	farPage := page.New(util.PageID(50))
	require.NoError(t, fm.WritePage(farPage))
	assert.GreaterOrEqual(t, fm.Size, int64(51)*int64(util.PageSize))

	got, err := fm.ReadPage(util.PageID(50))
	require.NoError(t, err)
	assert.Equal(t, farPage.Header.PageID, got.Header.PageID)
}

func TestReadPageOutOfBounds(t *testing.T) {
	tempFile, cleanup := util.CreateTempFile(t)
	defer cleanup()

	fm, err := NewFileManager(tempFile, 1)
	require.NoError(t, err)
	defer fm.Close()

	_, err = fm.ReadPage(util.PageID(5))
	assert.ErrorIs(t, err, util.ErrPageOutOfBounds)
}

func TestCloseIsIdempotent(t *testing.T) {
	tempFile, cleanup := util.CreateTempFile(t)
	defer cleanup()

	fm, err := NewFileManager(tempFile, 1)
	require.NoError(t, err)
	assert.NoError(t, fm.Close())
	assert.NoError(t, fm.Close())
}
