//go:build !windows

package file

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/arraydb/buffercore/internal/logging"
	util "github.com/arraydb/buffercore/internal/utils"
)

// mmap maps size bytes of fm.File, growing the file first if needed.
func mmap(fm *FileManager, size int64) error {
	if fm.File == nil {
		return util.ErrFileManagerNil
	}
	if err := validateMapSize(size); err != nil {
		return err
	}
	if err := growFile(fm.File, size); err != nil {
		return err
	}

	data, err := unix.Mmap(int(fm.File.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		logging.WithFields(map[string]any{"size": size}).WithError(err).Warn("mmap failed")
		return fmt.Errorf("mmap: %w", err)
	}

	fm.Data = data
	fm.Size = size
	return nil
}

// munmap unmaps fm's current mapping, if any.
func munmap(fm *FileManager) error {
	if fm.File == nil {
		return util.ErrFileManagerNil
	}
	if fm.Data == nil {
		return nil
	}

	if err := unix.Munmap(fm.Data); err != nil {
		logging.WithFields(map[string]any{"size": fm.Size}).WithError(err).Warn("munmap failed")
		return fmt.Errorf("munmap: %w", err)
	}

	fm.Data = nil
	fm.Size = 0
	return nil
}
