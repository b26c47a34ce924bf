//go:build windows

package file

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/arraydb/buffercore/internal/logging"
	util "github.com/arraydb/buffercore/internal/utils"
)

// Win32 mapping via CreateFileMapping/MapViewOfFile, the same approach
// bbolt uses on Windows since os.File has no direct mmap equivalent there.

func mmap(fm *FileManager, size int64) (err error) {
	if fm.File == nil {
		return util.ErrFileManagerNil
	}
	if err := validateMapSize(size); err != nil {
		return err
	}
	if err := growFile(fm.File, size); err != nil {
		return err
	}

	handle, err := syscall.CreateFileMapping(
		syscall.Handle(fm.File.Fd()), nil, syscall.PAGE_READWRITE,
		uint32(size>>32), uint32(size), nil,
	)
	if err != nil {
		logging.WithFields(map[string]any{"size": size}).WithError(err).Warn("CreateFileMapping failed")
		return fmt.Errorf("create mapping: %w", err)
	}
	defer func() {
		if cerr := syscall.CloseHandle(handle); cerr != nil && err == nil {
			logging.WithFields(map[string]any{"size": size}).WithError(cerr).Warn("CloseHandle failed after mapping view")
			err = fmt.Errorf("close mapping handle: %w", cerr)
		}
	}()

	ptr, verr := syscall.MapViewOfFile(handle, syscall.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if verr != nil {
		logging.WithFields(map[string]any{"size": size}).WithError(verr).Warn("MapViewOfFile failed")
		return fmt.Errorf("map view: %w", verr)
	}

	fm.Data = (*[util.MaxMapSize]byte)(unsafe.Pointer(ptr))[:size:size]
	fm.Size = size
	return nil
}

func munmap(fm *FileManager) error {
	if fm.File == nil {
		return util.ErrFileManagerNil
	}
	if fm.Data == nil {
		return nil
	}

	viewAddr := uintptr(unsafe.Pointer(&fm.Data[0]))
	mappedSize := fm.Size
	fm.Data = nil
	fm.Size = 0

	if err := syscall.UnmapViewOfFile(viewAddr); err != nil {
		logging.WithFields(map[string]any{"size": mappedSize}).WithError(err).Warn("UnmapViewOfFile failed")
		return fmt.Errorf("unmap: %w", err)
	}
	return nil
}
