//go:build windows

package shm

import (
	"unsafe"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

// DefaultPath is the name the game gives its file mapping.
const DefaultPath = "$R3E"

var procOpenFileMapping = windows.NewLazySystemDLL("kernel32.dll").NewProc("OpenFileMappingW")

func openFileMapping(access uint32, name *uint16) (windows.Handle, error) {
	h, _, err := procOpenFileMapping.Call(uintptr(access), 0, uintptr(unsafe.Pointer(name)))
	if h == 0 {
		return 0, err
	}
	return windows.Handle(h), nil
}

type Reader struct {
	path string
	size int

	handle windows.Handle
	addr   uintptr
	data   []byte
}

// NewReader returns a Reader for the first size bytes of the file mapping
// called path. Nothing is opened until Open.
func NewReader(path string, size int) *Reader {
	return &Reader{path: path, size: size}
}

// Open maps a view of the named mapping. The mapping only exists while
// the game is running.
func (r *Reader) Open() error {
	if r.data != nil {
		return nil
	}
	if r.size <= 0 {
		return errors.Errorf("invalid record size %d", r.size)
	}

	name, err := windows.UTF16PtrFromString(r.path)
	if err != nil {
		return errors.Wrapf(err, "invalid mapping name %s", r.path)
	}
	h, err := openFileMapping(windows.FILE_MAP_READ, name)
	if err != nil {
		return errors.Wrapf(err, "unable to open mapping %s", r.path)
	}

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ, 0, 0, uintptr(r.size))
	if err != nil {
		windows.CloseHandle(h)
		return errors.Wrapf(err, "unable to map %s", r.path)
	}

	var info windows.MemoryBasicInformation
	if err := windows.VirtualQuery(addr, &info, unsafe.Sizeof(info)); err != nil {
		windows.UnmapViewOfFile(addr)
		windows.CloseHandle(h)
		return errors.Wrapf(err, "unable to query %s", r.path)
	}
	if info.RegionSize < uintptr(r.size) {
		windows.UnmapViewOfFile(addr)
		windows.CloseHandle(h)
		return errors.Errorf("%s is %d bytes, need %d", r.path, info.RegionSize, r.size)
	}

	r.handle = h
	r.addr = addr
	r.data = unsafe.Slice((*byte)(unsafe.Pointer(addr)), r.size)
	log.WithField("path", r.path).Info("shared memory mapped")
	return nil
}

// Close unmaps the view. It is safe to call on a Reader that is not open.
func (r *Reader) Close() error {
	var firstErr error
	if r.data != nil {
		if err := windows.UnmapViewOfFile(r.addr); err != nil {
			firstErr = errors.Wrapf(err, "unable to unmap %s", r.path)
		}
		r.data = nil
		r.addr = 0
	}
	if r.handle != 0 {
		if err := windows.CloseHandle(r.handle); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "unable to close %s", r.path)
		}
		r.handle = 0
	}
	return firstErr
}
