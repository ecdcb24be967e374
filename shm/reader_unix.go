//go:build unix

package shm

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// DefaultPath is where the compatibility layer exposes the game's mapping.
const DefaultPath = "/dev/shm/$R3E"

type Reader struct {
	path string
	size int

	fd   int
	data []byte
}

// NewReader returns a Reader for the first size bytes of the file at path.
// Nothing is opened until Open.
func NewReader(path string, size int) *Reader {
	return &Reader{path: path, size: size, fd: -1}
}

// Open maps the file. The file must hold at least size bytes; the game
// creates it at full size, so a shorter file is not ready yet.
func (r *Reader) Open() error {
	if r.data != nil {
		return nil
	}
	if r.size <= 0 {
		return errors.Errorf("invalid record size %d", r.size)
	}

	fd, err := unix.Open(r.path, unix.O_RDONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", r.path)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return errors.Wrapf(err, "unable to stat %s", r.path)
	}
	if stat.Size < int64(r.size) {
		unix.Close(fd)
		return errors.Errorf("%s is %d bytes, need %d", r.path, stat.Size, r.size)
	}

	data, err := unix.Mmap(fd, 0, r.size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return errors.Wrapf(err, "unable to map %s", r.path)
	}

	r.fd = fd
	r.data = data
	log.WithField("path", r.path).Info("shared memory mapped")
	return nil
}

// Close unmaps the file. It is safe to call on a Reader that is not open.
func (r *Reader) Close() error {
	var firstErr error
	if r.data != nil {
		if err := unix.Munmap(r.data); err != nil {
			firstErr = errors.Wrapf(err, "unable to unmap %s", r.path)
		}
		r.data = nil
	}
	if r.fd >= 0 {
		if err := unix.Close(r.fd); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "unable to close %s", r.path)
		}
		r.fd = -1
	}
	return firstErr
}
