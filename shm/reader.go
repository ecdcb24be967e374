// Package shm reads the simulator's shared memory record through a read
// only memory map. On Windows the record is a named file mapping; on Linux
// it is exposed as a file, usually under /dev/shm, by the compatibility
// layer running the game.
package shm

import (
	"runtime/debug"

	"github.com/pkg/errors"
)

var ErrNotOpen = errors.New("shared memory is not mapped")

func (r *Reader) Name() string {
	return "shm " + r.path
}

// Read returns a copy of the record as currently mapped. The game writes
// without any locking so a copy may be torn; the next poll replaces it.
func (r *Reader) Read() (b []byte, err error) {
	if r.data == nil {
		return nil, ErrNotOpen
	}

	// a truncated or unmapped backing store faults on access
	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)
		if rec := recover(); rec != nil {
			b = nil
			err = errors.Errorf("fault reading %s: %v", r.path, rec)
		}
	}()

	b = make([]byte, len(r.data))
	copy(b, r.data)
	return b, nil
}
