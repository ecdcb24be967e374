package simdash

// Source produces raw shared memory snapshots.
type Source interface {
	Open() error
	Close() error
	Read() ([]byte, error)
	Name() string
}

// Forwarder receives every payload that differs from the one before it.
type Forwarder interface {
	Forward(payload []byte) error
	Name() string
}
