// Package wal holds the log manager collaborator. Its durability ordering
// is out of scope for the buffer pool core: the pool only needs a handle to
// pass through construction so call sites exist for later integration.
package wal

// Manager is the opaque log manager collaborator. The buffer pool never
// inspects its contents; it only holds a reference.
type Manager interface {
	// Append records a log record and returns its assigned LSN.
	Append(record []byte) (lsn uint64, err error)
}

// NoopManager is a Manager that discards everything, used by tests and the
// demo binary where no log manager is wired up yet.
type NoopManager struct{}

func (NoopManager) Append(record []byte) (uint64, error) { return 0, nil }
