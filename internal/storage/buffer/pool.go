package buffer

import (
	"sync/atomic"

	"github.com/arraydb/buffercore/internal/storage/file"
	"github.com/arraydb/buffercore/internal/storage/page"
	"github.com/arraydb/buffercore/internal/storage/wal"
	util "github.com/arraydb/buffercore/internal/utils"
)

// Pool is the sharded aggregation of N independent Instances, routing
// every page-id operation to instances[pid mod N] so distinct shards make
// progress without mutual contention.
type Pool struct {
	instances []*Instance
	poolSize  int // P, frames per instance

	// cursor drives round-robin Create fairness across calls; advanced
	// without any lock of the Pool's own, per spec.
	cursor atomic.Uint32
}

// NewPool builds an N-way pool, each instance holding poolSize frames,
// sharing one disk manager and one log manager.
func NewPool(numInstances, poolSize int, disk file.Manager, logMgr wal.Manager) *Pool {
	if numInstances <= 0 {
		panic(util.ErrInvalidShardCount)
	}

	p := &Pool{
		instances: make([]*Instance, numInstances),
		poolSize:  poolSize,
	}
	for i := range p.instances {
		p.instances[i] = NewShardedInstance(poolSize, uint32(numInstances), uint32(i), disk, logMgr, NewLRUReplacer(poolSize))
	}
	return p
}

// PoolSize returns the aggregate frame count across every instance
// (N*P) — the spec's mandated external meaning, as opposed to a single
// instance's per-shard capacity.
func (p *Pool) PoolSize() int {
	return len(p.instances) * p.poolSize
}

// NumInstances returns the shard count N.
func (p *Pool) NumInstances() int {
	return len(p.instances)
}

// Instance returns the shard responsible for pid.
func (p *Pool) Instance(pid util.PageID) *Instance {
	return p.instances[p.shardOf(pid)]
}

func (p *Pool) shardOf(pid util.PageID) int {
	n := int64(len(p.instances))
	idx := int64(pid) % n
	if idx < 0 {
		idx += n
	}
	return int(idx)
}

// Fetch routes to the owning shard.
func (p *Pool) Fetch(pid util.PageID) (*page.Page, bool) {
	return p.Instance(pid).Fetch(pid)
}

// Unpin routes to the owning shard.
func (p *Pool) Unpin(pid util.PageID, dirty bool) error {
	return p.Instance(pid).Unpin(pid, dirty)
}

// Flush routes to the owning shard.
func (p *Pool) Flush(pid util.PageID) error {
	return p.Instance(pid).Flush(pid)
}

// DeletePage routes to the owning shard.
func (p *Pool) DeletePage(pid util.PageID) error {
	return p.Instance(pid).DeletePage(pid)
}

// FlushAll flushes every instance.
func (p *Pool) FlushAll() {
	for _, inst := range p.instances {
		inst.FlushAll()
	}
}

// Create allocates a new page from one of the instances, trying them in
// round-robin order starting from a rotating cursor so repeated calls
// spread fairly across shards. Returns ok=false only if every instance
// refused; an instance refuses when all its frames are pinned or when
// writing back its dirty victim fails.
func (p *Pool) Create() (pid util.PageID, p2 *page.Page, ok bool) {
	n := uint32(len(p.instances))
	start := p.cursor.Add(1) - 1

	for i := uint32(0); i < n; i++ {
		idx := (start + i) % n
		if pid, pg, created := p.instances[idx].Create(); created {
			return pid, pg, true
		}
	}
	return util.InvalidPageID, nil, false
}
