package main

import (
	"fmt"
	"os"

	"github.com/arraydb/buffercore/internal/logging"
	"github.com/arraydb/buffercore/internal/storage/buffer"
	"github.com/arraydb/buffercore/internal/storage/file"
	"github.com/arraydb/buffercore/internal/storage/wal"
)

func main() {
	path := "arraydb-demo.dat"
	defer os.Remove(path)

	fm, err := file.NewFileManager(path, 16)
	if err != nil {
		logging.Log.WithError(err).Fatal("open file manager")
	}
	defer fm.Close()

	pool := buffer.NewPool(4, 8, fm, wal.NoopManager{})

	pid, p, ok := pool.Create()
	if !ok {
		logging.Log.Fatal("pool exhausted on first create")
	}
	copy(p.Data[:11], []byte("hello world"))
	if err := pool.Unpin(pid, true); err != nil {
		logging.Log.WithError(err).Fatal("unpin after create")
	}

	if err := pool.Flush(pid); err != nil {
		logging.Log.WithError(err).Fatal("flush")
	}

	fetched, ok := pool.Fetch(pid)
	if !ok {
		logging.Log.Fatal("fetch failed")
	}
	fmt.Printf("page %d: %q\n", pid, string(fetched.Data[:11]))
	if err := pool.Unpin(pid, false); err != nil {
		logging.Log.WithError(err).Fatal("unpin after fetch")
	}

	fmt.Printf("aggregate pool size: %d frames across %d shards\n", pool.PoolSize(), pool.NumInstances())
}
