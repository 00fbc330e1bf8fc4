package memory

import (
	"hash/fnv"
	"sync"
)

const lockShards = 64

// lockTable serializes writers per key. Keys that hash to different shards
// never block each other.
type lockTable struct {
	shards [lockShards]sync.Mutex
}

func (t *lockTable) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &t.shards[h.Sum32()%lockShards]
	m.Lock()
	return m.Unlock
}
