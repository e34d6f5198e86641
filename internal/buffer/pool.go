package buffer

import "sync"

// ChunkSize is the length of pooled read buffers.
const ChunkSize = 4096

// chunkPool holds reusable read buffers so stream readers do not allocate
// a fresh slice for every read.
var chunkPool = &sync.Pool{
	New: func() interface{} {
		b := make([]byte, ChunkSize)
		return &b
	},
}

// GetChunk retrieves a read buffer of ChunkSize bytes from the pool.
func GetChunk() *[]byte {
	b := chunkPool.Get().(*[]byte)
	*b = (*b)[:ChunkSize]
	return b
}

// PutChunk returns a buffer to the pool. The caller must not use it afterwards.
func PutChunk(b *[]byte) {
	if b == nil || cap(*b) < ChunkSize {
		return
	}
	chunkPool.Put(b)
}
