package otf

import (
	"sync"

	"go.uber.org/atomic"
)

// readBufSize comfortably covers the longest burst the filter produces,
// the progress stream of a running sweep.
const readBufSize = 256

// bufferPool manages reusable byte buffers for the reply reader.
type bufferPool struct {
	pool sync.Pool
	size int

	gets    atomic.Int64
	puts    atomic.Int64
	creates atomic.Int64
}

func newBufferPool(size int) *bufferPool {
	bp := &bufferPool{size: size}
	bp.pool = sync.Pool{
		New: func() interface{} {
			bp.creates.Inc()
			return make([]byte, size)
		},
	}
	return bp
}

func (bp *bufferPool) Get() []byte {
	bp.gets.Inc()
	return bp.pool.Get().([]byte)
}

func (bp *bufferPool) Put(buf []byte) {
	if cap(buf) != bp.size {
		return // don't pool incorrectly sized buffers
	}
	bp.puts.Inc()
	bp.pool.Put(buf[:bp.size])
}

func (bp *bufferPool) Stats() PoolStats {
	return PoolStats{
		Size:    bp.size,
		Gets:    bp.gets.Load(),
		Puts:    bp.puts.Load(),
		Creates: bp.creates.Load(),
	}
}

// PoolStats contains read buffer pool usage statistics.
type PoolStats struct {
	Size    int
	Gets    int64
	Puts    int64
	Creates int64
}

// HitRatio returns the pool cache hit ratio (0.0 to 1.0).
func (ps PoolStats) HitRatio() float64 {
	if ps.Gets == 0 {
		return 0.0
	}
	return 1.0 - (float64(ps.Creates) / float64(ps.Gets))
}

// readBufs is shared by every open device; a device holds at most one
// buffer at a time for the lifetime of its reader.
var readBufs = newBufferPool(readBufSize)

func getReadBuf() []byte  { return readBufs.Get() }
func putReadBuf(b []byte) { readBufs.Put(b) }

// ReadBufferStats exposes statistics of the shared read buffer pool.
func ReadBufferStats() PoolStats { return readBufs.Stats() }
