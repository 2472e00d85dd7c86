package otf

import (
	"context"
	"sync"
	"testing"
	"time"
)

// echoPort answers every command immediately with an empty reply frame
// for the same prefix, and discards the written bytes.
type echoPort struct {
	readCh chan []byte
	mu     sync.Mutex
	closed bool
}

func newEchoPort() *echoPort {
	return &echoPort{readCh: make(chan []byte, 16)}
}

func (e *echoPort) Read(p []byte) (int, error) {
	b, ok := <-e.readCh
	if !ok {
		return 0, context.Canceled
	}
	return copy(p, b), nil
}

func (e *echoPort) Write(p []byte) (int, error) {
	if len(p) > 0 {
		e.readCh <- []byte{p[0], replyTerminator}
	}
	return len(p), nil
}

func (e *echoPort) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		close(e.readCh)
		e.closed = true
	}
	return nil
}

func (e *echoPort) SetReadTimeout(d time.Duration) error { return nil }
func (e *echoPort) ResetInputBuffer() error              { return nil }
func (e *echoPort) ResetOutputBuffer() error             { return nil }

func BenchmarkSetChannel(b *testing.B) {
	d := newTestDevice(newEchoPort())
	defer d.Close()

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.SetChannel(ctx, 1550.4); err != nil {
			b.Fatalf("SetChannel error: %v", err)
		}
	}
}

func BenchmarkFormatCommand(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = formatCommand(cmdCoarse, 1550)
	}
}
