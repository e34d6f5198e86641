package source

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/Geun-Oh/logix/internal/buffer"
)

// pump turns a blocking io.Reader into a timeout-bounded byte source.
// A goroutine reads pooled chunks onto a channel; Read drains them and
// hands each chunk back once it is consumed.
type pump struct {
	ch   chan *[]byte
	cur  *[]byte // chunk being drained
	off  int
	done chan struct{}

	mu  sync.Mutex
	err error
}

func newPump() *pump {
	return &pump{
		ch:   make(chan *[]byte, 256),
		done: make(chan struct{}),
	}
}

// run reads r until it fails or ctx is cancelled, then closes the channel.
// When next is set it is called after io.EOF to decide whether to keep
// polling (tail -f).
func (p *pump) run(ctx context.Context, r io.Reader, next func(ctx context.Context) bool) {
	defer close(p.ch)

	for {
		buf := buffer.GetChunk()
		n, err := r.Read(*buf)
		if n > 0 {
			*buf = (*buf)[:n]
			select {
			case p.ch <- buf:
			case <-ctx.Done():
				buffer.PutChunk(buf)
				return
			case <-p.done:
				buffer.PutChunk(buf)
				return
			}
		} else {
			buffer.PutChunk(buf)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) && next != nil && next(ctx) {
			continue
		}
		p.setErr(err)
		return
	}
}

func (p *pump) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// Err returns the error that stopped the reader, if any.
func (p *pump) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Read copies pending bytes into b, waiting at most timeout for the first
// chunk. After the reader stops it returns io.EOF or the reader's error.
func (p *pump) Read(b []byte, timeout time.Duration) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	if p.cur == nil {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case chunk, ok := <-p.ch:
			if !ok {
				return 0, p.stopErr()
			}
			p.cur, p.off = chunk, 0
		case <-timer.C:
			return 0, nil
		}
	}

	n := p.drain(b)

	// Top up from chunks that are already waiting, without blocking.
	for n < len(b) {
		select {
		case chunk, ok := <-p.ch:
			if !ok {
				return n, nil
			}
			p.cur, p.off = chunk, 0
			n += p.drain(b[n:])
		default:
			return n, nil
		}
	}
	return n, nil
}

// drain copies from the current chunk and recycles it once used up.
func (p *pump) drain(b []byte) int {
	n := copy(b, (*p.cur)[p.off:])
	p.off += n
	if p.off == len(*p.cur) {
		buffer.PutChunk(p.cur)
		p.cur = nil
	}
	return n
}

func (p *pump) stopErr() error {
	if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return io.EOF
}

// stop asks the reader goroutine to exit.
func (p *pump) stop() {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
}
