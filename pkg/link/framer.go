package link

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/golang/glog"
)

// Framer defaults.
const (
	DefaultTerminator byte = '\n'
	DefaultMaxLength       = 255
)

// Framer cuts a byte stream into frames at a terminator byte.
// A trailing '\r' is removed. Frames longer than MaxLength are dropped
// up to the next terminator. When IdleTimeout is set, a partial frame
// followed by that much silence is emitted as a frame, for radios that
// mark packet boundaries by gaps rather than terminators.
type Framer struct {
	Reader      io.Reader
	Handler     FrameHandler
	Terminator  byte
	MaxLength   int
	IdleTimeout time.Duration

	buf      []byte
	overflow bool
}

// NewFramer creates a Framer with defaults.
func NewFramer(r io.Reader, h FrameHandler) *Framer {
	return &Framer{
		Reader:     r,
		Handler:    h,
		Terminator: DefaultTerminator,
		MaxLength:  DefaultMaxLength,
	}
}

// Feed consumes bytes and emits every completed frame.
func (f *Framer) Feed(ctx context.Context, p []byte) {
	for _, b := range p {
		if b == f.Terminator {
			if f.overflow {
				glog.Warningf("dropped frame longer than %d bytes", f.MaxLength)
			} else {
				f.emit(ctx)
			}
			f.buf, f.overflow = f.buf[:0], false
			continue
		}
		if f.overflow {
			continue
		}
		if f.MaxLength > 0 && len(f.buf) >= f.MaxLength {
			f.overflow = true
			continue
		}
		f.buf = append(f.buf, b)
	}
}

// Flush emits a pending partial frame.
func (f *Framer) Flush(ctx context.Context) {
	if len(f.buf) > 0 && !f.overflow {
		f.emit(ctx)
	}
	f.buf, f.overflow = f.buf[:0], false
}

func (f *Framer) emit(ctx context.Context) {
	frame := f.buf
	if n := len(frame); n > 0 && frame[n-1] == '\r' {
		frame = frame[:n-1]
	}
	if len(frame) == 0 {
		return
	}
	out := make([]byte, len(frame))
	copy(out, frame)
	f.Handler.HandleFrame(ctx, out)
}

// Run implements Runnable. io.EOF ends the run without error after a
// final flush.
func (f *Framer) Run(ctx context.Context) error {
	chunkCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go f.readLoop(subCtx, chunkCh, errCh)

	var idleTimer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if closer, ok := f.Reader.(io.Closer); ok {
				closer.Close()
			}
			return ctx.Err()
		case chunk := <-chunkCh:
			if len(chunk) == 0 {
				// read timeout on the port.
				continue
			}
			f.Feed(ctx, chunk)
			if f.IdleTimeout > 0 && len(f.buf) > 0 {
				idleTimer = time.After(f.IdleTimeout)
			} else {
				idleTimer = nil
			}
		case <-idleTimer:
			idleTimer = nil
			f.Flush(ctx)
		case err := <-errCh:
			if err == io.EOF {
				f.Flush(ctx)
				return nil
			}
			return err
		}
	}
}

func (f *Framer) readLoop(ctx context.Context, chunkCh chan []byte, errCh chan error) {
	buf := make([]byte, 256)
	for {
		n, err := f.Reader.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case chunkCh <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			if os.IsTimeout(err) {
				continue
			}
			errCh <- err
			return
		}
		if n == 0 {
			select {
			case chunkCh <- nil:
			case <-ctx.Done():
				return
			}
		}
	}
}
