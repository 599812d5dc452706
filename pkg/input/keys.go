package input

import (
	"bufio"
	"context"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/relay.go/pkg/framework"
)

// Keys emulates an encoder from a byte stream (e.g. a terminal):
// '+' or '=' rotates forward, '-' or '_' rotates backward, space or
// 'b' presses and releases the button. Other bytes are ignored.
type Keys struct {
	Reader io.Reader
}

// NewKeys creates Keys reading from r.
func NewKeys(r io.Reader) *Keys {
	return &Keys{Reader: r}
}

// Decode maps one key to its events.
func Decode(b byte) []*Event {
	switch b {
	case '+', '=':
		return []*Event{{Delta: 1}}
	case '-', '_':
		return []*Event{{Delta: -1}}
	case ' ', 'b':
		return []*Event{{Button: ButtonPressed}, {Button: ButtonReleased}}
	}
	return nil
}

// Run implements Runnable.
func (k *Keys) Run(ctx context.Context) error {
	ctl := fx.LoopCtlFrom(ctx)
	keyCh, errCh := make(chan byte), make(chan error, 1)
	go func() {
		r := bufio.NewReader(k.Reader)
		for {
			b, err := r.ReadByte()
			if err != nil {
				errCh <- err
				return
			}
			select {
			case keyCh <- b:
			case <-ctx.Done():
				return
			}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			if err == io.EOF {
				glog.Info("key input closed")
				<-ctx.Done()
				return ctx.Err()
			}
			return err
		case b := <-keyCh:
			if events := Decode(b); len(events) > 0 {
				post(ctl, events...)
			}
		}
	}
}
