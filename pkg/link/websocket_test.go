package link

import (
	"context"
	"io"
	"io/ioutil"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func TestWebsocketSource(t *testing.T) {
	srv := httptest.NewServer(websocket.Handler(func(ws *websocket.Conn) {
		for _, msg := range []string{"a,b,c\r\n", "\r\n", "d,e,f"} {
			if err := websocket.Message.Send(ws, msg); err != nil {
				return
			}
		}
		io.Copy(ioutil.Discard, ws)
	}))
	defer srv.Close()

	frames := make(chan string, 4)
	src := NewWebsocketSource("ws://"+strings.TrimPrefix(srv.URL, "http://"),
		HandleFrameFunc(func(ctx context.Context, frame []byte) {
			frames <- string(frame)
		}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- src.Run(ctx) }()

	var got []string
	for len(got) < 2 {
		select {
		case frame := <-frames:
			got = append(got, frame)
		case <-time.After(2 * time.Second):
			t.Fatalf("received %v", got)
		}
	}
	require.Equal(t, []string{"a,b,c", "d,e,f"}, got)
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
	require.Empty(t, frames)
}

func TestWebsocketSourceDialError(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := "ws://" + strings.TrimPrefix(srv.URL, "http://")
	srv.Close()
	require.Error(t, NewWebsocketSource(url, HandleFrameFunc(func(context.Context, []byte) {})).Run(context.Background()))
}
