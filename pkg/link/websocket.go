package link

import (
	"bytes"
	"context"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/relay.go/pkg/framework"
)

// WebsocketSource receives one frame per websocket message, e.g. from a
// LoRa gateway's packet forwarder bridge.
type WebsocketSource struct {
	URL     string
	Origin  string
	Handler FrameHandler
}

// NewWebsocketSource creates a WebsocketSource.
func NewWebsocketSource(url string, h FrameHandler) *WebsocketSource {
	return &WebsocketSource{URL: url, Origin: "http://localhost/", Handler: h}
}

// Run implements Runnable.
func (s *WebsocketSource) Run(ctx context.Context) error {
	conn, err := websocket.Dial(s.URL, "", s.Origin)
	if err != nil {
		return err
	}
	glog.Infof("websocket %s connected", s.URL)
	return fx.RunWithContextCloser(ctx, conn, func() error {
		for {
			var msg []byte
			if err := websocket.Message.Receive(conn, &msg); err != nil {
				return err
			}
			if frame := bytes.TrimRight(msg, "\r\n"); len(frame) > 0 {
				s.Handler.HandleFrame(ctx, frame)
			}
		}
	})
}
