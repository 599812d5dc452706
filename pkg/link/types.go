package link

import "context"

// FrameHandler receives complete frames. The slice is owned by the
// handler.
type FrameHandler interface {
	HandleFrame(context.Context, []byte)
}

// HandleFrameFunc is the func form of FrameHandler.
type HandleFrameFunc func(context.Context, []byte)

// HandleFrame implements FrameHandler.
func (f HandleFrameFunc) HandleFrame(ctx context.Context, frame []byte) {
	f(ctx, frame)
}
