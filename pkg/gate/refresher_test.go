package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/relay.go/pkg/framework"
)

type recordingSink struct {
	snapshots []Snapshot
	err       error
}

func (s *recordingSink) Render(ctx context.Context, snapshot Snapshot) error {
	s.snapshots = append(s.snapshots, snapshot)
	return s.err
}

func TestRefresher(t *testing.T) {
	now := t0
	loop := fx.NewLoop()
	loop.Clock = func() time.Time { return now }
	sink := &recordingSink{}
	g := New(2, 100*time.Millisecond)
	loop.Add(NewRefresher(g, sink))
	ctx := context.Background()

	loop.RunIteration(ctx)
	require.Len(t, sink.snapshots, 1)

	loop.PostMessage(&FieldUpdate{Index: 0, Value: "a"})
	loop.PostMessage(&FieldUpdate{Index: 5, Value: "dropped"})
	loop.PostMessage(&FieldUpdate{Index: 0, Value: "b"})
	now = now.Add(10 * time.Millisecond)
	loop.RunIteration(ctx)
	require.Len(t, sink.snapshots, 1)

	now = now.Add(90 * time.Millisecond)
	loop.RunIteration(ctx)
	require.Len(t, sink.snapshots, 2)
	require.Equal(t, []interface{}{"b", nil}, sink.snapshots[1].Fields)

	now = now.Add(time.Second)
	loop.RunIteration(ctx)
	require.Len(t, sink.snapshots, 2)
}

func TestRefresherSinkErrorNotRetried(t *testing.T) {
	loop := fx.NewLoop()
	loop.Clock = func() time.Time { return t0 }
	sink := &recordingSink{err: errors.New("display unplugged")}
	loop.Add(NewRefresher(New(1, 0), sink))
	loop.RunIteration(context.Background())
	loop.RunIteration(context.Background())
	require.Len(t, sink.snapshots, 1)
}
