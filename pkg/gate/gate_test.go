package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Unix(1700000000, 0)

func TestGateInitialTrigger(t *testing.T) {
	for _, interval := range []time.Duration{0, time.Millisecond, time.Hour} {
		g := New(3, interval)
		s, ok := g.Poll(t0)
		require.True(t, ok)
		require.Equal(t, uint64(1), s.Seq)
		require.Equal(t, []interface{}{nil, nil, nil}, s.Fields)
		_, ok = g.Poll(t0.Add(interval))
		require.False(t, ok, "nothing changed")
	}
}

func TestGateForceFirstTriggerIgnoresInterval(t *testing.T) {
	g := New(1, time.Hour)
	_, ok := g.Poll(t0)
	require.True(t, ok)
	g.ForceFirstTrigger()
	_, ok = g.Poll(t0.Add(time.Second))
	require.True(t, ok)
}

func TestGateCoalescing(t *testing.T) {
	g := New(3, 100*time.Millisecond)
	_, ok := g.Poll(t0)
	require.True(t, ok)

	require.NoError(t, g.SetField(0, 1))
	require.NoError(t, g.SetField(1, true))
	require.NoError(t, g.SetField(0, 2))
	_, ok = g.Poll(t0.Add(50 * time.Millisecond))
	require.False(t, ok)
	require.True(t, g.Pending())
	require.NoError(t, g.SetField(0, 3))
	require.NoError(t, g.SetField(2, "x"))

	s, ok := g.Poll(t0.Add(100 * time.Millisecond))
	require.True(t, ok)
	require.Equal(t, []interface{}{3, true, "x"}, s.Fields)
	require.False(t, g.Pending())

	_, ok = g.Poll(t0.Add(time.Second))
	require.False(t, ok)
}

func TestGateUnsetFieldsRetainValue(t *testing.T) {
	g := New(2, 0)
	require.NoError(t, g.SetField(0, "a"))
	require.NoError(t, g.SetField(1, "b"))
	_, ok := g.Poll(t0)
	require.True(t, ok)
	require.NoError(t, g.SetField(1, "c"))
	s, ok := g.Poll(t0)
	require.True(t, ok)
	require.Equal(t, "a", s.Field(0))
	require.Equal(t, "c", s.Field(1))
	require.Nil(t, s.Field(2))
}

func TestGateSpacing(t *testing.T) {
	const interval = 30 * time.Millisecond
	g := New(1, interval)
	var renders []time.Time
	for step := 0; step < 500; step++ {
		now := t0.Add(time.Duration(step) * 7 * time.Millisecond)
		if step%3 == 0 {
			require.NoError(t, g.SetField(0, step))
		}
		if s, ok := g.Poll(now); ok {
			renders = append(renders, s.Time)
		}
	}
	require.True(t, len(renders) > 10)
	for i := 1; i < len(renders); i++ {
		require.True(t, renders[i].Sub(renders[i-1]) >= interval)
	}
}

func TestGateSnapshotIsCopy(t *testing.T) {
	g := New(1, 0)
	require.NoError(t, g.SetField(0, "a"))
	s, _ := g.Poll(t0)
	require.NoError(t, g.SetField(0, "b"))
	require.Equal(t, "a", s.Field(0))
}

func TestGateInvalidField(t *testing.T) {
	g := New(2, 0)
	_, _ = g.Poll(t0)
	for _, index := range []int{-1, 2, 100} {
		err := g.SetField(index, 1)
		require.Error(t, err)
		fieldErr, ok := err.(*InvalidFieldError)
		require.True(t, ok)
		require.Equal(t, index, fieldErr.Index)
		require.Equal(t, 2, fieldErr.Count)
	}
	require.False(t, g.Pending())
	require.Panics(t, func() { g.MustSetField(2, 1) })
}
