package relay

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/relay.go/pkg/framework"
)

func TestOverridesFlag(t *testing.T) {
	var o Overrides
	require.NoError(t, o.Set("2=0"))
	require.NoError(t, o.Set("0="))
	require.Equal(t, Overrides{0: "", 2: "0"}, o)
	require.Equal(t, "0=,2=0", o.String())
	require.Error(t, o.Set("x=1"))
	require.Error(t, o.Set("-1=1"))
	require.Error(t, o.Set("2"))
}

func TestConfigParser(t *testing.T) {
	conf := &Config{Delimiter: ";", FieldCount: 2}
	p, err := conf.Parser()
	require.NoError(t, err)
	rec, err := p.Parse([]byte("a;b;c"))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b;c"}, []string(rec))

	_, err = (&Config{Delimiter: "ab", FieldCount: 2}).Parser()
	require.Error(t, err)
	_, err = (&Config{Delimiter: ",", FieldCount: 0}).Parser()
	require.Error(t, err)
}

func TestUnescape(t *testing.T) {
	for in, out := range map[string]string{
		`\r\n`: "\r\n",
		`;`:    ";",
		`"`:    `"`,
		``:     "",
	} {
		s, err := unescape(in)
		require.NoError(t, err)
		require.Equal(t, out, s)
	}
}

func TestConfigNewEnvUnsupported(t *testing.T) {
	conf := NewConfig()
	conf.ID = "node"
	conf.Sinks = StringList{"gopher://x"}
	_, err := conf.NewEnv(context.Background())
	require.Error(t, err)

	conf.Sinks = StringList{"file:-"}
	conf.Source = "gopher://x"
	_, err = conf.NewEnv(context.Background())
	require.Error(t, err)
}

func TestEnvFileToFile(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "in.txt"), filepath.Join(dir, "out.txt")
	require.NoError(t, ioutil.WriteFile(in, []byte("1,2,3\r\nbroken\n4,5,6\n"), 0644))

	conf := NewConfig()
	conf.ID = "node"
	conf.Source = "file://" + in
	conf.Sinks = StringList{"file://" + out, "sqlite://" + filepath.Join(dir, "r.db")}
	conf.Overrides = Overrides{2: "0"}
	e, err := conf.NewEnv(context.Background())
	require.NoError(t, err)
	defer e.Close()
	require.Len(t, e.Sinks.Sinks, 2)

	loop := fx.NewLoop().Add(e)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	require.Eventually(t, func() bool {
		return e.Relay.Stats().Snapshot().Frames == 3
	}, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		data, err := ioutil.ReadFile(out)
		return err == nil && string(data) == "1;2;0;\r\n4;5;0;\r\n"
	}, 5*time.Second, 10*time.Millisecond)
	require.EqualValues(t, 1, e.Relay.Stats().Snapshot().Malformed)
}
