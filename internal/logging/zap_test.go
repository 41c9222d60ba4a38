package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newTestZapLogger(t *testing.T) (*ZapLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(&buf),
		zapcore.DebugLevel,
	)
	return NewZapLogger(zap.New(core)), &buf
}

func TestZapLogger_Levels(t *testing.T) {
	log, buf := newTestZapLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)
	require.NoError(t, log.Sync())

	out := buf.String()
	for _, want := range []string{
		`"level":"debug"`, `"msg":"dbg"`, `"a":1`,
		`"level":"info"`, `"msg":"inf"`, `"b":2`,
		`"level":"warn"`, `"msg":"wrn"`, `"c":3`,
		`"level":"error"`, `"msg":"err"`, `"d":4`,
	} {
		assert.Contains(t, out, want)
	}
}

func TestZapLogger_With(t *testing.T) {
	log, buf := newTestZapLogger(t)

	log.With("module", "store").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, `"module":"store"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestNew_Backends(t *testing.T) {
	for _, backend := range []string{"", BackendSlog, BackendZap} {
		t.Run("backend="+backend, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(backend, &buf)
			require.NoError(t, err)

			l.Info(context.Background(), "started", "addr", ":8080")
			if z, ok := l.(*ZapLogger); ok {
				require.NoError(t, z.Sync())
			}
			assert.True(t, strings.Contains(buf.String(), "started"), buf.String())
		})
	}

	_, err := New("logrus", &bytes.Buffer{})
	require.Error(t, err)
}

func TestNop_Discards(t *testing.T) {
	l := Nop()
	l.Error(context.Background(), "ignored")
	l.With("k", "v").Info(context.Background(), "ignored")
}
