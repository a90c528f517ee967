package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	require.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	require.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	require.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	require.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, stage := range []string{ProdStage, "dev"} {
		l, err := New(Config{Level: "warn", Stage: stage})
		require.NoError(t, err)
		require.False(t, l.Core().Enabled(zapcore.InfoLevel))
		require.True(t, l.Core().Enabled(zapcore.WarnLevel))
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	fallback := zap.NewExample()
	require.Same(t, fallback, FromContext(t.Context(), fallback))
	require.NotNil(t, FromContext(t.Context(), nil))

	l := zap.NewNop()
	ctx := WithContext(t.Context(), l)
	require.Same(t, l, FromContext(ctx, fallback))
}
