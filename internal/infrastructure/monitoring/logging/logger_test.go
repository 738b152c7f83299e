package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// newTestLogger returns a logger that writes JSON to a buffer.
func newTestLogger(t *testing.T) (Logger, *zaptest.Buffer) {
	t.Helper()
	buf := &zaptest.Buffer{}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	core := zapcore.NewCore(encoder, buf, zapcore.DebugLevel)
	return &zapLogger{z: zap.New(core)}, buf
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "info", Format: "json", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_UnknownLevel(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "chatty"})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/evadb/log.txt"}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("x"))
	assert.NoError(t, l.Sync())
}

func TestZapLogger_LevelsWrite(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Debug("debug msg")
	l.Warn("warn msg")
	out := buf.String()
	assert.Contains(t, out, "debug msg")
	assert.Contains(t, out, "\"level\":\"debug\"")
	assert.Contains(t, out, "\"level\":\"warn\"")
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	l, buf := newTestLogger(t)
	l.With(String("foo", "bar"), Int("n", 3), Bool("ok", true)).Info("msg")
	assert.Contains(t, buf.String(), "\"foo\":\"bar\"")
	assert.Contains(t, buf.String(), "\"n\":3")
	assert.Contains(t, buf.String(), "\"ok\":true")
}

func TestZapLogger_LevelFieldRendersName(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Info("msg", Any("level_set", LevelWarn))
	assert.Contains(t, buf.String(), "\"level_set\":\"warn\"")
}

func TestErr_Field(t *testing.T) {
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
	assert.Equal(t, Field{Key: "error", Value: "boom"}, Err(errors.New("boom")))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		"warn":    LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("invalid")
	assert.Error(t, err)
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
}

func TestLevelController_FiltersObservedCore(t *testing.T) {
	ctrl := NewLevelController(LevelInfo)
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(NewCore(core, ctrl))

	l.Debug("hidden")
	assert.Equal(t, 0, logs.Len())

	ctrl.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, ctrl.Level())
	l.Debug("shown")
	assert.Equal(t, 1, logs.FilterMessage("shown").Len())

	ctrl.SetLevel(LevelWarn)
	assert.False(t, ctrl.Enabled(LevelInfo))
	assert.True(t, ctrl.Enabled(LevelError))
	l.Info("hidden again")
	l.With(String("k", "v")).Warn("kept")
	assert.Equal(t, 0, logs.FilterMessage("hidden again").Len())
	assert.Equal(t, 1, logs.FilterMessage("kept").Len())
}

func TestSetDefault_UpdatesGlobal(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newTestLogger(t)
	SetDefault(l)
	assert.Equal(t, l, Default())

	SetDefault(nil)
	assert.Equal(t, l, Default())
}
