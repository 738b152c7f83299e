// Package logging provides the structured logging interface used across
// evadb and its zap-backed implementation.  Every component that requires
// logging depends on the Logger interface defined here; direct use of
// go.uber.org/zap is kept inside this package.
//
// Verbosity is not a package global.  The composition root (the CLI) creates
// a LevelController, builds the Logger with it and hands the same controller
// to whichever component is allowed to change the level at runtime (the
// bootstrapper derives it from core.mode).
//
// Initialisation order in internal/interfaces/cli:
//
//  1. NewLevelController(LevelInfo).
//  2. NewLogger(LogConfig{Levels: ctrl, ...}) → logging.SetDefault.
//  3. Bootstrap with the same controller; the level follows core.mode.
package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ─────────────────────────────────────────────────────────────────────────────
// Field: structured log field carrier
// ─────────────────────────────────────────────────────────────────────────────

// Field is a typed key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// String constructs a Field with a string value.
func String(key, val string) Field { return Field{Key: key, Value: val} }

// Strings constructs a Field with a string slice value.
func Strings(key string, val []string) Field { return Field{Key: key, Value: val} }

// Int constructs a Field with an int value.
func Int(key string, val int) Field { return Field{Key: key, Value: val} }

// Bool constructs a Field with a bool value.
func Bool(key string, val bool) Field { return Field{Key: key, Value: val} }

// Err constructs a Field that captures an error under the canonical key "error".
// If err is nil the field value is the string "<nil>".
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Any constructs a Field with an arbitrary value.
func Any(key string, val interface{}) Field { return Field{Key: key, Value: val} }

// Duration constructs a Field with a time.Duration value.
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }

// Canonical field keys.
const (
	FieldRunID     = "run_id"
	FieldPath      = "path"
	FieldComponent = "component"
)

// ─────────────────────────────────────────────────────────────────────────────
// Level and LevelController
// ─────────────────────────────────────────────────────────────────────────────

// Level is a logging severity.
type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lower-case level name.
func (l Level) String() string {
	return l.zap().String()
}

func (l Level) zap() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func fromZap(z zapcore.Level) Level {
	switch {
	case z <= zapcore.DebugLevel:
		return LevelDebug
	case z == zapcore.InfoLevel:
		return LevelInfo
	case z == zapcore.WarnLevel:
		return LevelWarn
	default:
		return LevelError
	}
}

// ParseLevel converts a level name ("debug", "info", "warn", "error", any
// case) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("logging: unknown level %q", s)
	}
}

// LevelController owns the verbosity of every Logger built with it.  Changes
// take effect immediately and are safe for concurrent use.
type LevelController struct {
	atom zap.AtomicLevel
}

// NewLevelController returns a controller starting at initial.
func NewLevelController(initial Level) *LevelController {
	return &LevelController{atom: zap.NewAtomicLevelAt(initial.zap())}
}

// SetLevel changes the verbosity of all loggers sharing this controller.
func (c *LevelController) SetLevel(l Level) {
	c.atom.SetLevel(l.zap())
}

// Level reports the current verbosity.
func (c *LevelController) Level() Level {
	return fromZap(c.atom.Level())
}

// Enabled reports whether entries at l are currently emitted.
func (c *LevelController) Enabled(l Level) bool {
	return c.atom.Enabled(l.zap())
}

// ─────────────────────────────────────────────────────────────────────────────
// Logger interface
// ─────────────────────────────────────────────────────────────────────────────

// Logger is the structured logging contract.  Components receive a Logger
// via constructor injection so that implementations can be swapped (e.g.,
// NopLogger in tests) without code changes.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child Logger that includes the supplied fields in every
	// subsequent log entry.  The parent Logger is not mutated.
	With(fields ...Field) Logger

	// Named returns a child Logger whose name is appended to the parent's
	// name with a period separator (e.g., "evadb" → "evadb.bootstrap").
	Named(name string) Logger

	// Sync flushes buffered entries.
	Sync() error
}

// ─────────────────────────────────────────────────────────────────────────────
// LogConfig: logger construction parameters
// ─────────────────────────────────────────────────────────────────────────────

// LogConfig carries all parameters required to construct a Logger instance.
type LogConfig struct {
	// Level is the initial verbosity when Levels is nil.
	// Accepted values (case-insensitive): "debug", "info", "warn", "error".
	Level string `yaml:"level" json:"level"`

	// Format selects the output encoding: "json" or "console".
	// Defaults to "console" when empty or unrecognised; evadb is a CLI.
	Format string `yaml:"format" json:"format"`

	// OutputPaths is the list of URLs or file paths to write log entries to.
	// Defaults to ["stderr"] when nil.
	OutputPaths []string `yaml:"output_paths" json:"output_paths"`

	// ErrorOutputPaths is the list of paths for internal zap errors.
	// Defaults to ["stderr"] when nil.
	ErrorOutputPaths []string `yaml:"error_output_paths" json:"error_output_paths"`

	// Levels, when set, drives the verbosity of the built logger.
	Levels *LevelController `yaml:"-" json:"-"`
}

// ─────────────────────────────────────────────────────────────────────────────
// zapLogger: zap-backed Logger implementation
// ─────────────────────────────────────────────────────────────────────────────

type zapLogger struct {
	z *zap.Logger
}

// toZapFields converts a slice of our Field values into zap.Field values.
func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out = append(out, zap.String(f.Key, v))
		case []string:
			out = append(out, zap.Strings(f.Key, v))
		case int:
			out = append(out, zap.Int(f.Key, v))
		case bool:
			out = append(out, zap.Bool(f.Key, v))
		case time.Duration:
			out = append(out, zap.Duration(f.Key, v))
		case Level:
			out = append(out, zap.String(f.Key, v.String()))
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}

func (l *zapLogger) Debug(msg string, fields ...Field) {
	l.z.Debug(msg, toZapFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...Field) {
	l.z.Info(msg, toZapFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...Field) {
	l.z.Warn(msg, toZapFields(fields)...)
}

func (l *zapLogger) Error(msg string, fields ...Field) {
	l.z.Error(msg, toZapFields(fields)...)
}

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{z: l.z.With(toZapFields(fields)...)}
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{z: l.z.Named(name)}
}

func (l *zapLogger) Sync() error {
	return l.z.Sync()
}

// ─────────────────────────────────────────────────────────────────────────────
// NewLogger: factory
// ─────────────────────────────────────────────────────────────────────────────

// NewLogger constructs a Logger backed by zap according to cfg.
// Defaults for unset fields:
//   - Level:            "info" (ignored when Levels is set)
//   - Format:           "console"
//   - OutputPaths:      ["stderr"]
//   - ErrorOutputPaths: ["stderr"]
func NewLogger(cfg LogConfig) (Logger, error) {
	if len(cfg.OutputPaths) == 0 {
		cfg.OutputPaths = []string{"stderr"}
	}
	if len(cfg.ErrorOutputPaths) == 0 {
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	var atom zap.AtomicLevel
	if cfg.Levels != nil {
		atom = cfg.Levels.atom
	} else {
		lvl, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		atom = zap.NewAtomicLevelAt(lvl.zap())
	}

	var encCfg zapcore.EncoderConfig
	encoding := "console"
	if cfg.Format == "json" {
		encCfg = zap.NewProductionEncoderConfig()
		encoding = "json"
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	zapCfg := zap.Config{
		Level:            atom,
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}

	z, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("logging: failed to build zap logger: %w", err)
	}
	return &zapLogger{z: z}, nil
}

// NewLoggerFromCore constructs a Logger from an existing zapcore.Core.
// This is primarily used for testing with observed logs.
func NewLoggerFromCore(core zapcore.Core) Logger {
	return &zapLogger{z: zap.New(core, zap.AddCallerSkip(1))}
}

// NewCore wraps core so that its verbosity follows ctrl.  Tests use it with
// zaptest/observer to check what a level change lets through.
func NewCore(core zapcore.Core, ctrl *LevelController) zapcore.Core {
	return &leveledCore{Core: core, ctrl: ctrl}
}

type leveledCore struct {
	zapcore.Core
	ctrl *LevelController
}

func (c *leveledCore) Enabled(l zapcore.Level) bool {
	return c.ctrl.atom.Enabled(l)
}

func (c *leveledCore) With(fields []zapcore.Field) zapcore.Core {
	return &leveledCore{Core: c.Core.With(fields), ctrl: c.ctrl}
}

func (c *leveledCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}

// ─────────────────────────────────────────────────────────────────────────────
// nopLogger: no-op implementation for tests and disabled components
// ─────────────────────────────────────────────────────────────────────────────

type nopLogger struct{}

func (nopLogger) Debug(_ string, _ ...Field) {}
func (nopLogger) Info(_ string, _ ...Field)  {}
func (nopLogger) Warn(_ string, _ ...Field)  {}
func (nopLogger) Error(_ string, _ ...Field) {}
func (n nopLogger) With(_ ...Field) Logger   { return n }
func (n nopLogger) Named(_ string) Logger    { return n }
func (nopLogger) Sync() error                { return nil }

// NewNopLogger returns a Logger that discards all log entries.
func NewNopLogger() Logger { return nopLogger{} }

// ─────────────────────────────────────────────────────────────────────────────
// Global default Logger
// ─────────────────────────────────────────────────────────────────────────────

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = nopLogger{}
)

// SetDefault replaces the process-wide default Logger.  Only the CLI root
// calls it; components given no Logger fall back to Default.
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process-wide default Logger.
func Default() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	return l
}
