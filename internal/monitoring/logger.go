package monitoring

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger or UseZap. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// UseZap routes Logf through l at info level.
func UseZap(l *zap.Logger) {
	if l == nil {
		SetLogger(nil)
		return
	}
	SetLogger(l.Sugar().Infof)
}

// NewLogger builds a JSON zap logger writing to w at the named level
// ("debug", "info", "warn" or "error").
func NewLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), zap.NewAtomicLevelAt(lvl))
	return zap.New(core), nil
}

// LineWriter adapts a zap logger to the io.Writer streams taken by the
// SetLogWriters functions. Each complete line becomes one entry at the
// writer's level; the "[pkg] " prefix is kept in the message.
type LineWriter struct {
	logger *zap.Logger
	level  zapcore.Level

	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLineWriter returns a LineWriter logging at level. A nil logger yields a
// nil writer, which the SetLogWriters functions treat as disabled.
func NewLineWriter(l *zap.Logger, level zapcore.Level) io.Writer {
	if l == nil {
		return nil
	}
	return &LineWriter{logger: l, level: level}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// partial line, keep it for the next write
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		if ce := w.logger.Check(w.level, strings.TrimRight(line, "\n")); ce != nil {
			ce.Write()
		}
	}
	return len(p), nil
}
