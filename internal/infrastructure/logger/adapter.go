package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"browser-harness/internal/application/port/output"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ output.LoggerPort = (*ZapAdapter)(nil)

type ZapAdapter struct {
	sugar  *zap.SugaredLogger
	closer func() error
}

type Config struct {
	Level string
	// Output is "stdout", "stderr" or "file". Files go to Dir.
	Output  string
	Dir     string
	Name    string
	Session string
}

func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Output: "stderr",
		Dir:    "log",
		Name:   "harness",
	}
}

// NewZapAdapter builds a JSON logger. Every entry carries the session id so
// interleaved runs can be told apart.
func NewZapAdapter(cfg Config) (*ZapAdapter, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	sink, closer, err := openSink(cfg)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	session := cfg.Session
	if session == "" {
		session = uuid.NewString()
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level)
	log := zap.New(core).With(zap.String("session", session))

	return &ZapAdapter{sugar: log.Sugar(), closer: closer}, nil
}

// NewNop discards everything.
func NewNop() *ZapAdapter {
	return &ZapAdapter{sugar: zap.NewNop().Sugar()}
}

// NewFromZap wraps an existing zap logger.
func NewFromZap(l *zap.Logger) *ZapAdapter {
	return &ZapAdapter{sugar: l.Sugar()}
}

func openSink(cfg Config) (zapcore.WriteSyncer, func() error, error) {
	switch cfg.Output {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil, nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil, nil
	case "file":
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), sanitize(cfg.Name))
		file, err := os.Create(filepath.Join(cfg.Dir, filename))
		if err != nil {
			return nil, nil, fmt.Errorf("create log file: %w", err)
		}
		return zapcore.AddSync(file), file.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown log output %q", cfg.Output)
}

func (l *ZapAdapter) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
func (l *ZapAdapter) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l *ZapAdapter) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l *ZapAdapter) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }

func (l *ZapAdapter) WithField(key string, value any) output.LoggerPort {
	return &ZapAdapter{sugar: l.sugar.With(key, value), closer: l.closer}
}

func (l *ZapAdapter) WithFields(fields map[string]any) output.LoggerPort {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &ZapAdapter{sugar: l.sugar.With(args...), closer: l.closer}
}

func (l *ZapAdapter) Named(name string) output.LoggerPort {
	return &ZapAdapter{sugar: l.sugar.Named(name), closer: l.closer}
}

func (l *ZapAdapter) Close() error {
	_ = l.sugar.Sync()
	if l.closer == nil {
		return nil
	}
	return l.closer()
}

// sanitize makes a run name safe to use in a file name.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
	s = strings.Trim(s, "_")
	if s == "" {
		return "run"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
