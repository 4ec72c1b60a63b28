// Package logger provides the process-wide structured logger built on
// log/slog.
//
// WithCtx returns the per-request logger injected by the Logger middleware,
// so handler and service log lines carry the request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", order.ID)
package logger

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/shashiranjanraj/brewandco/config"
)

var (
	L *slog.Logger

	mu    sync.Mutex
	sinks []*MongoHandler
)

func init() {
	L = slog.New(baseHandler(config.AppEnv()))
	slog.SetDefault(L)
}

func baseHandler(env string) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "test", "testing":
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	default:
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// AttachMongo fans every log record out to a MongoDB collection in addition
// to stdout. It is a no-op when uri is empty.
func AttachMongo(uri string) error {
	if uri == "" {
		return nil
	}
	h, err := NewMongoHandler(uri, "brewandco", "logs")
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	sinks = append(sinks, h)
	L = slog.New(NewMultiHandler(baseHandler(config.AppEnv()), h))
	slog.SetDefault(L)
	return nil
}

// Close flushes and disconnects any attached sinks.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	for _, h := range sinks {
		h.Close()
	}
	sinks = nil
}

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or the base
// logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
