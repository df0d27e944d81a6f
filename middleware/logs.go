package middleware

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"MatirBank/Models"
)

// LogConfig holds configuration for the logging middleware
type LogConfig struct {
	// Log file the request lines are appended to; empty disables the file
	LogFilePath string
	// Include user ID in logs
	IncludeUserID bool
	// Skip logging for specific paths
	SkipPaths []string
}

// DefaultLogConfig returns a default configuration for the logging middleware
func DefaultLogConfig() LogConfig {
	return LogConfig{
		LogFilePath:   "logs/requests.log",
		IncludeUserID: true,
		SkipPaths:     []string{"/health", "/metrics"},
	}
}

// RequestLog is the logger used by LoggingMiddleware. It writes through the
// process logger and, when a file is configured, to a JSON lines file that
// the logs viewer reads back.
type RequestLog struct {
	logger *zap.Logger
	file   *os.File
}

// OpenRequestLog tees base with a JSON file sink at cfg.LogFilePath
func OpenRequestLog(base *zap.Logger, cfg LogConfig) (*RequestLog, error) {
	if cfg.LogFilePath == "" {
		return &RequestLog{logger: base}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	encoder := zap.NewProductionEncoderConfig()
	encoder.TimeKey = "timestamp"
	encoder.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoder), zapcore.AddSync(file), zapcore.InfoLevel)

	logger := base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	}))
	return &RequestLog{logger: logger, file: file}, nil
}

func (r *RequestLog) Close() error {
	_ = r.logger.Sync()
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// LoggingMiddleware writes one line per request: method, path, status,
// latency, client ip, request id and the authenticated user if any
func LoggingMiddleware(rl *RequestLog, config ...LogConfig) fiber.Handler {
	cfg := DefaultLogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := skip[c.Path()]; ok {
			return c.Next()
		}
		start := time.Now()

		err := c.Next()
		if err != nil {
			// Run the app error handler now so the logged status is the one sent
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("url", c.OriginalURL()),
			zap.Int("status", status),
			zap.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000.0),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get(fiber.HeaderUserAgent)),
			zap.String("request_id", requestID(c)),
			zap.Int("content_length", len(c.Response().Body())),
		}
		if cfg.IncludeUserID {
			if user, ok := c.Locals(UserKey).(*Models.User); ok {
				fields = append(fields, zap.Uint("user_id", user.UserID), zap.String("username", user.Username))
			}
		}
		if err != nil {
			fields = append(fields, zap.String("error", err.Error()))
		}

		switch {
		case status >= 500:
			rl.logger.Error("request", fields...)
		case status >= 400:
			rl.logger.Warn("request", fields...)
		default:
			rl.logger.Info("request", fields...)
		}
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
