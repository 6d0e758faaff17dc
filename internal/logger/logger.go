package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ContextKey тип ключей контекста
type ContextKey string

const (
	// RequestIDKey ключ request id в контексте
	RequestIDKey ContextKey = "requestID"
	// UserIDKey ключ uid администратора в контексте
	UserIDKey ContextKey = "userID"
)

// RequestIDHeader заголовок, в котором клиент может передать свой request id
const RequestIDHeader = "X-Request-ID"

var (
	appLogger *logrus.Logger
	once      sync.Once
)

// Init настраивает логгер приложения. level: trace..fatal, format: text|json
func Init(level, format string, out io.Writer) *logrus.Logger {
	l := GetAppLogger()
	if out == nil {
		out = os.Stdout
	}
	l.SetOutput(out)
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	if strings.ToLower(format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}
	return l
}

// GetAppLogger возвращает логгер приложения
func GetAppLogger() *logrus.Logger {
	once.Do(func() {
		appLogger = logrus.New()
	})
	return appLogger
}

// WithContext возвращает запись логгера с полями из контекста
func WithContext(ctx context.Context) *logrus.Entry {
	entry := GetAppLogger().WithContext(ctx)
	if ctx == nil {
		return entry
	}
	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		entry = entry.WithField("request_id", requestID)
	}
	if userID := ctx.Value(UserIDKey); userID != nil {
		entry = entry.WithField("uid", userID)
	}
	return entry
}

// GinMiddleware назначает request id и пишет строку лога на каждый запрос
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(string(RequestIDKey), requestID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), RequestIDKey, requestID))

		c.Next()

		entry := WithContext(c.Request.Context()).WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		})
		if uid, ok := c.Get(string(UserIDKey)); ok {
			entry = entry.WithField("uid", uid)
		}
		if len(c.Errors) > 0 {
			entry.Warn(c.Errors.String())
			return
		}
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed")
		case c.Writer.Status() >= 400:
			entry.Info("request rejected")
		default:
			entry.Debug("request")
		}
	}
}
