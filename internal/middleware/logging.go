package middleware

import (
    "regexp"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "go.uber.org/zap"
)

// CtxLogger holds the request-scoped logger set by RequestLogger.
const CtxLogger = "logger"

// HeaderRequestID is echoed back on every response.
const HeaderRequestID = "X-Request-ID"

var requestIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// RequestLogger tags each request with an id, stores a scoped logger in the
// context and logs one line when the handler returns.
func RequestLogger(base *zap.Logger) echo.MiddlewareFunc {
    if base == nil {
        base = zap.NewNop()
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            req := c.Request()
            reqID := sanitizeRequestID(req.Header.Get(HeaderRequestID))
            c.Response().Header().Set(HeaderRequestID, reqID)

            logger := base.With(
                zap.String("request_id", reqID),
                zap.String("method", req.Method),
                zap.String("path", req.URL.Path),
                zap.String("client_ip", c.RealIP()),
            )
            c.Set(CtxLogger, logger)

            err := next(c)
            if err != nil {
                // Let echo write the response so the logged status is final.
                c.Error(err)
            }
            fields := []zap.Field{
                zap.Int("status", c.Response().Status),
                zap.Int64("duration_ms", time.Since(start).Milliseconds()),
            }
            if err != nil {
                logger.Warn("request failed", append(fields, zap.Error(err))...)
                return nil
            }
            logger.Info("request complete", fields...)
            return nil
        }
    }
}

// LoggerFrom returns the request logger, or fallback when none is set.
func LoggerFrom(c echo.Context, fallback *zap.Logger) *zap.Logger {
    if l, ok := c.Get(CtxLogger).(*zap.Logger); ok && l != nil {
        return l
    }
    if fallback == nil {
        return zap.NewNop()
    }
    return fallback
}

func sanitizeRequestID(incoming string) string {
    if incoming != "" && requestIDPattern.MatchString(incoming) {
        return incoming
    }
    return uuid.NewString()
}
