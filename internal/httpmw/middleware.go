package httpmw

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	HeaderRequestID = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestID reads it from the context set by the RequestID middleware.
func RequestID(c echo.Context) string {
	v, _ := c.Get(requestIDKey).(string)
	return v
}

// WithRequestID ensures every request carries an X-Request-Id.
func WithRequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := strings.TrimSpace(c.Request().Header.Get(HeaderRequestID))
			if rid == "" {
				rid = newRequestID()
			}
			c.Response().Header().Set(HeaderRequestID, rid)
			c.Set(requestIDKey, rid)
			return next(c)
		}
	}
}

// WithRecover turns a handler panic into a 500 and logs the stack.
func WithRecover(logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				r := c.Request()
				logger.Error("panic recovered",
					"request_id", RequestID(c),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
				)
				if c.Response().Committed {
					return
				}
				if strings.HasPrefix(r.URL.Path, "/v1/") {
					err = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
					return
				}
				err = c.String(http.StatusInternalServerError, "internal server error")
			}()
			return next(c)
		}
	}
}

// WithAccessLog logs one line per request.
func WithAccessLog(logger *slog.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			r := c.Request()
			logger.Info("http request",
				"request_id", RequestID(c),
				"method", r.Method,
				"path", r.URL.Path,
				"status", c.Response().Status,
				"bytes", c.Response().Size,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", clientIP(r),
			)
			return nil
		}
	}
}

func newRequestID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err == nil {
		return hex.EncodeToString(b[:])
	}
	return fmt.Sprintf("%d", time.Now().UTC().UnixNano())
}

func clientIP(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xrip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); xrip != "" {
		return xrip
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
