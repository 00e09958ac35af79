package middleware

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"microtask/internal/infrastructure/cache"
	"microtask/pkg/errors"
	"microtask/pkg/logger"
	"microtask/pkg/response"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	inFlight          = "in-flight"
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// captureWriter copies everything written to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *captureWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(w.ResponseWriter).Hijack()
}

// Idempotency replays the stored response for a repeated Idempotency-Key
// from the same caller. Keys are scoped to caller, method and path. While
// the first request is still running a duplicate gets 409. Server errors
// are not stored so the client can retry them.
func Idempotency(store cache.Cache, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(IdempotencyHeader)
			if key == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			cacheKey := "idem:" + Email(c) + ":" + c.Request().Method + ":" + c.Request().URL.Path + ":" + key

			acquired, err := store.SetNX(ctx, cacheKey, inFlight, ttl)
			if err != nil {
				logger.Error("Idempotency store unavailable: %v", err)
				return next(c)
			}

			if !acquired {
				raw, found, err := store.Get(ctx, cacheKey)
				if err != nil || !found || raw == inFlight {
					return response.Error(c, errors.Conflict("A request with this idempotency key is already in progress"))
				}
				var stored storedResponse
				if err := json.Unmarshal([]byte(raw), &stored); err != nil {
					return response.Error(c, errors.Internal("Failed to replay response", err))
				}
				c.Response().Header().Set("Idempotent-Replayed", "true")
				return c.Blob(stored.Status, stored.ContentType, stored.Body)
			}

			writer := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = writer

			// The client may be gone by now; the key must still be settled.
			done := context.WithoutCancel(ctx)
			release := func() {
				if err := store.Delete(done, cacheKey); err != nil {
					logger.Error("Failed to release idempotency key %s: %v", cacheKey, err)
				}
			}

			if err := next(c); err != nil {
				release()
				return err
			}

			if writer.status >= http.StatusInternalServerError {
				release()
				return nil
			}

			payload, _ := json.Marshal(storedResponse{
				Status:      writer.status,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        writer.body.Bytes(),
			})
			if err := store.Set(done, cacheKey, string(payload), ttl); err != nil {
				logger.Error("Failed to store idempotent response: %v", err)
			}
			return nil
		}
	}
}
