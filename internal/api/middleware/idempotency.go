package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderIdempotencyHit = "X-Idempotency-Hit"

	processingMarker = "PROCESSING"
	lockTTL          = 10 * time.Second
)

// storedResponse is what gets replayed for a repeated key.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

// Idempotency replays the first response recorded for an Idempotency-Key.
// A request arriving while the first one is still running gets 409.
// Server errors are not recorded, so the client may retry them.
func Idempotency(redisClient *redis.Client, ttl time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only apply to state-changing methods
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(HeaderIdempotencyKey)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			idemKey := fmt.Sprintf("idempotency:%s", key)
			ctx := r.Context()

			val, err := redisClient.Get(ctx, idemKey).Result()
			switch {
			case err == nil:
				replay(w, val)
				return
			case !errors.Is(err, redis.Nil):
				logger.Warn("idempotency lookup failed, serving without it", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := redisClient.SetNX(ctx, idemKey, processingMarker, lockTTL).Result()
			if err != nil {
				logger.Warn("idempotency lock failed, serving without it", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				writeConflict(w, "concurrent request")
				return
			}

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status >= http.StatusInternalServerError {
				if err := redisClient.Del(ctx, idemKey).Err(); err != nil {
					logger.Warn("failed to release idempotency key", "error", err)
				}
				return
			}

			data, err := json.Marshal(storedResponse{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
			if err != nil {
				logger.Error("failed to encode idempotent response", "error", err)
				return
			}
			if err := redisClient.Set(ctx, idemKey, data, ttl).Err(); err != nil {
				logger.Warn("failed to store idempotent response", "error", err)
			}
		})
	}
}

func replay(w http.ResponseWriter, val string) {
	if val == processingMarker {
		writeConflict(w, "request with this Idempotency-Key is still in progress")
		return
	}

	var resp storedResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		writeConflict(w, "request already processed")
		return
	}

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.Header().Set(HeaderIdempotencyHit, "true")
	w.WriteHeader(resp.Status)
	w.Write(resp.Body)
}

func writeConflict(w http.ResponseWriter, msg string) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	w.Write(body)
}

// responseRecorder passes the response through while keeping a copy.
type responseRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
