package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/payroll/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the idempotency store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"
	idempotencyTTL          = usecase.IdempotencyKeyTTL
)

// replayedHeaders are copied into the stored response.
var replayedHeaders = []string{"Content-Type", "Content-Disposition", "Location", "X-Payroll-ID"}

// storedResponse is what a completed request leaves in the store.
type storedResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body"`
}

// IdempotencyMiddleware handles request idempotency using Redis.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	logger zerolog.Logger
	ttl    time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, logger zerolog.Logger) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store, logger: logger, ttl: idempotencyTTL}
}

// WithTTL sets how long completed responses are kept. Zero keeps the default.
func (m *IdempotencyMiddleware) WithTTL(ttl time.Duration) *IdempotencyMiddleware {
	if ttl > 0 {
		m.ttl = ttl
	}
	return m
}

// Wrap wraps an http.Handler with idempotency checking.
//
// The first request with a key claims it. Retries replay the stored response
// once the first request succeeded, and get 409 while it is still running.
// A failed or panicking request releases its key.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isMutating(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		// The same key on another endpoint is another request.
		key = r.Method + " " + r.URL.Path + " " + key

		exists, stored, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			m.logger.Error().Err(err).Msg("idempotency check failed")
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if exists {
			m.replay(w, stored)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		// The client may be gone; the outcome still has to be recorded.
		ctx := context.WithoutCancel(r.Context())

		defer func() {
			if p := recover(); p != nil {
				m.release(ctx, key)
				panic(p)
			}
		}()
		next.ServeHTTP(recorder, r)

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			m.release(ctx, key)
			return
		}

		resp := storedResponse{
			Status:  recorder.statusCode,
			Headers: make(map[string]string),
			Body:    recorder.body.Bytes(),
		}
		for _, h := range replayedHeaders {
			if v := recorder.Header().Get(h); v != "" {
				resp.Headers[h] = v
			}
		}

		data, err := json.Marshal(resp)
		if err != nil {
			m.logger.Error().Err(err).Msg("idempotent response encoding failed")
			return
		}
		if err := m.store.Update(ctx, key, data, m.ttl); err != nil {
			m.logger.Warn().Err(err).Msg("idempotent response store failed")
		}
	})
}

func (m *IdempotencyMiddleware) release(ctx context.Context, key string) {
	if err := m.store.Release(ctx, key); err != nil {
		m.logger.Warn().Err(err).Msg("idempotency key release failed")
	}
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, stored []byte) {
	if len(stored) == 0 || string(stored) == usecase.IdempotencyPending {
		writeJSONError(w, http.StatusConflict, "a request with this idempotency key is still in progress")
		return
	}

	var resp storedResponse
	if err := json.Unmarshal(stored, &resp); err != nil || resp.Status == 0 {
		m.logger.Warn().Err(err).Msg("unreadable idempotent response")
		writeJSONError(w, http.StatusConflict, "idempotency key already used")
		return
	}

	for h, v := range resp.Headers {
		w.Header().Set(h, v)
	}
	w.Header().Set(IdempotencyReplayHeader, "true")
	w.WriteHeader(resp.Status)
	w.Write(resp.Body)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
