package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/stridelog/stridelog/internal/cache"
	"github.com/stridelog/stridelog/internal/ctxkeys"
	"github.com/stridelog/stridelog/internal/problem"
)

const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
)

// storedResponse is the first successful response seen for a key
type storedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// responseCapture wraps http.ResponseWriter to keep a copy of the response
type responseCapture struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rc *responseCapture) WriteHeader(code int) {
	rc.statusCode = code
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the first 2xx response of a POST carrying an
// Idempotency-Key. Keys are scoped to the authenticated user.
type Idempotency struct {
	store cache.Cache
	ttl   time.Duration

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewIdempotency(store cache.Cache, ttl time.Duration) *Idempotency {
	return &Idempotency{
		store:    store,
		ttl:      ttl,
		inFlight: make(map[string]struct{}),
	}
}

// acquire marks key as being processed; false means another request holds it
func (i *Idempotency) acquire(key string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, busy := i.inFlight[key]; busy {
		return false
	}
	i.inFlight[key] = struct{}{}
	return true
}

func (i *Idempotency) release(key string) {
	i.mu.Lock()
	delete(i.inFlight, key)
	i.mu.Unlock()
}

func (i *Idempotency) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		userID := ctxkeys.UserID(r.Context())
		if key == "" || userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		if len(key) > maxIdempotencyKeyLength {
			problem.BadRequest(w, r, "Idempotency-Key is too long")
			return
		}

		storeKey := "idempotency:" + userID + ":" + key

		// The lookup runs while holding the key so a duplicate can never
		// miss a response stored between its lookup and its acquire.
		if !i.acquire(storeKey) {
			problem.Write(w, r, http.StatusConflict, "A request with this Idempotency-Key is still being processed")
			return
		}
		defer i.release(storeKey)

		var cached storedResponse
		found, err := i.store.Get(r.Context(), storeKey, &cached)
		if err != nil {
			slog.Warn("idempotency lookup failed", "error", err, "user_id", userID)
		}
		if found {
			replay(w, &cached)
			return
		}

		capture := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(capture, r)

		if capture.statusCode < 200 || capture.statusCode >= 300 {
			return
		}

		header := w.Header().Clone()
		header.Del(RequestIDHeader)

		err = i.store.SetWithTTL(r.Context(), storeKey, storedResponse{
			Status: capture.statusCode,
			Header: header,
			Body:   capture.body.Bytes(),
		}, i.ttl)
		if err != nil {
			slog.Warn("idempotency store failed", "error", err, "user_id", userID)
		}
	})
}

func replay(w http.ResponseWriter, cached *storedResponse) {
	for k, vals := range cached.Header {
		w.Header()[k] = vals
	}
	w.Header().Set(IdempotentReplayHeader, "true")
	w.WriteHeader(cached.Status)
	_, _ = w.Write(cached.Body)
}
