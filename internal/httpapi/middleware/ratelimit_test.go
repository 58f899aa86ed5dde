package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_Disabled(t *testing.T) {
	h := RateLimit(0, 0)(okHandler())
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("disabled limiter rejected request %d", i)
		}
	}
}

func TestRateLimit_BurstThenReject(t *testing.T) {
	h := RateLimit(60, 3)(okHandler())

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	for i := 0; i < 3; i++ {
		if codes[i] != http.StatusOK {
			t.Fatalf("request %d within burst rejected: %v", i, codes)
		}
	}
	if codes[4] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 past burst, got %v", codes)
	}
}

func TestRateLimit_PerClientBuckets(t *testing.T) {
	h := RateLimit(60, 1)(okHandler())

	first := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodGet, "/", nil)
	req1.RemoteAddr = "10.0.0.1:1111"
	h.ServeHTTP(first, req1)

	// exhaust client 1
	again := httptest.NewRecorder()
	h.ServeHTTP(again, req1)
	if again.Code != http.StatusTooManyRequests {
		t.Fatalf("client 1 should be limited, got %d", again.Code)
	}

	// a different client still gets through
	other := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "10.0.0.2:2222"
	h.ServeHTTP(other, req2)
	if other.Code != http.StatusOK {
		t.Fatalf("client 2 should not be limited, got %d", other.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	if got := clientIP(req); got != "192.0.2.7" {
		t.Fatalf("clientIP=%q", got)
	}

	req.Header.Set("X-Forwarded-For", "198.51.100.4, 192.0.2.1")
	if got := clientIP(req); got != "198.51.100.4" {
		t.Fatalf("clientIP with XFF=%q", got)
	}
}
