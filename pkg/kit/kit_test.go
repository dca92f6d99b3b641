package kit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestIPRateLimiter_Window(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewIPRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if _, ok := l.Allow("a"); !ok {
			t.Fatalf("hit %d refused", i)
		}
	}
	retry, ok := l.Allow("a")
	if ok {
		t.Fatalf("third hit admitted")
	}
	if retry != time.Minute {
		t.Fatalf("retry=%v", retry)
	}
	if _, ok := l.Allow("b"); !ok {
		t.Fatalf("other key refused")
	}

	now = now.Add(time.Minute + time.Second)
	if _, ok := l.Allow("a"); !ok {
		t.Fatalf("refused after window")
	}
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	l := NewIPRateLimiter(1, time.Minute)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(xff string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := do("10.0.0.1, 10.0.0.2"); rec.Code != http.StatusNoContent {
		t.Fatalf("status=%d", rec.Code)
	}
	rec := do("10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}
	if rec := do("10.0.0.3"); rec.Code != http.StatusNoContent {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestMetricsAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		token string
		authz string
		want  int
	}{
		{"", "Bearer ", http.StatusForbidden},
		{"t", "", http.StatusForbidden},
		{"t", "Bearer u", http.StatusForbidden},
		{"t", "Bearer t", http.StatusOK},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.Header.Set("Authorization", tt.authz)
		rec := httptest.NewRecorder()
		MetricsAuth(tt.token)(ok).ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Fatalf("token=%q authz=%q status=%d want=%d", tt.token, tt.authz, rec.Code, tt.want)
		}
	}
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "server error") {
		t.Fatalf("body=%s", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}

	tests := []struct {
		body    string
		wantErr bool
	}{
		{`{"a":1}`, false},
		{`{"a":1,"b":2}`, true},
		{`{"a":1}{"a":2}`, true},
		{`nope`, true},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
		err := DecodeJSON(httptest.NewRecorder(), req, &v)
		if (err != nil) != tt.wantErr {
			t.Fatalf("body=%s err=%v", tt.body, err)
		}
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := NewLogger("catalog", "debug"); err != nil {
		t.Fatalf("debug: %v", err)
	}
	if _, err := NewLogger("catalog", "loud"); err == nil {
		t.Fatalf("expected error for bad level")
	}
}
