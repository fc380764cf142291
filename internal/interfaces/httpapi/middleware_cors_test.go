package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
		wantNext   bool
	}{
		{name: "listed origin", allowed: []string{"https://skate.example.com"}, method: http.MethodGet, origin: "https://skate.example.com", wantOrigin: "https://skate.example.com", wantStatus: http.StatusOK, wantNext: true},
		{name: "wildcard", allowed: []string{" * "}, method: http.MethodGet, origin: "https://any.example.com", wantOrigin: "*", wantStatus: http.StatusOK, wantNext: true},
		{name: "unlisted origin", allowed: []string{"https://skate.example.com"}, method: http.MethodGet, origin: "https://evil.example.com", wantOrigin: "", wantStatus: http.StatusOK, wantNext: true},
		{name: "no origin header", allowed: []string{"*"}, method: http.MethodGet, wantOrigin: "", wantStatus: http.StatusOK, wantNext: true},
		{name: "preflight", allowed: []string{"https://skate.example.com"}, method: http.MethodOptions, origin: "https://skate.example.com", wantOrigin: "https://skate.example.com", wantStatus: http.StatusNoContent, wantNext: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tc.method, "/v1/contests/c1/roster", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tc.allowed, next).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status: got %d want %d", rec.Code, tc.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("allow-origin: got %q want %q", got, tc.wantOrigin)
			}
			if called != tc.wantNext {
				t.Fatalf("next called: got %v want %v", called, tc.wantNext)
			}
		})
	}
}
