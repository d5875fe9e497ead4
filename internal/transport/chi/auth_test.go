package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	for name, keys := range map[string][]string{
		"nil keys":   nil,
		"empty keys": {"", "  "},
	} {
		t.Run(name, func(t *testing.T) {
			handler := BearerAuthMiddleware(keys)(okHandler())

			req := httptest.NewRequest(http.MethodPost, "/match", http.NoBody)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Errorf("got %d, want %d", rr.Code, http.StatusOK)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/match", "", http.StatusUnauthorized},
		{"basic scheme", "/match", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"invalid token", "/match", "Bearer wrong-key", http.StatusUnauthorized},
		{"first key", "/match", "Bearer key1", http.StatusOK},
		{"second key", "/search", "Bearer key2", http.StatusOK},
		{"root exempt", "/", "", http.StatusOK},
		{"health exempt", "/health", "", http.StatusOK},
		{"metrics exempt", "/metrics", "", http.StatusOK},
	}
	handler := BearerAuthMiddleware([]string{"key1", "key2"})(okHandler())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("got %d, want %d", rr.Code, tt.want)
			}
			if tt.want != http.StatusUnauthorized {
				return
			}

			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != ErrorCodeUnauthorized {
				t.Errorf("error code: got %s, want %s", errResp.Code, ErrorCodeUnauthorized)
			}
		})
	}
}
