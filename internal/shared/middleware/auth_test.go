package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/binti59/finance-app/internal/shared/auth"
)

func TestAuth(t *testing.T) {
	jwt := auth.NewJWT("unit-test-secret")
	token, err := jwt.Generate(42, "someone@example.com")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantUserID int64
	}{
		{
			name: "token in cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "access_token", Value: token})
			},
			wantStatus: http.StatusOK,
			wantUserID: 42,
		},
		{
			name: "token in bearer header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+token)
			},
			wantStatus: http.StatusOK,
			wantUserID: 42,
		},
		{
			name:       "missing token",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed header scheme",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Token "+token)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "garbage token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer not.a.jwt")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "token signed with another secret",
			setup: func(r *http.Request) {
				other, _ := auth.NewJWT("different-secret").Generate(42, "someone@example.com")
				r.Header.Set("Authorization", "Bearer "+other)
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			var sawUser bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, sawUser = UserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
			tt.setup(req)
			rr := httptest.NewRecorder()
			Auth(jwt)(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if !sawUser {
					t.Fatal("user ID missing from context")
				}
				if gotUserID != tt.wantUserID {
					t.Errorf("user ID = %d, want %d", gotUserID, tt.wantUserID)
				}
			} else if sawUser {
				t.Error("next handler ran for a rejected request")
			}
		})
	}
}
