package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"onboard/pkg/requestcontext"
	"onboard/pkg/testutil"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return s.claims, s.err
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var seen requestcontext.StaffIdentity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.Staff(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name      string
		header    string
		validator stubValidator
		status    int
	}{
		{"missing header", "", stubValidator{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", stubValidator{}, http.StatusUnauthorized},
		{"invalid token", "Bearer bad", stubValidator{err: errors.New("bad signature")}, http.StatusUnauthorized},
		{"token without staff", "Bearer ok", stubValidator{claims: &JWTClaims{}}, http.StatusUnauthorized},
		{"valid token", "Bearer ok", stubValidator{claims: &JWTClaims{StaffID: "staff-1", FirmID: "firm-1"}}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = requestcontext.StaffIdentity{}
			req := httptest.NewRequest(http.MethodPost, "/checks/validate", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			RequireAuth(tt.validator, logger)(next).ServeHTTP(rr, req)

			testutil.AssertStatus(t, rr, tt.status)
			if tt.status == http.StatusUnauthorized {
				testutil.AssertErrorCode(t, rr, "unauthorized")
				assert.True(t, seen.IsZero())
				return
			}
			assert.Equal(t, requestcontext.StaffIdentity{StaffID: "staff-1", FirmID: "firm-1"}, seen)
		})
	}
}
