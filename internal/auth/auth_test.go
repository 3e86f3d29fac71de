package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/store"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPassword("s3cret", hash))
	assert.False(t, CheckPassword("guess", hash))

	_, err = HashPassword("")
	assert.Error(t, err)
}

func TestTokensIssueAndValidate(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	tokens, err := NewTokens("secret", WithTTL(time.Hour), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	raw, err := tokens.Issue("u-1", "rep@example.com", store.RoleSalesRep)
	require.NoError(t, err)

	claims, err := tokens.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, store.RoleSalesRep, claims.Role)

	other, err := NewTokens("other-secret", WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	_, err = other.Validate(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	later, err := NewTokens("secret", WithClock(func() time.Time { return now.Add(2 * time.Hour) }))
	require.NoError(t, err)
	_, err = later.Validate(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	tokens, err := NewTokens("secret")
	require.NoError(t, err)
	raw, err := tokens.Issue("u-1", "admin@example.com", store.RoleAdmin)
	require.NoError(t, err)

	var seen *Claims
	handler := Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := map[string]struct {
		header string
		status int
	}{
		"missing":   {"", http.StatusUnauthorized},
		"malformed": {"Token " + raw, http.StatusUnauthorized},
		"garbage":   {"Bearer not-a-token", http.StatusUnauthorized},
		"valid":     {"Bearer " + raw, http.StatusNoContent},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
	require.NotNil(t, seen)
	assert.Equal(t, "admin@example.com", seen.Email)
}

func TestServiceLoginAndMe(t *testing.T) {
	ctx := context.Background()
	users := store.NewMemory[store.User]()
	admin, err := NewAdmin(" Admin@Example.com ", "admin123")
	require.NoError(t, err)
	admin, err = users.Add(ctx, admin)
	require.NoError(t, err)

	tokens, err := NewTokens("secret")
	require.NoError(t, err)
	svc := NewService(users, tokens)

	_, err = svc.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, err := svc.Login(ctx, "ADMIN@example.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, UserView{ID: admin.ID, Email: "admin@example.com", Name: "Administrator", Role: store.RoleAdmin}, session.User)

	claims, err := tokens.Validate(session.Token)
	require.NoError(t, err)
	me, err := svc.Me(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, session.User, me)
}
