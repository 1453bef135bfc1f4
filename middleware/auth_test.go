package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func protected(roles ...string) http.Handler {
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetUserIDFromContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	if len(roles) > 0 {
		h = Authorize(roles...)(h)
	}
	return Authenticate(testSecret)(h)
}

func call(h http.Handler, authorization string) int {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAuthenticate(t *testing.T) {
	valid := signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"user_id": 7, "role": RoleOrganizer, "exp": time.Now().Add(time.Hour).Unix(),
	})
	expired := signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"user_id": 7})
	unsigned := signed(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"user_id": 7})

	h := protected()
	assert.Equal(t, http.StatusOK, call(h, "Bearer "+valid))
	assert.Equal(t, http.StatusOK, call(h, "bearer "+valid))
	assert.Equal(t, http.StatusUnauthorized, call(h, ""))
	assert.Equal(t, http.StatusUnauthorized, call(h, valid))
	assert.Equal(t, http.StatusUnauthorized, call(h, "Bearer "+expired))
	assert.Equal(t, http.StatusUnauthorized, call(h, "Bearer "+wrongKey))
	assert.Equal(t, http.StatusUnauthorized, call(h, "Bearer "+unsigned))
}

func TestAuthorize(t *testing.T) {
	organizer := signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": 1, "role": RoleOrganizer})
	player := signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": 2, "role": "player"})
	noRole := signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"user_id": 3})

	h := protected(RoleOrganizer, RoleAdmin)
	assert.Equal(t, http.StatusOK, call(h, "Bearer "+organizer))
	assert.Equal(t, http.StatusForbidden, call(h, "Bearer "+player))
	assert.Equal(t, http.StatusForbidden, call(h, "Bearer "+noRole))
}

func TestGetUserIDFromContext(t *testing.T) {
	cases := []struct {
		claims  jwt.MapClaims
		want    int
		wantErr bool
	}{
		{jwt.MapClaims{"user_id": float64(12)}, 12, false},
		{jwt.MapClaims{"user_id": "15"}, 15, false},
		{jwt.MapClaims{"user_id": 1.5}, 0, true},
		{jwt.MapClaims{"user_id": float64(0)}, 0, true},
		{jwt.MapClaims{"user_id": true}, 0, true},
		{jwt.MapClaims{}, 0, true},
	}
	for _, c := range cases {
		got, err := GetUserIDFromContext(WithClaims(context.Background(), c.claims))
		if c.wantErr {
			assert.Error(t, err, "%v", c.claims)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	_, err := GetUserIDFromContext(context.Background())
	assert.Error(t, err)
}
