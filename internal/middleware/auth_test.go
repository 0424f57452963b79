package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack-go/internal/crypto"
	"github.com/tasktrack/tasktrack-go/internal/model"
)

const testSecret = "test-secret"

var alice = model.Identity{ID: 1, Username: "alice", Email: "a@x.com"}

// echoIdentity writes the identity found in the request context.
var echoIdentity = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	json.NewEncoder(w).Encode(id)
})

func serveWithAuth(t *testing.T, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	Authenticate(testSecret)(echoIdentity).ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["message"]
}

func TestAuthenticateAcceptsBearerAndRawToken(t *testing.T) {
	token, err := crypto.GenerateToken(alice, testSecret, time.Hour)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"bearer": "Bearer " + token,
		"raw":    token,
	} {
		t.Run(name, func(t *testing.T) {
			rec := serveWithAuth(t, header)
			require.Equal(t, http.StatusOK, rec.Code)

			var got model.Identity
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, alice, got)
		})
	}
}

func TestAuthenticateMissingToken(t *testing.T) {
	for _, header := range []string{"", "Bearer ", "   "} {
		rec := serveWithAuth(t, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Unauthorized: No token provided", decodeMessage(t, rec))
	}
}

func TestAuthenticateRejectsBadTokensIdentically(t *testing.T) {
	wrongKey, err := crypto.GenerateToken(alice, "other-secret", time.Hour)
	require.NoError(t, err)
	expired, err := crypto.GenerateToken(alice, testSecret, -time.Minute)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"garbage":   "Bearer not-a-token",
		"wrong key": "Bearer " + wrongKey,
		"expired":   "Bearer " + expired,
	} {
		t.Run(name, func(t *testing.T) {
			rec := serveWithAuth(t, header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Invalid or expired token", decodeMessage(t, rec))
		})
	}
}

func TestIdentityFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := IdentityFromContext(req.Context())
	assert.False(t, ok)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("abc"))
	assert.Equal(t, "abc", bearerToken("  Bearer  abc "))
	assert.Equal(t, "", bearerToken(""))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "", bearerToken("Bearer a b"))
}
