package source

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protechtimenow/repomesh/pkg/tokenstore"
)

func generateTestKey(t *testing.T) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

func TestGenerateJWT(t *testing.T) {
	keyData := generateTestKey(t)
	store := tokenstore.NewMemoryStore()

	auth, err := NewAppAuthFromKeyBytes(12345, 67890, keyData, store, zerolog.Nop())
	require.NoError(t, err)

	jwt, err := auth.generateJWT()
	require.NoError(t, err)
	assert.NotEmpty(t, jwt)
	assert.Contains(t, jwt, ".")
}

func TestInstallationToken_Cached(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.NewMemoryStore()
	_ = store.Set(ctx, installationTokenKey, "cached-token-123", 10*time.Minute)

	keyData := generateTestKey(t)
	auth, err := NewAppAuthFromKeyBytes(12345, 67890, keyData, store, zerolog.Nop())
	require.NoError(t, err)

	token, err := auth.installationToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cached-token-123", token)
}

func TestInstallationToken_FromAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/app/installations/67890/access_tokens", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token":      "ghs_test_token_123",
			"expires_at": time.Now().Add(1 * time.Hour).Format(time.RFC3339),
		})
	}))
	defer server.Close()

	keyData := generateTestKey(t)
	store := tokenstore.NewMemoryStore()
	auth, err := NewAppAuthFromKeyBytes(12345, 67890, keyData, store, zerolog.Nop())
	require.NoError(t, err)
	auth.httpClient = server.Client()
	auth.apiBase = server.URL

	ctx := context.Background()
	token, err := auth.installationToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ghs_test_token_123", token)

	// Second call hits the cache, not the API.
	cached, err := auth.installationToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, cached)
}

func TestInstallationToken_APIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	keyData := generateTestKey(t)
	auth, err := NewAppAuthFromKeyBytes(12345, 67890, keyData, tokenstore.NewMemoryStore(), zerolog.Nop())
	require.NoError(t, err)
	auth.httpClient = server.Client()
	auth.apiBase = server.URL

	_, err = auth.installationToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestNewAppAuthFromKeyBytes_InvalidKey(t *testing.T) {
	_, err := NewAppAuthFromKeyBytes(1, 1, []byte("not-a-key"), tokenstore.NewMemoryStore(), zerolog.Nop())
	assert.Error(t, err)
}
