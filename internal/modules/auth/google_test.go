package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokeninfoServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("id_token"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func newTestVerifier(endpoint string) *TokeninfoVerifier {
	return &TokeninfoVerifier{
		ClientID: "client-123",
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 2 * time.Second},
	}
}

func TestTokeninfoVerifierAccepts(t *testing.T) {
	srv := newTokeninfoServer(t, http.StatusOK,
		`{"aud":"client-123","sub":"g-42","email":"alice@example.com","email_verified":"true","name":"Alice"}`)
	defer srv.Close()

	identity, err := newTestVerifier(srv.URL).Verify(context.Background(), "credential")
	require.NoError(t, err)
	assert.Equal(t, "g-42", identity.Subject)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.Equal(t, "Alice", identity.Name)
	assert.True(t, identity.EmailVerified)
}

func TestTokeninfoVerifierRejectsUpstreamError(t *testing.T) {
	srv := newTokeninfoServer(t, http.StatusBadRequest, `{"error":"invalid_token"}`)
	defer srv.Close()

	_, err := newTestVerifier(srv.URL).Verify(context.Background(), "credential")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestTokeninfoVerifierRejectsAudienceMismatch(t *testing.T) {
	srv := newTokeninfoServer(t, http.StatusOK,
		`{"aud":"someone-else","sub":"g-42","email":"alice@example.com","email_verified":"true"}`)
	defer srv.Close()

	_, err := newTestVerifier(srv.URL).Verify(context.Background(), "credential")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestTokeninfoVerifierRejectsMissingSubject(t *testing.T) {
	srv := newTokeninfoServer(t, http.StatusOK, `{"aud":"client-123","email":"x@example.com"}`)
	defer srv.Close()

	_, err := newTestVerifier(srv.URL).Verify(context.Background(), "credential")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
