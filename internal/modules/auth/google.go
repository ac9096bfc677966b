package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrInvalidCredential covers every way a Google credential can fail
// verification; the handler maps it to a 400.
var ErrInvalidCredential = errors.New("invalid google credential")

// GoogleIdentity is the verified identity extracted from a Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	Name          string
	EmailVerified bool
}

// CredentialVerifier validates a Google credential with the upstream
// issuer. The HTTP implementation is swapped for a stub in tests.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleIdentity, error)
}

const defaultTokeninfoEndpoint = "https://oauth2.googleapis.com/tokeninfo"

// TokeninfoVerifier verifies ID tokens against Google's tokeninfo endpoint.
type TokeninfoVerifier struct {
	ClientID string
	Endpoint string
	Client   *http.Client
}

func NewTokeninfoVerifier(clientID string) *TokeninfoVerifier {
	return &TokeninfoVerifier{
		ClientID: clientID,
		Endpoint: defaultTokeninfoEndpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *TokeninfoVerifier) Verify(ctx context.Context, credential string) (*GoogleIdentity, error) {
	endpoint := v.Endpoint
	if endpoint == "" {
		endpoint = defaultTokeninfoEndpoint
	}

	requestURL := endpoint + "?id_token=" + url.QueryEscape(credential)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: tokeninfo status %d", ErrInvalidCredential, resp.StatusCode)
	}

	var payload struct {
		Aud           string `json:"aud"`
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: bad tokeninfo body", ErrInvalidCredential)
	}

	if v.ClientID != "" && payload.Aud != v.ClientID {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidCredential)
	}
	if payload.Sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidCredential)
	}

	return &GoogleIdentity{
		Subject:       payload.Sub,
		Email:         payload.Email,
		Name:          payload.Name,
		EmailVerified: payload.EmailVerified == "true",
	}, nil
}
