package middleware

import (
	"strings"

	"github.com/eyxpoliba/emotion-core/internal/config"
	"github.com/eyxpoliba/emotion-core/internal/pkg/jwt"
	"github.com/eyxpoliba/emotion-core/internal/pkg/response"
	"github.com/eyxpoliba/emotion-core/internal/pkg/revocation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// ContextKeyPrincipal holds the authenticated Principal in the gin context.
	ContextKeyPrincipal = "auth_principal"

	// AccessTokenCookie is the cookie read under the cookie transport.
	AccessTokenCookie = "accessToken"
)

// Principal is the per-request identity populated by the gate.
type Principal struct {
	Subject string
	UserID  int64
	Role    string
}

// RejectReason enumerates why the gate refused a request. The client only
// ever sees the message; internal causes go to the log.
type RejectReason int

const (
	RejectTokenMissing RejectReason = iota
	RejectMalformedHeader
	RejectMalformedToken
	RejectRevoked
	RejectInvalidOrExpired
)

func (r RejectReason) Message() string {
	switch r {
	case RejectTokenMissing:
		return "JWT token is missing"
	case RejectMalformedHeader:
		return "Malformed authorization header"
	case RejectMalformedToken:
		return "Malformed token"
	case RejectRevoked:
		return "Token has been revoked"
	default:
		return "Invalid or expired token"
	}
}

func (r RejectReason) String() string {
	switch r {
	case RejectTokenMissing:
		return "token_missing"
	case RejectMalformedHeader:
		return "malformed_header"
	case RejectMalformedToken:
		return "malformed_token"
	case RejectRevoked:
		return "revoked"
	default:
		return "invalid_or_expired"
	}
}

// Paths the gate never inspects. Login endpoints cannot require a token,
// and logout applies the extraction policy itself so that it can answer
// with its own 400-level contract.
var openPaths = map[string]struct{}{
	"/api/login":        {},
	"/api/google-login": {},
	"/api/logout":       {},
	"/api/ping":         {},
}

// IsPublicPath reports whether the gate passes the request through without
// touching the token or the revocation store.
func IsPublicPath(path string) bool {
	if _, ok := openPaths[path]; ok {
		return true
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == "public" {
			return true
		}
	}
	return false
}

// ExtractToken pulls the session token using exactly the configured
// transport. There is deliberately no fallback between cookie and header.
func ExtractToken(c *gin.Context, transport string) (string, RejectReason, bool) {
	if transport == config.TransportCookie {
		token, err := c.Cookie(AccessTokenCookie)
		if err != nil || strings.TrimSpace(token) == "" {
			return "", RejectTokenMissing, false
		}
		return token, 0, true
	}

	header := c.GetHeader("Authorization")
	if strings.TrimSpace(header) == "" {
		return "", RejectTokenMissing, false
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", RejectMalformedHeader, false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", RejectMalformedHeader, false
	}
	return token, 0, true
}

// Auth returns the authentication gate. Every protected request runs:
// extract, revocation lookup, signature+expiry validation, principal
// population. Revocation is checked before validity so that a revoked but
// still-valid token is always refused. Internal store or codec failures are
// reported to the client as the generic reason and distinguished only in
// the log.
func Auth(store revocation.Store, transport string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		principal, reason, ok := gate(c, store, transport, log)
		if !ok {
			log.Warn("request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("reason", reason.String()),
			)
			response.Unauthorized(c, reason.Message())
			return
		}

		c.Set(ContextKeyPrincipal, principal)
		c.Next()
	}
}

func gate(c *gin.Context, store revocation.Store, transport string, log *zap.Logger) (principal Principal, reason RejectReason, ok bool) {
	// The gate must always terminate in a structured rejection; a panic in
	// the store or codec collapses to the generic reason.
	defer func() {
		if r := recover(); r != nil {
			log.Error("authentication gate panic", zap.Any("panic", r))
			principal, reason, ok = Principal{}, RejectInvalidOrExpired, false
		}
	}()

	token, reason, ok := ExtractToken(c, transport)
	if !ok {
		return Principal{}, reason, false
	}

	revoked, err := store.IsRevoked(c.Request.Context(), token)
	if err != nil {
		log.Error("revocation lookup failed", zap.Error(err))
		return Principal{}, RejectInvalidOrExpired, false
	}
	if revoked {
		return Principal{}, RejectRevoked, false
	}

	claims, err := jwt.Parse(token)
	if err != nil {
		log.Warn("token parse failed", zap.Error(err))
		return Principal{}, RejectMalformedToken, false
	}
	if jwt.IsExpired(claims) {
		return Principal{}, RejectInvalidOrExpired, false
	}

	return Principal{
		Subject: claims.Subject,
		UserID:  int64(claims.UserID),
		Role:    claims.Roles,
	}, 0, true
}

// CurrentPrincipal extracts the authenticated identity from the context.
func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
