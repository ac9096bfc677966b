package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken covers every parse/signature/claim-shape failure.
// Expiry is deliberately not part of it; callers check that separately.
var ErrMalformedToken = errors.New("malformed token")

// RoleUser is the only role marker issued; it is embedded in access tokens.
const RoleUser = "USER"

var (
	secret     []byte
	issuer     = "emotion-recognition"
	accessTTL  = 60 * time.Minute
	refreshTTL = 240 * time.Minute
)

// SetSecret configures the signing secret (call once on startup).
func SetSecret(s string) {
	if s != "" {
		secret = []byte(s)
	}
}

// SetIssuer configures the issuer claim stamped on every token.
func SetIssuer(s string) {
	if s != "" {
		issuer = s
	}
}

// SetTTLs overrides the access/refresh token lifetimes.
func SetTTLs(access, refresh time.Duration) {
	if access > 0 {
		accessTTL = access
	}
	if refresh > 0 {
		refreshTTL = refresh
	}
}

// AccessTTL returns the configured access-token lifetime.
func AccessTTL() time.Duration { return accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func RefreshTTL() time.Duration { return refreshTTL }

// UserID is the numeric account reference claim. Historic clients sent it
// both as a JSON number and as a string, so decoding coerces either form.
type UserID int64

func (u *UserID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		v, err := n.Int64()
		if err != nil {
			return fmt.Errorf("userId claim %q is not an integer", n.String())
		}
		*u = UserID(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("userId claim has unsupported type")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("userId claim %q is not an integer", s)
	}
	*u = UserID(v)
	return nil
}

// Claims is the session token payload. Subject carries the nickname; Roles
// is set only on access tokens.
type Claims struct {
	UserID UserID `json:"userId"`
	Roles  string `json:"roles,omitempty"`
	jwtlib.RegisteredClaims
}

// Sign creates an HS512-signed token. Access tokens get the short TTL and
// the USER role marker; refresh tokens get the long TTL and no role.
func Sign(subject string, userID int64, access bool) (string, error) {
	ttl := refreshTTL
	roles := ""
	if access {
		ttl = accessTTL
		roles = RoleUser
	}

	now := time.Now()
	claims := Claims{
		UserID: UserID(userID),
		Roles:  roles,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, claims)
	return token.SignedString(secret)
}

// Parse verifies the signature and returns the claims. It does NOT reject
// expired tokens; expiry is an explicit, separate check so that callers can
// distinguish a forged token from a stale one.
func Parse(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwtlib.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// IsExpired reports whether the claims' expiry has passed. Claims without an
// expiry are treated as expired.
func IsExpired(claims *Claims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return !time.Now().Before(claims.ExpiresAt.Time)
}

// Validate reports whether the token is well-formed, correctly signed and
// not expired. Any failure along the way means invalid; it never errors.
func Validate(tokenStr string) bool {
	claims, err := Parse(tokenStr)
	if err != nil {
		return false
	}
	return !IsExpired(claims)
}
