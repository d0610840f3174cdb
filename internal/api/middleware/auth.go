package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

const (
	UserCookie  = "jwt"
	AdminCookie = "admin_jwt"

	// ClaimsKey is the echo context key holding the verified *Claims.
	ClaimsKey = "session_claims"
)

// Claims is the payload of a session cookie. IP and UserAgent record where
// the session was created.
type Claims struct {
	Kind      domain.IdentityKind `json:"kind"`
	IP        string              `json:"ip,omitempty"`
	UserAgent string              `json:"ua,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID returns the numeric account id carried in the subject claim.
func (c *Claims) SubjectID() int {
	id, _ := strconv.Atoi(c.Subject)
	return id
}

// Sessions issues and verifies the HS256 cookies of the mock backend.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func cookieName(kind domain.IdentityKind) string {
	if kind == domain.IdentityAdmin {
		return AdminCookie
	}
	return UserCookie
}

// Issue signs a session for subject and sets it as an HttpOnly cookie.
func (s *Sessions) Issue(c echo.Context, kind domain.IdentityKind, subject int) (*Claims, error) {
	now := s.now()
	claims := &Claims{
		Kind:      kind,
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(subject),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	c.SetCookie(&http.Cookie{
		Name:     cookieName(kind),
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(s.ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return claims, nil
}

// Clear expires the cookie of kind.
func (s *Sessions) Clear(c echo.Context, kind domain.IdentityKind) {
	c.SetCookie(&http.Cookie{
		Name:     cookieName(kind),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Parse verifies a signed session of kind.
func (s *Sessions) Parse(token string, kind domain.IdentityKind) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthorized
	}
	if claims.Kind != kind {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// Require validates the session cookie of kind and injects its claims into
// the context.
func (s *Sessions) Require(kind domain.IdentityKind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName(kind))
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			claims, err := s.Parse(cookie.Value, kind)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired session")
			}
			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// Optional injects claims when a valid cookie of kind is present and lets
// the request through either way.
func (s *Sessions) Optional(kind domain.IdentityKind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(cookieName(kind)); err == nil && cookie.Value != "" {
				if claims, err := s.Parse(cookie.Value, kind); err == nil {
					c.Set(ClaimsKey, claims)
				}
			}
			return next(c)
		}
	}
}
