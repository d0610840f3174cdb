package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carjai/marketplace-client/internal/api/metrics"
	"github.com/carjai/marketplace-client/internal/api/middleware"
	"github.com/carjai/marketplace-client/internal/core/domain"
)

// UserAccounts is the account storage the user auth endpoints need.
type UserAccounts interface {
	CreateUser(req domain.SignupRequest) (*domain.User, error)
	AuthenticateUser(login, password string) (*domain.User, error)
	UserSession(userID int) (*domain.UserSession, error)
}

type AuthHandler struct {
	accounts UserAccounts
	sessions *middleware.Sessions
}

func NewAuthHandler(accounts UserAccounts, sessions *middleware.Sessions) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions}
}

type authResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

// Signup creates a buyer/seller account and starts its session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.SignupRequest  true  "Account details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req domain.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.accounts.CreateUser(req)
	if err != nil {
		return err
	}
	claims, err := h.sessions.Issue(c, domain.IdentityUser, user.ID)
	if err != nil {
		return err
	}
	exp := claims.ExpiresAt.Time
	return respond(c, http.StatusCreated, authResponse{User: user, ExpiresAt: &exp})
}

// Signin authenticates with an email or username.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.SigninRequest  true  "Credentials"
// @Success      200   {object}  envelope
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req domain.SigninRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.accounts.AuthenticateUser(req.EmailOrUsername, req.Password)
	if err != nil {
		metrics.MockSigninsTotal.WithLabelValues("user", "rejected").Inc()
		return err
	}
	claims, err := h.sessions.Issue(c, domain.IdentityUser, user.ID)
	if err != nil {
		return err
	}
	metrics.MockSigninsTotal.WithLabelValues("user", "ok").Inc()
	exp := claims.ExpiresAt.Time
	return respond(c, http.StatusOK, authResponse{User: user, ExpiresAt: &exp})
}

// Signout expires the user cookie. It succeeds without a session.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /api/auth/signout [post]
func (h *AuthHandler) Signout(c echo.Context) error {
	h.sessions.Clear(c, domain.IdentityUser)
	return respondMessage(c, http.StatusOK, "Signed out successfully")
}

// Me returns the user bound to the session cookie with roles and profile
// completeness.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      401  {object}  ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	sess, err := h.accounts.UserSession(claims.SubjectID())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, sess)
}

// Refresh re-issues the session cookie with a fresh expiry.
//
// @Summary      Refresh session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      401  {object}  ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	next, err := h.sessions.Issue(c, domain.IdentityUser, claims.SubjectID())
	if err != nil {
		return err
	}
	exp := next.ExpiresAt.Time
	return respond(c, http.StatusOK, map[string]any{"expires_at": exp})
}
