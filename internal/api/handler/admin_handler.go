package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carjai/marketplace-client/internal/api/metrics"
	"github.com/carjai/marketplace-client/internal/api/middleware"
	"github.com/carjai/marketplace-client/internal/core/domain"
)

// AdminAccounts is the storage behind the admin console endpoints.
type AdminAccounts interface {
	AuthenticateAdmin(username, password, ip string) (*domain.Admin, error)
	Admin(adminID int) (*domain.Admin, error)
	Whitelist(adminID int) []domain.IPWhitelistEntry
	AddIP(adminID int, ip, description string) (*domain.IPWhitelistEntry, error)
	RemoveIP(adminID int, ip string) error
	WouldBlock(adminID int, ip, sessionIP string) bool
}

type AdminHandler struct {
	accounts AdminAccounts
	sessions *middleware.Sessions
}

func NewAdminHandler(accounts AdminAccounts, sessions *middleware.Sessions) *AdminHandler {
	return &AdminHandler{accounts: accounts, sessions: sessions}
}

type adminMeResponse struct {
	Admin   *domain.Admin        `json:"admin"`
	Session *domain.AdminSession `json:"session"`
}

type checkIPResponse struct {
	Success           bool   `json:"success"`
	WouldBlockSession bool   `json:"would_block_session"`
	SessionIP         string `json:"session_ip,omitempty"`
}

// Signin authenticates the console account from a whitelisted address.
//
// @Summary      Admin sign in
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.AdminSigninRequest  true  "Credentials"
// @Success      200   {object}  envelope
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /admin/auth/signin [post]
func (h *AdminHandler) Signin(c echo.Context) error {
	var req domain.AdminSigninRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	admin, err := h.accounts.AuthenticateAdmin(req.Username, req.Password, c.RealIP())
	if err != nil {
		metrics.MockSigninsTotal.WithLabelValues("admin", "rejected").Inc()
		return err
	}
	if _, err := h.sessions.Issue(c, domain.IdentityAdmin, admin.ID); err != nil {
		return err
	}
	metrics.MockSigninsTotal.WithLabelValues("admin", "ok").Inc()
	return respond(c, http.StatusOK, adminMeResponse{Admin: admin})
}

// Signout expires the admin cookie. It succeeds without a session.
//
// @Summary      Admin sign out
// @Tags         admin-auth
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /admin/auth/signout [post]
func (h *AdminHandler) Signout(c echo.Context) error {
	h.sessions.Clear(c, domain.IdentityAdmin)
	return respondMessage(c, http.StatusOK, "Signed out successfully")
}

// Me returns the admin and the metadata of the session cookie.
//
// @Summary      Current admin
// @Tags         admin-auth
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      401  {object}  ErrorResponse
// @Router       /admin/auth/me [get]
func (h *AdminHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	admin, err := h.accounts.Admin(claims.SubjectID())
	if err != nil {
		return err
	}
	sess := &domain.AdminSession{
		IPAddress: claims.IP,
		UserAgent: claims.UserAgent,
	}
	if claims.IssuedAt != nil {
		sess.CreatedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return respond(c, http.StatusOK, adminMeResponse{Admin: admin, Session: sess})
}

// ListIPs returns the caller's whitelist.
//
// @Summary      List whitelisted IPs
// @Tags         admin-ip
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /admin/ip-whitelist [get]
func (h *AdminHandler) ListIPs(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, h.accounts.Whitelist(claims.SubjectID()))
}

// AddIP whitelists an address or CIDR range.
//
// @Summary      Add whitelisted IP
// @Tags         admin-ip
// @Accept       json
// @Produce      json
// @Param        body  body      domain.AddIPRequest  true  "Entry"
// @Success      201   {object}  envelope
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /admin/ip-whitelist/add [post]
func (h *AdminHandler) AddIP(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req domain.AddIPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	entry, err := h.accounts.AddIP(claims.SubjectID(), req.IPAddress, req.Description)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, entry)
}

// CheckIP reports whether removing ?ip= would lock out the caller's session.
//
// @Summary      Check whitelist removal impact
// @Tags         admin-ip
// @Produce      json
// @Param        ip   query     string  true  "Address or CIDR"
// @Success      200  {object}  checkIPResponse
// @Router       /admin/ip-whitelist/check [get]
func (h *AdminHandler) CheckIP(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	ip := c.QueryParam("ip")
	if ip == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "IP address parameter is required")
	}
	return c.JSON(http.StatusOK, checkIPResponse{
		Success:           true,
		WouldBlockSession: h.accounts.WouldBlock(claims.SubjectID(), ip, claims.IP),
		SessionIP:         claims.IP,
	})
}

// RemoveIP deletes a whitelist entry. The client is responsible for
// confirming removals that would block its own session.
//
// @Summary      Remove whitelisted IP
// @Tags         admin-ip
// @Produce      json
// @Param        ip   query     string  true  "Address or CIDR"
// @Success      200  {object}  envelope
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/ip-whitelist/remove [delete]
func (h *AdminHandler) RemoveIP(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	ip := c.QueryParam("ip")
	if ip == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "IP address parameter is required")
	}
	if err := h.accounts.RemoveIP(claims.SubjectID(), ip); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "IP address removed from whitelist successfully")
}
