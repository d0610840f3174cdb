package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

// AdminAuth wraps the admin session and IP whitelist endpoints under the
// configured admin prefix.
type AdminAuth struct {
	c *Client
}

func (c *Client) AdminAuth() *AdminAuth {
	return &AdminAuth{c: c}
}

type adminReply struct {
	Admin *domain.Admin `json:"admin"`
}

func (a *AdminAuth) Signin(ctx context.Context, req domain.AdminSigninRequest) (*domain.Admin, error) {
	var reply adminReply
	_, err := a.c.do(ctx, request{method: http.MethodPost, path: a.c.admin("/auth/signin"), json: req, rejected: "Signin failed"}, &reply)
	if err != nil {
		return nil, err
	}
	if reply.Admin == nil {
		return nil, rejectedError(http.StatusOK, "", "Signin failed")
	}
	return reply.Admin, nil
}

func (a *AdminAuth) Signout(ctx context.Context) error {
	_, err := a.c.do(ctx, request{method: http.MethodPost, path: a.c.admin("/auth/signout")}, nil)
	return err
}

// Me returns the admin and session metadata behind the cookie. A 2xx reply
// counts only when it says success and carries an admin with an id.
func (a *AdminAuth) Me(ctx context.Context) (*domain.AdminMe, error) {
	var me domain.AdminMe
	env, err := a.c.do(ctx, request{method: http.MethodGet, path: a.c.admin("/auth/me")}, &me)
	if err != nil {
		return nil, err
	}
	if !env.succeeded() || me.Admin.ID == 0 {
		return nil, rejectedError(http.StatusOK, "", invalidSessionMessage)
	}
	return &me, nil
}

func (a *AdminAuth) ListIPWhitelist(ctx context.Context) ([]domain.IPWhitelistEntry, error) {
	var list []domain.IPWhitelistEntry
	if _, err := a.c.do(ctx, request{method: http.MethodGet, path: a.c.admin("/ip-whitelist")}, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.IPWhitelistEntry{}
	}
	return list, nil
}

func (a *AdminAuth) AddIP(ctx context.Context, req domain.AddIPRequest) error {
	_, err := a.c.do(ctx, request{method: http.MethodPost, path: a.c.admin("/ip-whitelist/add"), json: req}, nil)
	return err
}

// CheckIP asks the backend whether removing ip would lock out the caller.
func (a *AdminAuth) CheckIP(ctx context.Context, ip string) (bool, error) {
	env, err := a.c.do(ctx, request{
		method: http.MethodGet,
		path:   a.c.admin("/ip-whitelist/check"),
		query:  url.Values{"ip": {ip}},
	}, nil)
	if err != nil {
		return false, err
	}
	return env != nil && env.WouldBlockSession != nil && *env.WouldBlockSession, nil
}

func (a *AdminAuth) RemoveIP(ctx context.Context, ip string) error {
	_, err := a.c.do(ctx, request{
		method: http.MethodDelete,
		path:   a.c.admin("/ip-whitelist/remove"),
		query:  url.Values{"ip": {ip}},
	}, nil)
	return err
}
