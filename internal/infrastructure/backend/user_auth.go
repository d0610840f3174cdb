package backend

import (
	"context"
	"net/http"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

// UserAuth wraps /api/auth. Token fields in replies are ignored; the session
// lives only in the cookie jar.
type UserAuth struct {
	c *Client
}

func (c *Client) UserAuth() *UserAuth {
	return &UserAuth{c: c}
}

type userReply struct {
	User domain.User `json:"user"`
}

func (a *UserAuth) Signin(ctx context.Context, req domain.SigninRequest) (*domain.User, error) {
	return a.authenticate(ctx, "/api/auth/signin", req)
}

func (a *UserAuth) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	return a.authenticate(ctx, "/api/auth/signup", req)
}

func (a *UserAuth) GoogleSignin(ctx context.Context, req domain.GoogleSigninRequest) (*domain.User, error) {
	return a.authenticate(ctx, "/api/auth/google/signin", req)
}

func (a *UserAuth) authenticate(ctx context.Context, path string, body any) (*domain.User, error) {
	var reply userReply
	if _, err := a.c.do(ctx, request{method: http.MethodPost, path: path, json: body}, &reply); err != nil {
		return nil, err
	}
	return &reply.User, nil
}

func (a *UserAuth) Signout(ctx context.Context) error {
	_, err := a.c.do(ctx, request{method: http.MethodPost, path: "/api/auth/signout"}, nil)
	return err
}

// Me returns the session behind the cookie. A 2xx reply counts only when it
// says success and carries a user with an id.
func (a *UserAuth) Me(ctx context.Context) (*domain.UserSession, error) {
	var sess domain.UserSession
	env, err := a.c.do(ctx, request{method: http.MethodGet, path: "/api/auth/me"}, &sess)
	if err != nil {
		return nil, err
	}
	if !env.succeeded() || sess.User.ID == 0 {
		return nil, rejectedError(http.StatusOK, "", invalidSessionMessage)
	}
	return &sess, nil
}

func (a *UserAuth) Refresh(ctx context.Context) error {
	_, err := a.c.do(ctx, request{method: http.MethodPost, path: "/api/auth/refresh"}, nil)
	return err
}

func (a *UserAuth) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	_, err := a.c.do(ctx, request{method: http.MethodPost, path: "/api/auth/forgot-password", json: req}, nil)
	return err
}

func (a *UserAuth) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	_, err := a.c.do(ctx, request{method: http.MethodPost, path: "/api/auth/reset-password", json: req}, nil)
	return err
}
