package ports

import (
	"context"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

// SignoutAPI is the only capability mutual logout needs from either side.
type SignoutAPI interface {
	Signout(ctx context.Context) error
}

// UserAuthAPI is the user half of the remote auth contract.
type UserAuthAPI interface {
	SignoutAPI
	Signin(ctx context.Context, req domain.SigninRequest) (*domain.User, error)
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error)
	GoogleSignin(ctx context.Context, req domain.GoogleSigninRequest) (*domain.User, error)
	Me(ctx context.Context) (*domain.UserSession, error)
	Refresh(ctx context.Context) error
}

// AdminAuthAPI is the admin half of the remote auth contract plus the IP
// whitelist endpoints the admin state machine manages.
type AdminAuthAPI interface {
	SignoutAPI
	Signin(ctx context.Context, req domain.AdminSigninRequest) (*domain.Admin, error)
	Me(ctx context.Context) (*domain.AdminMe, error)
	ListIPWhitelist(ctx context.Context) ([]domain.IPWhitelistEntry, error)
	AddIP(ctx context.Context, req domain.AddIPRequest) error
	CheckIP(ctx context.Context, ip string) (bool, error)
	RemoveIP(ctx context.Context, ip string) error
}

// RecentViewsAPI syncs the recently viewed list for signed-in users. The
// remote list carries no view timestamps.
type RecentViewsAPI interface {
	List(ctx context.Context, limit int) ([]domain.CarListing, error)
	Record(ctx context.Context, carID int) error
}
