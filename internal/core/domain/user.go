package domain

import "time"

// User is the signed-in buyer/seller identity as reported by /api/auth/me.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Roles are derived server-side from which profiles exist.
type Roles struct {
	Buyer  bool `json:"buyer"`
	Seller bool `json:"seller"`
}

// Profiles reports whether each role's profile has all required fields.
type Profiles struct {
	BuyerComplete  bool `json:"buyerComplete"`
	SellerComplete bool `json:"sellerComplete"`
}

// SigninRequest accepts either an email or a username as the login.
type SigninRequest struct {
	EmailOrUsername string `json:"email_or_username" validate:"required"`
	Password        string `json:"password"          validate:"required,min=6"`
}

type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Username string `json:"username" validate:"required,min=3,max=20"`
	Name     string `json:"name"     validate:"required,min=2,max=100"`
}

type GoogleSigninRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// BuyerProfile and SellerProfile mirror /api/profile/{buyer,seller}.
type BuyerProfile struct {
	Province  string `json:"province,omitempty"`
	BudgetMin *int   `json:"budgetMin,omitempty"`
	BudgetMax *int   `json:"budgetMax,omitempty"`
}

type SellerProfile struct {
	DisplayName string          `json:"displayName"`
	About       string          `json:"about,omitempty"`
	MapLink     string          `json:"mapLink,omitempty"`
	Contacts    []SellerContact `json:"contacts,omitempty"`
}

type SellerContact struct {
	ContactType string `json:"contactType"`
	Value       string `json:"value"`
	Label       string `json:"label,omitempty"`
}

// Profile is the aggregate returned by GET /api/profile.
type Profile struct {
	User     User           `json:"user"`
	Roles    Roles          `json:"roles"`
	Profiles Profiles       `json:"profiles"`
	Buyer    *BuyerProfile  `json:"buyer,omitempty"`
	Seller   *SellerProfile `json:"seller,omitempty"`
}

// Seller is the public view of a seller.
type Seller struct {
	ID          int    `json:"id"`
	DisplayName string `json:"displayName"`
	About       string `json:"about,omitempty"`
	MapLink     string `json:"mapLink,omitempty"`
}
