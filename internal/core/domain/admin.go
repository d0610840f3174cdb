package domain

import "time"

// Admin is the separate console identity. It never overlaps with User.
type Admin struct {
	ID          int        `json:"id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Role        string     `json:"role,omitempty"`
	LastLoginAt *time.Time `json:"last_signin_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AdminSession is the server's view of the admin session bound to the cookie.
type AdminSession struct {
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session has passed its expiry at now.
func (s *AdminSession) IsExpired(now time.Time) bool {
	return s != nil && !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// IPWhitelistEntry is one allowed address or CIDR range for admin access.
type IPWhitelistEntry struct {
	ID          int       `json:"id"`
	AdminID     int       `json:"admin_id"`
	IPAddress   string    `json:"ip_address"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type AdminSigninRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6"`
}

type AddIPRequest struct {
	IPAddress   string `json:"ip_address"  validate:"required"`
	Description string `json:"description" validate:"max=255"`
}

// ManagedUser is a row in the admin user table; Type is "user" or "admin".
type ManagedUser struct {
	ID        int       `json:"id"`
	Type      string    `json:"type"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Role      string    `json:"role"`
	Roles     *Roles    `json:"roles,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ManagedCar struct {
	ID           int       `json:"id"`
	BrandName    *string   `json:"brandName"`
	ModelName    *string   `json:"modelName"`
	SubmodelName *string   `json:"submodelName"`
	Year         *int      `json:"year"`
	Status       string    `json:"status"`
	ListedDate   time.Time `json:"listedDate"`
	SoldBy       *string   `json:"soldBy"`
	Price        *int      `json:"price"`
	Mileage      *int      `json:"mileage"`
}

// Report statuses as used by the moderation queue.
const (
	ReportPending   = "pending"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

type Report struct {
	ID          int       `json:"id"`
	Type        string    `json:"type"`
	Topic       string    `json:"topic"`
	SubTopics   []string  `json:"subTopics,omitempty"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CarID       *int      `json:"carId,omitempty"`
	SellerID    *int      `json:"sellerId,omitempty"`
	ReporterID  int       `json:"reporterId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SubmitReportRequest struct {
	Topic       string   `json:"topic"       validate:"required"`
	SubTopics   []string `json:"subTopics,omitempty"`
	Description string   `json:"description" validate:"required,min=10"`
}

type MarketPrice struct {
	ID          int    `json:"id"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	SubModel    string `json:"sub_model"`
	YearStart   int    `json:"year_start"`
	YearEnd     int    `json:"year_end"`
	PriceMinTHB int64  `json:"price_min_thb"`
	PriceMaxTHB int64  `json:"price_max_thb"`
}

type MarketPriceImport struct {
	InsertedCount int `json:"inserted_count"`
	UpdatedCount  int `json:"updated_count"`
	TotalRecords  int `json:"total_records"`
}

type DashboardStats struct {
	TotalUsers     int `json:"totalUsers"`
	ActiveCars     int `json:"activeCars"`
	PendingReports int `json:"pendingReports"`
	SoldCars       int `json:"soldCars"`
	TotalBuyers    int `json:"totalBuyers"`
	TotalSellers   int `json:"totalSellers"`
}
