package domain

import (
	"strings"
	"time"
)

// CarListing is the lightweight card shape used by search results, favorites,
// recent views and the comparison set.
type CarListing struct {
	ID              int      `json:"id"`
	SellerID        int      `json:"sellerId"`
	Status          string   `json:"status"`
	BrandName       string   `json:"brandName,omitempty"`
	ModelName       string   `json:"modelName,omitempty"`
	SubmodelName    string   `json:"submodelName,omitempty"`
	Year            *int     `json:"year,omitempty"`
	Price           *int     `json:"price,omitempty"`
	Mileage         *int     `json:"mileage,omitempty"`
	BodyType        string   `json:"bodyType,omitempty"`
	Transmission    string   `json:"transmission,omitempty"`
	Drivetrain      string   `json:"drivetrain,omitempty"`
	FuelTypes       []string `json:"fuelTypes,omitempty"`
	Colors          []string `json:"colors,omitempty"`
	ConditionRating *int     `json:"conditionRating,omitempty"`
	ThumbnailURL    string   `json:"thumbnailUrl,omitempty"`
}

// Title joins brand, model and submodel, skipping blanks.
func (c CarListing) Title() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.BrandName, c.ModelName, c.SubmodelName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// CarDetail is the full record returned by GET /api/cars/:id.
type CarDetail struct {
	Car            CarData         `json:"car"`
	Images         []ImageMetadata `json:"images"`
	Inspection     *Inspection     `json:"inspection,omitempty"`
	SellerContacts []SellerContact `json:"sellerContacts,omitempty"`
}

type CarData struct {
	ID               int       `json:"id"`
	SellerID         int       `json:"sellerId"`
	Status           string    `json:"status"`
	BrandName        string    `json:"brandName,omitempty"`
	ModelName        string    `json:"modelName,omitempty"`
	SubmodelName     string    `json:"submodelName,omitempty"`
	Year             *int      `json:"year,omitempty"`
	Mileage          *int      `json:"mileage,omitempty"`
	Price            *int      `json:"price,omitempty"`
	Province         string    `json:"province,omitempty"`
	BodyType         string    `json:"bodyType,omitempty"`
	Transmission     string    `json:"transmission,omitempty"`
	Drivetrain       string    `json:"drivetrain,omitempty"`
	FuelTypes        []string  `json:"fuelTypes,omitempty"`
	Colors           []string  `json:"colors,omitempty"`
	Description      string    `json:"description,omitempty"`
	Seats            *int      `json:"seats,omitempty"`
	Doors            *int      `json:"doors,omitempty"`
	EngineCC         *int      `json:"engineCc,omitempty"`
	ConditionRating  *int      `json:"conditionRating,omitempty"`
	IsFlooded        bool      `json:"isFlooded"`
	IsHeavilyDamaged bool      `json:"isHeavilyDamaged"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Listing converts the detail record into the card shape.
func (d CarDetail) Listing() CarListing {
	l := CarListing{
		ID:              d.Car.ID,
		SellerID:        d.Car.SellerID,
		Status:          d.Car.Status,
		BrandName:       d.Car.BrandName,
		ModelName:       d.Car.ModelName,
		SubmodelName:    d.Car.SubmodelName,
		Year:            d.Car.Year,
		Price:           d.Car.Price,
		Mileage:         d.Car.Mileage,
		BodyType:        d.Car.BodyType,
		Transmission:    d.Car.Transmission,
		Drivetrain:      d.Car.Drivetrain,
		FuelTypes:       d.Car.FuelTypes,
		Colors:          d.Car.Colors,
		ConditionRating: d.Car.ConditionRating,
	}
	if len(d.Images) > 0 {
		l.ThumbnailURL = d.Images[0].URL
	}
	return l
}

type ImageMetadata struct {
	ID           int       `json:"id"`
	CarID        int       `json:"carId"`
	ImageType    string    `json:"imageType"`
	ImageSize    int       `json:"imageSize"`
	DisplayOrder int       `json:"displayOrder"`
	UploadedAt   time.Time `json:"uploadedAt"`
	URL          string    `json:"url"`
}

type Inspection struct {
	Station     string `json:"station"`
	OverallPass bool   `json:"overallPass"`
}

// CarSearch holds the optional filters of /api/cars/search. Zero values are omitted.
type CarSearch struct {
	Query      string
	Page       int
	Limit      int
	MinPrice   int
	MaxPrice   int
	MinYear    int
	MaxYear    int
	Province   string
	BodyTypeID int
	FuelTypeID int
}

type CarPage struct {
	Cars  []CarListing `json:"cars"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// RecentSnapshot is the display data cached alongside a recent view.
type RecentSnapshot struct {
	Title        string `json:"title,omitempty"`
	Price        *int   `json:"price,omitempty"`
	ThumbnailID  *int   `json:"thumbnailId,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

type RecentItem struct {
	CarID    int             `json:"carId"`
	ViewedAt time.Time       `json:"viewedAt"`
	Snapshot *RecentSnapshot `json:"snapshot,omitempty"`
}

// ReferenceOption is a code/label pair from /api/reference-data.
type ReferenceOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type ReferenceData struct {
	BodyTypes     []ReferenceOption `json:"bodyTypes"`
	Transmissions []ReferenceOption `json:"transmissions"`
	FuelTypes     []ReferenceOption `json:"fuelTypes"`
	Drivetrains   []ReferenceOption `json:"drivetrains"`
}
