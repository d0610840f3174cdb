package api

import (
	"fmt"
	"time"

	"github.com/carjai/marketplace-client/internal/api/handler"
	"github.com/carjai/marketplace-client/internal/core/domain"
)

// SeedOptions describes the fixture data the mock backend starts with.
type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	AdminIPs      []string
}

// Seed creates the admin account, whitelists AdminIPs for it and loads a
// small catalog.
func Seed(store *handler.Store, opts SeedOptions) error {
	admin, err := store.SeedAdmin(opts.AdminUsername, opts.AdminPassword, "Administrator")
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	for _, ip := range opts.AdminIPs {
		if _, err := store.AddIP(admin.ID, ip, "seeded"); err != nil {
			return fmt.Errorf("seed whitelist %s: %w", ip, err)
		}
	}
	for _, car := range seedCars(time.Now().UTC()) {
		store.AddCar(car)
	}
	return nil
}

func seedCars(now time.Time) []domain.CarDetail {
	car := func(brand, model, sub string, year, price, mileage int, province, body string) domain.CarDetail {
		return domain.CarDetail{
			Car: domain.CarData{
				SellerID:     1,
				Status:       "active",
				BrandName:    brand,
				ModelName:    model,
				SubmodelName: sub,
				Year:         &year,
				Price:        &price,
				Mileage:      &mileage,
				Province:     province,
				BodyType:     body,
				Transmission: "Automatic",
				CreatedAt:    now,
			},
			Images: []domain.ImageMetadata{},
		}
	}
	return []domain.CarDetail{
		car("Toyota", "Yaris Ativ", "1.2 Premium", 2022, 459000, 21000, "Bangkok", "Sedan"),
		car("Honda", "City", "1.0 Turbo RS", 2021, 529000, 34000, "Chiang Mai", "Sedan"),
		car("Isuzu", "D-Max", "Hi-Lander 1.9", 2020, 689000, 58000, "Khon Kaen", "Pickup"),
		car("Mazda", "CX-5", "2.0 SP", 2019, 799000, 72000, "Bangkok", "SUV"),
		car("Nissan", "Almera", "1.0 VL", 2023, 489000, 9000, "Phuket", "Sedan"),
	}
}
