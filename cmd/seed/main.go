package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/IAmShivay/motorcarbackedn/internal/config"
	"github.com/IAmShivay/motorcarbackedn/internal/db"
	"github.com/IAmShivay/motorcarbackedn/internal/model"
	"github.com/IAmShivay/motorcarbackedn/internal/repository"
)

//go:embed seed_data.json
var seedData []byte

// SeedFixture is the embedded demo data set.
type SeedFixture struct {
	Admin SeedAdmin `json:"admin"`
	Cars  []SeedCar `json:"cars"`
}

// SeedAdmin describes the demo admin account.
type SeedAdmin struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SeedCar mirrors the listing fields of the fixture.
type SeedCar struct {
	ID          string           `json:"id"`
	Make        string           `json:"make"`
	Model       string           `json:"model"`
	Year        int              `json:"year"`
	Price       float64          `json:"price"`
	Mileage     int              `json:"mileage"`
	FuelType    string           `json:"fuel_type"`
	Transmission string          `json:"transmission"`
	BodyType    string           `json:"body_type"`
	Color       string           `json:"color"`
	Description string           `json:"description"`
	Features    []string         `json:"features"`
	Images      []model.CarImage `json:"images"`
	City        string           `json:"city"`
	State       string           `json:"state"`
	Country     string           `json:"country"`
	SellerName  string           `json:"seller_name"`
	SellerPhone string           `json:"seller_phone"`
	SellerEmail string           `json:"seller_email"`
	Status      string           `json:"status"`
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Car{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	var fixture SeedFixture
	if err := json.Unmarshal(seedData, &fixture); err != nil {
		log.Fatalf("Failed to parse seed fixture: %v", err)
	}
	log.Printf("Loaded %d listings from fixture", len(fixture.Cars))

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	carRepo := repository.NewCarRepository(gormDB)

	if err := seedAdmin(ctx, userRepo, fixture.Admin, cfg.BcryptCost); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	created, updated, err := seedCars(ctx, carRepo, fixture.Cars)
	if err != nil {
		log.Fatalf("Failed to seed listings: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New listings created: %d", created)
	log.Printf("  - Existing listings updated: %d", updated)
}

// seedAdmin creates or refreshes the demo admin account.
func seedAdmin(ctx context.Context, repo repository.UserRepository, admin SeedAdmin, bcryptCost int) error {
	id, err := uuid.Parse(admin.ID)
	if err != nil {
		return fmt.Errorf("invalid admin id: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	existing, err := repo.FindByID(ctx, id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}

	if existing != nil {
		existing.Username = admin.Username
		existing.Email = admin.Email
		existing.PasswordHash = string(hashed)
		existing.Role = model.RoleAdmin
		existing.Active = true
		return repo.Save(ctx, existing)
	}

	return repo.Create(ctx, &model.User{
		ID:           id,
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
		FirstName:    admin.FirstName,
		LastName:     admin.LastName,
		Active:       true,
	})
}

// seedCars creates new listings or updates existing ones, keyed by the
// fixed fixture ids so the seeder is idempotent.
func seedCars(ctx context.Context, repo repository.CarRepository, cars []SeedCar) (created int, updated int, err error) {
	for _, item := range cars {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			log.Printf("Skipping listing with invalid UUID: %s", item.ID)
			continue
		}

		car := toModel(id, item)
		car.Normalize()

		existing, err := repo.FindByID(ctx, id)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, updated, fmt.Errorf("error checking listing %s: %w", item.ID, err)
		}

		if existing != nil {
			car.Views = existing.Views
			car.CreatedAt = existing.CreatedAt
			if err := repo.Save(ctx, car); err != nil {
				return created, updated, fmt.Errorf("error updating listing %s: %w", item.ID, err)
			}
			updated++
		} else {
			if err := repo.Create(ctx, car); err != nil {
				return created, updated, fmt.Errorf("error creating listing %s: %w", item.ID, err)
			}
			created++
		}
	}

	return created, updated, nil
}

func toModel(id uuid.UUID, item SeedCar) *model.Car {
	status := model.ListingStatus(item.Status)
	if status == "" {
		status = model.StatusAvailable
	}
	return &model.Car{
		ID:           id,
		Make:         item.Make,
		Model:        item.Model,
		Year:         item.Year,
		Price:        item.Price,
		Mileage:      item.Mileage,
		FuelType:     model.FuelType(item.FuelType),
		Transmission: model.Transmission(item.Transmission),
		BodyType:     model.BodyType(item.BodyType),
		Color:        item.Color,
		Description:  item.Description,
		Features:     model.StringList(item.Features),
		Images:       model.CarImages(item.Images),
		City:         item.City,
		State:        item.State,
		Country:      item.Country,
		SellerName:   item.SellerName,
		SellerPhone:  item.SellerPhone,
		SellerEmail:  item.SellerEmail,
		Status:       status,
		Active:       true,
	}
}
