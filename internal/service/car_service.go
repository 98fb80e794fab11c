package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/IAmShivay/motorcarbackedn/internal/apperrors"
	"github.com/IAmShivay/motorcarbackedn/internal/model"
	"github.com/IAmShivay/motorcarbackedn/internal/repository"
	"github.com/IAmShivay/motorcarbackedn/internal/validate"
)

const topMakesLimit = 10

// SearchResult is a page of listings plus pagination metadata.
type SearchResult struct {
	Cars       []model.Car `json:"cars"`
	Pagination Pagination  `json:"pagination"`
}

// CarPatch is a partial field merge for an existing listing. Only non-nil
// fields are applied; the merged document is then re-validated as a whole.
type CarPatch struct {
	Make         *string           `json:"make"`
	Model        *string           `json:"model"`
	Year         *int              `json:"year"`
	Price        *float64          `json:"price"`
	Mileage      *int              `json:"mileage"`
	FuelType     *string           `json:"fuel_type"`
	Transmission *string           `json:"transmission"`
	BodyType     *string           `json:"body_type"`
	Color        *string           `json:"color"`
	Description  *string           `json:"description"`
	Features     *[]string         `json:"features"`
	Images       *[]model.CarImage `json:"images"`
	City         *string           `json:"city"`
	State        *string           `json:"state"`
	Country      *string           `json:"country"`
	SellerName   *string           `json:"seller_name"`
	SellerPhone  *string           `json:"seller_phone"`
	SellerEmail  *string           `json:"seller_email"`
	Status       *string           `json:"status"`
}

func (p *CarPatch) apply(car *model.Car) {
	if p.Make != nil {
		car.Make = *p.Make
	}
	if p.Model != nil {
		car.Model = *p.Model
	}
	if p.Year != nil {
		car.Year = *p.Year
	}
	if p.Price != nil {
		car.Price = *p.Price
	}
	if p.Mileage != nil {
		car.Mileage = *p.Mileage
	}
	if p.FuelType != nil {
		car.FuelType = model.FuelType(*p.FuelType)
	}
	if p.Transmission != nil {
		car.Transmission = model.Transmission(*p.Transmission)
	}
	if p.BodyType != nil {
		car.BodyType = model.BodyType(*p.BodyType)
	}
	if p.Color != nil {
		car.Color = *p.Color
	}
	if p.Description != nil {
		car.Description = *p.Description
	}
	if p.Features != nil {
		car.Features = model.StringList(*p.Features)
	}
	if p.Images != nil {
		car.Images = model.CarImages(*p.Images)
	}
	if p.City != nil {
		car.City = *p.City
	}
	if p.State != nil {
		car.State = *p.State
	}
	if p.Country != nil {
		car.Country = *p.Country
	}
	if p.SellerName != nil {
		car.SellerName = *p.SellerName
	}
	if p.SellerPhone != nil {
		car.SellerPhone = *p.SellerPhone
	}
	if p.SellerEmail != nil {
		car.SellerEmail = *p.SellerEmail
	}
	if p.Status != nil {
		car.Status = model.ListingStatus(*p.Status)
	}
}

// CarService orchestrates listing lifecycle, search and statistics.
type CarService interface {
	Create(ctx context.Context, owner *model.User, car *model.Car) (*model.Car, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Car, error)
	GetByIDIncludeInactive(ctx context.Context, id uuid.UUID) (*model.Car, error)
	Update(ctx context.Context, id uuid.UUID, identity *model.User, patch *CarPatch) (*model.Car, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ListMine(ctx context.Context, owner *model.User) ([]model.Car, error)
	Search(ctx context.Context, params SearchParams) (*SearchResult, error)
	Stats(ctx context.Context) (*model.CarStats, error)
}

type carService struct {
	cars           repository.CarRepository
	validator      *validate.Validator
	defaultCountry string
	log            zerolog.Logger
}

// NewCarService builds a CarService over the given repository.
func NewCarService(cars repository.CarRepository, validator *validate.Validator, defaultCountry string, log zerolog.Logger) CarService {
	return &carService{
		cars:           cars,
		validator:      validator,
		defaultCountry: defaultCountry,
		log:            log,
	}
}

// Create persists a new listing. The authenticated identity is the sole
// source of truth for seller attribution: whatever seller email was
// submitted is overwritten with the owner's email.
func (s *carService) Create(ctx context.Context, owner *model.User, car *model.Car) (*model.Car, error) {
	car.ID = uuid.Nil
	car.SellerEmail = owner.Email
	car.Active = true
	car.Views = 0
	if car.Status == "" {
		car.Status = model.StatusAvailable
	}
	if car.Country == "" {
		car.Country = s.defaultCountry
	}
	car.Normalize()

	if err := s.validator.Struct(car); err != nil {
		return nil, err
	}

	if err := s.cars.Create(ctx, car); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	s.log.Info().
		Str("listing_id", car.ID.String()).
		Str("seller_email", car.SellerEmail).
		Str("title", car.DisplayTitle()).
		Msg("listing created")
	return car, nil
}

// GetByID returns an active listing and atomically bumps its view counter.
// The returned snapshot reflects the counter value read before the
// increment was committed.
func (s *carService) GetByID(ctx context.Context, id uuid.UUID) (*model.Car, error) {
	car, err := s.cars.FindActiveByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := s.cars.IncrementViews(ctx, id); err != nil {
		return nil, fmt.Errorf("increment views: %w", err)
	}
	return car, nil
}

// GetByIDIncludeInactive is the explicit override lookup that can still see
// soft-deleted listings. It does not count a view.
func (s *carService) GetByIDIncludeInactive(ctx context.Context, id uuid.UUID) (*model.Car, error) {
	car, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return car, nil
}

// Update applies a partial merge and re-validates the whole document.
// Ownership is intentionally not checked here: attribution is only enforced
// at the my-listings boundary.
func (s *carService) Update(ctx context.Context, id uuid.UUID, identity *model.User, patch *CarPatch) (*model.Car, error) {
	car, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	patch.apply(car)
	car.Normalize()

	if err := s.validator.Struct(car); err != nil {
		return nil, err
	}

	if err := s.cars.Save(ctx, car); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}

	s.log.Info().
		Str("listing_id", car.ID.String()).
		Str("updated_by", identity.Email).
		Msg("listing updated")
	return car, nil
}

// SoftDelete marks the listing inactive. The record remains reachable
// through the include-inactive override.
func (s *carService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.cars.FindByID(ctx, id); err != nil {
		return mapNotFound(err)
	}
	if err := s.cars.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("soft delete listing: %w", err)
	}
	s.log.Info().Str("listing_id", id.String()).Msg("listing soft-deleted")
	return nil
}

// ListMine returns the active listings attributed to the owner, matching by
// seller email or by the legacy seller-name-equals-username fallback.
func (s *carService) ListMine(ctx context.Context, owner *model.User) ([]model.Car, error) {
	return s.cars.FindBySeller(ctx, owner.Email, owner.Username)
}

// Search runs a compiled filter and returns the page plus pagination
// metadata derived from an independent total count.
func (s *carService) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	filter, opts := CompileSearch(params)

	cars, err := s.cars.Search(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	total, err := s.cars.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}

	page := opts.Offset/opts.Limit + 1
	return &SearchResult{
		Cars:       cars,
		Pagination: paginate(total, page, opts.Limit),
	}, nil
}

// Stats computes the three aggregates over active, available listings. Each
// aggregate is an independent read over the shared base predicate.
func (s *carService) Stats(ctx context.Context) (*model.CarStats, error) {
	overview, err := s.cars.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats overview: %w", err)
	}
	topMakes, err := s.cars.TopMakes(ctx, topMakesLimit)
	if err != nil {
		return nil, fmt.Errorf("stats top makes: %w", err)
	}
	fuelTypes, err := s.cars.FuelTypeDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats fuel types: %w", err)
	}

	return &model.CarStats{
		Overview:  *overview,
		TopMakes:  topMakes,
		FuelTypes: fuelTypes,
	}, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}
