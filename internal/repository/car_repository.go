package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IAmShivay/motorcarbackedn/internal/model"
)

// CarFilter is the store-native predicate compiled from search parameters.
// Text fields match case-insensitive substrings; range bounds apply only
// when non-nil. Unless IncludeInactive is set, active = true is always part
// of the predicate.
type CarFilter struct {
	Status          model.ListingStatus
	Make            string
	Model           string
	City            string
	State           string
	FuelType        string
	Transmission    string
	BodyType        string
	MinPrice        *float64
	MaxPrice        *float64
	MinYear         *int
	MaxYear         *int
	IncludeInactive bool
}

// ListOptions carries the sort/skip/limit triple. OrderBy must come from the
// compiler's whitelist, never from raw user input.
type ListOptions struct {
	OrderBy string
	Offset  int
	Limit   int
}

// CarRepository defines listing persistence operations.
type CarRepository interface {
	Create(ctx context.Context, car *model.Car) error
	Save(ctx context.Context, car *model.Car) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Car, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Car, error)
	Search(ctx context.Context, filter CarFilter, opts ListOptions) ([]model.Car, error)
	Count(ctx context.Context, filter CarFilter) (int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	FindBySeller(ctx context.Context, email, username string) ([]model.Car, error)
	Overview(ctx context.Context) (*model.StatsOverview, error)
	TopMakes(ctx context.Context, limit int) ([]model.MakeStat, error)
	FuelTypeDistribution(ctx context.Context) ([]model.FuelTypeStat, error)
}

type carRepository struct {
	db *gorm.DB
}

// NewCarRepository builds a GORM-backed repository.
func NewCarRepository(db *gorm.DB) CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, car *model.Car) error {
	return r.db.WithContext(ctx).Create(car).Error
}

func (r *carRepository) Save(ctx context.Context, car *model.Car) error {
	return r.db.WithContext(ctx).Save(car).Error
}

// FindByID looks up a listing regardless of its active flag. This is the
// override path used by update, soft delete and admin detail reads.
func (r *carRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Car, error) {
	var car model.Car
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&car).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// FindActiveByID is the default-visibility lookup: soft-deleted listings are
// indistinguishable from missing ones.
func (r *carRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Car, error) {
	var car model.Car
	if err := r.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&car).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *carRepository) Search(ctx context.Context, filter CarFilter, opts ListOptions) ([]model.Car, error) {
	var cars []model.Car
	q := applyFilter(r.db.WithContext(ctx).Model(&model.Car{}), filter)
	if opts.OrderBy != "" {
		q = q.Order(opts.OrderBy)
	}
	if err := q.Offset(opts.Offset).Limit(opts.Limit).Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// Count is computed independently of the page window.
func (r *carRepository) Count(ctx context.Context, filter CarFilter) (int64, error) {
	var total int64
	q := applyFilter(r.db.WithContext(ctx).Model(&model.Car{}), filter)
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// IncrementViews bumps the view counter as a single column update so that
// concurrent views never lose increments.
func (r *carRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Car{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *carRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Car{}).
		Where("id = ?", id).
		Update("active", active).Error
}

// FindBySeller selects active listings attributed to the identity: primary
// match on seller email, legacy fallback on seller name equal to username
// for records created before email attribution existed.
func (r *carRepository) FindBySeller(ctx context.Context, email, username string) ([]model.Car, error) {
	var cars []model.Car
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("seller_email = ? OR ((seller_email IS NULL OR seller_email = '') AND seller_name = ?)", email, username).
		Order("created_at DESC").
		Find(&cars).Error
	if err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *carRepository) statsBase(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Car{}).
		Where("active = ? AND status = ?", true, model.StatusAvailable)
}

func (r *carRepository) Overview(ctx context.Context) (*model.StatsOverview, error) {
	var row struct {
		TotalCars  int64
		AvgPrice   sql.NullFloat64
		MinPrice   sql.NullFloat64
		MaxPrice   sql.NullFloat64
		AvgYear    sql.NullFloat64
		AvgMileage sql.NullFloat64
	}
	err := r.statsBase(ctx).
		Select("COUNT(*) AS total_cars, AVG(price) AS avg_price, MIN(price) AS min_price, MAX(price) AS max_price, AVG(year) AS avg_year, AVG(mileage) AS avg_mileage").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &model.StatsOverview{
		TotalCars:  row.TotalCars,
		AvgPrice:   nullToPtr(row.AvgPrice),
		MinPrice:   nullToPtr(row.MinPrice),
		MaxPrice:   nullToPtr(row.MaxPrice),
		AvgYear:    nullToPtr(row.AvgYear),
		AvgMileage: nullToPtr(row.AvgMileage),
	}, nil
}

func (r *carRepository) TopMakes(ctx context.Context, limit int) ([]model.MakeStat, error) {
	var stats []model.MakeStat
	err := r.statsBase(ctx).
		Select("make, COUNT(*) AS count, AVG(price) AS avg_price").
		Group("make").
		Order("count DESC").
		Limit(limit).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *carRepository) FuelTypeDistribution(ctx context.Context) ([]model.FuelTypeStat, error) {
	var stats []model.FuelTypeStat
	err := r.statsBase(ctx).
		Select("fuel_type, COUNT(*) AS count").
		Group("fuel_type").
		Order("count DESC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func applyFilter(q *gorm.DB, f CarFilter) *gorm.DB {
	if !f.IncludeInactive {
		q = q.Where("active = ?", true)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Make != "" {
		q = q.Where("LOWER(make) LIKE ?", contains(f.Make))
	}
	if f.Model != "" {
		q = q.Where("LOWER(model) LIKE ?", contains(f.Model))
	}
	if f.City != "" {
		q = q.Where("LOWER(city) LIKE ?", contains(f.City))
	}
	if f.State != "" {
		q = q.Where("LOWER(state) LIKE ?", contains(f.State))
	}
	if f.FuelType != "" {
		q = q.Where("fuel_type = ?", f.FuelType)
	}
	if f.Transmission != "" {
		q = q.Where("transmission = ?", f.Transmission)
	}
	if f.BodyType != "" {
		q = q.Where("body_type = ?", f.BodyType)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinYear != nil {
		q = q.Where("year >= ?", *f.MinYear)
	}
	if f.MaxYear != nil {
		q = q.Where("year <= ?", *f.MaxYear)
	}
	return q
}

func contains(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func nullToPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
