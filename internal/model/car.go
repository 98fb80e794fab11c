package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FuelType enumerates supported fuel types.
type FuelType string

const (
	FuelPetrol   FuelType = "petrol"
	FuelDiesel   FuelType = "diesel"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
	FuelCNG      FuelType = "cng"
	FuelLPG      FuelType = "lpg"
)

// Transmission enumerates supported transmission types.
type Transmission string

const (
	TransmissionManual    Transmission = "manual"
	TransmissionAutomatic Transmission = "automatic"
	TransmissionCVT       Transmission = "cvt"
)

// BodyType enumerates supported body styles.
type BodyType string

// ListingStatus is the sale state of a listing.
type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusSold      ListingStatus = "sold"
	StatusReserved  ListingStatus = "reserved"
)

// CarImage is one image attached to a listing.
type CarImage struct {
	URL string `json:"url" validate:"required,url"`
	Alt string `json:"alt,omitempty" validate:"max=200"`
}

// CarImages is stored as a JSON column.
type CarImages []CarImage

// Value implements driver.Valuer.
func (ci CarImages) Value() (driver.Value, error) {
	if ci == nil {
		return "[]", nil
	}
	b, err := json.Marshal(ci)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (ci *CarImages) Scan(value interface{}) error {
	if value == nil {
		*ci = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ci)
	case string:
		return json.Unmarshal([]byte(v), ci)
	default:
		return fmt.Errorf("unsupported type %T for CarImages", value)
	}
}

// StringList is a list of strings stored as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (sl StringList) Value() (driver.Value, error) {
	if sl == nil {
		return "[]", nil
	}
	b, err := json.Marshal(sl)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (sl *StringList) Scan(value interface{}) error {
	if value == nil {
		*sl = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, sl)
	case string:
		return json.Unmarshal([]byte(v), sl)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
}

// Car represents a vehicle listing. Soft deletion is expressed through the
// Active flag so that inactive rows remain reachable by the override lookup
// and stay addressable in aggregate predicates.
type Car struct {
	ID           uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	Make         string        `json:"make" gorm:"size:100;not null;index" validate:"required,max=100"`
	Model        string        `json:"model" gorm:"size:100;not null;index" validate:"required,max=100"`
	Year         int           `json:"year" gorm:"not null;index" validate:"required,car_year"`
	Price        float64       `json:"price" gorm:"not null;index" validate:"required,gt=0,lte=10000000"`
	Mileage      int           `json:"mileage" gorm:"not null" validate:"gte=0,lte=1000000"`
	FuelType     FuelType      `json:"fuel_type" gorm:"size:20;not null;index" validate:"required,oneof=petrol diesel electric hybrid cng lpg"`
	Transmission Transmission  `json:"transmission" gorm:"size:20;not null" validate:"required,oneof=manual automatic cvt"`
	BodyType     BodyType      `json:"body_type" gorm:"size:20;not null" validate:"required,oneof=sedan hatchback suv coupe convertible wagon pickup van"`
	Color        string        `json:"color" gorm:"size:50;not null" validate:"required,max=50"`
	Description  string        `json:"description,omitempty" gorm:"size:1000" validate:"max=1000"`
	Features     StringList    `json:"features,omitempty" gorm:"type:json" validate:"max=20,dive,max=100"`
	Images       CarImages     `json:"images,omitempty" gorm:"type:json" validate:"max=10,dive"`
	City         string        `json:"city" gorm:"size:100;not null;index" validate:"required,max=100"`
	State        string        `json:"state" gorm:"size:100;not null;index" validate:"required,max=100"`
	Country      string        `json:"country" gorm:"size:100;not null" validate:"required,max=100"`
	SellerName   string        `json:"seller_name" gorm:"size:100;not null;index" validate:"required,max=100"`
	SellerPhone  string        `json:"seller_phone" gorm:"size:20;not null" validate:"required,phone"`
	SellerEmail  string        `json:"seller_email,omitempty" gorm:"size:255;index" validate:"omitempty,email"`
	Status       ListingStatus `json:"status" gorm:"size:20;default:'available';index" validate:"required,oneof=available sold reserved"`
	Active       bool          `json:"active" gorm:"default:true;index"`
	Views        int64         `json:"views" gorm:"default:0"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Normalize applies the write-time normalization rules to free-text names.
func (c *Car) Normalize() {
	c.Make = NormalizeName(c.Make)
	c.Model = NormalizeName(c.Model)
}

// DisplayTitle derives a human readable title from year, make and model.
func (c *Car) DisplayTitle() string {
	return fmt.Sprintf("%d %s %s", c.Year, c.Make, c.Model)
}

// NormalizeName trims the value and normalizes capitalization: first letter
// upper, rest lower.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
