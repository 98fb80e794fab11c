package service

import (
	"github.com/IAmShivay/motorcarbackedn/internal/model"
	"github.com/IAmShivay/motorcarbackedn/internal/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	defaultSort  = "newest"
)

// sortOrders is the fixed enumeration of accepted sort keys. Anything else
// falls back to newest-first.
var sortOrders = map[string]string{
	"newest":      "created_at DESC",
	"oldest":      "created_at ASC",
	"price_low":   "price ASC",
	"price_high":  "price DESC",
	"year_new":    "year DESC",
	"year_old":    "year ASC",
	"mileage_low": "mileage ASC",
	"most_viewed": "views DESC",
}

// SearchParams is the recognized listing search parameter set, as parsed by
// the HTTP layer. Absent range bounds stay nil and compile to no predicate.
type SearchParams struct {
	Page         int
	Limit        int
	Sort         string
	Make         string
	Model        string
	MinPrice     *float64
	MaxPrice     *float64
	MinYear      *int
	MaxYear      *int
	FuelType     string
	Transmission string
	BodyType     string
	City         string
	State        string
	Status       string
}

// CompileSearch turns a parameter set into a store-native filter plus a
// sort/skip/limit triple. Page defaults to 1, limit is clamped to [1,100],
// status defaults to available and active = true is always enforced.
func CompileSearch(p SearchParams) (repository.CarFilter, repository.ListOptions) {
	page := p.Page
	if page < 1 {
		page = defaultPage
	}
	limit := p.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	order, ok := sortOrders[p.Sort]
	if !ok {
		order = sortOrders[defaultSort]
	}

	status := model.ListingStatus(p.Status)
	if status == "" {
		status = model.StatusAvailable
	}

	filter := repository.CarFilter{
		Status:       status,
		Make:         p.Make,
		Model:        p.Model,
		City:         p.City,
		State:        p.State,
		FuelType:     p.FuelType,
		Transmission: p.Transmission,
		BodyType:     p.BodyType,
		MinPrice:     p.MinPrice,
		MaxPrice:     p.MaxPrice,
		MinYear:      p.MinYear,
		MaxYear:      p.MaxYear,
	}
	opts := repository.ListOptions{
		OrderBy: order,
		Offset:  (page - 1) * limit,
		Limit:   limit,
	}
	return filter, opts
}

// Pagination is the metadata derived from a total count and page window.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func paginate(total int64, page, limit int) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
