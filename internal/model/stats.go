package model

// StatsOverview summarizes the active, available listing set. Numeric fields
// are pointers so an empty data set serializes without them instead of
// reporting misleading zeros.
type StatsOverview struct {
	TotalCars  int64    `json:"total_cars"`
	AvgPrice   *float64 `json:"avg_price,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	AvgYear    *float64 `json:"avg_year,omitempty"`
	AvgMileage *float64 `json:"avg_mileage,omitempty"`
}

// MakeStat is one group of the top-makes aggregate.
type MakeStat struct {
	Make     string  `json:"make"`
	Count    int64   `json:"count"`
	AvgPrice float64 `json:"avg_price"`
}

// FuelTypeStat is one group of the fuel-type distribution.
type FuelTypeStat struct {
	FuelType string `json:"fuel_type"`
	Count    int64  `json:"count"`
}

// CarStats bundles the three independent aggregates.
type CarStats struct {
	Overview  StatsOverview  `json:"overview"`
	TopMakes  []MakeStat     `json:"top_makes"`
	FuelTypes []FuelTypeStat `json:"fuel_types"`
}
