package entity

import (
	"time"
)

// Summary holds dataset-wide statistics computed over a loaded dataset.
type Summary struct {
	Dataset      string
	TotalFlights int
	Routes       int
	Airlines     int
	FirstDate    time.Time
	LastDate     time.Time
	MinPrice     float64
	MaxPrice     float64
	AvgPrice     float64
}

// RouteStats holds per-route aggregates for the route analysis query.
type RouteStats struct {
	Route       string
	Flights     int
	Airlines    int
	AvgPrice    float64
	MinPrice    float64
	MaxPrice    float64
	AvgDuration int // minutes
}

// AirlineStats holds per-airline aggregates for the airline performance query.
type AirlineStats struct {
	Airline     string
	Flights     int
	AvgPrice    float64
	MinPrice    float64
	MaxPrice    float64
	AvgDuration int // minutes
	AvgStops    float64
}

// DayTrend holds the average price and flight count for one day of the week.
type DayTrend struct {
	Day      string
	Flights  int
	AvgPrice float64
}

// PriceTrends holds the per-weekday price breakdown of a dataset.
type PriceTrends struct {
	Days        []DayTrend
	CheapestDay string
	PriciestDay string
}

// DurationBand holds price statistics for one flight-duration band.
type DurationBand struct {
	Band     string
	Flights  int
	AvgPrice float64
	StdDev   float64
}

// DurationPriceAnalysis relates flight duration to price: per-band price
// statistics plus the overall duration-price correlation.
type DurationPriceAnalysis struct {
	Bands       []DurationBand
	Correlation float64
}
