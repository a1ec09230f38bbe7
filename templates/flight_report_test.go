package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"flightquery-service/internal/domain/entity"
)

func TestRenderSummary(t *testing.T) {
	s := &entity.Summary{
		Dataset:      "flights.csv",
		TotalFlights: 5,
		Routes:       2,
		Airlines:     4,
		FirstDate:    time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		LastDate:     time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		MinPrice:     185,
		MaxPrice:     310,
		AvgPrice:     242,
	}

	got := RenderSummary(s)
	assert.Contains(t, got, "Flight Data Summary for flights.csv")
	assert.Contains(t, got, "Total flights: 5")
	assert.Contains(t, got, "Date range: 2025-06-02 to 2025-06-08")
	assert.Contains(t, got, "Average price: $242.00")
	assert.Contains(t, got, "Price range: $185.00 - $310.00")
}

func TestRenderSummary_empty(t *testing.T) {
	got := RenderSummary(&entity.Summary{Dataset: "empty.csv"})
	assert.Contains(t, got, "Total flights: 0")
	assert.NotContains(t, got, "Date range")
}

func TestRenderRouteAnalysis(t *testing.T) {
	got := RenderRouteAnalysis([]entity.RouteStats{
		{Route: "BOS-ORD", Flights: 3, Airlines: 2, AvgPrice: 203.33, MinPrice: 185, MaxPrice: 240, AvgDuration: 215},
	})
	assert.Contains(t, got, "BOS-ORD:")
	assert.Contains(t, got, "Flights: 3")
	assert.Contains(t, got, "Avg Duration: 215 minutes")
}

func TestRenderPriceTrends(t *testing.T) {
	got := RenderPriceTrends(&entity.PriceTrends{
		Days: []entity.DayTrend{
			{Day: "Monday", Flights: 2, AvgPrice: 185},
			{Day: "Saturday", Flights: 1, AvgPrice: 310},
		},
		CheapestDay: "Monday",
		PriciestDay: "Saturday",
	})
	assert.Contains(t, got, "Monday: $185.00 avg (2 flights)")
	assert.Contains(t, got, "Cheapest day: Monday")
	assert.Contains(t, got, "Most expensive day: Saturday")
}

func TestRenderDurationPriceAnalysis(t *testing.T) {
	got := RenderDurationPriceAnalysis(&entity.DurationPriceAnalysis{
		Bands: []entity.DurationBand{
			{Band: "Medium (2-5h)", Flights: 2, AvgPrice: 185, StdDev: 0},
			{Band: "Long (5-8h)", Flights: 3, AvgPrice: 280, StdDev: 36.06},
		},
		Correlation: 0.968,
	})
	assert.Contains(t, got, "Medium (2-5h):")
	assert.Contains(t, got, "Price Std Dev: $36.06")
	assert.Contains(t, got, "Duration-Price Correlation: 0.968")
	assert.Contains(t, got, "Strong positive correlation")
}

func TestRenderDurationPriceAnalysis_weakCorrelation(t *testing.T) {
	got := RenderDurationPriceAnalysis(&entity.DurationPriceAnalysis{Correlation: 0.1})
	assert.Contains(t, got, "Weak correlation")
}

func TestRenderAirlinePerformance(t *testing.T) {
	got := RenderAirlinePerformance([]entity.AirlineStats{
		{Airline: "Delta", Flights: 2, AvgPrice: 237.5, MinPrice: 185, MaxPrice: 290, AvgDuration: 270, AvgStops: 0},
	})
	assert.Contains(t, got, "Delta:")
	assert.Contains(t, got, "Avg Stops: 0.0")
}
