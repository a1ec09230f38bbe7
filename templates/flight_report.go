package templates

import (
	"fmt"
	"strings"

	"flightquery-service/internal/domain/entity"
)

// Plain-text renderings of query results for conversational output.

// RenderSummary formats a dataset summary
func RenderSummary(s *entity.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Flight Data Summary for %s\n", s.Dataset)
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Total flights: %d\n", s.TotalFlights)
	if s.TotalFlights == 0 {
		return b.String()
	}
	fmt.Fprintf(&b, "Date range: %s to %s\n", s.FirstDate.Format("2006-01-02"), s.LastDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Airlines: %d\n", s.Airlines)
	fmt.Fprintf(&b, "Routes: %d unique routes\n", s.Routes)
	fmt.Fprintf(&b, "Average price: $%.2f\n", s.AvgPrice)
	fmt.Fprintf(&b, "Price range: $%.2f - $%.2f\n", s.MinPrice, s.MaxPrice)
	return b.String()
}

// RenderRouteAnalysis formats per-route statistics
func RenderRouteAnalysis(stats []entity.RouteStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d Routes Analysis\n", len(stats))
	b.WriteString(strings.Repeat("=", 50) + "\n")
	for _, rs := range stats {
		fmt.Fprintf(&b, "\n%s:\n", rs.Route)
		fmt.Fprintf(&b, "  Flights: %d\n", rs.Flights)
		fmt.Fprintf(&b, "  Airlines: %d\n", rs.Airlines)
		fmt.Fprintf(&b, "  Avg Price: $%.2f\n", rs.AvgPrice)
		fmt.Fprintf(&b, "  Price Range: $%.2f - $%.2f\n", rs.MinPrice, rs.MaxPrice)
		fmt.Fprintf(&b, "  Avg Duration: %d minutes\n", rs.AvgDuration)
	}
	return b.String()
}

// RenderAirlinePerformance formats per-airline statistics
func RenderAirlinePerformance(stats []entity.AirlineStats) string {
	var b strings.Builder
	b.WriteString("Airline Performance Analysis\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	for _, as := range stats {
		fmt.Fprintf(&b, "\n%s:\n", as.Airline)
		fmt.Fprintf(&b, "  Flights: %d\n", as.Flights)
		fmt.Fprintf(&b, "  Avg Price: $%.2f\n", as.AvgPrice)
		fmt.Fprintf(&b, "  Price Range: $%.2f - $%.2f\n", as.MinPrice, as.MaxPrice)
		fmt.Fprintf(&b, "  Avg Duration: %d minutes\n", as.AvgDuration)
		fmt.Fprintf(&b, "  Avg Stops: %.1f\n", as.AvgStops)
	}
	return b.String()
}

// RenderDurationPriceAnalysis formats the duration-band price breakdown and
// interprets the duration-price correlation.
func RenderDurationPriceAnalysis(a *entity.DurationPriceAnalysis) string {
	var b strings.Builder
	b.WriteString("Duration vs Price Analysis\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	for _, band := range a.Bands {
		fmt.Fprintf(&b, "\n%s:\n", band.Band)
		fmt.Fprintf(&b, "  Flights: %d\n", band.Flights)
		fmt.Fprintf(&b, "  Avg Price: $%.2f\n", band.AvgPrice)
		fmt.Fprintf(&b, "  Price Std Dev: $%.2f\n", band.StdDev)
	}
	fmt.Fprintf(&b, "\nDuration-Price Correlation: %.3f\n", a.Correlation)
	switch {
	case a.Correlation > 0.3:
		b.WriteString("Strong positive correlation - longer flights tend to be more expensive\n")
	case a.Correlation < -0.3:
		b.WriteString("Strong negative correlation - longer flights tend to be cheaper\n")
	default:
		b.WriteString("Weak correlation between duration and price\n")
	}
	return b.String()
}

// RenderPriceTrends formats the per-weekday price breakdown
func RenderPriceTrends(t *entity.PriceTrends) string {
	var b strings.Builder
	b.WriteString("Price Trends by Day of Week\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	for _, d := range t.Days {
		fmt.Fprintf(&b, "%s: $%.2f avg (%d flights)\n", d.Day, d.AvgPrice, d.Flights)
	}
	if t.CheapestDay != "" {
		fmt.Fprintf(&b, "\nCheapest day: %s\n", t.CheapestDay)
		fmt.Fprintf(&b, "Most expensive day: %s\n", t.PriciestDay)
	}
	return b.String()
}
