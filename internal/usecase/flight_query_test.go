package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightquery-service/internal/domain/entity"
	"flightquery-service/internal/domain/repository"
	"flightquery-service/pkg/logger"
)

// stubSource serves canned flights per dataset name.
type stubSource struct {
	flights map[string][]entity.Flight
	err     error
}

func (s *stubSource) Load(ctx context.Context, name string) ([]entity.Flight, error) {
	if s.err != nil {
		return nil, s.err
	}
	flights, ok := s.flights[name]
	if !ok {
		return nil, repository.ErrDataUnavailable
	}
	return flights, nil
}

// stubAirports resolves a fixed code→city map.
type stubAirports struct {
	cities map[string]string
}

func (s *stubAirports) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	city, ok := s.cities[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entity.Airport{Code: code, City: city}, nil
}

func flight(airline, from, to, date string, price float64, duration, stops int) entity.Flight {
	d, _ := time.Parse("2006-01-02", date)
	return entity.Flight{
		Airline:  airline,
		From:     from,
		To:       to,
		Date:     d,
		Price:    price,
		Duration: duration,
		Stops:    stops,
	}
}

// testFlights has two BOS-ORD flights sharing the lowest price so that the
// stable tie-break is observable via the airline field.
var testFlights = []entity.Flight{
	flight("Delta", "BOS", "ORD", "2025-06-02", 185, 165, 0),    // Monday
	flight("United", "BOS", "ORD", "2025-06-03", 240, 310, 1),   // Tuesday
	flight("American", "BOS", "ORD", "2025-06-04", 185, 170, 0), // Wednesday
	flight("JetBlue", "JFK", "LAX", "2025-06-07", 310, 365, 0),  // Saturday
	flight("Delta", "JFK", "LAX", "2025-06-08", 290, 375, 0),    // Sunday
}

func newTestService(t *testing.T) *FlightQueryService {
	t.Helper()
	src := &stubSource{flights: map[string][]entity.Flight{
		"flights.csv": testFlights,
		"empty.csv":   {},
	}}
	airports := &stubAirports{cities: map[string]string{"BOS": "Boston", "ORD": "Chicago"}}
	svc := NewFlightQueryService(src, airports, logger.NewNop())

	_, err := svc.LoadDataset(context.Background(), "flights.csv")
	require.NoError(t, err)
	return svc
}

func TestLoadDataset(t *testing.T) {
	svc := newTestService(t)

	ds, err := svc.LoadDataset(context.Background(), "flights.csv")
	require.NoError(t, err)
	assert.Equal(t, "flights.csv", ds.Name)
	assert.Len(t, ds.Flights, 5)

	// City enrichment with fallback to the code for unknown airports.
	assert.Equal(t, "Boston", ds.Flights[0].FromCity)
	assert.Equal(t, "Chicago", ds.Flights[0].ToCity)
	assert.Equal(t, "JFK", ds.Flights[3].FromCity)
}

func TestLoadDataset_errors(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.LoadDataset(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.LoadDataset(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, repository.ErrDataUnavailable)
}

func TestDatasets(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.LoadDataset(context.Background(), "empty.csv")
	require.NoError(t, err)

	infos := svc.Datasets()
	require.Len(t, infos, 2)
	// Sorted by name.
	assert.Equal(t, "empty.csv", infos[0].Name)
	assert.Equal(t, 0, infos[0].Flights)
	assert.Equal(t, "flights.csv", infos[1].Name)
	assert.Equal(t, 5, infos[1].Flights)
}

func TestCheapestFlights_route(t *testing.T) {
	svc := newTestService(t)

	flights, err := svc.CheapestFlights("flights.csv", "BOS-ORD", 10)
	require.NoError(t, err)
	require.Len(t, flights, 3)

	// Ascending by price; the two $185 flights keep their dataset order.
	assert.Equal(t, "Delta", flights[0].Airline)
	assert.Equal(t, "American", flights[1].Airline)
	assert.Equal(t, "United", flights[2].Airline)
	for _, f := range flights {
		assert.Equal(t, "BOS-ORD", f.Route())
	}
	for i := 1; i < len(flights); i++ {
		assert.LessOrEqual(t, flights[i-1].Price, flights[i].Price)
	}
}

func TestCheapestFlights_wholeDataset(t *testing.T) {
	svc := newTestService(t)

	flights, err := svc.CheapestFlights("flights.csv", "", 3)
	require.NoError(t, err)
	require.Len(t, flights, 3)
	assert.Equal(t, 185.0, flights[0].Price)
	assert.Equal(t, 185.0, flights[1].Price)
	assert.Equal(t, 240.0, flights[2].Price)
}

func TestCheapestFlights_routeNormalized(t *testing.T) {
	svc := newTestService(t)

	flights, err := svc.CheapestFlights("flights.csv", " bos-ord ", 10)
	require.NoError(t, err)
	assert.Len(t, flights, 3)
}

func TestCheapestFlights_unknownRouteIsEmpty(t *testing.T) {
	svc := newTestService(t)

	flights, err := svc.CheapestFlights("flights.csv", "XXX-YYY", 10)
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestCheapestFlights_invalidLimit(t *testing.T) {
	svc := newTestService(t)

	for _, limit := range []int{0, -1} {
		_, err := svc.CheapestFlights("flights.csv", "BOS-ORD", limit)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestCheapestFlights_datasetNotLoaded(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CheapestFlights("other.csv", "", 10)
	assert.ErrorIs(t, err, ErrDatasetNotLoaded)
}

func TestSummary(t *testing.T) {
	svc := newTestService(t)

	summary, err := svc.Summary("flights.csv")
	require.NoError(t, err)

	assert.Equal(t, 5, summary.TotalFlights)
	assert.Equal(t, 2, summary.Routes)
	assert.Equal(t, 4, summary.Airlines)
	assert.Equal(t, 185.0, summary.MinPrice)
	assert.Equal(t, 310.0, summary.MaxPrice)
	assert.InDelta(t, 242.0, summary.AvgPrice, 0.001)
	assert.Equal(t, "2025-06-02", summary.FirstDate.Format("2006-01-02"))
	assert.Equal(t, "2025-06-08", summary.LastDate.Format("2006-01-02"))
}

func TestSummary_totalEqualsPerRouteCounts(t *testing.T) {
	svc := newTestService(t)

	summary, err := svc.Summary("flights.csv")
	require.NoError(t, err)
	stats, err := svc.RouteAnalysis("flights.csv", 100)
	require.NoError(t, err)

	total := 0
	for _, rs := range stats {
		total += rs.Flights
	}
	assert.Equal(t, summary.TotalFlights, total)
}

func TestSummary_emptyDataset(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.LoadDataset(context.Background(), "empty.csv")
	require.NoError(t, err)

	summary, err := svc.Summary("empty.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalFlights)
	assert.Equal(t, 0, summary.Routes)
}

func TestRouteAnalysis(t *testing.T) {
	svc := newTestService(t)

	stats, err := svc.RouteAnalysis("flights.csv", 10)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Busiest route first.
	assert.Equal(t, "BOS-ORD", stats[0].Route)
	assert.Equal(t, 3, stats[0].Flights)
	assert.Equal(t, 3, stats[0].Airlines)
	assert.Equal(t, 185.0, stats[0].MinPrice)
	assert.Equal(t, 240.0, stats[0].MaxPrice)
	assert.InDelta(t, 203.333, stats[0].AvgPrice, 0.001)

	assert.Equal(t, "JFK-LAX", stats[1].Route)
	assert.Equal(t, 2, stats[1].Flights)
}

func TestRouteAnalysis_topNCapsResults(t *testing.T) {
	svc := newTestService(t)

	stats, err := svc.RouteAnalysis("flights.csv", 1)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "BOS-ORD", stats[0].Route)

	_, err = svc.RouteAnalysis("flights.csv", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAirlinePerformance(t *testing.T) {
	svc := newTestService(t)

	stats, err := svc.AirlinePerformance("flights.csv")
	require.NoError(t, err)
	require.Len(t, stats, 4)

	// Ordered by airline name.
	assert.Equal(t, "American", stats[0].Airline)
	assert.Equal(t, "Delta", stats[1].Airline)

	// Delta flies BOS-ORD at 185 and JFK-LAX at 290.
	assert.Equal(t, 2, stats[1].Flights)
	assert.Equal(t, 185.0, stats[1].MinPrice)
	assert.Equal(t, 290.0, stats[1].MaxPrice)
	assert.InDelta(t, 237.5, stats[1].AvgPrice, 0.001)
	assert.Equal(t, 0.0, stats[1].AvgStops)
}

func TestPriceTrends(t *testing.T) {
	svc := newTestService(t)

	trends, err := svc.PriceTrends("flights.csv")
	require.NoError(t, err)
	require.Len(t, trends.Days, 5)

	// Weekday order, Monday first.
	assert.Equal(t, "Monday", trends.Days[0].Day)
	assert.Equal(t, 185.0, trends.Days[0].AvgPrice)
	assert.Equal(t, "Saturday", trends.Days[3].Day)

	assert.Equal(t, "Monday", trends.CheapestDay)
	assert.Equal(t, "Saturday", trends.PriciestDay)
}

func TestDurationPriceAnalysis(t *testing.T) {
	svc := newTestService(t)

	analysis, err := svc.DurationPriceAnalysis("flights.csv")
	require.NoError(t, err)
	require.Len(t, analysis.Bands, 2)

	// Durations 165 and 170 fall in the medium band, 310/365/375 in long;
	// empty bands are omitted.
	medium := analysis.Bands[0]
	assert.Equal(t, "Medium (2-5h)", medium.Band)
	assert.Equal(t, 2, medium.Flights)
	assert.Equal(t, 185.0, medium.AvgPrice)
	assert.Equal(t, 0.0, medium.StdDev) // both flights cost the same

	long := analysis.Bands[1]
	assert.Equal(t, "Long (5-8h)", long.Band)
	assert.Equal(t, 3, long.Flights)
	assert.InDelta(t, 280.0, long.AvgPrice, 0.001)
	assert.InDelta(t, 36.056, long.StdDev, 0.001)

	// Longer flights cost more in this fixture.
	assert.InDelta(t, 0.968, analysis.Correlation, 0.001)
}

func TestDurationPriceAnalysis_emptyDataset(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.LoadDataset(context.Background(), "empty.csv")
	require.NoError(t, err)

	analysis, err := svc.DurationPriceAnalysis("empty.csv")
	require.NoError(t, err)
	assert.Empty(t, analysis.Bands)
	assert.Equal(t, 0.0, analysis.Correlation)
}

func TestDurationPriceAnalysis_datasetNotLoaded(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.DurationPriceAnalysis("other.csv")
	assert.ErrorIs(t, err, ErrDatasetNotLoaded)
}

func TestFindDeals(t *testing.T) {
	svc := newTestService(t)

	deals, err := svc.FindDeals("flights.csv", 250, 0)
	require.NoError(t, err)
	require.Len(t, deals, 2) // the two nonstop $185 flights; $240 has a stop

	assert.Equal(t, "Delta", deals[0].Airline)
	assert.Equal(t, "American", deals[1].Airline)

	deals, err = svc.FindDeals("flights.csv", 250, 1)
	require.NoError(t, err)
	assert.Len(t, deals, 3)
}

func TestFindDeals_invalidArguments(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.FindDeals("flights.csv", 0, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.FindDeals("flights.csv", 100, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
