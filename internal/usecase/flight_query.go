package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"flightquery-service/internal/domain/entity"
	"flightquery-service/internal/domain/repository"
	"flightquery-service/pkg/flightcsv"
	"flightquery-service/pkg/logger"
)

var (
	// ErrInvalidArgument indicates malformed caller input. Never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDatasetNotLoaded indicates a query referenced a dataset that has
	// not been loaded yet.
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
)

// Dataset is an immutable snapshot of a loaded flight dataset. Flights keep
// their file order, which is the stable tie-break for equal-price results.
type Dataset struct {
	Name     string
	Flights  []entity.Flight
	LoadedAt time.Time
}

// DatasetInfo describes a loaded dataset for listing purposes.
type DatasetInfo struct {
	Name     string
	Flights  int
	LoadedAt time.Time
}

// FlightQueryService answers lookup and aggregation queries over loaded
// flight datasets.
type FlightQueryService struct {
	source      repository.FlightSource
	airportRepo repository.AirportRepository
	logger      logger.Logger

	mu       sync.RWMutex
	datasets map[string]*Dataset
}

// NewFlightQueryService creates a new flight query service
func NewFlightQueryService(
	source repository.FlightSource,
	airportRepo repository.AirportRepository,
	logger logger.Logger,
) *FlightQueryService {
	return &FlightQueryService{
		source:      source,
		airportRepo: airportRepo,
		logger:      logger,
		datasets:    make(map[string]*Dataset),
	}
}

// LoadDataset loads (or reloads) the named dataset from the source and
// registers the snapshot. City names are enriched from the airport
// reference data where known.
func (s *FlightQueryService) LoadDataset(ctx context.Context, name string) (*Dataset, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: dataset name is empty", ErrInvalidArgument)
	}

	flights, err := s.source.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	for i := range flights {
		flights[i].FromCity = s.cityFor(ctx, flights[i].From)
		flights[i].ToCity = s.cityFor(ctx, flights[i].To)
	}

	ds := &Dataset{
		Name:     name,
		Flights:  flights,
		LoadedAt: time.Now(),
	}

	s.mu.Lock()
	s.datasets[name] = ds
	s.mu.Unlock()

	s.logger.Info("Dataset registered", "dataset", name, "flights", len(flights))
	return ds, nil
}

// cityFor resolves an airport code to a city name, falling back to the code.
func (s *FlightQueryService) cityFor(ctx context.Context, code string) string {
	airport, err := s.airportRepo.GetByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Airport lookup failed", "code", code, "error", err)
		}
		return code
	}
	return airport.City
}

// Datasets lists the loaded datasets sorted by name.
func (s *FlightQueryService) Datasets() []DatasetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]DatasetInfo, 0, len(s.datasets))
	for _, ds := range s.datasets {
		infos = append(infos, DatasetInfo{
			Name:     ds.Name,
			Flights:  len(ds.Flights),
			LoadedAt: ds.LoadedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// dataset returns the snapshot for name, or ErrDatasetNotLoaded.
func (s *FlightQueryService) dataset(name string) (*Dataset, error) {
	s.mu.RLock()
	ds, ok := s.datasets[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDatasetNotLoaded, name)
	}
	return ds, nil
}

// CheapestFlights returns up to limit flights sorted by ascending price.
// An empty route searches the whole dataset; an unknown route yields an
// empty result, not an error. Equal prices keep their dataset order.
func (s *FlightQueryService) CheapestFlights(dataset, route string, limit int) ([]entity.Flight, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArgument, limit)
	}

	ds, err := s.dataset(dataset)
	if err != nil {
		return nil, err
	}

	route = flightcsv.NormalizeRoute(route)
	matched := make([]entity.Flight, 0, len(ds.Flights))
	for _, f := range ds.Flights {
		if route == "" || f.Route() == route {
			matched = append(matched, f)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Price < matched[j].Price
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Summary computes dataset-wide statistics. Recomputed on every call.
func (s *FlightQueryService) Summary(dataset string) (*entity.Summary, error) {
	ds, err := s.dataset(dataset)
	if err != nil {
		return nil, err
	}

	summary := &entity.Summary{
		Dataset:      ds.Name,
		TotalFlights: len(ds.Flights),
	}
	if len(ds.Flights) == 0 {
		return summary, nil
	}

	routes := map[string]struct{}{}
	airlines := map[string]struct{}{}
	var total float64
	summary.MinPrice = ds.Flights[0].Price
	summary.MaxPrice = ds.Flights[0].Price
	summary.FirstDate = ds.Flights[0].Date
	summary.LastDate = ds.Flights[0].Date

	for _, f := range ds.Flights {
		routes[f.Route()] = struct{}{}
		airlines[f.Airline] = struct{}{}
		total += f.Price
		if f.Price < summary.MinPrice {
			summary.MinPrice = f.Price
		}
		if f.Price > summary.MaxPrice {
			summary.MaxPrice = f.Price
		}
		if f.Date.Before(summary.FirstDate) {
			summary.FirstDate = f.Date
		}
		if f.Date.After(summary.LastDate) {
			summary.LastDate = f.Date
		}
	}

	summary.Routes = len(routes)
	summary.Airlines = len(airlines)
	summary.AvgPrice = total / float64(len(ds.Flights))
	return summary, nil
}

// RouteAnalysis aggregates per-route statistics for the topN routes by
// flight count. Routes with equal counts are ordered by route key.
func (s *FlightQueryService) RouteAnalysis(dataset string, topN int) ([]entity.RouteStats, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidArgument, topN)
	}

	ds, err := s.dataset(dataset)
	if err != nil {
		return nil, err
	}

	type acc struct {
		flights       int
		airlines      map[string]struct{}
		total, lo, hi float64
		duration      int
	}
	byRoute := map[string]*acc{}
	for _, f := range ds.Flights {
		a, ok := byRoute[f.Route()]
		if !ok {
			a = &acc{airlines: map[string]struct{}{}, lo: f.Price, hi: f.Price}
			byRoute[f.Route()] = a
		}
		a.flights++
		a.airlines[f.Airline] = struct{}{}
		a.total += f.Price
		if f.Price < a.lo {
			a.lo = f.Price
		}
		if f.Price > a.hi {
			a.hi = f.Price
		}
		a.duration += f.Duration
	}

	stats := make([]entity.RouteStats, 0, len(byRoute))
	for route, a := range byRoute {
		stats = append(stats, entity.RouteStats{
			Route:       route,
			Flights:     a.flights,
			Airlines:    len(a.airlines),
			AvgPrice:    a.total / float64(a.flights),
			MinPrice:    a.lo,
			MaxPrice:    a.hi,
			AvgDuration: a.duration / a.flights,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Flights != stats[j].Flights {
			return stats[i].Flights > stats[j].Flights
		}
		return stats[i].Route < stats[j].Route
	})

	if len(stats) > topN {
		stats = stats[:topN]
	}
	return stats, nil
}

// AirlinePerformance aggregates per-airline statistics, ordered by airline.
func (s *FlightQueryService) AirlinePerformance(dataset string) ([]entity.AirlineStats, error) {
	ds, err := s.dataset(dataset)
	if err != nil {
		return nil, err
	}

	type acc struct {
		flights       int
		total, lo, hi float64
		duration      int
		stops         int
	}
	byAirline := map[string]*acc{}
	for _, f := range ds.Flights {
		a, ok := byAirline[f.Airline]
		if !ok {
			a = &acc{lo: f.Price, hi: f.Price}
			byAirline[f.Airline] = a
		}
		a.flights++
		a.total += f.Price
		if f.Price < a.lo {
			a.lo = f.Price
		}
		if f.Price > a.hi {
			a.hi = f.Price
		}
		a.duration += f.Duration
		a.stops += f.Stops
	}

	stats := make([]entity.AirlineStats, 0, len(byAirline))
	for airline, a := range byAirline {
		stats = append(stats, entity.AirlineStats{
			Airline:     airline,
			Flights:     a.flights,
			AvgPrice:    a.total / float64(a.flights),
			MinPrice:    a.lo,
			MaxPrice:    a.hi,
			AvgDuration: a.duration / a.flights,
			AvgStops:    float64(a.stops) / float64(a.flights),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Airline < stats[j].Airline })
	return stats, nil
}

// weekdays in display order, Monday first.
var weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// PriceTrends computes the average price per day of week and identifies the
// cheapest and most expensive days. Days without flights are omitted.
func (s *FlightQueryService) PriceTrends(dataset string) (*entity.PriceTrends, error) {
	ds, err := s.dataset(dataset)
	if err != nil {
		return nil, err
	}

	type acc struct {
		flights int
		total   float64
	}
	byDay := map[string]*acc{}
	for _, f := range ds.Flights {
		day := f.DayOfWeek()
		a, ok := byDay[day]
		if !ok {
			a = &acc{}
			byDay[day] = a
		}
		a.flights++
		a.total += f.Price
	}

	trends := &entity.PriceTrends{}
	for _, day := range weekdays {
		a, ok := byDay[day]
		if !ok {
			continue
		}
		avg := a.total / float64(a.flights)
		trends.Days = append(trends.Days, entity.DayTrend{
			Day:      day,
			Flights:  a.flights,
			AvgPrice: avg,
		})
		if trends.CheapestDay == "" {
			trends.CheapestDay = day
			trends.PriciestDay = day
			continue
		}
		if avg < dayAvg(trends.Days, trends.CheapestDay) {
			trends.CheapestDay = day
		}
		if avg > dayAvg(trends.Days, trends.PriciestDay) {
			trends.PriciestDay = day
		}
	}
	return trends, nil
}

func dayAvg(days []entity.DayTrend, day string) float64 {
	for _, d := range days {
		if d.Day == day {
			return d.AvgPrice
		}
	}
	return 0
}

// durationBands partitions flight durations in minutes. Bounds are
// inclusive; the last band is unbounded.
var durationBands = []struct {
	name string
	max  int
}{
	{"Short (<2h)", 120},
	{"Medium (2-5h)", 300},
	{"Long (5-8h)", 480},
	{"Very Long (>8h)", 0},
}

func durationBandName(minutes int) string {
	for _, b := range durationBands {
		if b.max == 0 || minutes <= b.max {
			return b.name
		}
	}
	return durationBands[len(durationBands)-1].name
}

// DurationPriceAnalysis computes price statistics per duration band and the
// Pearson correlation between duration and price. Empty bands are omitted.
func (s *FlightQueryService) DurationPriceAnalysis(dataset string) (*entity.DurationPriceAnalysis, error) {
	ds, err := s.dataset(dataset)
	if err != nil {
		return nil, err
	}

	byBand := map[string][]float64{}
	durations := make([]float64, 0, len(ds.Flights))
	prices := make([]float64, 0, len(ds.Flights))
	for _, f := range ds.Flights {
		band := durationBandName(f.Duration)
		byBand[band] = append(byBand[band], f.Price)
		durations = append(durations, float64(f.Duration))
		prices = append(prices, f.Price)
	}

	analysis := &entity.DurationPriceAnalysis{}
	for _, b := range durationBands {
		bandPrices, ok := byBand[b.name]
		if !ok {
			continue
		}
		avg := mean(bandPrices)
		analysis.Bands = append(analysis.Bands, entity.DurationBand{
			Band:     b.name,
			Flights:  len(bandPrices),
			AvgPrice: avg,
			StdDev:   sampleStdDev(bandPrices, avg),
		})
	}
	analysis.Correlation = pearson(durations, prices)
	return analysis, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var total float64
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}

// sampleStdDev returns the sample standard deviation, 0 for fewer than two
// observations.
func sampleStdDev(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// pearson returns the Pearson correlation coefficient, 0 when either series
// has no variance.
func pearson(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mx := mean(xs)
	my := mean(ys)
	var cov, vx, vy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	return cov / math.Sqrt(vx*vy)
}

// maxDeals caps the flight_deals result size.
const maxDeals = 15

// FindDeals returns flights priced at or under maxPrice with at most
// maxStops stops, cheapest first, capped at maxDeals results.
func (s *FlightQueryService) FindDeals(dataset string, maxPrice float64, maxStops int) ([]entity.Flight, error) {
	if maxPrice <= 0 {
		return nil, fmt.Errorf("%w: max_price must be positive, got %v", ErrInvalidArgument, maxPrice)
	}
	if maxStops < 0 {
		return nil, fmt.Errorf("%w: max_stops must not be negative, got %d", ErrInvalidArgument, maxStops)
	}

	ds, err := s.dataset(dataset)
	if err != nil {
		return nil, err
	}

	deals := make([]entity.Flight, 0)
	for _, f := range ds.Flights {
		if f.Price <= maxPrice && f.Stops <= maxStops {
			deals = append(deals, f)
		}
	}
	sort.SliceStable(deals, func(i, j int) bool { return deals[i].Price < deals[j].Price })

	if len(deals) > maxDeals {
		deals = deals[:maxDeals]
	}
	return deals, nil
}
