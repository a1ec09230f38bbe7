package repository

import (
	"context"

	"flightquery-service/internal/domain/entity"
	"flightquery-service/internal/domain/repository"
)

// BuiltinAirportCities maps major US airport codes to city names. It backs
// the static repository and seeds the reference table.
var BuiltinAirportCities = map[string]string{
	"BOS": "Boston", "ORD": "Chicago", "LAX": "Los Angeles",
	"JFK": "New York", "LGA": "New York", "EWR": "Newark",
	"DFW": "Dallas", "ATL": "Atlanta", "DEN": "Denver",
	"SEA": "Seattle", "SFO": "San Francisco", "MIA": "Miami",
	"PHX": "Phoenix", "LAS": "Las Vegas", "MCO": "Orlando",
}

// StaticAirportRepository implements AirportRepository over the built-in
// airport map. Used when no reference database is configured.
type StaticAirportRepository struct {
	cities map[string]string
}

// NewStaticAirportRepository creates a repository over the built-in map
func NewStaticAirportRepository() repository.AirportRepository {
	return &StaticAirportRepository{
		cities: BuiltinAirportCities,
	}
}

// GetByCode finds an airport by IATA code
func (r *StaticAirportRepository) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	city, ok := r.cities[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &entity.Airport{
		Code: code,
		City: city,
	}, nil
}
