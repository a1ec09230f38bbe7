package repository

import (
	"context"

	"flightquery-service/internal/domain/entity"
)

// FlightSource defines the interface for reading flight dataset snapshots
type FlightSource interface {
	// Load reads the named dataset and returns its flights in file order.
	// Returns an error wrapping ErrDataUnavailable when the dataset is
	// missing or malformed.
	Load(ctx context.Context, name string) ([]entity.Flight, error)
}
