package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"flightquery-service/internal/domain/entity"
	"flightquery-service/internal/domain/repository"
	"flightquery-service/pkg/flightcsv"
	"flightquery-service/pkg/logger"
)

// CSVFlightSource implements the FlightSource interface over a directory of
// CSV files. Expected columns: Airline, From, To, Date, Flight_price,
// Flight_Duration, Stops.
type CSVFlightSource struct {
	dataDir string
	logger  logger.Logger
}

// NewCSVFlightSource creates a new CSV flight source
func NewCSVFlightSource(dataDir string, logger logger.Logger) repository.FlightSource {
	return &CSVFlightSource{
		dataDir: dataDir,
		logger:  logger,
	}
}

// Load reads the named CSV file and returns its flights in file order.
func (r *CSVFlightSource) Load(ctx context.Context, name string) ([]entity.Flight, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("%w: invalid dataset name %q", repository.ErrDataUnavailable, name)
	}

	path := filepath.Join(r.dataDir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", repository.ErrDataUnavailable, path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", repository.ErrDataUnavailable, name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", repository.ErrDataUnavailable, name)
	}

	cols, err := columnIndex(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrDataUnavailable, name, err)
	}

	// A header with no rows is a valid, empty dataset.
	flights := make([]entity.Flight, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		price, err := flightcsv.ParsePrice(row[cols.price])
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", repository.ErrDataUnavailable, name, i+2, err)
		}
		date, err := flightcsv.ParseDate(row[cols.date])
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", repository.ErrDataUnavailable, name, i+2, err)
		}

		flights = append(flights, entity.Flight{
			Airline:  strings.TrimSpace(row[cols.airline]),
			From:     strings.ToUpper(strings.TrimSpace(row[cols.from])),
			To:       strings.ToUpper(strings.TrimSpace(row[cols.to])),
			Date:     date,
			Price:    price,
			Duration: flightcsv.ParseDuration(row[cols.duration]),
			Stops:    flightcsv.ParseStops(row[cols.stops]),
		})
	}

	r.logger.Info("Loaded flight dataset", "dataset", name, "flights", len(flights))
	return flights, nil
}

type columns struct {
	airline, from, to, date, price, duration, stops int
}

func columnIndex(header []string) (columns, error) {
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cols := columns{}
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{"airline", &cols.airline},
		{"from", &cols.from},
		{"to", &cols.to},
		{"date", &cols.date},
		{"flight_price", &cols.price},
		{"flight_duration", &cols.duration},
		{"stops", &cols.stops},
	} {
		i, ok := idx[want.name]
		if !ok {
			return cols, fmt.Errorf("missing column %q", want.name)
		}
		*want.dst = i
	}
	return cols, nil
}
