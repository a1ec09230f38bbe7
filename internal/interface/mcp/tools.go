package mcp

// In this file: MCP tool definitions and handler implementations.

import (
	"context"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"flightquery-service/internal/domain/entity"
	"flightquery-service/internal/usecase"
	"flightquery-service/templates"
)

// flightSummary is a JSON-serialisable view of a flight.
type flightSummary struct {
	Airline  string  `json:"airline"`
	Route    string  `json:"route"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	FromCity string  `json:"from_city,omitempty"`
	ToCity   string  `json:"to_city,omitempty"`
	Date     string  `json:"date"`
	Price    float64 `json:"price"`
	Duration int     `json:"duration_minutes"`
	Stops    int     `json:"stops"`
}

func toFlightSummaries(flights []entity.Flight) []flightSummary {
	out := make([]flightSummary, 0, len(flights))
	for _, f := range flights {
		out = append(out, flightSummary{
			Airline:  f.Airline,
			Route:    f.Route(),
			From:     f.From,
			To:       f.To,
			FromCity: f.FromCity,
			ToCity:   f.ToCity,
			Date:     f.Date.Format("2006-01-02"),
			Price:    f.Price,
			Duration: f.Duration,
			Stops:    f.Stops,
		})
	}
	return out
}

// queryResult maps a query error to a tool result. A dataset that has not
// been loaded yet is a conversational condition, not a protocol error.
func queryResult(op string, err error) *mcplib.CallToolResult {
	if errors.Is(err, usecase.ErrDatasetNotLoaded) {
		return resultText(fmt.Sprintf("%v. Call load_flight_data first.", err))
	}
	return resultErr(fmt.Errorf("%s: %w", op, err))
}

// ─── load_flight_data ─────────────────────────────────────────────────────────

func (s *Server) toolLoadFlightData() mcpsrv.ServerTool {
	tool := mcplib.NewTool("load_flight_data",
		mcplib.WithDescription(`Load and process a flight CSV dataset from the data directory.

Loading the same filename again replaces the previous snapshot. All query
tools take the dataset filename as their first argument.`),
		mcplib.WithString("filename",
			mcplib.Description("Name of the CSV file to load, e.g. flights.csv"),
			mcplib.Required(),
		),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.instrument("load_flight_data", s.handleLoadFlightData)}
}

func (s *Server) handleLoadFlightData(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	filename, ok := stringArg(req, "filename")
	if !ok || filename == "" {
		return resultErr(errors.New("load_flight_data: filename is required")), nil
	}

	s.logger.Info("MCP: load_flight_data", "filename", filename)

	ds, err := s.flights.LoadDataset(ctx, filename)
	if err != nil {
		return resultErr(fmt.Errorf("load_flight_data: %w", err)), nil
	}

	if s.metrics != nil {
		s.metrics.DatasetLoads.Inc()
	}
	return resultText(fmt.Sprintf("Successfully loaded %s: %d flights", ds.Name, len(ds.Flights))), nil
}

// ─── list_datasets ────────────────────────────────────────────────────────────

func (s *Server) toolListDatasets() mcpsrv.ServerTool {
	tool := mcplib.NewTool("list_datasets",
		mcplib.WithDescription("List the flight datasets currently loaded, with flight counts and load times."),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.instrument("list_datasets", s.handleListDatasets)}
}

// datasetSummary is a JSON-serialisable view of a loaded dataset.
type datasetSummary struct {
	Name     string `json:"name"`
	Flights  int    `json:"flights"`
	LoadedAt string `json:"loaded_at"`
}

func (s *Server) handleListDatasets(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	infos := s.flights.Datasets()
	summaries := make([]datasetSummary, 0, len(infos))
	for _, info := range infos {
		summaries = append(summaries, datasetSummary{
			Name:     info.Name,
			Flights:  info.Flights,
			LoadedAt: info.LoadedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	result, err := resultJSON(summaries)
	if err != nil {
		return resultErr(fmt.Errorf("list_datasets: serialise: %w", err)), nil
	}
	return result, nil
}

// ─── flight_summary ───────────────────────────────────────────────────────────

func (s *Server) toolFlightSummary() mcpsrv.ServerTool {
	tool := mcplib.NewTool("flight_summary",
		mcplib.WithDescription("Get a comprehensive summary of a loaded flight dataset: flight count, date range, airlines, routes, and price statistics."),
		mcplib.WithString("dataset",
			mcplib.Description("Name of the loaded flight dataset, e.g. flights.csv"),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.instrument("flight_summary", s.handleFlightSummary)}
}

func (s *Server) handleFlightSummary(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	dataset, ok := stringArg(req, "dataset")
	if !ok || dataset == "" {
		return resultErr(errors.New("flight_summary: dataset is required")), nil
	}

	summary, err := s.flights.Summary(dataset)
	if err != nil {
		return queryResult("flight_summary", err), nil
	}
	return resultText(templates.RenderSummary(summary)), nil
}

// ─── cheapest_flights ─────────────────────────────────────────────────────────

func (s *Server) toolCheapestFlights() mcpsrv.ServerTool {
	tool := mcplib.NewTool("cheapest_flights",
		mcplib.WithDescription(`Find the cheapest flights overall or for a specific route.

Results are sorted by ascending price; flights with equal prices keep their
dataset order. An unknown route returns an empty list.`),
		mcplib.WithString("dataset",
			mcplib.Description("Name of the loaded flight dataset, e.g. flights.csv"),
			mcplib.Required(),
		),
		mcplib.WithString("route",
			mcplib.Description("Optional route in FROM-TO format, e.g. BOS-ORD. Omit to search the whole dataset."),
		),
		mcplib.WithNumber("limit",
			mcplib.Description("Number of flights to return (default 10)"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.instrument("cheapest_flights", s.handleCheapestFlights)}
}

const defCheapestLimit = 10

func (s *Server) handleCheapestFlights(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	dataset, ok := stringArg(req, "dataset")
	if !ok || dataset == "" {
		return resultErr(errors.New("cheapest_flights: dataset is required")), nil
	}
	route, _ := stringArg(req, "route")
	limit := intArg(req, "limit", defCheapestLimit)

	flights, err := s.flights.CheapestFlights(dataset, route, limit)
	if err != nil {
		return queryResult("cheapest_flights", err), nil
	}

	result, err := resultJSON(toFlightSummaries(flights))
	if err != nil {
		return resultErr(fmt.Errorf("cheapest_flights: serialise: %w", err)), nil
	}
	return result, nil
}

// ─── route_analysis ───────────────────────────────────────────────────────────

func (s *Server) toolRouteAnalysis() mcpsrv.ServerTool {
	tool := mcplib.NewTool("route_analysis",
		mcplib.WithDescription("Analyze the most flown routes of a dataset: flight count, airline count, price statistics, and average duration per route."),
		mcplib.WithString("dataset",
			mcplib.Description("Name of the loaded flight dataset, e.g. flights.csv"),
			mcplib.Required(),
		),
		mcplib.WithNumber("top_n",
			mcplib.Description("Number of routes to include, busiest first (default 10)"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.instrument("route_analysis", s.handleRouteAnalysis)}
}

func (s *Server) handleRouteAnalysis(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	dataset, ok := stringArg(req, "dataset")
	if !ok || dataset == "" {
		return resultErr(errors.New("route_analysis: dataset is required")), nil
	}
	topN := intArg(req, "top_n", 10)

	stats, err := s.flights.RouteAnalysis(dataset, topN)
	if err != nil {
		return queryResult("route_analysis", err), nil
	}
	return resultText(templates.RenderRouteAnalysis(stats)), nil
}

// ─── airline_performance ──────────────────────────────────────────────────────

func (s *Server) toolAirlinePerformance() mcpsrv.ServerTool {
	tool := mcplib.NewTool("airline_performance",
		mcplib.WithDescription("Analyze per-airline performance: flight count, price statistics, average duration, and average stops."),
		mcplib.WithString("dataset",
			mcplib.Description("Name of the loaded flight dataset, e.g. flights.csv"),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.instrument("airline_performance", s.handleAirlinePerformance)}
}

func (s *Server) handleAirlinePerformance(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	dataset, ok := stringArg(req, "dataset")
	if !ok || dataset == "" {
		return resultErr(errors.New("airline_performance: dataset is required")), nil
	}

	stats, err := s.flights.AirlinePerformance(dataset)
	if err != nil {
		return queryResult("airline_performance", err), nil
	}
	return resultText(templates.RenderAirlinePerformance(stats)), nil
}

// ─── price_trends ─────────────────────────────────────────────────────────────

func (s *Server) toolPriceTrends() mcpsrv.ServerTool {
	tool := mcplib.NewTool("price_trends",
		mcplib.WithDescription("Analyze average flight prices by day of week, including the cheapest and most expensive days."),
		mcplib.WithString("dataset",
			mcplib.Description("Name of the loaded flight dataset, e.g. flights.csv"),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.instrument("price_trends", s.handlePriceTrends)}
}

func (s *Server) handlePriceTrends(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	dataset, ok := stringArg(req, "dataset")
	if !ok || dataset == "" {
		return resultErr(errors.New("price_trends: dataset is required")), nil
	}

	trends, err := s.flights.PriceTrends(dataset)
	if err != nil {
		return queryResult("price_trends", err), nil
	}
	return resultText(templates.RenderPriceTrends(trends)), nil
}

// ─── duration_price_analysis ──────────────────────────────────────────────────

func (s *Server) toolDurationPriceAnalysis() mcpsrv.ServerTool {
	tool := mcplib.NewTool("duration_price_analysis",
		mcplib.WithDescription("Analyze the relationship between flight duration and price: price statistics per duration band and the overall duration-price correlation."),
		mcplib.WithString("dataset",
			mcplib.Description("Name of the loaded flight dataset, e.g. flights.csv"),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.instrument("duration_price_analysis", s.handleDurationPriceAnalysis)}
}

func (s *Server) handleDurationPriceAnalysis(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	dataset, ok := stringArg(req, "dataset")
	if !ok || dataset == "" {
		return resultErr(errors.New("duration_price_analysis: dataset is required")), nil
	}

	analysis, err := s.flights.DurationPriceAnalysis(dataset)
	if err != nil {
		return queryResult("duration_price_analysis", err), nil
	}
	return resultText(templates.RenderDurationPriceAnalysis(analysis)), nil
}

// ─── flight_deals ─────────────────────────────────────────────────────────────

func (s *Server) toolFlightDeals() mcpsrv.ServerTool {
	tool := mcplib.NewTool("flight_deals",
		mcplib.WithDescription("Find flight deals at or under a maximum price and stop count, cheapest first (up to 15 results)."),
		mcplib.WithString("dataset",
			mcplib.Description("Name of the loaded flight dataset, e.g. flights.csv"),
			mcplib.Required(),
		),
		mcplib.WithNumber("max_price",
			mcplib.Description("Maximum price in USD"),
			mcplib.Required(),
		),
		mcplib.WithNumber("max_stops",
			mcplib.Description("Maximum number of stops (default 2)"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.instrument("flight_deals", s.handleFlightDeals)}
}

func (s *Server) handleFlightDeals(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	dataset, ok := stringArg(req, "dataset")
	if !ok || dataset == "" {
		return resultErr(errors.New("flight_deals: dataset is required")), nil
	}
	maxPrice, ok := floatArg(req, "max_price")
	if !ok {
		return resultErr(errors.New("flight_deals: max_price is required")), nil
	}
	maxStops := intArg(req, "max_stops", 2)

	deals, err := s.flights.FindDeals(dataset, maxPrice, maxStops)
	if err != nil {
		return queryResult("flight_deals", err), nil
	}
	if len(deals) == 0 {
		return resultText(fmt.Sprintf("No deals found under $%.2f with %d or fewer stops.", maxPrice, maxStops)), nil
	}

	result, err := resultJSON(toFlightSummaries(deals))
	if err != nil {
		return resultErr(fmt.Errorf("flight_deals: serialise: %w", err)), nil
	}
	return result, nil
}

// ─── set_user_context ─────────────────────────────────────────────────────────

func (s *Server) toolSetUserContext() mcpsrv.ServerTool {
	tool := mcplib.NewTool("set_user_context",
		mcplib.WithDescription(`Store conversational context for a user.

The stored payload replaces any previous context for the user wholesale;
there is no merge. Use get_user_context to read it back later.`),
		mcplib.WithString("user_id",
			mcplib.Description("Identifier of the user the context belongs to"),
			mcplib.Required(),
		),
		mcplib.WithObject("context",
			mcplib.Description("Arbitrary context payload to store for the user"),
			mcplib.Required(),
		),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.instrument("set_user_context", s.handleSetUserContext)}
}

func (s *Server) handleSetUserContext(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	userID, ok := stringArg(req, "user_id")
	if !ok || userID == "" {
		return resultErr(errors.New("set_user_context: user_id is required")), nil
	}
	payload, ok := mapArg(req, "context")
	if !ok {
		return resultErr(errors.New("set_user_context: context must be an object")), nil
	}

	if err := s.contexts.SetUserContext(ctx, userID, payload); err != nil {
		return resultErr(fmt.Errorf("set_user_context: %w", err)), nil
	}

	if s.metrics != nil {
		s.metrics.ContextWrites.Inc()
	}
	return resultText(fmt.Sprintf("Context stored for user %q.", userID)), nil
}

// ─── get_user_context ─────────────────────────────────────────────────────────

func (s *Server) toolGetUserContext() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_user_context",
		mcplib.WithDescription("Retrieve the stored conversational context for a user. Returns an empty object when no context has been stored."),
		mcplib.WithString("user_id",
			mcplib.Description("Identifier of the user to look up"),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.instrument("get_user_context", s.handleGetUserContext)}
}

func (s *Server) handleGetUserContext(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	userID, _ := stringArg(req, "user_id")

	payload, err := s.contexts.GetUserContext(ctx, userID)
	if err != nil {
		return resultErr(fmt.Errorf("get_user_context: %w", err)), nil
	}

	result, err := resultJSON(payload)
	if err != nil {
		return resultErr(fmt.Errorf("get_user_context: serialise: %w", err)), nil
	}
	return result, nil
}
