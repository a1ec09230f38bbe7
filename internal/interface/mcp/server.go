package mcp

// In this file: MCP server construction and transport management.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"flightquery-service/internal/usecase"
	"flightquery-service/pkg/logger"
	"flightquery-service/pkg/metrics"
)

const (
	serverName    = "flightquery-mcp"
	serverVersion = "1.0.0"
)

// Transport selects how the MCP server communicates with its client.
type Transport string

const (
	// TransportStdio uses stdin/stdout for communication (default, suitable
	// for local agent integrations).
	TransportStdio Transport = "stdio"
	// TransportHTTP uses Streamable HTTP transport (suitable for remote
	// agents or when multiple concurrent clients are needed).
	TransportHTTP Transport = "http"
)

// Server wraps an MCP server around the flight query and context services.
type Server struct {
	mcp      *mcpsrv.MCPServer
	flights  *usecase.FlightQueryService
	contexts *usecase.ContextService
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// New creates a new MCP server. The server is populated with all available
// tools but does not start listening until one of the Serve* methods is
// called. metrics may be nil.
func New(flights *usecase.FlightQueryService, contexts *usecase.ContextService, m *metrics.Metrics, log logger.Logger) *Server {
	s := &Server{
		flights:  flights,
		contexts: contexts,
		metrics:  m,
		logger:   log,
	}

	mcpServer := mcpsrv.NewMCPServer(
		serverName,
		serverVersion,
		mcpsrv.WithInstructions(instructions()),
	)

	// Register all tools.
	for _, t := range s.tools() {
		mcpServer.AddTool(t.Tool, t.Handler)
	}

	s.mcp = mcpServer
	return s
}

// instructions returns the server instructions shown to the connecting agent.
func instructions() string {
	return `You are connected to a flight data query server.

Available tools allow you to:
- Load CSV flight datasets and list what is loaded
- Find the cheapest flights overall or for a route (FROM-TO, e.g. BOS-ORD)
- Get a dataset summary (counts, date range, price statistics)
- Analyze routes, airlines, price trends by day of week, and duration vs price
- Find flight deals under a price and stop limit
- Store and retrieve per-user conversational context

Load a dataset with load_flight_data before querying it. Prices are in USD,
durations in minutes.
`
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := mcpsrv.NewStdioServer(s.mcp)
	s.logger.Info("MCP server listening on stdio")
	if err := srv.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}

// ServeHTTP runs the MCP server as a Streamable HTTP server on addr until
// ctx is cancelled. addr is a host:port string such as "127.0.0.1:8483".
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpSrv := &http.Server{Addr: addr}
	streamSrv := mcpsrv.NewStreamableHTTPServer(s.mcp,
		mcpsrv.WithStreamableHTTPServer(httpSrv),
	)

	s.logger.Info("MCP server listening on http", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := streamSrv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("mcp http server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("MCP server shutting down")
		if err := streamSrv.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("mcp http server shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// tools returns all MCP tools that this server exposes.
func (s *Server) tools() []mcpsrv.ServerTool {
	return []mcpsrv.ServerTool{
		s.toolLoadFlightData(),
		s.toolListDatasets(),
		s.toolFlightSummary(),
		s.toolCheapestFlights(),
		s.toolRouteAnalysis(),
		s.toolAirlinePerformance(),
		s.toolPriceTrends(),
		s.toolDurationPriceAnalysis(),
		s.toolFlightDeals(),
		s.toolSetUserContext(),
		s.toolGetUserContext(),
	}
}

// instrument wraps a tool handler with call counting and timing.
func (s *Server) instrument(name string, h mcpsrv.ToolHandlerFunc) mcpsrv.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if s.metrics == nil {
			return h(ctx, req)
		}
		s.metrics.ToolCalls.WithLabelValues(name).Inc()
		start := time.Now()
		result, err := h(ctx, req)
		s.metrics.QueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err != nil || (result != nil && result.IsError) {
			s.metrics.ErrorsCount.WithLabelValues(name).Inc()
		}
		return result, err
	}
}

// resultText is a helper that wraps text in a successful CallToolResult.
func resultText(text string) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(text)
}

// resultErr is a helper that wraps an error in a CallToolResult with IsError=true.
func resultErr(err error) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(err.Error())},
		IsError: true,
	}
}

// resultJSON is a helper that serialises v to JSON and returns a CallToolResult.
func resultJSON(v any) (*mcplib.CallToolResult, error) {
	return mcplib.NewToolResultJSON(v)
}

// stringArg extracts a named string argument from a tool call request.
// Returns ("", false) if the argument is absent or not a string.
func stringArg(req mcplib.CallToolRequest, name string) (string, bool) {
	args := req.GetArguments()
	if args == nil {
		return "", false
	}
	v, ok := args[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intArg extracts a named int argument from a tool call request. The MCP
// protocol serialises numbers as float64, so we convert accordingly.
func intArg(req mcplib.CallToolRequest, name string, defaultVal int) int {
	args := req.GetArguments()
	if args == nil {
		return defaultVal
	}
	v, ok := args[name]
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return defaultVal
}

// floatArg extracts a named float argument from a tool call request.
func floatArg(req mcplib.CallToolRequest, name string) (float64, bool) {
	args := req.GetArguments()
	if args == nil {
		return 0, false
	}
	v, ok := args[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// mapArg extracts a named object argument from a tool call request.
func mapArg(req mcplib.CallToolRequest, name string) (map[string]any, bool) {
	args := req.GetArguments()
	if args == nil {
		return nil, false
	}
	v, ok := args[name]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}
