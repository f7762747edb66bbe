package stubserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/laterrassa/admin-client/internal/entities"
)

// Metrics here are deterministic functions of the seeded collections, enough
// for the reader's contract tests. Real aggregation happens server-side.

func (s *Server) registerMetrics(e *echo.Echo) {
	e.GET("/metrics/tables", s.metricTables)
	e.GET("/metrics/realtime", s.metricRealtime)
	e.GET("/metrics/sales", s.metricSales)
	e.GET("/metrics/products", s.metricProducts)
	e.GET("/metrics/waiters", s.metricWaiters)
	e.GET("/metrics/all-waiters", s.metricAllWaiters)
	e.GET("/metrics/peak-hours", s.metricPeakHours)
	e.GET("/metrics/financial", s.metricFinancial)
	e.GET("/metrics/most-sold-product", s.metricMostSold)
	e.GET("/metrics/least-sold-product", s.metricLeastSold)
	e.GET("/metrics/hourly-flow", s.metricHourlyFlow)
	e.POST("/metrics/invalidate", s.metricInvalidate)
}

func missingRange(c echo.Context) bool {
	return c.QueryParam("from") == "" || c.QueryParam("to") == ""
}

func badRange(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, errorBody{Message: "from and to are required"})
}

func (s *Server) metricTables(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	free := 0
	for _, t := range s.tables {
		if t.Status == entities.TableStatusFree {
			free++
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"data": map[string]int{
		"total":    len(s.tables),
		"free":     free,
		"occupied": len(s.tables) - free,
	}})
}

func (s *Server) metricRealtime(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	occupied := 0
	for _, t := range s.tables {
		if t.Status == entities.TableStatusServed {
			occupied++
		}
	}
	active := 0
	for _, w := range s.waiters {
		if w.IsActive {
			active++
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"data": map[string]any{
		"occupiedTables": occupied,
		"activeWaiters":  active,
		"openTotal":      float64(occupied) * 25.0,
	}})
}

func (s *Server) metricSales(c echo.Context) error {
	if missingRange(c) {
		return badRange(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": []map[string]any{
		{"date": c.QueryParam("from"), "orders": 12, "total": 340.5},
		{"date": c.QueryParam("to"), "orders": 9, "total": 221.0},
	}})
}

func (s *Server) metricProducts(c echo.Context) error {
	if missingRange(c) {
		return badRange(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": s.productRanks()})
}

func (s *Server) metricWaiters(c echo.Context) error {
	if missingRange(c) {
		return badRange(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": s.waiterRanks(false)})
}

func (s *Server) metricAllWaiters(c echo.Context) error {
	if missingRange(c) {
		return badRange(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": s.waiterRanks(true)})
}

func (s *Server) metricPeakHours(c echo.Context) error {
	if missingRange(c) {
		return badRange(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": []map[string]int{
		{"hour": 13, "orders": 31},
		{"hour": 21, "orders": 27},
	}})
}

func (s *Server) metricFinancial(c echo.Context) error {
	if missingRange(c) {
		return badRange(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": map[string]any{
		"revenue":       561.5,
		"orders":        21,
		"averageTicket": 26.7,
	}})
}

func (s *Server) metricMostSold(c echo.Context) error {
	if missingRange(c) {
		return badRange(c)
	}
	ranks := s.productRanks()
	if len(ranks) == 0 {
		return c.JSON(http.StatusNotFound, errorBody{Message: "No sales in range"})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": ranks[0]})
}

func (s *Server) metricLeastSold(c echo.Context) error {
	if missingRange(c) {
		return badRange(c)
	}
	ranks := s.productRanks()
	if len(ranks) == 0 {
		return c.JSON(http.StatusNotFound, errorBody{Message: "No sales in range"})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": ranks[len(ranks)-1]})
}

func (s *Server) metricHourlyFlow(c echo.Context) error {
	if missingRange(c) {
		return badRange(c)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": []map[string]int{
		{"hour": 12, "customers": 18},
		{"hour": 13, "customers": 42},
		{"hour": 14, "customers": 25},
	}})
}

func (s *Server) metricInvalidate(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) productRanks() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []map[string]any{}
	for i, p := range s.products {
		qty := (len(s.products) - i) * 3
		out = append(out, map[string]any{
			"productId": p.ID,
			"name":      p.Name,
			"quantity":  qty,
			"total":     float64(qty) * p.Price,
		})
	}
	return out
}

func (s *Server) waiterRanks(includeIdle bool) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []map[string]any{}
	for i, w := range s.waiters {
		orders := (len(s.waiters) - i) * 2
		if !includeIdle && !w.IsActive {
			continue
		}
		total := float64(orders) * 24.0
		avg := 0.0
		if orders > 0 {
			avg = total / float64(orders)
		}
		out = append(out, map[string]any{
			"waiterId":      w.ID,
			"name":          w.FirstName + " " + w.LastName,
			"orders":        orders,
			"total":         total,
			"averageTicket": avg,
		})
	}
	return out
}
