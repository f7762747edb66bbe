package stubserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/laterrassa/admin-client/internal/entities"
)

func validStatus(status string) bool {
	return status == entities.TableStatusFree || status == entities.TableStatusServed
}

func (s *Server) listTables(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.tables
	if items == nil {
		items = []entities.Table{}
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items})
}

func (s *Server) createTable(c echo.Context) error {
	var draft entities.TableDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body"})
	}
	if draft.Status == "" {
		draft.Status = entities.TableStatusFree
	}
	if !validStatus(draft.Status) {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid table status"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tables {
		if t.Number == draft.Number {
			return c.JSON(http.StatusConflict, errorBody{Message: "Table number already exists"})
		}
	}
	t := entities.Table{
		ID:       uuid.NewString(),
		Number:   draft.Number,
		Status:   draft.Status,
		Capacity: draft.Capacity,
		Location: draft.Location,
	}
	s.tables = append(s.tables, t)
	return c.JSON(http.StatusCreated, map[string]any{"data": t})
}

func (s *Server) updateTable(c echo.Context) error {
	var patch entities.TablePatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tables {
		if t.ID != c.Param("id") {
			continue
		}
		if patch.Number != nil {
			t.Number = *patch.Number
		}
		if patch.Capacity != nil {
			t.Capacity = *patch.Capacity
		}
		if patch.Location != nil {
			t.Location = *patch.Location
		}
		s.tables[i] = t
		return c.JSON(http.StatusOK, map[string]any{"data": t})
	}
	return c.JSON(http.StatusNotFound, errorBody{Message: "Table not found"})
}

func (s *Server) deleteTable(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tables {
		if t.ID == c.Param("id") {
			s.tables = append(s.tables[:i], s.tables[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, errorBody{Message: "Table not found"})
}

func (s *Server) setTableStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body"})
	}
	if !validStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid table status"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tables {
		if t.ID == c.Param("id") {
			t.Status = req.Status
			s.tables[i] = t
			return c.JSON(http.StatusOK, map[string]any{"data": t})
		}
	}
	return c.JSON(http.StatusNotFound, errorBody{Message: "Table not found"})
}

func (s *Server) tablesByStatus(c echo.Context) error {
	status := c.Param("status")
	if !validStatus(status) {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid table status"})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": s.filterTables(status)})
}

func (s *Server) tableByNumber(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid table number"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tables {
		if t.Number == n {
			return c.JSON(http.StatusOK, map[string]any{"data": t})
		}
	}
	return c.JSON(http.StatusNotFound, errorBody{Message: "Table not found"})
}

func (s *Server) availableTables(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"data": s.filterTables(entities.TableStatusFree)})
}

func (s *Server) occupiedTables(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"data": s.filterTables(entities.TableStatusServed)})
}

func (s *Server) filterTables(status string) []entities.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []entities.Table{}
	for _, t := range s.tables {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}
