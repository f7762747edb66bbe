// Package stubserver is an in-memory stand-in for the restaurant admin API,
// used for local development and integration tests. It reproduces the real
// server's quirks on purpose: the /productes spelling, the three different
// list envelopes, masked waiter passwords and the stale image URL echoed on
// product updates.
package stubserver

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/laterrassa/admin-client/internal/entities"
)

const maskedPassword = "********"

type errorBody struct {
	Message string `json:"message"`
}

type Server struct {
	mu         sync.Mutex
	waiters    []entities.Waiter
	pwdHashes  map[string]string // waiter id -> bcrypt hash
	products   []entities.Product
	categories []entities.Category
	tables     []entities.Table

	jwtSecret []byte
	adminUser string
	adminPass string
}

func New() *Server {
	return &Server{
		pwdHashes: make(map[string]string),
		jwtSecret: []byte("stub-secret"),
		adminUser: "admin",
		adminPass: "admin",
	}
}

// Seed replaces the server's collections, for tests that need fixed data.
func (s *Server) Seed(waiters []entities.Waiter, products []entities.Product, categories []entities.Category, tables []entities.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waiters = waiters
	s.products = products
	s.categories = categories
	s.tables = tables
}

func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true

	e.POST("/auth/login", s.login)

	e.GET("/categories", s.listCategories)
	e.POST("/categories", s.createCategory)
	e.PUT("/categories/:id", s.updateCategory)
	e.DELETE("/categories/:id", s.deleteCategory)

	e.GET("/productes", s.listProducts)
	e.POST("/productes", s.createProduct)
	e.PUT("/productes/:id", s.updateProduct)
	e.DELETE("/productes/:id", s.deleteProduct)

	e.GET("/waiters", s.listWaiters)
	e.POST("/waiters", s.createWaiter)
	e.PUT("/waiters/:id", s.updateWaiter)
	e.DELETE("/waiters/:id", s.deleteWaiter)

	e.GET("/tables", s.listTables)
	e.POST("/tables", s.createTable)
	e.PUT("/tables/:id", s.updateTable)
	e.DELETE("/tables/:id", s.deleteTable)
	e.PUT("/tables/:id/status", s.setTableStatus)
	e.GET("/tables/status/:status", s.tablesByStatus)
	e.GET("/tables/number/:n", s.tableByNumber)
	e.GET("/tables/available/tables", s.availableTables)
	e.GET("/tables/occupied/tables", s.occupiedTables)

	s.registerMetrics(e)

	return e
}

func (s *Server) login(c echo.Context) error {
	var req struct {
		UserName string `json:"userName"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body"})
	}
	if req.UserName != s.adminUser || req.Password != s.adminPass {
		return c.JSON(http.StatusUnauthorized, errorBody{Message: "Invalid credentials"})
	}

	claims := jwt.RegisteredClaims{
		Subject:   req.UserName,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(8 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody{Message: "could not sign token"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]string{"role": "admin"},
	})
}

// --- categories: list wrapped under the entity name ---

func (s *Server) listCategories(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{"categories": s.categories})
}

func (s *Server) createCategory(c echo.Context) error {
	var draft entities.CategoryDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body"})
	}
	cat := entities.Category{ID: uuid.NewString(), Name: draft.Name, Description: draft.Description}

	s.mu.Lock()
	s.categories = append(s.categories, cat)
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, cat)
}

func (s *Server) updateCategory(c echo.Context) error {
	var patch entities.CategoryPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cat := range s.categories {
		if cat.ID != c.Param("id") {
			continue
		}
		if patch.Name != nil {
			cat.Name = *patch.Name
		}
		if patch.Description != nil {
			cat.Description = *patch.Description
		}
		s.categories[i] = cat
		return c.JSON(http.StatusOK, cat)
	}
	return c.JSON(http.StatusNotFound, errorBody{Message: "Category not found"})
}

func (s *Server) deleteCategory(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cat := range s.categories {
		if cat.ID == c.Param("id") {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, errorBody{Message: "Category not found"})
}

// --- products: list as a bare array ---

func (s *Server) listProducts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.products
	if items == nil {
		items = []entities.Product{}
	}
	return c.JSON(http.StatusOK, items)
}

func (s *Server) createProduct(c echo.Context) error {
	var draft entities.ProductDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body"})
	}
	if draft.Price < 0 {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "Price must be non-negative"})
	}
	p := entities.Product{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		Description: draft.Description,
		ImageURL:    draft.ImageURL,
		CategoryID:  draft.CategoryID,
		Price:       draft.Price,
		IsActive:    draft.IsActive,
	}

	s.mu.Lock()
	s.products = append(s.products, p)
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProduct(c echo.Context) error {
	var patch entities.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body"})
	}
	if patch.Price != nil && *patch.Price < 0 {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "Price must be non-negative"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID != c.Param("id") {
			continue
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.CategoryID != nil {
			p.CategoryID = *patch.CategoryID
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.IsActive != nil {
			p.IsActive = *patch.IsActive
		}

		staleEcho := p.ImageURL
		if patch.ImageURL != nil {
			p.ImageURL = *patch.ImageURL
		}
		s.products[i] = p

		// The real server's image pipeline echoes the previous remote URL
		// when it receives an inline data URI, until the upload lands. The
		// client-side reconcile rule exists because of exactly this.
		resp := p
		if patch.ImageURL != nil && strings.HasPrefix(*patch.ImageURL, "data:") {
			resp.ImageURL = staleEcho
		}
		return c.JSON(http.StatusOK, resp)
	}
	return c.JSON(http.StatusNotFound, errorBody{Message: "Product not found"})
}

func (s *Server) deleteProduct(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == c.Param("id") {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, errorBody{Message: "Product not found"})
}

// --- waiters: everything wrapped in {data: ...} ---

func (s *Server) listWaiters(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.waiters
	if items == nil {
		items = []entities.Waiter{}
	}
	return c.JSON(http.StatusOK, map[string]any{"data": items})
}

func (s *Server) createWaiter(c echo.Context) error {
	var draft entities.WaiterDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.waiters {
		if w.UserName == draft.UserName {
			return c.JSON(http.StatusConflict, errorBody{Message: "Username already exists"})
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(draft.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody{Message: "could not hash password"})
	}

	now := time.Now().UTC()
	w := entities.Waiter{
		ID:                   uuid.NewString(),
		FirstName:            draft.FirstName,
		LastName:             draft.LastName,
		IdentificationNumber: draft.IdentificationNumber,
		PhoneNumber:          draft.PhoneNumber,
		UserName:             draft.UserName,
		Password:             maskedPassword,
		IsActive:             draft.IsActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	s.pwdHashes[w.ID] = string(hash)
	s.waiters = append(s.waiters, w)
	return c.JSON(http.StatusCreated, map[string]any{"data": w})
}

func (s *Server) updateWaiter(c echo.Context) error {
	var patch entities.WaiterPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Message: "invalid request body"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.waiters {
		if w.ID != c.Param("id") {
			continue
		}
		if patch.UserName != nil && *patch.UserName != w.UserName {
			for _, other := range s.waiters {
				if other.UserName == *patch.UserName {
					return c.JSON(http.StatusConflict, errorBody{Message: "Username already exists"})
				}
			}
			w.UserName = *patch.UserName
		}
		if patch.FirstName != nil {
			w.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			w.LastName = *patch.LastName
		}
		if patch.IdentificationNumber != nil {
			w.IdentificationNumber = *patch.IdentificationNumber
		}
		if patch.PhoneNumber != nil {
			w.PhoneNumber = *patch.PhoneNumber
		}
		if patch.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorBody{Message: "could not hash password"})
			}
			s.pwdHashes[w.ID] = string(hash)
		}
		if patch.IsActive != nil {
			w.IsActive = *patch.IsActive
		}
		w.Password = maskedPassword
		w.UpdatedAt = time.Now().UTC()
		s.waiters[i] = w
		return c.JSON(http.StatusOK, map[string]any{"data": w})
	}
	return c.JSON(http.StatusNotFound, errorBody{Message: "Waiter not found"})
}

func (s *Server) deleteWaiter(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.waiters {
		if w.ID == c.Param("id") {
			delete(s.pwdHashes, w.ID)
			s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, errorBody{Message: "Waiter not found"})
}
