package handlers

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"kasir/internal/models"
	"kasir/internal/repositories"
	"kasir/internal/services"
	"kasir/internal/store"
)

// CatalogHandler handles HTTP requests for the catalog and its query state.
type CatalogHandler struct {
	service *services.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	catalogRoutes := router.Group("/catalog")
	catalogRoutes.Get("/", h.HandleGetCatalog)
	catalogRoutes.Post("/fetch", h.HandleFetchCatalog)
	catalogRoutes.Get("/products/:id", h.HandleGetProduct)
	catalogRoutes.Put("/search", h.HandleSetSearchText)
	catalogRoutes.Put("/sort", h.HandleSetSortKey)
	catalogRoutes.Get("/categories", h.HandleGetCategories)
	catalogRoutes.Put("/categories", h.HandleSetCategoryFilter)
	catalogRoutes.Delete("/categories", h.HandleResetCategoryFilter)
	catalogRoutes.Post("/categories/:name/toggle", h.HandleToggleCategory)

	router.Get("/addons", h.HandleGetAddOns)
}

// catalogView is the catalog state together with the products it lets
// through.
type catalogView struct {
	Loading        bool                 `json:"loading"`
	Error          string               `json:"error,omitempty"`
	SearchText     string               `json:"searchText"`
	SortBy         string               `json:"sortBy"`
	CategoryFilter store.CategoryFilter `json:"categoryFilter"`
	Products       []models.Product     `json:"products"`
	Total          int                  `json:"total"`
}

func (h *CatalogHandler) view() catalogView {
	state := h.service.State()
	return catalogView{
		Loading:        state.Loading,
		Error:          state.Error,
		SearchText:     state.SearchText,
		SortBy:         string(state.SortKey),
		CategoryFilter: state.CategoryFilter,
		Products:       h.service.VisibleProducts(),
		Total:          len(state.Products),
	}
}

// HandleGetCatalog returns the visible products and the query state.
func (h *CatalogHandler) HandleGetCatalog(c *fiber.Ctx) error {
	return c.JSON(h.view())
}

// HandleFetchCatalog reloads the catalog from its source.
func (h *CatalogHandler) HandleFetchCatalog(c *fiber.Ctx) error {
	if err := h.service.FetchCatalog(c.UserContext()); err != nil {
		h.logger.Warn("catalog refresh failed", zap.Error(err))
		status := fiber.StatusInternalServerError
		if errors.Is(err, repositories.ErrCatalogUnavailable) {
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not fetch catalog",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.view())
}

// HandleGetProduct retrieves a single product by its ID.
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product ID must be a number",
			"error":   err.Error(),
		})
	}
	product, ok := h.service.ProductByID(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product " + strconv.Itoa(id) + " not found",
		})
	}
	return c.JSON(product)
}

type searchRequest struct {
	Text string `json:"text" validate:"max=200"`
}

// HandleSetSearchText sets the free-text catalog search.
func (h *CatalogHandler) HandleSetSearchText(c *fiber.Ctx) error {
	var req searchRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	h.service.SetSearchText(req.Text)
	return c.JSON(h.view())
}

type sortRequest struct {
	SortBy string `json:"sortBy" validate:"required"`
}

// HandleSetSortKey changes the catalog ordering.
func (h *CatalogHandler) HandleSetSortKey(c *fiber.Ctx) error {
	var req sortRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	if _, err := h.service.SetSortKey(req.SortBy); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid sort key",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.view())
}

// HandleGetCategories lists the categories present in the catalog.
func (h *CatalogHandler) HandleGetCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": h.service.Categories(),
		"filter":     h.service.State().CategoryFilter,
	})
}

type categoryFilterRequest struct {
	Categories []string `json:"categories" validate:"dive,required"`
}

// HandleSetCategoryFilter replaces the category filter.
func (h *CatalogHandler) HandleSetCategoryFilter(c *fiber.Ctx) error {
	var req categoryFilterRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	h.service.SetCategoryFilter(req.Categories)
	return c.JSON(h.view())
}

// HandleToggleCategory adds or removes one category from the filter.
func (h *CatalogHandler) HandleToggleCategory(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid category name",
		})
	}
	h.service.ToggleCategory(name)
	return c.JSON(h.view())
}

// HandleResetCategoryFilter admits every category again.
func (h *CatalogHandler) HandleResetCategoryFilter(c *fiber.Ctx) error {
	h.service.ResetCategoryFilter()
	return c.JSON(h.view())
}

// HandleGetAddOns lists the add-ons offered for every product.
func (h *CatalogHandler) HandleGetAddOns(c *fiber.Ctx) error {
	return c.JSON(models.AvailableAddOns)
}
