package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"kasir/internal/models"
	"kasir/internal/services"
	"kasir/internal/store"
)

// CartHandler handles HTTP requests for the cart.
type CartHandler struct {
	service *services.CartService
	logger  *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:lineId", h.HandleUpdateItem)
	cartRoutes.Patch("/items/:lineId/quantity", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:lineId", h.HandleRemoveItem)
}

type cartView struct {
	models.Cart
	ItemCount int `json:"itemCount"`
}

func newCartView(cart models.Cart) cartView {
	return cartView{Cart: cart, ItemCount: store.ItemCount(cart)}
}

// HandleGetCart returns the cart with its subtotal.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return c.JSON(newCartView(h.service.Cart()))
}

type addItemRequest struct {
	ProductID int      `json:"productId" validate:"required,gt=0"`
	AddOns    []string `json:"addOns" validate:"dive,required"`
}

// HandleAddItem adds one unit of a catalog product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	cart, err := h.service.AddItem(req.ProductID, req.AddOns)
	if err != nil {
		return h.cartError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newCartView(cart))
}

type updateItemRequest struct {
	AddOns   []string `json:"addOns" validate:"dive,required"`
	Quantity int      `json:"quantity" validate:"gte=0"`
}

// HandleUpdateItem replaces the add-ons and quantity of a line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	lineID, err := lineIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	var req updateItemRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	cart, err := h.service.UpdateItem(lineID, req.AddOns, req.Quantity)
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(newCartView(cart))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// HandleUpdateQuantity sets the quantity of a line. Zero removes it.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	lineID, err := lineIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	var req updateQuantityRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	return c.JSON(newCartView(h.service.UpdateQuantity(lineID, req.Quantity)))
}

// HandleRemoveItem removes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	lineID, err := lineIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(newCartView(h.service.RemoveItem(lineID)))
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	return c.JSON(newCartView(h.service.ClearCart()))
}

func (h *CartHandler) cartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found in catalog",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrUnknownAddOn):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unknown add-on",
			"error":   err.Error(),
		})
	}
	h.logger.Error("cart command failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not update cart",
		"error":   err.Error(),
	})
}
