package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"kasir/internal/services"
)

// CheckoutHandler handles HTTP requests for checkout and receipts.
type CheckoutHandler struct {
	service *services.CheckoutService
	logger  *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Post("/", h.HandleCompleteOrder)
	checkoutRoutes.Get("/receipt", h.HandleGetReceipt)
	checkoutRoutes.Get("/receipt.txt", h.HandleGetTicket)
	checkoutRoutes.Delete("/receipt", h.HandleStartNewOrder)
}

// HandleCompleteOrder turns the cart into a receipt and empties the cart.
func (h *CheckoutHandler) HandleCompleteOrder(c *fiber.Ctx) error {
	receipt, err := h.service.CompleteOrder(c.UserContext())
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Cannot check out an empty cart",
				"error":   err.Error(),
			})
		}
		h.logger.Error("checkout failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not complete order",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(receipt)
}

// HandleGetReceipt returns the active receipt.
func (h *CheckoutHandler) HandleGetReceipt(c *fiber.Ctx) error {
	receipt, err := h.service.Receipt()
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No order has been completed",
			"error":   err.Error(),
		})
	}
	return c.JSON(receipt)
}

// HandleGetTicket returns the active receipt as a plain-text ticket.
func (h *CheckoutHandler) HandleGetTicket(c *fiber.Ctx) error {
	receipt, err := h.service.Receipt()
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No order has been completed",
			"error":   err.Error(),
		})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(services.RenderTicket(receipt))
}

// HandleStartNewOrder discards the active receipt.
func (h *CheckoutHandler) HandleStartNewOrder(c *fiber.Ctx) error {
	h.service.StartNewOrder()
	return c.SendStatus(fiber.StatusNoContent)
}
