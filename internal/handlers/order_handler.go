package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/models"
	"storefront/internal/services"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. The router is expected to be
// guarded by the session middleware.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// OrderItemRequest is one submitted line item.
type OrderItemRequest struct {
	ProductID int64   `json:"product_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest represents the request body for order creation.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Total           float64            `json:"total" validate:"required,gt=0"`
	PaymentMethod   string             `json:"payment_method"`
	ShippingAddress string             `json:"shipping_address"`
}

// HandleCreateOrder places an order for the logged-in user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	items := make([]models.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.OrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.Name,
			ProductPrice: item.Price,
			Quantity:     item.Quantity,
		}
	}

	order, err := h.service.CreateOrder(currentUserID(c), items, req.Total, req.PaymentMethod, req.ShippingAddress)
	if err != nil {
		return failWith(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"message":      "Order placed successfully",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	})
}

// HandleGetOrders returns the logged-in user's orders newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetUserOrders(currentUserID(c))
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Orders retrieved",
		"orders":  orders,
	})
}

// UpdateOrderStatusRequest represents the request body for a status change.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus moves an order to a new status. The ownership lookup
// runs first, so another user's order is indistinguishable from a missing one.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("id")
	if err != nil || orderID <= 0 {
		return badRequest(c, "Invalid order id")
	}

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	if _, err := h.service.GetOrderByID(uint(orderID), currentUserID(c)); err != nil {
		return failWith(c, err)
	}
	if err := h.service.UpdateOrderStatus(uint(orderID), req.Status); err != nil {
		return failWith(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order status updated",
	})
}

// HandleGetOrderByID returns a single order, scoped to the logged-in user.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("id")
	if err != nil || orderID <= 0 {
		return badRequest(c, "Invalid order id")
	}

	order, err := h.service.GetOrderByID(uint(orderID), currentUserID(c))
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order retrieved",
		"order":   order,
	})
}
