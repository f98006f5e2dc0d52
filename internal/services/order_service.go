package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// totalTolerance is the maximum difference allowed between the client-sent
// total and the server-recomputed one. The stored amount is always the
// recomputed value; the client total is only a checksum.
const totalTolerance = 0.005

// OrderEventPublisher publishes order lifecycle events to the message broker.
type OrderEventPublisher interface {
	PublishOrderEvent(routingKey string, payload map[string]interface{}) error
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher OrderEventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. The publisher may be nil when
// messaging is disabled.
func NewOrderService(orderRepo repositories.OrderRepository, publisher OrderEventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		logger:    logger.Named("orders"),
	}
}

// CreateOrder validates the submitted items, recomputes the total, and writes
// the order with all its line items in one transaction. On success an
// order.created event is published; publish failures are logged but never fail
// the already-committed order.
func (s *OrderService) CreateOrder(userID uint, items []models.OrderItem, clientTotal float64, paymentMethod, shippingAddress string) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrInvalidInput)
	}

	var total float64
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrInvalidInput)
		}
		if item.ProductPrice < 0 {
			return nil, fmt.Errorf("%w: item price must not be negative", ErrInvalidInput)
		}
		if item.ProductName == "" {
			return nil, fmt.Errorf("%w: item name is required", ErrInvalidInput)
		}
		total += item.ProductPrice * float64(item.Quantity)
	}
	if math.Abs(total-clientTotal) > totalTolerance {
		return nil, fmt.Errorf("%w: order total does not match item prices", ErrInvalidInput)
	}

	if paymentMethod == "" {
		paymentMethod = "card"
	}

	order := &models.Order{
		OrderNumber:     newOrderNumber(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		PaymentMethod:   paymentMethod,
		ShippingAddress: shippingAddress,
		Status:          "pending",
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publish("order.created", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"status":       order.Status,
		"total":        order.TotalAmount,
	})

	s.logger.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Uint("user_id", userID))
	return order, nil
}

// GetUserOrders returns the user's orders newest first with their items.
func (s *OrderService) GetUserOrders(userID uint) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// GetOrderByID returns the order only if it belongs to the given user.
func (s *OrderService) GetOrderByID(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: order", ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(orderID uint, status string) error {
	validStatuses := map[string]bool{"pending": true, "processing": true, "shipped": true, "delivered": true, "cancelled": true}
	if !validStatuses[status] {
		return fmt.Errorf("%w: invalid order status %q", ErrInvalidInput, status)
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: order", ErrNotFound)
		}
		return err
	}

	s.publish("order.status_changed", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return nil
}

func (s *OrderService) publish(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(routingKey, payload); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("routing_key", routingKey),
			zap.Error(err))
	}
}

// newOrderNumber derives the human-facing order identifier.
func newOrderNumber() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "ORD-" + strings.ToUpper(id[:12])
}
