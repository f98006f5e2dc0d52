package services_test

import (
	"errors"
	"strings"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByUser(userID uint) ([]models.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id uint, userID uint) (*models.Order, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.OrderEventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderEvent(routingKey string, payload map[string]interface{}) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

func twoItems() []models.OrderItem {
	return []models.OrderItem{
		{ProductID: 1, ProductName: "Laptop", ProductPrice: 1200.00, Quantity: 1},
		{ProductID: 2, ProductName: "Mouse", ProductPrice: 25.00, Quantity: 2},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	orderService := services.NewOrderService(orderRepo, publisher, zap.NewNop())

	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Run(func(args mock.Arguments) {
		order := args.Get(0).(*models.Order)
		order.ID = 11
	}).Return(nil).Once()
	publisher.On("PublishOrderEvent", "order.created", mock.Anything).Return(nil).Once()

	order, err := orderService.CreateOrder(7, twoItems(), 1250.00, "card", "1 Main St")
	assert.NoError(t, err)
	assert.Equal(t, uint(11), order.ID)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, 1250.00, order.TotalAmount)
	assert.Len(t, order.Items, 2)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Len(t, order.OrderNumber, 16)
	assert.Equal(t, strings.ToUpper(order.OrderNumber), order.OrderNumber)

	orderRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_CreateOrder_InvalidInput(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	orderService := services.NewOrderService(orderRepo, nil, zap.NewNop())

	// No items.
	_, err := orderService.CreateOrder(7, nil, 0, "card", "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	// Zero quantity.
	items := twoItems()
	items[1].Quantity = 0
	_, err = orderService.CreateOrder(7, items, 1225.00, "card", "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	// Client total does not match the item prices.
	_, err = orderService.CreateOrder(7, twoItems(), 999.99, "card", "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	orderRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_CreateOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	orderService := services.NewOrderService(orderRepo, publisher, zap.NewNop())

	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	publisher.On("PublishOrderEvent", "order.created", mock.Anything).Return(errors.New("broker down")).Once()

	// The order is already committed; a broker outage is only a warning.
	order, err := orderService.CreateOrder(7, twoItems(), 1250.00, "", "")
	assert.NoError(t, err)
	assert.Equal(t, "card", order.PaymentMethod) // default payment method
}

func TestOrderService_CreateOrder_NoPublisher(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	orderService := services.NewOrderService(orderRepo, nil, zap.NewNop())

	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	_, err := orderService.CreateOrder(7, twoItems(), 1250.00, "paypal", "")
	assert.NoError(t, err)
}

func TestOrderService_GetOrderByID(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	orderService := services.NewOrderService(orderRepo, nil, zap.NewNop())

	orderRepo.On("GetByID", uint(11), uint(7)).Return(&models.Order{ID: 11, UserID: 7}, nil).Once()
	order, err := orderService.GetOrderByID(11, 7)
	assert.NoError(t, err)
	assert.Equal(t, uint(11), order.ID)

	// Another user's order is indistinguishable from a missing one.
	orderRepo.On("GetByID", uint(11), uint(8)).Return(nil, repositories.ErrNotFound).Once()
	_, err = orderService.GetOrderByID(11, 8)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	orderService := services.NewOrderService(orderRepo, publisher, zap.NewNop())

	orderRepo.On("UpdateStatus", uint(11), "shipped").Return(nil).Once()
	publisher.On("PublishOrderEvent", "order.status_changed", mock.Anything).Return(nil).Once()
	assert.NoError(t, orderService.UpdateOrderStatus(11, "shipped"))

	err := orderService.UpdateOrderStatus(11, "teleported")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	orderRepo.On("UpdateStatus", uint(99), "shipped").Return(repositories.ErrNotFound).Once()
	err = orderService.UpdateOrderStatus(99, "shipped")
	assert.ErrorIs(t, err, services.ErrNotFound)

	orderRepo.AssertExpectations(t)
}
