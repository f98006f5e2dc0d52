package repositories_test

import (
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestGORMOrderRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	order := &models.Order{
		OrderNumber:   "ORD-TEST00000001",
		UserID:        1,
		TotalAmount:   100.00,
		PaymentMethod: "card",
		Status:        "pending",
		Items: []models.OrderItem{
			{ProductID: 1, ProductName: "Laptop", ProductPrice: 75.00, Quantity: 1},
			{ProductID: 2, ProductName: "Mouse", ProductPrice: 12.50, Quantity: 2},
		},
	}

	assert.NoError(t, repo.Create(order))
	assert.NotZero(t, order.ID)

	var orderCount, itemCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.OrderItem{}).Count(&itemCount)
	assert.Equal(t, int64(1), orderCount)
	assert.Equal(t, int64(2), itemCount)
}

func TestGORMOrderRepository_Create_RollsBackOnItemFailure(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	// The second of four items violates the quantity check constraint, so the
	// order row and every item row must be rolled back together.
	order := &models.Order{
		OrderNumber:   "ORD-TEST00000002",
		UserID:        1,
		TotalAmount:   100.00,
		PaymentMethod: "card",
		Status:        "pending",
		Items: []models.OrderItem{
			{ProductID: 1, ProductName: "Laptop", ProductPrice: 25.00, Quantity: 1},
			{ProductID: 2, ProductName: "Mouse", ProductPrice: 25.00, Quantity: 0},
			{ProductID: 3, ProductName: "Keyboard", ProductPrice: 25.00, Quantity: 1},
			{ProductID: 4, ProductName: "Monitor", ProductPrice: 25.00, Quantity: 1},
		},
	}

	assert.Error(t, repo.Create(order))

	var orderCount, itemCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.OrderItem{}).Count(&itemCount)
	assert.Equal(t, int64(0), orderCount)
	assert.Equal(t, int64(0), itemCount)
}

func TestGORMOrderRepository_GetByUser(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	older := &models.Order{
		OrderNumber: "ORD-OLDER0000001", UserID: 1, TotalAmount: 10, Status: "pending",
		Items: []models.OrderItem{{ProductID: 1, ProductName: "Mouse", ProductPrice: 10, Quantity: 1}},
	}
	newer := &models.Order{
		OrderNumber: "ORD-NEWER0000001", UserID: 1, TotalAmount: 20, Status: "pending",
		Items: []models.OrderItem{{ProductID: 2, ProductName: "Keyboard", ProductPrice: 20, Quantity: 1}},
	}
	other := &models.Order{
		OrderNumber: "ORD-OTHER0000001", UserID: 2, TotalAmount: 30, Status: "pending",
		Items: []models.OrderItem{{ProductID: 3, ProductName: "Monitor", ProductPrice: 30, Quantity: 1}},
	}

	assert.NoError(t, repo.Create(older))
	assert.NoError(t, repo.Create(newer))
	assert.NoError(t, repo.Create(other))

	// Force distinct creation times so the ordering is unambiguous.
	db.Model(older).Update("created_at", time.Now().Add(-time.Hour))

	orders, err := repo.GetByUser(1)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, "ORD-NEWER0000001", orders[0].OrderNumber)
	assert.Equal(t, "ORD-OLDER0000001", orders[1].OrderNumber)

	// Items are reconstructed on read.
	assert.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Keyboard", orders[0].Items[0].ProductName)
}

func TestGORMOrderRepository_GetByID_OwnershipScoped(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	order := &models.Order{
		OrderNumber: "ORD-SCOPED000001", UserID: 1, TotalAmount: 10, Status: "pending",
		Items: []models.OrderItem{{ProductID: 1, ProductName: "Mouse", ProductPrice: 10, Quantity: 1}},
	}
	assert.NoError(t, repo.Create(order))

	found, err := repo.GetByID(order.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)
	assert.Len(t, found.Items, 1)

	// Another user cannot see the order at all.
	_, err = repo.GetByID(order.ID, 2)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMOrderRepository_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	order := &models.Order{
		OrderNumber: "ORD-STATUS000001", UserID: 1, TotalAmount: 10, Status: "pending",
		Items: []models.OrderItem{{ProductID: 1, ProductName: "Mouse", ProductPrice: 10, Quantity: 1}},
	}
	assert.NoError(t, repo.Create(order))

	assert.NoError(t, repo.UpdateStatus(order.ID, "shipped"))
	found, err := repo.GetByID(order.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, "shipped", found.Status)

	assert.ErrorIs(t, repo.UpdateStatus(9999, "shipped"), repositories.ErrNotFound)
}
