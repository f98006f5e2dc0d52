package models

import "time"

// OrderItem is a denormalized snapshot of a product at order time. Later
// catalog changes must not alter historical orders, so name and price are
// copied onto the row.
type OrderItem struct {
	ID           uint    `json:"-" gorm:"primaryKey"`
	OrderID      uint    `json:"-" gorm:"index"`
	ProductID    int64   `json:"product_id"`
	ProductName  string  `json:"name" gorm:"type:varchar(255)"`
	ProductPrice float64 `json:"price"`
	Quantity     int     `json:"quantity" gorm:"check:quantity > 0"`
}

// Order represents a customer purchase. OrderNumber is the human-facing
// identifier, distinct from the numeric primary key.
type Order struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	OrderNumber     string      `json:"order_number" gorm:"uniqueIndex;type:varchar(32)"`
	UserID          uint        `json:"user_id" gorm:"index"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount     float64     `json:"total_amount"`
	PaymentMethod   string      `json:"payment_method" gorm:"type:varchar(50)"`
	ShippingAddress string      `json:"shipping_address,omitempty" gorm:"type:varchar(500)"`
	Status          string      `json:"status" gorm:"type:varchar(20)"` // "pending", "processing", "shipped", "delivered", "cancelled"
	CreatedAt       time.Time   `json:"created_at"`
}
