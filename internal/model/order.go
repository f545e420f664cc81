package model

import "github.com/lib/pq"

const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

type Order struct {
	BaseModel
	OrderNumber     string      `db:"order_number" json:"order_number"`
	UserID          string      `db:"user_id" json:"user_id"`
	Status          string      `db:"status" json:"status"`
	Subtotal        float64     `db:"subtotal" json:"subtotal"`
	DeliveryFee     float64     `db:"delivery_fee" json:"delivery_fee"`
	Total           float64     `db:"total" json:"total"`
	DeliveryAddress string      `db:"delivery_address" json:"delivery_address"`
	DeliveryZoneID  *string     `db:"delivery_zone_id" json:"delivery_zone_id"`
	Notes           *string     `db:"notes" json:"notes"`
	Items           []OrderItem `db:"-" json:"items"`
}

type OrderItem struct {
	ID        string  `db:"id" json:"id"`
	OrderID   string  `db:"order_id" json:"order_id"`
	ProductID string  `db:"product_id" json:"product_id"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
}

type DeliveryZone struct {
	BaseModel
	Name        string         `db:"name" json:"name"`
	Areas       pq.StringArray `db:"areas" json:"areas"`
	DeliveryFee float64        `db:"delivery_fee" json:"delivery_fee"`
	IsActive    bool           `db:"is_active" json:"is_active"`
}
