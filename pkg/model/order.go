package model

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OrderNumber     string      `json:"order_number,omitempty" bson:"order_number" validate:"omitempty"`
	TotalAmount     float64     `json:"total_amount" bson:"total_amount" validate:"required,gt=0"`
	Status          OrderStatus `json:"status,omitempty" bson:"status" validate:"omitempty,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
	ShippingAddress string      `json:"shipping_address" bson:"shipping_address" validate:"required,min=5,max=500"`
	UserID          string      `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	CreatedAt       time.Time   `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}
