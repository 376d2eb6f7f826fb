package events

import "time"

const (
	TypeCouponIssued = "coupon.issued"
	TypeOrderCreated = "order.created"
	TypeOrderPaid    = "order.paid"
)

type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

type CouponIssuedEvent struct {
	BaseEvent
	CouponID     int64 `json:"coupon_id"`
	UserID       int64 `json:"user_id"`
	UserCouponID int64 `json:"user_coupon_id"`
}

type OrderCreatedEvent struct {
	BaseEvent
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	UserID      int64  `json:"user_id"`
	TotalAmount int64  `json:"total_amount"`
	FinalAmount int64  `json:"final_amount"`
}

type OrderPaidEvent struct {
	BaseEvent
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	UserID      int64  `json:"user_id"`
	FinalAmount int64  `json:"final_amount"`
	UsedPoints  int64  `json:"used_points"`
	CouponID    *int64 `json:"coupon_id,omitempty"`
}
