package dto

import "time"

type IssueCouponRequestDTO struct {
	UserID int64 `json:"user_id"`
}

type UserCouponResponseDTO struct {
	ID       int64      `json:"id"`
	UserID   int64      `json:"user_id"`
	CouponID int64      `json:"coupon_id"`
	IsUsed   bool       `json:"is_used"`
	UsedAt   *time.Time `json:"used_at,omitempty"`
	OrderID  *int64     `json:"order_id,omitempty"`
	IssuedAt time.Time  `json:"issued_at"`
}

type CouponResponseDTO struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	DiscountType   string    `json:"discount_type"`
	DiscountValue  int64     `json:"discount_value"`
	MinOrderAmount int64     `json:"min_order_amount"`
	MaxIssueCount  int       `json:"max_issue_count"`
	IssuedCount    int       `json:"issued_count"`
	ValidFrom      time.Time `json:"valid_from"`
	ValidTo        time.Time `json:"valid_to"`
}

type OrderItemRequestDTO struct {
	ProductOptionID int64 `json:"product_option_id"`
	Quantity        int   `json:"quantity"`
}

type CreateOrderRequestDTO struct {
	UserID     int64                 `json:"user_id"`
	Items      []OrderItemRequestDTO `json:"items"`
	CouponID   *int64                `json:"coupon_id,omitempty"`
	UsedPoints int64                 `json:"used_points"`
}

type OrderItemResponseDTO struct {
	ProductID       int64  `json:"product_id"`
	ProductOptionID int64  `json:"product_option_id"`
	ProductName     string `json:"product_name"`
	OptionName      string `json:"option_name"`
	UnitPrice       int64  `json:"unit_price"`
	Quantity        int    `json:"quantity"`
	Subtotal        int64  `json:"subtotal"`
}

type OrderResponseDTO struct {
	ID             int64                  `json:"id"`
	OrderNumber    string                 `json:"order_number"`
	UserID         int64                  `json:"user_id"`
	Status         string                 `json:"status"`
	TotalAmount    int64                  `json:"total_amount"`
	DiscountAmount int64                  `json:"discount_amount"`
	UsedPoints     int64                  `json:"used_points"`
	FinalAmount    int64                  `json:"final_amount"`
	CouponID       *int64                 `json:"coupon_id,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	ExpiresAt      time.Time              `json:"expires_at"`
	PaidAt         *time.Time             `json:"paid_at,omitempty"`
	Items          []OrderItemResponseDTO `json:"items,omitempty"`
}

type PaymentResponseDTO struct {
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	FinalAmount int64     `json:"final_amount"`
	PaidAt      time.Time `json:"paid_at"`
}

type ChargePointsRequestDTO struct {
	Amount int64 `json:"amount"`
}

type PointBalanceResponseDTO struct {
	UserID  int64 `json:"user_id"`
	Balance int64 `json:"balance"`
}

type PointHistoryResponseDTO struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balance_after"`
	OrderID      *int64    `json:"order_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
