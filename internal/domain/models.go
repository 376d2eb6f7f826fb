package domain

import "time"

const (
	DiscountTypeFixed      = "FIXED"
	DiscountTypePercentage = "PERCENTAGE"
)

const (
	PointTypeCharge = "CHARGE"
	PointTypeUse    = "USE"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusFailed    = "FAILED"
	OrderStatusCancelled = "CANCELLED"
)

type User struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	PointBalance int64     `db:"point_balance"`
	CreatedAt    time.Time `db:"created_at"`
}

type PointHistory struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	Type         string    `db:"type"`
	Amount       int64     `db:"amount"`
	BalanceAfter int64     `db:"balance_after"`
	OrderID      *int64    `db:"order_id"`
	CreatedAt    time.Time `db:"created_at"`
}

type Product struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Price int64  `db:"price"`
}

type ProductOption struct {
	ID              int64  `db:"id"`
	ProductID       int64  `db:"product_id"`
	OptionName      string `db:"option_name"`
	PriceAdjustment int64  `db:"price_adjustment"`
	StockQuantity   int    `db:"stock_quantity"`
	SoldOut         bool   `db:"sold_out"`
}

// ProductOptionDetail is a product option joined with its product's name
// and base price.
type ProductOptionDetail struct {
	Option       ProductOption
	ProductName  string
	ProductPrice int64
}

// UnitPrice is the effective per-unit price of the option.
func (d *ProductOptionDetail) UnitPrice() int64 {
	return d.ProductPrice + d.Option.PriceAdjustment
}

type Coupon struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	DiscountType   string    `db:"discount_type"`
	DiscountValue  int64     `db:"discount_value"`
	MinOrderAmount int64     `db:"min_order_amount"`
	MaxIssueCount  int       `db:"max_issue_count"`
	IssuedCount    int       `db:"issued_count"`
	ValidFrom      time.Time `db:"valid_from"`
	ValidTo        time.Time `db:"valid_to"`
}

// Discount returns the amount the coupon takes off an order of the given
// total. FIXED coupons never discount more than the total itself;
// PERCENTAGE discounts round down.
func (c *Coupon) Discount(totalAmount int64) int64 {
	if c.DiscountType == DiscountTypeFixed {
		if c.DiscountValue > totalAmount {
			return totalAmount
		}
		return c.DiscountValue
	}
	return totalAmount * c.DiscountValue / 100
}

// Usable reports whether the coupon applies to an order of the given total
// at the given time.
func (c *Coupon) Usable(totalAmount int64, now time.Time) bool {
	if now.Before(c.ValidFrom) || now.After(c.ValidTo) {
		return false
	}
	return totalAmount >= c.MinOrderAmount
}

type UserCoupon struct {
	ID       int64      `db:"id"`
	UserID   int64      `db:"user_id"`
	CouponID int64      `db:"coupon_id"`
	IsUsed   bool       `db:"is_used"`
	UsedAt   *time.Time `db:"used_at"`
	OrderID  *int64     `db:"order_id"`
	IssuedAt time.Time  `db:"issued_at"`
}

type Order struct {
	ID             int64      `db:"id"`
	UserID         int64      `db:"user_id"`
	OrderNumber    string     `db:"order_number"`
	Status         string     `db:"status"`
	TotalAmount    int64      `db:"total_amount"`
	DiscountAmount int64      `db:"discount_amount"`
	UsedPoints     int64      `db:"used_points"`
	FinalAmount    int64      `db:"final_amount"`
	CouponID       *int64     `db:"coupon_id"`
	CreatedAt      time.Time  `db:"created_at"`
	ExpiresAt      time.Time  `db:"expires_at"`
	PaidAt         *time.Time `db:"paid_at"`
}

type OrderItem struct {
	ID              int64  `db:"id"`
	OrderID         int64  `db:"order_id"`
	ProductID       int64  `db:"product_id"`
	ProductOptionID int64  `db:"product_option_id"`
	ProductName     string `db:"product_name"`
	OptionName      string `db:"option_name"`
	UnitPrice       int64  `db:"unit_price"`
	Quantity        int    `db:"quantity"`
	Subtotal        int64  `db:"subtotal"`
}
