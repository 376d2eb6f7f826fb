package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CouponsIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coupons_issued_total",
		Help: "Total number of coupons successfully issued",
	})

	CouponIssueRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_issue_rejected_total",
		Help: "Total number of rejected coupon issuance attempts",
	}, []string{"reason"})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order creations",
	}, []string{"reason"})

	OrdersExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_expired_total",
		Help: "Total number of pending orders cancelled on expiry",
	})

	PaymentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payments_total",
		Help: "Total number of successful payments",
	})

	PaymentsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_failed_total",
		Help: "Total number of failed payment attempts",
	}, []string{"reason"})
)
