package service

import (
	"github.com/ilyakarev/gomarket/internal/handlers/coupons"
	"github.com/ilyakarev/gomarket/internal/handlers/orders"
	"github.com/ilyakarev/gomarket/internal/handlers/points"

	"github.com/ilyakarev/gomarket/internal/config"
	"github.com/ilyakarev/gomarket/internal/events"
	"github.com/ilyakarev/gomarket/internal/pg"
	"github.com/ilyakarev/gomarket/internal/repo"
	couponservice "github.com/ilyakarev/gomarket/internal/service/couponservice"
	orderservice "github.com/ilyakarev/gomarket/internal/service/orderservice"
	paymentservice "github.com/ilyakarev/gomarket/internal/service/paymentservice"
	pointservice "github.com/ilyakarev/gomarket/internal/service/pointservice"
)

type Services struct {
	CouponService  coupons.Service
	OrderService   orders.OrderService
	PaymentService orders.PaymentService
	PointService   points.Service
}

// New wires the services over the shared repositories. fastCache may be
// nil unless the cache issuance strategy is configured.
func New(
	cfg *config.Config,
	repo *repo.Repositories,
	txManager pg.TXManager,
	fastCache couponservice.FastCache,
	publisher *events.Publisher,
) *Services {
	var strategy couponservice.IssueStrategy
	if cfg.CouponStrategy == config.CouponStrategyCache {
		strategy = couponservice.NewCacheStrategy(repo.Coupon, txManager, fastCache)
	} else {
		strategy = couponservice.NewLockStrategy(repo.Coupon, txManager)
	}

	couponService := couponservice.New(strategy, repo.Coupon, publisher)
	orderService := orderservice.New(repo.Order, repo.Product, repo.User, repo.Coupon, txManager, publisher, cfg.OrderTTL)
	paymentService := paymentservice.New(repo.Order, repo.User, repo.Coupon, txManager, publisher)
	pointService := pointservice.New(repo.User, txManager)

	return &Services{
		CouponService:  couponService,
		OrderService:   orderService,
		PaymentService: paymentService,
		PointService:   pointService,
	}
}
