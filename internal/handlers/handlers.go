package handlers

import (
	"net/http"

	_ "github.com/ilyakarev/gomarket/docs"
	couponhandlers "github.com/ilyakarev/gomarket/internal/handlers/coupons"
	orderhandlers "github.com/ilyakarev/gomarket/internal/handlers/orders"
	pointhandlers "github.com/ilyakarev/gomarket/internal/handlers/points"
	"github.com/ilyakarev/gomarket/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type CouponHandler interface {
	Issue(w http.ResponseWriter, r *http.Request)
	GetCoupon(w http.ResponseWriter, r *http.Request)
	GetUserCoupons(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	CreateOrder(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	GetOrderByNumber(w http.ResponseWriter, r *http.Request)
	Pay(w http.ResponseWriter, r *http.Request)
}

type PointHandler interface {
	Charge(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	CouponHandler CouponHandler
	OrderHandler  OrderHandler
	PointHandler  PointHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		CouponHandler: couponhandlers.New(s.CouponService),
		OrderHandler:  orderhandlers.New(s.OrderService, s.PaymentService),
		PointHandler:  pointhandlers.New(s.PointService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/coupons", func(r chi.Router) {
			r.Get("/{couponID}", h.CouponHandler.GetCoupon)
			r.Post("/{couponID}/issue", h.CouponHandler.Issue)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.OrderHandler.CreateOrder)
			r.Get("/{orderID}", h.OrderHandler.GetOrder)
			r.Get("/number/{orderNumber}", h.OrderHandler.GetOrderByNumber)
			r.Post("/{orderID}/pay", h.OrderHandler.Pay)
		})
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/coupons", h.CouponHandler.GetUserCoupons)
			r.Route("/points", func(r chi.Router) {
				r.Get("/", h.PointHandler.GetBalance)
				r.Post("/charge", h.PointHandler.Charge)
				r.Get("/history", h.PointHandler.GetHistory)
			})
		})
	})

	return r
}
