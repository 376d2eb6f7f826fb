package repo

import (
	"time"

	"github.com/ilyakarev/gomarket/internal/pg"
	couponrepo "github.com/ilyakarev/gomarket/internal/repo/coupon-repo"
	orderrepo "github.com/ilyakarev/gomarket/internal/repo/order-repo"
	productrepo "github.com/ilyakarev/gomarket/internal/repo/product-repo"
	userrepo "github.com/ilyakarev/gomarket/internal/repo/user-repo"
)

type Repositories struct {
	Coupon  *couponrepo.Repository
	Product *productrepo.Repository
	Order   *orderrepo.Repository
	User    *userrepo.Repository
}

func New(conn pg.Database, lockTimeout time.Duration) *Repositories {
	return &Repositories{
		Coupon:  couponrepo.New(conn, lockTimeout),
		Product: productrepo.New(conn, lockTimeout),
		Order:   orderrepo.New(conn, lockTimeout),
		User:    userrepo.New(conn),
	}
}
