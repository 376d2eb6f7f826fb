package coupons

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/dto"
	couponservice "github.com/ilyakarev/gomarket/internal/service/couponservice"
	"github.com/ilyakarev/gomarket/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type Service interface {
	Issue(ctx context.Context, couponID, userID int64) (*domain.UserCoupon, error)
	GetCoupon(ctx context.Context, couponID int64) (*domain.Coupon, error)
	GetUserCoupons(ctx context.Context, userID int64) ([]domain.UserCoupon, error)
}

type CouponHandler struct {
	couponService Service
}

func New(couponService Service) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// Issue godoc
//
//	@Summary		Issue a coupon to a user
//	@Description	Grant one coupon to the user, enforcing the per-user limit and the total issue cap.
//	@Tags			Coupons
//	@Accept			json
//	@Produce		json
//	@Param			couponID	path		int						true	"Coupon ID"
//	@Param			request		body		dto.IssueCouponRequestDTO	true	"Issue request payload"
//	@Success		201			{object}	dto.UserCouponResponseDTO	"Issued coupon"
//	@Failure		400			{object}	utils.Response				"Already issued or bad request"
//	@Failure		404			{object}	utils.Response				"Coupon not found"
//	@Failure		409			{object}	utils.Response				"Coupon exhausted"
//	@Failure		503			{object}	utils.Response				"Issuance contended, retry later"
//	@Router			/api/coupons/{couponID}/issue [post]
func (h *CouponHandler) Issue(w http.ResponseWriter, r *http.Request) {
	couponID, err := strconv.ParseInt(chi.URLParam(r, "couponID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid coupon id")
		return
	}

	var req dto.IssueCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	userCoupon, err := h.couponService.Issue(r.Context(), couponID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, couponservice.ErrCouponNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, couponservice.ErrCouponExhausted):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, couponservice.ErrCouponAlreadyIssued):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, couponservice.ErrContention):
			w.Header().Set("Retry-After", "1")
			utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toUserCouponDTO(*userCoupon))
}

// GetCoupon godoc
//
//	@Summary		Get coupon details
//	@Description	Retrieve a coupon definition including its issue counters and validity window.
//	@Tags			Coupons
//	@Produce		json
//	@Param			couponID	path		int						true	"Coupon ID"
//	@Success		200			{object}	dto.CouponResponseDTO	"Coupon"
//	@Failure		404			{object}	utils.Response			"Coupon not found"
//	@Failure		500			{object}	utils.Response			"Internal server error"
//	@Router			/api/coupons/{couponID} [get]
func (h *CouponHandler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	couponID, err := strconv.ParseInt(chi.URLParam(r, "couponID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid coupon id")
		return
	}

	coupon, err := h.couponService.GetCoupon(r.Context(), couponID)
	if err != nil {
		if errors.Is(err, couponservice.ErrCouponNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.CouponResponseDTO{
		ID:             coupon.ID,
		Name:           coupon.Name,
		DiscountType:   coupon.DiscountType,
		DiscountValue:  coupon.DiscountValue,
		MinOrderAmount: coupon.MinOrderAmount,
		MaxIssueCount:  coupon.MaxIssueCount,
		IssuedCount:    coupon.IssuedCount,
		ValidFrom:      coupon.ValidFrom,
		ValidTo:        coupon.ValidTo,
	})
}

// GetUserCoupons godoc
//
//	@Summary		List a user's coupons
//	@Description	List the coupons issued to the user, newest first.
//	@Tags			Coupons
//	@Produce		json
//	@Param			userID	path		int							true	"User ID"
//	@Success		200		{array}		dto.UserCouponResponseDTO	"Issued coupons"
//	@Success		204		"No coupons issued"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/users/{userID}/coupons [get]
func (h *CouponHandler) GetUserCoupons(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	coupons, err := h.couponService.GetUserCoupons(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch coupons")
		return
	}
	if len(coupons) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	response := make([]dto.UserCouponResponseDTO, len(coupons))
	for i, uc := range coupons {
		response[i] = toUserCouponDTO(uc)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func toUserCouponDTO(uc domain.UserCoupon) dto.UserCouponResponseDTO {
	return dto.UserCouponResponseDTO{
		ID:       uc.ID,
		UserID:   uc.UserID,
		CouponID: uc.CouponID,
		IsUsed:   uc.IsUsed,
		UsedAt:   uc.UsedAt,
		OrderID:  uc.OrderID,
		IssuedAt: uc.IssuedAt,
	}
}
