package points

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ilyakarev/gomarket/internal/domain"
	"github.com/ilyakarev/gomarket/internal/dto"
	pointservice "github.com/ilyakarev/gomarket/internal/service/pointservice"
	"github.com/ilyakarev/gomarket/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type Service interface {
	Charge(ctx context.Context, userID, amount int64) (int64, error)
	GetBalance(ctx context.Context, userID int64) (int64, error)
	GetHistory(ctx context.Context, userID int64, historyType string) ([]domain.PointHistory, error)
}

type PointHandler struct {
	pointService Service
}

func New(pointService Service) *PointHandler {
	return &PointHandler{
		pointService: pointService,
	}
}

// Charge godoc
//
//	@Summary		Charge points
//	@Description	Top up the user's point balance and record a CHARGE history entry.
//	@Tags			Points
//	@Accept			json
//	@Produce		json
//	@Param			userID	path		int							true	"User ID"
//	@Param			request	body		dto.ChargePointsRequestDTO	true	"Charge payload"
//	@Success		200		{object}	dto.PointBalanceResponseDTO	"Balance after charge"
//	@Failure		400		{object}	utils.Response				"Amount below minimum"
//	@Failure		404		{object}	utils.Response				"User not found"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/users/{userID}/points/charge [post]
func (h *PointHandler) Charge(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req dto.ChargePointsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	balance, err := h.pointService.Charge(r.Context(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, pointservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, pointservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.PointBalanceResponseDTO{
		UserID:  userID,
		Balance: balance,
	})
}

// GetBalance godoc
//
//	@Summary		Get point balance
//	@Description	Retrieve the user's current point balance.
//	@Tags			Points
//	@Produce		json
//	@Param			userID	path		int							true	"User ID"
//	@Success		200		{object}	dto.PointBalanceResponseDTO	"Current balance"
//	@Failure		404		{object}	utils.Response				"User not found"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/users/{userID}/points [get]
func (h *PointHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	balance, err := h.pointService.GetBalance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pointservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.PointBalanceResponseDTO{
		UserID:  userID,
		Balance: balance,
	})
}

// GetHistory godoc
//
//	@Summary		Get point history
//	@Description	List the user's point movements, optionally filtered by type (CHARGE or USE).
//	@Tags			Points
//	@Produce		json
//	@Param			userID	path		int							true	"User ID"
//	@Param			type	query		string						false	"History type filter"
//	@Success		200		{array}		dto.PointHistoryResponseDTO	"Point history"
//	@Failure		400		{object}	utils.Response				"Unknown history type"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/users/{userID}/points/history [get]
func (h *PointHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	history, err := h.pointService.GetHistory(r.Context(), userID, r.URL.Query().Get("type"))
	if err != nil {
		if errors.Is(err, pointservice.ErrInvalidHistType) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch point history")
		return
	}

	response := make([]dto.PointHistoryResponseDTO, len(history))
	for i, entry := range history {
		response[i] = dto.PointHistoryResponseDTO{
			ID:           entry.ID,
			Type:         entry.Type,
			Amount:       entry.Amount,
			BalanceAfter: entry.BalanceAfter,
			OrderID:      entry.OrderID,
			CreatedAt:    entry.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
