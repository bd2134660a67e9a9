package handler

import (
	"github.com/labstack/echo/v4"

	"laburo/internal/domain/entity"
	"laburo/internal/usecase"
	"laburo/pkg/response"
	"laburo/pkg/utils"
)

type WalletHandler struct {
	balanceUseCase *usecase.BalanceUseCase
}

func NewWalletHandler(balanceUseCase *usecase.BalanceUseCase) *WalletHandler {
	return &WalletHandler{
		balanceUseCase: balanceUseCase,
	}
}

type topUpRequest struct {
	Monto          float64 `json:"monto" validate:"required,gt=0"`
	ComprobanteURL string  `json:"comprobanteUrl" validate:"omitempty,url"`
}

type reviewTopUpRequest struct {
	Decision string `json:"decision" validate:"required,oneof=aprobado rechazado"`
	Notas    string `json:"notas" validate:"omitempty,max=500"`
}

func (h *WalletHandler) GetWallet(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	saldo, err := h.balanceUseCase.GetSaldo(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, saldo)
}

func (h *WalletHandler) RequestTopUp(c echo.Context) error {
	var req topUpRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid, err := getUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	carga, err := h.balanceUseCase.RequestTopUp(c.Request().Context(), uid, usecase.TopUpInput{
		Monto:          req.Monto,
		ComprobanteURL: req.ComprobanteURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, carga)
}

func (h *WalletHandler) GetTopUpRequests(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	pagination := utils.GetPaginationParams(c)

	cargas, total, err := h.balanceUseCase.ListTopUps(c.Request().Context(), uid, pagination)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, cargas, total, pagination.Page, pagination.PageSize)
}

// Admin

func (h *WalletHandler) GetPendingTopUpRequests(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	cargas, total, err := h.balanceUseCase.ListPendingTopUps(c.Request().Context(), pagination)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, cargas, total, pagination.Page, pagination.PageSize)
}

func (h *WalletHandler) GetTopUpRequest(c echo.Context) error {
	carga, err := h.balanceUseCase.GetTopUp(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, carga)
}

func (h *WalletHandler) ReviewTopUpRequest(c echo.Context) error {
	var req reviewTopUpRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	adminID, err := getUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	carga, err := h.balanceUseCase.ReviewTopUp(c.Request().Context(), usecase.ReviewTopUpInput{
		CargaID:  c.Param("id"),
		AdminID:  adminID,
		Decision: entity.EstadoCarga(req.Decision),
		Notes:    req.Notas,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, carga)
}

func (h *WalletHandler) GetLedgerStatistics(c echo.Context) error {
	stats, err := h.balanceUseCase.GetLedgerStatistics(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stats)
}
