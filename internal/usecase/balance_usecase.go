package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"laburo/internal/domain/entity"
	"laburo/internal/domain/repository"
	"laburo/pkg/errors"
	"laburo/pkg/logger"
	"laburo/pkg/utils"
)

type BalanceUseCase struct {
	saldoRepo repository.SaldoRepository
	cargaRepo repository.CargaRepository
	userRepo  repository.UsuarioRepository
}

func NewBalanceUseCase(
	saldoRepo repository.SaldoRepository,
	cargaRepo repository.CargaRepository,
	userRepo repository.UsuarioRepository,
) *BalanceUseCase {
	return &BalanceUseCase{
		saldoRepo: saldoRepo,
		cargaRepo: cargaRepo,
		userRepo:  userRepo,
	}
}

type TopUpInput struct {
	Monto          float64
	ComprobanteURL string
}

type ReviewTopUpInput struct {
	CargaID  string
	AdminID  string
	Decision entity.EstadoCarga
	Notes    string
}

type LedgerStatistics struct {
	TotalBalance    float64 `json:"totalBalance"`
	FundedProviders int     `json:"fundedProviders"`
	PendingTopUps   int64   `json:"pendingTopUps"`
	PendingAmount   float64 `json:"pendingAmount"`
}

func (uc *BalanceUseCase) RequestTopUp(ctx context.Context, providerID string, input TopUpInput) (*entity.Carga, error) {
	if input.Monto <= 0 {
		return nil, errors.Validation("Amount must be greater than 0")
	}

	provider, err := uc.userRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !provider.Rol.CanProvide() {
		return nil, errors.Forbidden("Only providers can request top-ups", nil)
	}

	carga := &entity.Carga{
		ID:             uuid.New().String(),
		PrestadorID:    providerID,
		Monto:          input.Monto,
		ComprobanteURL: input.ComprobanteURL,
		FechaSolicitud: time.Now(),
		Estado:         entity.CargaPendiente,
	}

	if err := uc.cargaRepo.Create(ctx, carga); err != nil {
		return nil, err
	}

	logger.Info("Top-up requested: id=%s, provider=%s, amount=%.2f", carga.ID, providerID, carga.Monto)
	return carga, nil
}

// ReviewTopUp decides a pending top-up. The balance credit runs inside the
// top-up's critical section (locks taken cargas then saldos), so a second
// review always sees the first decision. When the credit succeeded but the
// top-up could not be persisted the credit is reverted before returning.
func (uc *BalanceUseCase) ReviewTopUp(ctx context.Context, input ReviewTopUpInput) (*entity.Carga, error) {
	if !input.Decision.IsDecision() {
		return nil, errors.Validation("Decision must be aprobado or rechazado")
	}
	if err := requireAdmin(ctx, uc.userRepo, input.AdminID); err != nil {
		return nil, err
	}

	// From here on the review either commits or is reverted, even if the
	// caller goes away.
	ctx = context.WithoutCancel(ctx)

	var credited *entity.Carga
	var createdSaldo bool
	carga, err := uc.cargaRepo.Update(ctx, input.CargaID, func(c *entity.Carga) error {
		if c.Estado != entity.CargaPendiente {
			return errors.Conflict("Top-up request already processed")
		}

		now := time.Now()
		if input.Decision == entity.CargaAprobada {
			_, created, err := uc.saldoRepo.Adjust(ctx, c.PrestadorID, c.Monto, now)
			if err != nil {
				return err
			}
			createdSaldo = created
			snapshot := *c
			credited = &snapshot
		}

		c.Estado = input.Decision
		c.AdminID = input.AdminID
		c.NotasAdmin = input.Notes
		c.FechaRevision = &now
		return nil
	})
	if err != nil {
		if credited != nil {
			uc.revertCredit(ctx, credited, createdSaldo, err)
		}
		return nil, err
	}

	logger.Info("Top-up reviewed: id=%s, decision=%s, admin=%s", carga.ID, carga.Estado, input.AdminID)
	return carga, nil
}

func (uc *BalanceUseCase) revertCredit(ctx context.Context, carga *entity.Carga, createdSaldo bool, cause error) {
	logger.LogLedgerError(carga.ID, "persist_review", cause)
	if err := uc.saldoRepo.Reverse(ctx, carga.PrestadorID, carga.Monto, createdSaldo, time.Now()); err != nil {
		logger.LogLedgerError(carga.ID, "revert_credit", err)
	}
}

// GetBalance returns the provider's balance. A provider that was never
// credited has a balance of zero.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, providerID string) (float64, error) {
	saldo, err := uc.GetSaldo(ctx, providerID)
	if err != nil {
		return 0, err
	}
	return saldo.Monto, nil
}

func (uc *BalanceUseCase) GetSaldo(ctx context.Context, providerID string) (*entity.Saldo, error) {
	saldo, err := uc.saldoRepo.GetByPrestadorID(ctx, providerID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return &entity.Saldo{PrestadorID: providerID}, nil
		}
		return nil, err
	}
	return saldo, nil
}

func (uc *BalanceUseCase) GetTopUp(ctx context.Context, cargaID string) (*entity.Carga, error) {
	return uc.cargaRepo.GetByID(ctx, cargaID)
}

func (uc *BalanceUseCase) ListTopUps(ctx context.Context, providerID string, pagination utils.PaginationParams) ([]*entity.Carga, int64, error) {
	filter := repository.CargaFilter{PrestadorID: providerID}
	return uc.cargaRepo.List(ctx, filter, pagination.PageSize, pagination.Offset)
}

func (uc *BalanceUseCase) ListPendingTopUps(ctx context.Context, pagination utils.PaginationParams) ([]*entity.Carga, int64, error) {
	filter := repository.CargaFilter{Estado: entity.CargaPendiente}
	return uc.cargaRepo.List(ctx, filter, pagination.PageSize, pagination.Offset)
}

func (uc *BalanceUseCase) GetLedgerStatistics(ctx context.Context) (*LedgerStatistics, error) {
	stats := &LedgerStatistics{}

	saldos, err := uc.saldoRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, saldo := range saldos {
		stats.TotalBalance += saldo.Monto
		if saldo.Monto > 0 {
			stats.FundedProviders++
		}
	}

	pending, total, err := uc.cargaRepo.List(ctx, repository.CargaFilter{Estado: entity.CargaPendiente}, 0, 0)
	if err != nil {
		return nil, err
	}
	stats.PendingTopUps = total
	for _, carga := range pending {
		stats.PendingAmount += carga.Monto
	}

	return stats, nil
}
