package repository

import (
	"context"
	"time"

	"laburo/internal/domain/entity"
)

type SaldoRepository interface {
	GetByPrestadorID(ctx context.Context, prestadorID string) (*entity.Saldo, error)
	// Adjust adds delta to the provider's balance, creating the record when
	// it does not exist; created reports whether it did. A result below zero
	// is rejected.
	Adjust(ctx context.Context, prestadorID string, delta float64, at time.Time) (saldo *entity.Saldo, created bool, err error)
	// Reverse takes back a credit made by Adjust. When that credit created
	// the record and the balance returns to zero, the record is removed.
	Reverse(ctx context.Context, prestadorID string, amount float64, created bool, at time.Time) error
	List(ctx context.Context) ([]*entity.Saldo, error)
}

type CargaFilter struct {
	PrestadorID string
	Estado      entity.EstadoCarga
}

type CargaRepository interface {
	Create(ctx context.Context, carga *entity.Carga) error
	GetByID(ctx context.Context, id string) (*entity.Carga, error)
	Update(ctx context.Context, id string, fn func(*entity.Carga) error) (*entity.Carga, error)
	List(ctx context.Context, filter CargaFilter, limit, offset int) ([]*entity.Carga, int64, error)
}
