package repository

import (
	"context"
	"time"

	"laburo/internal/domain/entity"
	"laburo/internal/domain/repository"
	"laburo/internal/infrastructure/docstore"
	"laburo/pkg/errors"
)

type docstoreSaldoRepository struct {
	saldos *docstore.Collection[entity.Saldo]
}

func NewDocstoreSaldoRepository(registry *Registry) repository.SaldoRepository {
	return &docstoreSaldoRepository{
		saldos: registry.Saldos,
	}
}

func (r *docstoreSaldoRepository) GetByPrestadorID(ctx context.Context, prestadorID string) (*entity.Saldo, error) {
	saldo, found, err := r.saldos.Get(ctx, prestadorID)
	if err != nil {
		return nil, storeError("get balance", err)
	}
	if !found {
		return nil, errors.NotFound("Balance", nil)
	}
	return &saldo, nil
}

func (r *docstoreSaldoRepository) Adjust(ctx context.Context, prestadorID string, delta float64, at time.Time) (*entity.Saldo, bool, error) {
	var updated entity.Saldo
	var created bool
	err := r.saldos.Mutate(ctx, func(tx *docstore.Tx[entity.Saldo]) error {
		saldo, found := tx.Get(prestadorID)
		if !found {
			saldo = entity.Saldo{PrestadorID: prestadorID}
			created = true
		}

		saldo.Monto += delta
		if saldo.Monto < 0 {
			return errors.Conflict("Insufficient balance")
		}
		saldo.UltimaActualizacion = at

		updated = saldo
		return tx.Put(saldo)
	})
	if err != nil {
		return nil, false, storeError("update balance", err)
	}
	return &updated, created, nil
}

func (r *docstoreSaldoRepository) Reverse(ctx context.Context, prestadorID string, amount float64, created bool, at time.Time) error {
	err := r.saldos.Mutate(ctx, func(tx *docstore.Tx[entity.Saldo]) error {
		saldo, found := tx.Get(prestadorID)
		if !found || saldo.Monto < amount {
			return errors.Conflict("Insufficient balance")
		}

		saldo.Monto -= amount
		if created && saldo.Monto == 0 {
			tx.Delete(prestadorID)
			return nil
		}
		saldo.UltimaActualizacion = at
		return tx.Put(saldo)
	})
	return storeError("reverse balance credit", err)
}

func (r *docstoreSaldoRepository) List(ctx context.Context) ([]*entity.Saldo, error) {
	saldos, err := r.saldos.All(ctx)
	if err != nil {
		return nil, storeError("list balances", err)
	}
	items, _ := page(saldos, 0, 0)
	return items, nil
}

type docstoreCargaRepository struct {
	cargas *docstore.Collection[entity.Carga]
}

func NewDocstoreCargaRepository(registry *Registry) repository.CargaRepository {
	return &docstoreCargaRepository{
		cargas: registry.Cargas,
	}
}

func (r *docstoreCargaRepository) Create(ctx context.Context, carga *entity.Carga) error {
	err := r.cargas.Mutate(ctx, func(tx *docstore.Tx[entity.Carga]) error {
		if _, exists := tx.Get(carga.ID); exists {
			return errors.Conflict("Top-up request already exists")
		}
		return tx.Insert(*carga)
	})
	return storeError("create top-up request", err)
}

func (r *docstoreCargaRepository) GetByID(ctx context.Context, id string) (*entity.Carga, error) {
	carga, found, err := r.cargas.Get(ctx, id)
	if err != nil {
		return nil, storeError("get top-up request", err)
	}
	if !found {
		return nil, errors.NotFound("Top-up request", nil)
	}
	return &carga, nil
}

func (r *docstoreCargaRepository) Update(ctx context.Context, id string, fn func(*entity.Carga) error) (*entity.Carga, error) {
	var updated entity.Carga
	err := r.cargas.Mutate(ctx, func(tx *docstore.Tx[entity.Carga]) error {
		carga, found := tx.Get(id)
		if !found {
			return errors.NotFound("Top-up request", nil)
		}
		if err := fn(&carga); err != nil {
			return err
		}
		carga.ID = id
		updated = carga
		return tx.Put(carga)
	})
	if err != nil {
		return nil, storeError("update top-up request", err)
	}
	return &updated, nil
}

func (r *docstoreCargaRepository) List(ctx context.Context, filter repository.CargaFilter, limit, offset int) ([]*entity.Carga, int64, error) {
	cargas, err := r.cargas.Filter(ctx, func(c *entity.Carga) bool {
		if filter.PrestadorID != "" && c.PrestadorID != filter.PrestadorID {
			return false
		}
		return filter.Estado == "" || c.Estado == filter.Estado
	})
	if err != nil {
		return nil, 0, storeError("list top-up requests", err)
	}
	items, total := page(cargas, limit, offset)
	return items, total, nil
}
