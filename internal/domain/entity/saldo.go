package entity

import (
	"time"
)

// Saldo is a provider's accumulated balance, one per provider, created on
// the first credit.
type Saldo struct {
	PrestadorID         string    `json:"prestadorId"`
	Monto               float64   `json:"monto"`
	UltimaActualizacion time.Time `json:"ultimaActualizacion"`
}

type EstadoCarga string

const (
	CargaPendiente EstadoCarga = "pendiente"
	CargaAprobada  EstadoCarga = "aprobado"
	CargaRechazada EstadoCarga = "rechazado"
)

// IsDecision reports whether the state is a valid outcome of a review.
func (e EstadoCarga) IsDecision() bool {
	return e == CargaAprobada || e == CargaRechazada
}

// Carga is a provider's claim of having deposited funds. FechaRevision and
// AdminID are set exactly when Estado leaves pendiente.
type Carga struct {
	ID             string      `json:"id"`
	PrestadorID    string      `json:"prestadorId"`
	Monto          float64     `json:"monto"`
	ComprobanteURL string      `json:"comprobanteUrl,omitempty"`
	FechaSolicitud time.Time   `json:"fechaSolicitud"`
	Estado         EstadoCarga `json:"estado"`
	FechaRevision  *time.Time  `json:"fechaRevision,omitempty"`
	AdminID        string      `json:"adminId,omitempty"`
	NotasAdmin     string      `json:"notasAdmin,omitempty"`
}
