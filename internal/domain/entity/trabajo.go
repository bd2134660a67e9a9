package entity

import (
	"time"
)

type EstadoTrabajo string

const (
	EstadoPublicado                       EstadoTrabajo = "publicado"
	EstadoEnProceso                       EstadoTrabajo = "en_proceso"
	EstadoCompletadoPendienteConfirmacion EstadoTrabajo = "completado_pendiente_confirmacion"
	EstadoFinalizado                      EstadoTrabajo = "finalizado"
	EstadoCancelado                       EstadoTrabajo = "cancelado"
)

var trabajoTransitions = map[EstadoTrabajo][]EstadoTrabajo{
	EstadoPublicado:                       {EstadoEnProceso, EstadoCancelado},
	EstadoEnProceso:                       {EstadoCompletadoPendienteConfirmacion, EstadoCancelado},
	EstadoCompletadoPendienteConfirmacion: {EstadoFinalizado},
}

func (e EstadoTrabajo) Valid() bool {
	switch e {
	case EstadoPublicado, EstadoEnProceso, EstadoCompletadoPendienteConfirmacion, EstadoFinalizado, EstadoCancelado:
		return true
	}
	return false
}

func (e EstadoTrabajo) IsTerminal() bool {
	return e == EstadoFinalizado || e == EstadoCancelado
}

func (e EstadoTrabajo) CanTransitionTo(next EstadoTrabajo) bool {
	for _, allowed := range trabajoTransitions[e] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Trabajo struct {
	ID               string        `json:"id"`
	ContratanteID    string        `json:"contratanteId"`
	Titulo           string        `json:"titulo"`
	Categoria        string        `json:"categoria"`
	Descripcion      string        `json:"descripcion"`
	PrecioOfrecido   float64       `json:"precioOfrecido"`
	UbicacionTexto   string        `json:"ubicacionTexto"`
	Latitud          *float64      `json:"latitud,omitempty"`
	Longitud         *float64      `json:"longitud,omitempty"`
	FechaHoraDeseada time.Time     `json:"fechaHoraDeseada"`
	Fotos            []string      `json:"fotos,omitempty"`
	Estado           EstadoTrabajo `json:"estado"`
	PrestadorID      string        `json:"prestadorId,omitempty"`
	FechaCreacion    time.Time     `json:"fechaCreacion"`
	FechaAceptacion  *time.Time    `json:"fechaAceptacion,omitempty"`
	FechaCompletado  *time.Time    `json:"fechaCompletado,omitempty"`

	FechaFinalizacion *time.Time `json:"fechaFinalizacion,omitempty"`
	FechaCancelacion  *time.Time `json:"fechaCancelacion,omitempty"`
	CanceladoPor      string     `json:"canceladoPor,omitempty"`
}
