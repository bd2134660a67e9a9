package entity

import (
	"time"
)

const (
	PuntuacionMinima = 1
	PuntuacionMaxima = 5
)

// Calificacion is the score a contractor gives the provider of one finalized
// job. At most one exists per (TrabajoID, ContratanteID).
type Calificacion struct {
	ID            string    `json:"id"`
	TrabajoID     string    `json:"trabajoId"`
	ContratanteID string    `json:"contratanteId"`
	PrestadorID   string    `json:"prestadorId"`
	Puntuacion    int       `json:"puntuacion"`
	Comentario    string    `json:"comentario,omitempty"`
	Fecha         time.Time `json:"fecha"`
}
