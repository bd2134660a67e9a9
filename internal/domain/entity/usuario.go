package entity

import (
	"time"
)

type Rol string

const (
	RolContratante Rol = "contratante"
	RolPrestador   Rol = "prestador"
	RolAmbos       Rol = "ambos"
	RolAdmin       Rol = "admin"
)

func (r Rol) Valid() bool {
	switch r {
	case RolContratante, RolPrestador, RolAmbos, RolAdmin:
		return true
	}
	return false
}

// CanContract reports whether the role may post jobs.
func (r Rol) CanContract() bool {
	return r == RolContratante || r == RolAmbos
}

// CanProvide reports whether the role may accept jobs and hold a balance.
func (r Rol) CanProvide() bool {
	return r == RolPrestador || r == RolAmbos
}

// Usuario is an account. HashContrasena is an opaque credential hash and is
// never written to API responses.
type Usuario struct {
	ID             string    `json:"id"`
	Nombre         string    `json:"nombre"`
	Apellido       string    `json:"apellido"`
	Correo         string    `json:"correo"`
	Telefono       string    `json:"telefono"`
	Cedula         string    `json:"cedula"`
	HashContrasena string    `json:"hashContrasena"`
	Rol            Rol       `json:"rol"`
	FechaRegistro  time.Time `json:"fechaRegistro"`
}

// PublicUsuario is the account as shown to clients.
type PublicUsuario struct {
	ID            string    `json:"id"`
	Nombre        string    `json:"nombre"`
	Apellido      string    `json:"apellido"`
	Correo        string    `json:"correo"`
	Telefono      string    `json:"telefono"`
	Cedula        string    `json:"cedula"`
	Rol           Rol       `json:"rol"`
	FechaRegistro time.Time `json:"fechaRegistro"`
}

func (u *Usuario) Public() *PublicUsuario {
	return &PublicUsuario{
		ID:            u.ID,
		Nombre:        u.Nombre,
		Apellido:      u.Apellido,
		Correo:        u.Correo,
		Telefono:      u.Telefono,
		Cedula:        u.Cedula,
		Rol:           u.Rol,
		FechaRegistro: u.FechaRegistro,
	}
}
