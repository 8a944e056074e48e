package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client is a borrower, identified by their cedula (national ID).
type Client struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Cedula    string    `json:"cedula" db:"cedula"`
	FullName  string    `json:"full_name" db:"full_name"`
	Address   string    `json:"address" db:"address"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateClientRequest struct {
	Cedula   string `json:"cedula" validate:"required,max=20"`
	FullName string `json:"nombre_completo" validate:"required,max=120"`
	Address  string `json:"direccion" validate:"max=200"`
	Phone    string `json:"telefono" validate:"max=20"`
}

// ClientLookupResponse is the wire shape of the lookup-by-cedula endpoint.
// Field names are part of the public contract and stay in Spanish.
type ClientLookupResponse struct {
	Found    bool   `json:"encontrado"`
	FullName string `json:"nombre_completo,omitempty"`
	Phone    string `json:"telefono,omitempty"`
	Address  string `json:"direccion,omitempty"`
}
