package entity

import "time"

// Customer representa un cliente de la asistencia técnica.
type Customer struct {
	ID        string
	Name      string
	Document  string // CPF/CNPJ o documento equivalente
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
