package entity

import "time"

// Technician técnico que atiende órdenes de servicio.
type Technician struct {
	ID        string
	Name      string
	Specialty string
	Phone     string
	Email     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
