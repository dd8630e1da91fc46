package dto

import "time"

// CreateTechnicianRequest entrada para registrar un técnico.
type CreateTechnicianRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Specialty string `json:"specialty" validate:"max=120"`
	Phone     string `json:"phone" validate:"max=30"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// UpdateTechnicianRequest actualización parcial de un técnico.
type UpdateTechnicianRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Specialty *string `json:"specialty" validate:"omitempty,max=120"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Active    *bool   `json:"active"`
}

// TechnicianResponse salida de un técnico.
type TechnicianResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
