package transport

import "github.com/google/uuid"

// CreateTechnicianRequest contains data for registering a technician.
type CreateTechnicianRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=200"`
	Email     string  `json:"email" validate:"required,email"`
	Specialty string  `json:"specialty" validate:"required,min=1,max=100"`
	Rating    float64 `json:"rating" validate:"min=0,max=5"`
}

// SetDisponibilidadeRequest toggles the raw availability preference.
type SetDisponibilidadeRequest struct {
	Disponivel *bool `json:"disponivel" validate:"required"`
}

// TechnicianResponse represents a technician in API responses.
type TechnicianResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Specialty       string    `json:"specialty"`
	Rating          float64   `json:"rating"`
	Online          bool      `json:"online"`
	Disponibilidade bool      `json:"disponibilidade"`
	Available       bool      `json:"available"`
	LastSeenAt      *string   `json:"lastSeenAt,omitempty"`
	CreatedAt       string    `json:"createdAt"`
}

// TechnicianListResponse wraps a list of technicians.
type TechnicianListResponse struct {
	Items []TechnicianResponse `json:"items"`
	Total int                  `json:"total"`
}
