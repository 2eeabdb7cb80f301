package dto

// RegisterRequest cuerpo del registro de usuario.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest cuerpo del inicio de sesión.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest cuerpo de la renovación de tokens.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest cuerpo de la edición de perfil.
type UpdateProfileRequest struct {
	FirstName  string   `json:"first_name" binding:"required"`
	LastName   string   `json:"last_name" binding:"required"`
	Phone      *string  `json:"phone"`
	Bio        *string  `json:"bio"`
	Comuna     *string  `json:"comuna"`
	Region     *string  `json:"region"`
	Instagram  *string  `json:"instagram"`
	StudioName *string  `json:"studio_name"`
	Styles     []string `json:"styles"`
}

// CreateOfferRequest cuerpo de la creación de una oferta.
type CreateOfferRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	BodyPart    string   `json:"body_part" binding:"required"`
	Style       string   `json:"style" binding:"required"`
	BudgetMin   *float64 `json:"budget_min"`
	BudgetMax   *float64 `json:"budget_max"`
	DeadlineAt  *string  `json:"deadline_at"`
}

// UpdateOfferRequest cuerpo de la edición de una oferta.
type UpdateOfferRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	BodyPart    string   `json:"body_part" binding:"required"`
	Style       string   `json:"style" binding:"required"`
	BudgetMin   *float64 `json:"budget_min"`
	BudgetMax   *float64 `json:"budget_max"`
	DeadlineAt  *string  `json:"deadline_at"`
}

// CloseOfferRequest cuerpo del cierre de una oferta.
type CloseOfferRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateProposalRequest cuerpo de la creación de una propuesta.
type CreateProposalRequest struct {
	Message           string  `json:"message" binding:"required"`
	ProposedPrice     float64 `json:"proposed_price" binding:"required"`
	EstimatedDuration int     `json:"estimated_duration" binding:"required"`
}

// UpdateProposalRequest cuerpo de la edición de una propuesta pending.
type UpdateProposalRequest struct {
	Message           string  `json:"message" binding:"required"`
	ProposedPrice     float64 `json:"proposed_price" binding:"required"`
	EstimatedDuration int     `json:"estimated_duration" binding:"required"`
}

// UpdateProposalStatusRequest cuerpo de la decisión del cliente.
type UpdateProposalStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateRatingRequest cuerpo del envío de una calificación.
type CreateRatingRequest struct {
	RatedID    string  `json:"rated_id" binding:"required"`
	ProposalID string  `json:"proposal_id" binding:"required"`
	Rating     int     `json:"rating" binding:"required"`
	Comment    *string `json:"comment"`
}

// ScheduleAppointmentRequest cuerpo del agendamiento de una cita.
type ScheduleAppointmentRequest struct {
	ProposalID *string `json:"proposal_id"`
	ClientID   *string `json:"client_id"`
	Title      string  `json:"title" binding:"required"`
	Notes      *string `json:"notes"`
	StartsAt   string  `json:"starts_at" binding:"required"`
	EndsAt     string  `json:"ends_at" binding:"required"`
}

// ChangeTierRequest cuerpo del cambio de plan de suscripción.
type ChangeTierRequest struct {
	Tier string `json:"tier" binding:"required"`
}
