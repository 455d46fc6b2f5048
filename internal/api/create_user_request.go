package api

// swagger:model api.CreateUserRequest
type CreateUserRequest struct {
	Name                 string `json:"name" form:"name" validate:"required,max=255" example:"Alice"`
	Email                string `json:"email" form:"email" validate:"required,email,max=255" example:"alice@example.com"`
	Password             string `json:"password" form:"password" validate:"required,min=8,max=72,eqfield=PasswordConfirmation" example:"Secret123!"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" example:"Secret123!"`
}
