// File: internal/api/update_user_request.go
package api

// 所有欄位皆可省略；有送出的欄位才會驗證與更新
// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Name                 *string `json:"name,omitempty" form:"name" validate:"omitnil,min=1,max=255" example:"Alice"`
	Email                *string `json:"email,omitempty" form:"email" validate:"omitnil,email,max=255" example:"alice@example.com"`
	Password             *string `json:"password,omitempty" form:"password" validate:"omitnil,min=8,max=72" example:"Secret123!"`
	PasswordConfirmation *string `json:"password_confirmation,omitempty" form:"password_confirmation" example:"Secret123!"`
}

// PasswordConfirmed 未送出密碼時視為通過
func (r UpdateUserRequest) PasswordConfirmed() bool {
	if r.Password == nil {
		return true
	}
	return r.PasswordConfirmation != nil && *r.PasswordConfirmation == *r.Password
}
