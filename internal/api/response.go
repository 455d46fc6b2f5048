// File: internal/api/response.go
package api

import "user-api/internal/pagination"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SuccessResponse 成功回應，mutating 操作附帶 message
// swagger:model api.SuccessResponse
type SuccessResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message,omitempty" example:"User created successfully"`
	Data    any    `json:"data"`
}

// UserEnvelope 單一使用者回應，供 swagger 使用
// swagger:model api.UserEnvelope
type UserEnvelope struct {
	Status  string       `json:"status" example:"success"`
	Message string       `json:"message,omitempty" example:"User updated successfully"`
	Data    UserResponse `json:"data"`
}

// swagger:model api.UserListResponse
type UserListResponse struct {
	Status     string          `json:"status" example:"success"`
	Data       []UserResponse  `json:"data"`
	Pagination pagination.Meta `json:"pagination"`
}

// ErrorResponse 全域錯誤響應模型，422 時附帶欄位錯誤
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Status  string              `json:"status" example:"error"`
	Message string              `json:"message" example:"User not found"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func Success(message string, data any) SuccessResponse {
	return SuccessResponse{Status: StatusSuccess, Message: message, Data: data}
}

func Error(message string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Message: message}
}

func ValidationError(errs map[string][]string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Message: "Validation failed", Errors: errs}
}
