// File: internal/handler/users/get_user.go
package users

import (
	"net/http"

	"user-api/internal/api"
	"user-api/internal/logging"
	"user-api/internal/service"

	"github.com/labstack/echo/v4"
)

// GetUserHandler 透過使用者 ID 取得使用者資訊
// @Summary     Get a user by ID
// @Tags        users
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} api.UserEnvelope
// @Failure     404 {object} api.ErrorResponse "使用者不存在"
// @Failure     500 {object} api.ErrorResponse
// @Router      /users/{id} [get]
func GetUserHandler(svc service.UserService, logger logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return notFound(c)
		}

		ctx := c.Request().Context()
		user, err := svc.GetUserByID(ctx, id)
		if err != nil {
			logger.Error(ctx, "get user failed", "user_id", id, "error", err)
			return serverError(c, "Failed to fetch user")
		}
		if user == nil {
			return notFound(c)
		}

		return c.JSON(http.StatusOK, api.Success("", api.NewUserResponse(*user)))
	}
}
