// File: internal/handler/users/delete_user.go
package users

import (
	"net/http"

	"user-api/internal/api"
	"user-api/internal/logging"
	"user-api/internal/service"

	"github.com/labstack/echo/v4"
)

const msgDeleteFailed = "Failed to delete user"

// DeleteUserHandler 刪除使用者
// @Summary     Delete a user
// @Tags        users
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} api.SuccessResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users/{id} [delete]
func DeleteUserHandler(svc service.UserService, logger logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return notFound(c)
		}

		ctx := c.Request().Context()
		existing, err := svc.GetUserByID(ctx, id)
		if err != nil {
			logger.Error(ctx, "get user failed", "user_id", id, "error", err)
			return serverError(c, msgDeleteFailed)
		}
		if existing == nil {
			return notFound(c)
		}

		deleted, err := svc.DeleteUser(ctx, id)
		if err != nil || !deleted {
			logger.Error(ctx, "delete user failed", "user_id", id, "deleted", deleted, "error", err)
			return serverError(c, msgDeleteFailed)
		}

		return c.JSON(http.StatusOK, api.Success("User deleted successfully", nil))
	}
}
