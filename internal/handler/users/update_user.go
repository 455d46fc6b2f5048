// File: internal/handler/users/update_user.go
package users

import (
	"errors"
	"net/http"

	"user-api/internal/api"
	"user-api/internal/logging"
	"user-api/internal/repository"
	"user-api/internal/service"
	"user-api/internal/validation"

	"github.com/labstack/echo/v4"
)

const msgUpdateFailed = "Failed to update user"

// UpdateUserHandler 部分更新使用者，未送出的欄位維持不變
// @Summary     Update a user
// @Tags        users
// @Accept      json
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       id   path     int                   true "使用者 ID"
// @Param       body body     api.UpdateUserRequest true "要更新的欄位"
// @Success     200  {object} api.UserEnvelope
// @Failure     400  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Failure     422  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /users/{id} [put]
func UpdateUserHandler(svc service.UserService, logger logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return notFound(c)
		}

		ctx := c.Request().Context()
		existing, err := svc.GetUserByID(ctx, id)
		if err != nil {
			logger.Error(ctx, "get user failed", "user_id", id, "error", err)
			return serverError(c, msgUpdateFailed)
		}
		if existing == nil {
			return notFound(c)
		}

		var req api.UpdateUserRequest
		errs, done, err := bindAndValidate(c, &req)
		if done {
			return err
		}
		if !req.PasswordConfirmed() {
			validation.Add(errs, "password", validation.MsgPasswordMismatch)
		}
		if _, bad := errs["email"]; !bad && req.Email != nil {
			other, err := svc.GetUserByEmail(ctx, *req.Email)
			if err != nil {
				logger.Error(ctx, "lookup email failed", "error", err)
				return serverError(c, msgUpdateFailed)
			}
			if other != nil && other.ID != id {
				validation.Add(errs, "email", validation.MsgEmailTaken)
			}
		}
		if len(errs) > 0 {
			return unprocessable(c, errs)
		}

		updated, err := svc.UpdateUser(ctx, id, service.UpdateUserInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return unprocessable(c, map[string][]string{"email": {validation.MsgEmailTaken}})
		}
		if errors.Is(err, service.ErrPasswordTooLong) {
			return unprocessable(c, map[string][]string{"password": {validation.MsgPasswordTooLong}})
		}
		if err != nil || !updated {
			logger.Error(ctx, "update user failed", "user_id", id, "updated", updated, "error", err)
			return serverError(c, msgUpdateFailed)
		}

		user, err := svc.GetUserByID(ctx, id)
		if err != nil || user == nil {
			logger.Error(ctx, "reload user failed", "user_id", id, "error", err)
			return serverError(c, msgUpdateFailed)
		}

		return c.JSON(http.StatusOK, api.Success("User updated successfully", api.NewUserResponse(*user)))
	}
}
