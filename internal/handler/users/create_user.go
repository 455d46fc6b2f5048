// File: internal/handler/users/create_user.go
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

// CreateUserHandler 建立新使用者並排入通知工作
// @Summary     Create a new user
// @Description 驗證後建立帳號，並非同步送出新使用者通知
// @Tags        users
// @Accept      json
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     api.CreateUserRequest true "使用者資料"
// @Success     201  {object} api.UserEnvelope
// @Failure     400  {object} api.ErrorResponse
// @Failure     422  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /users [post]
func CreateUserHandler(svc service.UserService, logger logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
		errs, done, err := bindAndValidate(c, &req)
		if done {
			return err
		}

		ctx := c.Request().Context()
		if _, bad := errs["email"]; !bad {
			existing, err := svc.GetUserByEmail(ctx, req.Email)
			if err != nil {
				logger.Error(ctx, "lookup email failed", "error", err)
				return serverError(c, "Failed to create user")
			}
			if existing != nil {
				validation.Add(errs, "email", validation.MsgEmailTaken)
			}
		}
		if len(errs) > 0 {
			return unprocessable(c, errs)
		}

		user, err := svc.CreateUser(ctx, service.CreateUserInput{
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
		if err != nil {
			logger.Error(ctx, "create user failed", "error", err)
			return serverError(c, "Failed to create user")
		}

		return c.JSON(http.StatusCreated, api.Success("User created successfully", api.NewUserResponse(*user)))
	}
}
