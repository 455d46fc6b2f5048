// File: internal/handler/users/user.go
package users

import (
	"net/http"
	"strconv"

	"user-api/internal/api"
	"user-api/internal/validation"

	"github.com/labstack/echo/v4"
)

const msgUserNotFound = "User not found"

// parseID 非正整數的 id 一律視為不存在
func parseID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, api.Error(msgUserNotFound))
}

func serverError(c echo.Context, msg string) error {
	return c.JSON(http.StatusInternalServerError, api.Error(msg))
}

func unprocessable(c echo.Context, errs map[string][]string) error {
	return c.JSON(http.StatusUnprocessableEntity, api.ValidationError(errs))
}

// bindAndValidate 回傳欄位錯誤；done 為 true 表示已寫出 400 回應
func bindAndValidate(c echo.Context, req any) (errs map[string][]string, done bool, err error) {
	if err := c.Bind(req); err != nil {
		return nil, true, c.JSON(http.StatusBadRequest, api.Error("Malformed request body"))
	}
	errs = map[string][]string{}
	if err := c.Validate(req); err != nil {
		fe := validation.FieldErrors(err)
		if fe == nil {
			return nil, true, c.JSON(http.StatusBadRequest, api.Error(err.Error()))
		}
		errs = fe
	}
	return errs, false, nil
}
