// File: internal/handler/users/list_users.go
package users

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"user-api/internal/api"
	"user-api/internal/logging"
	"user-api/internal/pagination"
	"user-api/internal/service"
	"user-api/internal/validation"

	"github.com/labstack/echo/v4"
)

// queryInt 讀取可省略的整數 query 參數並檢查範圍，max <= 0 表示無上限
func queryInt(c echo.Context, errs map[string][]string, key string, def, min, max int) int {
	raw := c.QueryParam(key)
	if raw == "" {
		return def
	}
	label := "The " + strings.ReplaceAll(key, "_", " ") + " field"
	n, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		validation.Add(errs, key, label+" must be an integer.")
	case n < min:
		validation.Add(errs, key, fmt.Sprintf("%s must be at least %d.", label, min))
	case max > 0 && n > max:
		validation.Add(errs, key, fmt.Sprintf("%s must not be greater than %d.", label, max))
	}
	return n
}

// ListUsersHandler 分頁列出使用者
// @Summary     List users
// @Description 依 id 排序分頁列出使用者
// @Tags        users
// @Produce     json
// @Param       per_page query    int false "每頁筆數 (1-100，預設 15)"
// @Param       page     query    int false "頁碼 (預設 1)"
// @Success     200      {object} api.UserListResponse
// @Failure     422      {object} api.ErrorResponse
// @Failure     500      {object} api.ErrorResponse
// @Router      /users [get]
func ListUsersHandler(svc service.UserService, logger logging.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		errs := map[string][]string{}
		perPage := queryInt(c, errs, "per_page", pagination.DefaultPerPage, 1, pagination.MaxPerPage)
		page := queryInt(c, errs, "page", 1, 1, pagination.MaxPage(perPage))
		if len(errs) > 0 {
			return unprocessable(c, errs)
		}

		ctx := c.Request().Context()
		result, err := svc.GetUsersPaginated(ctx, page, perPage)
		if err != nil {
			logger.Error(ctx, "list users failed", "error", err)
			return serverError(c, "Failed to fetch users")
		}

		return c.JSON(http.StatusOK, api.UserListResponse{
			Status:     api.StatusSuccess,
			Data:       api.NewUserResponses(result.Items),
			Pagination: result.Meta,
		})
	}
}
