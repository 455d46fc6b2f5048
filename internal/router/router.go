// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"user-api/internal/broker"
	"user-api/internal/handler"
	"user-api/internal/handler/users"
	"user-api/internal/logging"
	"user-api/internal/service"
)

// Setup 註冊所有路由
// b 為 nil 時健康檢查不檢查 Redis
func Setup(e *echo.Echo, svc service.UserService, store handler.Pinger, b broker.Broker, logger logging.Logger) {
	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(store, b))

	// Users CRUD
	apiUsers := api.Group("/users")
	apiUsers.GET("", users.ListUsersHandler(svc, logger))
	apiUsers.POST("", users.CreateUserHandler(svc, logger))
	apiUsers.GET("/:id", users.GetUserHandler(svc, logger))
	apiUsers.PUT("/:id", users.UpdateUserHandler(svc, logger))
	apiUsers.DELETE("/:id", users.DeleteUserHandler(svc, logger))
}
