// File: internal/handler/ping.go
package handler

import (
	"context"
	"net/http"

	"user-api/internal/api"
	"user-api/internal/broker"

	"github.com/labstack/echo/v4"
)

// Pinger 可回報連線狀態的儲存層
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingHandler 健康檢查，b 為 nil 時 (local queue) 不檢查 Redis
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫與 Redis 連線是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} api.SuccessResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /ping [get]
func PingHandler(store Pinger, b broker.Broker) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := store.Ping(ctx); err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("database unhealthy"))
		}
		if b != nil {
			if err := b.Ping(ctx).Err(); err != nil {
				return c.JSON(http.StatusInternalServerError, api.Error("queue unhealthy"))
			}
		}
		return c.JSON(http.StatusOK, api.Success("pong", nil))
	}
}
