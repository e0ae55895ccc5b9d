// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"cycletrack/internal/delivery/api/router/handler"
	"cycletrack/internal/delivery/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/", r.accountHandler.Welcome)
	e.GET("/health", handler.HealthCheck)

	// Single operation endpoint; each operation checks its own token.
	e.POST("/api", r.accountHandler.Execute, middleware.BearerToken)
}
