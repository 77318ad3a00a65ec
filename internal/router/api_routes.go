package router

// This file registers the authenticated booking API.  Every route below
// requires a valid access token; the caller's identity comes from the JWT,
// never from the request body.

import (
	"github.com/labstack/echo/v4"

	"github.com/seatflow/seatflow/internal/handler"
	"github.com/seatflow/seatflow/internal/middleware"
)

// APIHandlers bundles the handlers mounted under /v1.
type APIHandlers struct {
	Seats    *handler.SeatHandler
	Bookings *handler.BookingHandler
	Users    *handler.UserHandler
	Admin    *handler.AdminHandler
}

// RegisterAPI registers the seat, booking, user and admin endpoints under
// /v1.  The rate limiter wraps the whole group; the response cache is only
// mounted on the collection reads whose payload is identical for every
// caller.  Seat availability and booking lists depend on who asks, so
// they are never cached.
func RegisterAPI(e *echo.Echo, h APIHandlers, jwtSecret string, rate, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret)}
	if rate != nil {
		mws = append(mws, rate)
	}
	g := e.Group("/v1", mws...)

	cached := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if cache != nil {
		cached = cache
	}

	// ---- Seats ----
	g.GET("/seats", h.Seats.List)

	// ---- Bookings ----
	g.GET("/bookings", h.Bookings.List)
	g.POST("/bookings", h.Bookings.Create)
	g.DELETE("/bookings/:id", h.Bookings.Delete)

	// ---- Users ----
	g.GET("/users", h.Users.List, cached)
	g.GET("/users/me", h.Users.Me)

	// ---- Squads & batches (administrative metadata) ----
	g.GET("/squads", h.Admin.ListSquads, cached)
	g.POST("/squads", h.Admin.CreateSquad)
	g.GET("/batches", h.Admin.ListBatches, cached)
	g.POST("/batches", h.Admin.CreateBatch)
}
