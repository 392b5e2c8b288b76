package server

import (
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func (s *FiberServer) RegisterFiberRoutes() {
	s.App.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Accept,Authorization,Content-Type",
		AllowCredentials: false, // credentials require explicit origins
		MaxAge:           300,
	}))

	s.App.Get("/health", s.healthHandler)

	api := s.App.Group("/api/v1", s.authenticate)

	rounds := api.Group("/rounds")
	rounds.Get("/current", s.currentRoundHandler)
	rounds.Get("/", s.roundHistoryHandler)
	rounds.Post("/:id/resolve", s.resolveRoundHandler)
	rounds.Get("/:id/report", s.roundReportHandler)

	bets := api.Group("/bets")
	bets.Get("/", s.betHistoryHandler)
	bets.Post("/", s.placeBetHandler)

	me := api.Group("/me")
	me.Get("/role", s.callerRoleHandler)
	me.Get("/admin", s.callerAdminHandler)
	me.Get("/profile", s.callerProfileHandler)
	me.Put("/profile", s.saveCallerProfileHandler)

	users := api.Group("/users")
	users.Get("/:principal/profile", s.userProfileHandler)
	users.Put("/:principal/role", s.assignRoleHandler)
}
