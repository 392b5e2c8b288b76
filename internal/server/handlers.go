package server

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"wingo/internal/wingo"
)

const (
	defaultRoundLimit = 10
	defaultBetLimit   = 50
	maxLimit          = 500
)

type placeBetRequest struct {
	RoundID int64             `json:"roundId" validate:"required,gt=0"`
	BetType wingo.BetTypeWire `json:"betType"`
	Amount  int64             `json:"amount"`
}

type resolveRoundRequest struct {
	WinningNumber *int        `json:"winningNumber" validate:"required"`
	ColorResult   wingo.Color `json:"colorResult" validate:"required"`
}

type assignRoleRequest struct {
	Role wingo.Role `json:"role" validate:"required,oneof=admin user guest"`
}

type profileRequest struct {
	Name string `json:"name" validate:"required"`
}

func (s *FiberServer) healthHandler(c *fiber.Ctx) error {
	health := fiber.Map{
		"game": fiber.Map{
			"status":         "running",
			"round_duration": s.game.Scheduler.Duration().String(),
			"pending_rounds": len(s.game.PendingRounds()),
		},
	}
	if s.db != nil {
		health["database"] = s.db.Health()
	}
	if s.cache != nil {
		health["cache"] = s.cache.Health()
	}
	return c.JSON(health)
}

func (s *FiberServer) currentRoundHandler(c *fiber.Ctx) error {
	r, err := s.game.GetCurrentRound(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(r)
}

func (s *FiberServer) roundHistoryHandler(c *fiber.Ctx) error {
	limit, err := queryLimit(c, defaultRoundLimit)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(s.game.GetRoundHistory(limit))
}

func (s *FiberServer) resolveRoundHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "Round id must be a positive integer")
	}

	var req resolveRoundRequest
	if err := s.parse(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	r, err := s.game.ResolveRound(c.UserContext(), caller(c), int64(id), *req.WinningNumber, req.ColorResult)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(r)
}

func (s *FiberServer) roundReportHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "Round id must be a positive integer")
	}
	report, err := s.game.RoundReport(caller(c), int64(id))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(report)
}

func (s *FiberServer) betHistoryHandler(c *fiber.Ctx) error {
	limit, err := queryLimit(c, defaultBetLimit)
	if err != nil {
		return badRequest(c, err.Error())
	}
	bets, err := s.game.GetBetHistory(caller(c), limit)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(bets)
}

func (s *FiberServer) placeBetHandler(c *fiber.Ctx) error {
	var req placeBetRequest
	if err := s.parse(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	bt, err := req.BetType.Decode()
	if err != nil {
		return s.fail(c, err)
	}

	bet, err := s.game.PlaceBet(c.UserContext(), caller(c), req.RoundID, bt, req.Amount)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bet)
}

func (s *FiberServer) callerRoleHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"role": s.game.GetCallerUserRole(caller(c))})
}

func (s *FiberServer) callerAdminHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"admin": s.game.IsCallerAdmin(caller(c))})
}

func (s *FiberServer) callerProfileHandler(c *fiber.Ctx) error {
	profile, ok, err := s.game.GetCallerUserProfile(caller(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(profileResponse(profile, ok))
}

func (s *FiberServer) saveCallerProfileHandler(c *fiber.Ctx) error {
	var req profileRequest
	if err := s.parse(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	profile, err := s.game.SaveCallerUserProfile(c.UserContext(), caller(c), wingo.UserProfile{Name: req.Name})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(profile)
}

func (s *FiberServer) userProfileHandler(c *fiber.Ctx) error {
	target := wingo.Principal(c.Params("principal"))
	profile, ok, err := s.game.GetUserProfile(caller(c), target)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(profileResponse(profile, ok))
}

func (s *FiberServer) assignRoleHandler(c *fiber.Ctx) error {
	var req assignRoleRequest
	if err := s.parse(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	target := wingo.Principal(c.Params("principal"))
	if err := s.game.AssignCallerUserRole(c.UserContext(), caller(c), target, req.Role); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"principal": target, "role": req.Role})
}

// profileResponse keeps "no profile yet" distinguishable from an empty name.
func profileResponse(profile wingo.UserProfile, ok bool) fiber.Map {
	if !ok {
		return fiber.Map{"profile": nil}
	}
	return fiber.Map{"profile": profile}
}

func (s *FiberServer) parse(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return errors.New("invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New("invalid field " + verrs[0].Field() + ": " + verrs[0].Tag())
		}
		return err
	}
	return nil
}

func queryLimit(c *fiber.Ctx, def int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("limit must be a non-negative integer")
	}
	return min(n, maxLimit), nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// fail maps core errors onto HTTP statuses. Unknown errors are logged and hidden.
func (s *FiberServer) fail(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.Path()).Error("request failed")
		msg = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, wingo.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, wingo.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, wingo.ErrRoundNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, wingo.ErrRoundNotOpen),
		errors.Is(err, wingo.ErrRoundStillOpen),
		errors.Is(err, wingo.ErrAlreadyResolved):
		return fiber.StatusConflict
	case errors.Is(err, wingo.ErrInconsistentColor),
		errors.Is(err, wingo.ErrInvalidAmount),
		errors.Is(err, wingo.ErrInvalidNumber),
		errors.Is(err, wingo.ErrInvalidBetType),
		errors.Is(err, wingo.ErrInvalidRole),
		errors.Is(err, wingo.ErrInvalidProfileName):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
