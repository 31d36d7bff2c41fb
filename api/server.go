package api

import (
	"strconv"

	"predictarena/apperrors"
	"predictarena/service"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Server exposes the service layer over HTTP. Authentication happens
// upstream: an API gateway injects the caller's id as X-User-ID, and
// handlers treat it as trusted.
type Server struct {
	users        service.UserService
	voting       service.VotingService
	challenges   service.ChallengeService
	resolution   service.ResolutionService
	sweepstakes  service.SweepstakesService
	achievements service.AchievementService
	rewards      service.RewardsService
	isAdmin      func(userID int64) bool
}

func NewServer(
	users service.UserService,
	voting service.VotingService,
	challenges service.ChallengeService,
	resolution service.ResolutionService,
	sweepstakes service.SweepstakesService,
	achievements service.AchievementService,
	rewards service.RewardsService,
	isAdmin func(userID int64) bool,
) *Server {
	return &Server{
		users:        users,
		voting:       voting,
		challenges:   challenges,
		resolution:   resolution,
		sweepstakes:  sweepstakes,
		achievements: achievements,
		rewards:      rewards,
		isAdmin:      isAdmin,
	}
}

// NewApp builds the fiber application with all routes registered.
func NewApp(s *Server) *fiber.App {
	app := fiber.New()

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/users", s.register)
	app.Get("/leaderboard", s.leaderboard)
	app.Get("/predictions", s.listPredictions)
	app.Get("/predictions/:id", s.getPrediction)
	app.Get("/sweepstakes", s.listOpenSweepstakes)

	me := app.Group("/users/me", requireUser())
	me.Get("/", s.profile)
	me.Post("/challenge-code", s.generateChallengeCode)
	me.Post("/purchases", s.purchaseTokens)
	me.Post("/premium", s.upgradePremium)
	me.Get("/transactions", s.transactions)
	me.Get("/votes", s.userVotes)
	me.Get("/challenges", s.userChallenges)
	me.Get("/challenges/pending", s.pendingChallenges)
	me.Get("/sweepstakes-entries", s.userSweepstakesEntries)
	me.Get("/achievements", s.userAchievements)
	me.Post("/daily-bonus", s.claimDailyBonus)
	me.Post("/ad-watch", s.watchAd)

	app.Post("/predictions/:id/votes", requireUser(), s.placeVote)
	app.Post("/challenges", requireUser(), s.createChallenge)
	app.Post("/challenges/:id/accept", requireUser(), s.acceptChallenge)
	app.Post("/sweepstakes/:id/entries", requireUser(), s.enterSweepstakes)

	admin := app.Group("/admin", requireUser(), requireAdmin(s.isAdmin))
	admin.Post("/predictions", s.createPrediction)
	admin.Post("/predictions/:id/resolve", s.resolvePrediction)
	admin.Get("/predictions/pending-resolution", s.pendingResolutions)
	admin.Post("/sweepstakes", s.createSweepstakes)
	admin.Post("/sweepstakes/:id/close", s.closeSweepstakes)
	admin.Post("/monthly-reset", s.runMonthlyReset)

	return app
}

// requireUser rejects requests without a gateway-provided caller id and
// makes it available to handlers via locals.
func requireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("X-User-ID")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing X-User-ID"})
		}
		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || userID <= 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid X-User-ID"})
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}

// requireAdmin rejects non-admin callers. The services re-check on
// operations that take the caller id explicitly.
func requireAdmin(isAdmin func(userID int64) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !isAdmin(currentUser(c)) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin only"})
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) int64 {
	userID, _ := c.Locals("userID").(int64)
	return userID
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidArgument("invalid %s", name)
	}
	return id, nil
}

func queryLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", "0"))
	if err != nil {
		return 0
	}
	return limit
}

// respondError translates the error taxonomy into HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch apperrors.CodeOf(err) {
	case apperrors.CodeNotFound:
		status = fiber.StatusNotFound
	case apperrors.CodeInvalidArgument:
		status = fiber.StatusBadRequest
	case apperrors.CodeFailedPrecondition:
		status = fiber.StatusPreconditionFailed
	case apperrors.CodeAlreadyExists:
		status = fiber.StatusConflict
	case apperrors.CodeInsufficientFunds:
		status = fiber.StatusPaymentRequired
	case apperrors.CodePermissionDenied:
		status = fiber.StatusForbidden
	}

	if status == fiber.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("Request failed")
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
