package api

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) register(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := s.users.Register(c.Context(), req.Email, req.Username)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (s *Server) profile(c *fiber.Ctx) error {
	user, err := s.users.GetProfile(c.Context(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (s *Server) generateChallengeCode(c *fiber.Ctx) error {
	code, err := s.users.GenerateChallengeCode(c.Context(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"challenge_code": code})
}

func (s *Server) purchaseTokens(c *fiber.Ctx) error {
	var req struct {
		USDCents int64 `json:"usd_cents"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := s.users.PurchaseTokens(c.Context(), currentUser(c), req.USDCents)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) upgradePremium(c *fiber.Ctx) error {
	if err := s.users.UpgradeToPremium(c.Context(), currentUser(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"is_premium": true})
}

func (s *Server) transactions(c *fiber.Ctx) error {
	txns, err := s.users.GetTransactions(c.Context(), currentUser(c), queryLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(txns)
}

func (s *Server) leaderboard(c *fiber.Ctx) error {
	entries, err := s.users.GetLeaderboard(c.Context(), queryLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

func (s *Server) userAchievements(c *fiber.Ctx) error {
	earned, err := s.achievements.GetUserAchievements(c.Context(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(earned)
}
