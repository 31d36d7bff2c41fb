package api

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) claimDailyBonus(c *fiber.Ctx) error {
	result, err := s.rewards.ClaimDailyBonus(c.Context(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) watchAd(c *fiber.Ctx) error {
	result, err := s.rewards.WatchAd(c.Context(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
