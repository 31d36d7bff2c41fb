package api

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) createChallenge(c *fiber.Ctx) error {
	var req struct {
		OpponentCode string `json:"opponent_code"`
		PredictionID int64  `json:"prediction_id"`
		Stake        int64  `json:"stake"`
		Choice       bool   `json:"choice"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	challenge, err := s.challenges.CreateChallenge(c.Context(), currentUser(c), req.OpponentCode, req.PredictionID, req.Stake, req.Choice)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(challenge)
}

func (s *Server) acceptChallenge(c *fiber.Ctx) error {
	challengeID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Choice bool `json:"choice"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	challenge, err := s.challenges.AcceptChallenge(c.Context(), challengeID, currentUser(c), req.Choice)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(challenge)
}

func (s *Server) pendingChallenges(c *fiber.Ctx) error {
	challenges, err := s.challenges.GetPendingChallenges(c.Context(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(challenges)
}

func (s *Server) userChallenges(c *fiber.Ctx) error {
	challenges, err := s.challenges.GetUserChallenges(c.Context(), currentUser(c), queryLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(challenges)
}
