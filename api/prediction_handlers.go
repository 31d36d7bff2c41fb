package api

import (
	"predictarena/models"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) listPredictions(c *fiber.Ctx) error {
	status := models.PredictionStatus(c.Query("status"))
	predictions, err := s.voting.ListPredictions(c.Context(), status, queryLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(predictions)
}

func (s *Server) getPrediction(c *fiber.Ctx) error {
	predictionID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	prediction, err := s.voting.GetPrediction(c.Context(), predictionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(prediction)
}

func (s *Server) placeVote(c *fiber.Ctx) error {
	predictionID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Option   string `json:"option"`
		PTAmount int64  `json:"pt_amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := s.voting.PlaceVote(c.Context(), currentUser(c), predictionID, req.Option, req.PTAmount)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (s *Server) userVotes(c *fiber.Ctx) error {
	votes, err := s.voting.GetUserVotes(c.Context(), currentUser(c), queryLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(votes)
}
