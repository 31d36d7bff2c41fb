package api

import (
	"time"

	"predictarena/models"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) createPrediction(c *fiber.Ctx) error {
	var req struct {
		Question       string             `json:"question"`
		Category       string             `json:"category"`
		Options        []string           `json:"options"`
		RequiredPT     int64              `json:"required_pt"`
		Odds           map[string]float64 `json:"odds"`
		ClosesAt       time.Time          `json:"closes_at"`
		PredictionType string             `json:"prediction_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	prediction := &models.Prediction{
		Question:       req.Question,
		Category:       req.Category,
		Options:        req.Options,
		RequiredPT:     req.RequiredPT,
		Odds:           req.Odds,
		ClosesAt:       req.ClosesAt,
		PredictionType: models.PredictionType(req.PredictionType),
	}

	created, err := s.resolution.CreatePrediction(c.Context(), currentUser(c), prediction)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) resolvePrediction(c *fiber.Ctx) error {
	predictionID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		CorrectOption string `json:"correct_option"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := s.resolution.ResolvePrediction(c.Context(), currentUser(c), predictionID, req.CorrectOption)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) pendingResolutions(c *fiber.Ctx) error {
	pending, err := s.resolution.GetPendingResolutions(c.Context(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pending)
}

func (s *Server) createSweepstakes(c *fiber.Ctx) error {
	var req struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		EntryCost     int64  `json:"entry_cost"`
		EntryCurrency string `json:"entry_currency"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sw := &models.Sweepstakes{
		Title:         req.Title,
		Description:   req.Description,
		EntryCost:     req.EntryCost,
		EntryCurrency: models.Currency(req.EntryCurrency),
		IsOpen:        true,
	}

	created, err := s.sweepstakes.CreateSweepstakes(c.Context(), currentUser(c), sw)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) closeSweepstakes(c *fiber.Ctx) error {
	sweepstakesID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := s.sweepstakes.CloseSweepstakes(c.Context(), currentUser(c), sweepstakesID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"is_open": false})
}

// runMonthlyReset lets an operator trigger the sweep outside the
// scheduler. The sweep itself is idempotent.
func (s *Server) runMonthlyReset(c *fiber.Ctx) error {
	result, err := s.rewards.RunMonthlyReset(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
