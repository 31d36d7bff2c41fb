package api

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) listOpenSweepstakes(c *fiber.Ctx) error {
	open, err := s.sweepstakes.ListOpen(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(open)
}

func (s *Server) enterSweepstakes(c *fiber.Ctx) error {
	sweepstakesID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	entry, err := s.sweepstakes.Enter(c.Context(), currentUser(c), sweepstakesID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (s *Server) userSweepstakesEntries(c *fiber.Ctx) error {
	entries, err := s.sweepstakes.GetUserEntries(c.Context(), currentUser(c), queryLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}
