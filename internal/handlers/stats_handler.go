package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

type StatsReader interface {
	Stats(recruiterID string, since time.Time) (*models.RecruiterStats, error)
}

type StatsHandler struct {
	batches StatsReader
	now     func() time.Time
}

func NewStatsHandler(batches StatsReader) *StatsHandler {
	return &StatsHandler{
		batches: batches,
		now:     time.Now,
	}
}

// HandleGetStats handles GET /stats?recruiter_id=&window=all|today
func (h *StatsHandler) HandleGetStats(c *fiber.Ctx) error {
	id := recruiterID(c, c.Query("recruiter_id"))

	var since time.Time
	switch window := strings.ToLower(c.Query("window", "all")); window {
	case "all":
	case "today":
		since = repositories.StartOfDay(h.now())
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "window must be 'all' or 'today'",
		})
	}

	stats, err := h.batches.Stats(id, since)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load recruiter stats",
		})
	}

	return c.JSON(stats)
}
