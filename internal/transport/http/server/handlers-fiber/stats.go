package handlers_fiber

import (
	"net/http"

	api "review-consensus-guard/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// GetStats returns vote counters and PR counts by status.
func (h *Handler) GetStats(c *fiber.Ctx) error {
	statsRes, err := h.uc.Stats(c.Context())
	if err != nil {
		h.log.Errorw("failed to get stats", "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(statsRes)
}

// GetStatsReviewerUserId returns stats of one reviewer.
func (h *Handler) GetStatsReviewerUserId(c *fiber.Ctx, userID string, params api.GetStatsReviewerUserIdParams) error {
	limit := 10
	if params.Limit != nil && *params.Limit > 0 {
		limit = *params.Limit
	}

	res, err := h.uc.ReviewerStats(c.Context(), userID, limit)
	if err != nil {
		h.log.Errorw("failed to get reviewer stats", "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(res)
}
