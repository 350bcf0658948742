package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prasadk19/postdeck/internal/service"
)

type AnalyticsHandler struct {
	s service.AnalyticsService
}

func NewAnalyticsHandler(service service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{s: service}
}

func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	userID := GetUserID(c)
	dateRange := c.Query("range", "30d")

	stats, err := h.s.Summary(c.Context(), userID, dateRange)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to compute analytics summary",
		})
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

func (h *AnalyticsHandler) Trends(c *fiber.Ctx) error {
	userID := GetUserID(c)
	dateRange := c.Query("range", "30d")
	timezone := c.Query("timezone", "UTC")

	trends, err := h.s.Trends(c.Context(), userID, dateRange, timezone)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to compute engagement trends",
		})
	}

	return c.Status(fiber.StatusOK).JSON(trends)
}

func (h *AnalyticsHandler) Hashtags(c *fiber.Ctx) error {
	userID := GetUserID(c)
	limit := c.QueryInt("limit", 10)

	leaderboard, err := h.s.HashtagLeaderboard(c.Context(), userID, limit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to compute hashtag leaderboard",
		})
	}

	return c.Status(fiber.StatusOK).JSON(leaderboard)
}

func (h *AnalyticsHandler) OptimalTimes(c *fiber.Ctx) error {
	userID := GetUserID(c)

	slots, err := h.s.OptimalTimes(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to compute optimal posting times",
		})
	}

	return c.Status(fiber.StatusOK).JSON(slots)
}

func (h *AnalyticsHandler) TopPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)
	limit := c.QueryInt("limit", 5)

	posts, err := h.s.TopPosts(c.Context(), userID, limit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to rank posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}
