package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prasadk19/postdeck/internal/service"
	"github.com/prasadk19/postdeck/internal/transfer"
)

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	userID := GetUserID(c)

	file, err := c.FormFile("file")
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	asset, err := h.s.Upload(c.Context(), userID, file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(asset)
}

// ListAssets returns the user's media library, optionally narrowed by a
// type filter or a search term over filenames and tags.
func (h *MediaHandler) ListAssets(c *fiber.Ctx) error {
	userID := GetUserID(c)
	term := c.Query("q")
	mediaType := c.Query("type")

	if term != "" {
		assets, err := h.s.Search(c.Context(), userID, term)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to search media library",
			})
		}
		return c.Status(fiber.StatusOK).JSON(assets)
	}

	assets, err := h.s.List(c.Context(), userID, mediaType)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list media library",
		})
	}

	return c.Status(fiber.StatusOK).JSON(assets)
}

func (h *MediaHandler) Rename(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.MediaRenameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	if err := h.s.Rename(c.Context(), userID, req.AssetID, req.Filename); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to rename asset",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *MediaHandler) UpdateTags(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.MediaTagsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	if err := h.s.UpdateTags(c.Context(), userID, req.AssetID, req.Tags); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to update tags",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *MediaHandler) Remove(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.MediaRemoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	if err := h.s.Remove(c.Context(), userID, req.AssetID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to remove asset",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *MediaHandler) SignedURL(c *fiber.Ctx) error {
	userID := GetUserID(c)
	assetID := c.QueryInt("id", 0)

	url, err := h.s.SignedURL(c.Context(), userID, int64(assetID), 15*time.Minute)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to sign url",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"url": url,
	})
}
