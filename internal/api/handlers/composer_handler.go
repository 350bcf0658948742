package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/prasadk19/postdeck/internal/composer"
	"github.com/prasadk19/postdeck/internal/queue"
	"github.com/prasadk19/postdeck/internal/service"
	"github.com/prasadk19/postdeck/internal/transfer"
)

type ComposerHandler struct {
	manager     *composer.Manager
	media       service.MediaService
	posts       service.PostService
	linkedin    service.LinkedInService
	AsynqClient *asynq.Client
}

func NewComposerHandler(
	manager *composer.Manager,
	media service.MediaService,
	posts service.PostService,
	linkedin service.LinkedInService,
	asynqClient *asynq.Client,
) *ComposerHandler {
	return &ComposerHandler{
		manager:     manager,
		media:       media,
		posts:       posts,
		linkedin:    linkedin,
		AsynqClient: asynqClient,
	}
}

func (h *ComposerHandler) GetDraft(c *fiber.Ctx) error {
	userID := GetUserID(c)
	comp := h.manager.Get(userID)
	return c.Status(fiber.StatusOK).JSON(comp.Snapshot())
}

func (h *ComposerHandler) UpdateDraft(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var update transfer.ComposerUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	refs, err := h.media.Refs(c.Context(), userID, update.MediaIDs)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Media asset not found",
		})
	}

	comp := h.manager.Get(userID)
	s := comp.Snapshot()
	s.Title = update.Title
	s.Content = update.Content
	s.Comment = update.FirstComment
	s.Hashtags = update.Hashtags
	s.Media = refs
	comp.Update(s)

	return c.Status(fiber.StatusOK).JSON(comp.Snapshot())
}

func (h *ComposerHandler) SaveDraft(c *fiber.Ctx) error {
	userID := GetUserID(c)
	comp := h.manager.Get(userID)

	postID, err := comp.SaveDraft(c.Context())
	if err != nil {
		return dispatchError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Draft saved",
		"post_id": postID,
	})
}

func (h *ComposerHandler) ScheduleDraft(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	at, err := time.Parse(time.RFC3339, req.ScheduledFor)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "scheduled_for must be an RFC 3339 timestamp",
		})
	}

	comp := h.manager.Get(userID)
	postID, err := comp.Schedule(c.Context(), at, req.Timezone)
	if err != nil {
		return dispatchError(c, err)
	}
	h.manager.Release(userID)

	err = queue.EnqueueDeliver(h.AsynqClient, queue.DeliverPostPayload{PostID: postID}, time.Until(at))
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"error": "Post saved but delivery could not be queued",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post scheduled successfully",
		"post_id": postID,
	})
}

func (h *ComposerHandler) PublishDraft(c *fiber.Ctx) error {
	userID := GetUserID(c)

	comp := h.manager.Get(userID)
	postID, err := comp.PublishNow(c.Context())
	if err != nil {
		return dispatchError(c, err)
	}
	h.manager.Release(userID)

	post, err := h.posts.PostInfo(c.Context(), postID, userID)
	if err == nil {
		if err := h.linkedin.PublishPost(c.Context(), post); err != nil {
			slog.Info(err.Error())
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post published successfully",
		"post_id": postID,
	})
}

func (h *ComposerHandler) DiscardDraft(c *fiber.Ctx) error {
	userID := GetUserID(c)

	comp := h.manager.Get(userID)
	if err := comp.Discard(); err != nil {
		slog.Info(err.Error())
	}
	h.manager.Release(userID)

	return c.SendStatus(fiber.StatusOK)
}

// dispatchError maps composer errors onto HTTP statuses: validation is the
// caller's fault, a pending dispatch is a conflict, and a persistence
// failure is a backend fault the caller may retry.
func dispatchError(c *fiber.Ctx, err error) error {
	var validation *composer.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validation.Reason,
		})
	}
	if errors.Is(err, composer.ErrDispatchInFlight) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	var persistence *composer.PersistenceError
	if errors.As(err, &persistence) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Unable to save post, your draft is kept locally",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
