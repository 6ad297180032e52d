package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/pulseboard/internal/models"
	"github.com/maheshrc27/pulseboard/internal/queue"
	"github.com/maheshrc27/pulseboard/internal/repository"
	"github.com/maheshrc27/pulseboard/internal/service"
	"github.com/maheshrc27/pulseboard/internal/transfer"
)

type AnalyticsHandler struct {
	master service.AnalyticsMasterService
	sync   service.SmartSyncService
	hs     repository.HotspotRepository
	pa     repository.PostAnalyticsRepository
	client *asynq.Client
}

func NewAnalyticsHandler(
	master service.AnalyticsMasterService,
	sync service.SmartSyncService,
	hs repository.HotspotRepository,
	pa repository.PostAnalyticsRepository,
	client *asynq.Client) *AnalyticsHandler {
	return &AnalyticsHandler{
		master: master,
		sync:   sync,
		hs:     hs,
		pa:     pa,
		client: client,
	}
}

// RunAnalytics enqueues a full pipeline run. The pipeline takes minutes
// for large accounts, so the request never runs it inline.
func (h *AnalyticsHandler) RunAnalytics(c *fiber.Ctx) error {
	var payload queue.AnalyticsRunPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := queue.EnqueueAnalyticsRun(h.client, payload, 0); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to schedule analytics run",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "scheduled",
	})
}

func (h *AnalyticsHandler) SmartSync(c *fiber.Ctx) error {
	var opts transfer.SmartSyncOptions
	if err := c.BodyParser(&opts); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if opts.SocialAccountID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "social_account_id is required",
		})
	}

	result := h.sync.PerformSmartSync(c.Context(), opts)
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AnalyticsHandler) GetRecommendations(c *fiber.Ctx) error {
	accountID := c.QueryInt("account_id", 0)

	rec, err := h.sync.GetSyncRecommendations(c.Context(), int64(accountID))
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to build sync recommendation",
		})
	}

	return c.Status(fiber.StatusOK).JSON(rec)
}

func (h *AnalyticsHandler) GetSyncStatus(c *fiber.Ctx) error {
	accountID := c.QueryInt("account_id", 0)

	status, err := h.sync.GetSyncStatus(c.Context(), int64(accountID))
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to fetch sync status",
		})
	}

	return c.Status(fiber.StatusOK).JSON(status)
}

func (h *AnalyticsHandler) GetHotspots(c *fiber.Ctx) error {
	accountID := c.QueryInt("account_id", 0)

	hotspots, err := h.hs.ListByAccount(c.Context(), int64(accountID))
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to fetch hotspots",
		})
	}

	return c.Status(fiber.StatusOK).JSON(hotspots)
}

// GetPostAnalytics serves the most recent snapshot for one post. Passing
// rich=true asks for the newest snapshot that still carries the provider's
// raw insight payload instead.
func (h *AnalyticsHandler) GetPostAnalytics(c *fiber.Ctx) error {
	accountID := c.QueryInt("account_id", 0)
	postID := c.Query("post_id")

	if postID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "post_id is required",
		})
	}

	var rec *models.PostAnalyticsRecord
	var err error
	if c.QueryBool("rich", false) {
		rec, err = h.pa.GetRichestByPostID(c.Context(), int64(accountID), postID)
	} else {
		rec, err = h.pa.GetLatestByPostID(c.Context(), int64(accountID), postID)
	}
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to fetch post analytics",
		})
	}
	if rec == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No analytics recorded for this post",
		})
	}

	return c.Status(fiber.StatusOK).JSON(rec)
}

func (h *AnalyticsHandler) GetHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	runs, err := h.master.GetHistory(c.Context(), limit)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to fetch run history",
		})
	}

	return c.Status(fiber.StatusOK).JSON(runs)
}
