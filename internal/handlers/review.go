package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/storage"
)

// ReviewHandler exposes the staff review queue: guest-described issues
// captured by the workflow, waiting for approval into formal tickets
type ReviewHandler struct {
	store storage.Store
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(store storage.Store) *ReviewHandler {
	return &ReviewHandler{store: store}
}

// ListPending returns review entries awaiting a staff decision
func (h *ReviewHandler) ListPending(c *fiber.Ctx) error {
	pending, err := h.store.GetPendingUnmatchedRequests()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(pending)
}

// Approve accepts a review entry and raises a formal guest request from it.
// Entries without a resolved guest or request type can only be rejected.
func (h *ReviewHandler) Approve(c *fiber.Ctx) error {
	entry, ok := h.loadEntry(c)
	if !ok {
		return nil
	}
	if entry.ReviewStatus != models.ReviewStatusPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "review entry already decided"})
	}
	if entry.GuestID == nil || entry.RequestTypeID == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "entry has no guest or request type; assign one or reject it",
		})
	}

	var request *models.GuestRequest
	err := h.store.Transaction(func(tx storage.Store) error {
		req := &models.GuestRequest{
			GuestID:       *entry.GuestID,
			RequestTypeID: *entry.RequestTypeID,
			Description:   entry.MessageText,
		}
		created, err := tx.CreateGuestRequest(req)
		if err != nil {
			return err
		}
		request = created

		entry.ReviewStatus = models.ReviewStatusApproved
		return tx.UpdateUnmatchedRequest(entry)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"request": request,
	})
}

// Reject closes a review entry without raising a request
func (h *ReviewHandler) Reject(c *fiber.Ctx) error {
	entry, ok := h.loadEntry(c)
	if !ok {
		return nil
	}
	if entry.ReviewStatus != models.ReviewStatusPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "review entry already decided"})
	}

	var body struct {
		Notes string `json:"notes"`
	}
	_ = c.BodyParser(&body)

	entry.ReviewStatus = models.ReviewStatusRejected
	entry.ReviewNotes = body.Notes
	if err := h.store.UpdateUnmatchedRequest(entry); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ReviewHandler) loadEntry(c *fiber.Ctx) (*models.UnmatchedRequest, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid review id"})
		return nil, false
	}
	entry, err := h.store.GetUnmatchedRequest(uint(id))
	if err != nil {
		_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "review entry not found"})
		return nil, false
	}
	return entry, true
}
