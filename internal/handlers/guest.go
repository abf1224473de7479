package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/services"
	"github.com/Rainita-06/hotel-sub001/internal/storage"
)

// GuestHandler exposes guest records and the stay lifecycle events that
// trigger proactive WhatsApp messages
type GuestHandler struct {
	store      storage.Store
	workflow   *services.ConversationWorkflow
	dispatcher *services.OutboundDispatcher
}

// NewGuestHandler creates a new guest handler
func NewGuestHandler(store storage.Store, workflow *services.ConversationWorkflow, dispatcher *services.OutboundDispatcher) *GuestHandler {
	return &GuestHandler{
		store:      store,
		workflow:   workflow,
		dispatcher: dispatcher,
	}
}

// CreateGuest registers a new guest record
func (h *GuestHandler) CreateGuest(c *fiber.Ctx) error {
	var guest models.Guest
	if err := c.BodyParser(&guest); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid guest payload"})
	}
	if guest.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "phone is required"})
	}

	created, err := h.store.CreateGuest(&guest)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListGuests returns all guest records
func (h *GuestHandler) ListGuests(c *fiber.Ctx) error {
	guests, err := h.store.GetAllGuests()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(guests)
}

// GetGuest returns one guest with the derived stay status
func (h *GuestHandler) GetGuest(c *fiber.Ctx) error {
	guest, ok := h.loadGuest(c)
	if !ok {
		return nil
	}
	return c.JSON(fiber.Map{
		"guest":  guest,
		"status": guest.GetCurrentStatus(),
	})
}

// CheckIn marks the guest as checked in and sends the welcome + menu
func (h *GuestHandler) CheckIn(c *fiber.Ctx) error {
	guest, ok := h.loadGuest(c)
	if !ok {
		return nil
	}

	now := time.Now()
	guest.CheckedInAt = &now
	if err := h.store.UpdateGuest(guest); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	conv, messages := h.workflow.NotifyCheckIn(guest)
	if conv != nil {
		h.dispatcher.Dispatch(conv, messages)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"status":  models.GuestStatusCheckedIn,
	})
}

// CheckOut marks the guest as checked out and sends the feedback invite
func (h *GuestHandler) CheckOut(c *fiber.Ctx) error {
	guest, ok := h.loadGuest(c)
	if !ok {
		return nil
	}

	now := time.Now()
	guest.CheckedOutAt = &now
	if err := h.store.UpdateGuest(guest); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	conv, messages := h.workflow.NotifyCheckOut(guest)
	if conv != nil {
		h.dispatcher.Dispatch(conv, messages)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"status":  models.GuestStatusCheckedOut,
	})
}

// loadGuest resolves the :id path param; on failure the response is already
// written and ok is false
func (h *GuestHandler) loadGuest(c *fiber.Ctx) (*models.Guest, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid guest id"})
		return nil, false
	}
	guest, err := h.store.GetGuest(uint(id))
	if err != nil {
		_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "guest not found"})
		return nil, false
	}
	return guest, true
}
