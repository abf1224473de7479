package handlers

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Rainita-06/hotel-sub001/internal/services"
)

// WhatsAppHandler handles WhatsApp webhook requests
type WhatsAppHandler struct {
	workflow   *services.ConversationWorkflow
	dispatcher *services.OutboundDispatcher
}

// NewWhatsAppHandler creates a new WhatsApp handler
func NewWhatsAppHandler(workflow *services.ConversationWorkflow, dispatcher *services.OutboundDispatcher) *WhatsAppHandler {
	return &WhatsAppHandler{
		workflow:   workflow,
		dispatcher: dispatcher,
	}
}

// HandleWebhook processes one incoming WhatsApp message from the gateway
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	in := services.InboundMessage{
		From:          firstNonEmpty(c.FormValue("From"), c.FormValue("WaId")),
		Body:          c.FormValue("Body"),
		ButtonPayload: firstNonEmpty(c.FormValue("ButtonPayload"), c.FormValue("button_payload"), c.FormValue("payload")),
		ButtonText:    firstNonEmpty(c.FormValue("ButtonText"), c.FormValue("button_text")),
		RawPayload:    string(c.Body()),
	}
	if raw := c.FormValue("interactive"); raw != "" {
		var interactive services.Interactive
		if err := json.Unmarshal([]byte(raw), &interactive); err == nil {
			in.Interactive = &interactive
		} else {
			log.Printf("Ignoring malformed interactive payload: %v", err)
		}
	}

	log.Printf("📱 WhatsApp message from %s: %q", in.From, in.Body)

	replies, conv := h.workflow.HandleInbound(in)

	if conv != nil {
		h.dispatcher.Dispatch(conv, replies)
	}

	texts := make([]string, 0, len(replies))
	for _, r := range replies {
		texts = append(texts, r.Body)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"replies": texts,
	})
}

// HandleVerify answers the gateway's GET probe on the webhook URL
func (h *WhatsAppHandler) HandleVerify(c *fiber.Ctx) error {
	return c.SendString("OK")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
