package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/storage"
)

// defaultSendTimeout bounds a single gateway call
const defaultSendTimeout = 15 * time.Second

// OutboundDispatcher sends the workflow's outbound message descriptors
// through the gateway and logs a Message row per attempt. Gateway failures
// are recorded, never raised; a failed send does not stop the rest of the
// list.
type OutboundDispatcher struct {
	store   storage.Store
	gateway Gateway
	timeout time.Duration
}

// NewOutboundDispatcher creates a dispatcher over the given gateway
func NewOutboundDispatcher(store storage.Store, gateway Gateway) *OutboundDispatcher {
	return &OutboundDispatcher{
		store:   store,
		gateway: gateway,
		timeout: defaultSendTimeout,
	}
}

// Dispatch sends each message in order. Button descriptors try the rich send
// first and fall back to their plain-text rendering on failure. After the
// whole list the conversation's last-system-message time is stamped.
func (d *OutboundDispatcher) Dispatch(conv *models.Conversation, messages []OutboundMessage) {
	if conv == nil {
		return
	}

	for _, msg := range messages {
		sentText := msg.Body
		var result SendResult

		if msg.Type == MessageTypeMenuButtons {
			result = d.sendWithTimeout(func() SendResult {
				return d.gateway.SendButtonMessage(conv.PhoneNumber, msg.Body, msg.Buttons, msg.Fallback)
			})
			if !result.Success {
				sentText = msg.Fallback
				result = d.sendWithTimeout(func() SendResult {
					return d.gateway.SendTextMessage(conv.PhoneNumber, msg.Fallback)
				})
			}
		} else {
			result = d.sendWithTimeout(func() SendResult {
				return d.gateway.SendTextMessage(conv.PhoneNumber, msg.Body)
			})
		}

		d.logOutbound(conv, msg, sentText, result)
	}

	now := time.Now()
	conv.LastSystemMessageAt = &now
	if err := d.store.UpdateConversation(conv); err != nil {
		log.Printf("Failed to stamp last system message for %s: %v", conv.PhoneNumber, err)
	}
}

// sendWithTimeout runs one gateway call with an upper bound; a call that
// overruns is recorded as failed even if it later succeeds on the wire
func (d *OutboundDispatcher) sendWithTimeout(fn func() SendResult) SendResult {
	done := make(chan SendResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- SendResult{Success: false, Status: "failed", Error: "gateway panic"}
			}
		}()
		done <- fn()
	}()

	select {
	case res := <-done:
		return res
	case <-time.After(d.timeout):
		return SendResult{Success: false, Status: "failed", Error: "gateway timeout"}
	}
}

// logOutbound records the send attempt; logging failures are swallowed
func (d *OutboundDispatcher) logOutbound(conv *models.Conversation, msg OutboundMessage, sentText string, result SendResult) {
	payload, err := json.Marshal(msg)
	if err != nil {
		payload = nil
	}

	status := result.Status
	if status == "" {
		if result.Success {
			status = models.DeliveryStatusSent
		} else {
			status = models.DeliveryStatusFailed
		}
	}

	_, err = d.store.CreateMessage(&models.Message{
		ConversationID: conv.ID,
		Direction:      models.DirectionOutbound,
		Body:           sentText,
		Payload:        string(payload),
		Status:         status,
		ExternalID:     result.MessageID,
		ErrorText:      result.Error,
	})
	if err != nil {
		log.Printf("Failed to log outbound message for %s: %v", conv.PhoneNumber, err)
	}
}
