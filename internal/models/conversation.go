package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ConversationState is the per-guest state of the messaging workflow
type ConversationState string

const (
	StateIdle                ConversationState = "idle"
	StateAwaitingMenu        ConversationState = "awaiting_menu"
	StateAwaitingDescription ConversationState = "awaiting_description"
	StateCollectingFeedback  ConversationState = "collecting_feedback"
	StateFeedbackInvited     ConversationState = "feedback_invited"
)

// Valid reports whether s is one of the defined workflow states
func (s ConversationState) Valid() bool {
	switch s {
	case StateIdle, StateAwaitingMenu, StateAwaitingDescription,
		StateCollectingFeedback, StateFeedbackInvited:
		return true
	}
	return false
}

// ConversationContext holds the ephemeral per-conversation flags the workflow
// needs between turns. Typed fields instead of a free-form map; persisted as
// a JSON document in the Context column.
type ConversationContext struct {
	PendingRequestStartedAt *time.Time `json:"pending_request_started_at,omitempty"`
	FeedbackSessionID       *uint      `json:"feedback_session_id,omitempty"`
	FeedbackQuestionCount   int        `json:"feedback_question_count,omitempty"`
}

// Conversation stores durable per-phone-number session state for the
// WhatsApp workflow. One row per normalized phone number, never deleted.
type Conversation struct {
	gorm.Model

	PhoneNumber string            `json:"phone_number" gorm:"uniqueIndex"`
	State       ConversationState `json:"state" gorm:"default:'idle'"`
	GuestID     *uint             `json:"guest_id" gorm:"index"`
	VoucherID   *uint             `json:"voucher_id" gorm:"index"`
	GuestStatus GuestStatus       `json:"guest_status" gorm:"default:'unknown'"`
	Context     string            `json:"context"` // JSON-encoded ConversationContext

	LastInboundAt       *time.Time `json:"last_inbound_at"`
	LastSystemMessageAt *time.Time `json:"last_system_message_at"`
	MenuPresentedAt     *time.Time `json:"menu_presented_at"`
	WelcomeSentAt       *time.Time `json:"welcome_sent_at"`
	FeedbackPromptAt    *time.Time `json:"feedback_prompt_at"`
}

// BeforeCreate sets the initial state for a fresh conversation
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.State == "" {
		c.State = StateIdle
	}
	if c.GuestStatus == "" {
		c.GuestStatus = GuestStatusUnknown
	}
	return nil
}

// GetContext decodes the stored context document. A missing or corrupt
// document decodes to the zero context rather than failing the turn.
func (c *Conversation) GetContext() ConversationContext {
	var ctx ConversationContext
	if c.Context == "" {
		return ctx
	}
	if err := json.Unmarshal([]byte(c.Context), &ctx); err != nil {
		return ConversationContext{}
	}
	return ctx
}

// SetContext encodes and stores the context document
func (c *Conversation) SetContext(ctx ConversationContext) {
	data, err := json.Marshal(ctx)
	if err != nil {
		c.Context = ""
		return
	}
	c.Context = string(data)
}
