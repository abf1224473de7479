package models

import (
	"gorm.io/gorm"
)

// Message direction
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Delivery status values recorded on outbound messages
const (
	DeliveryStatusReceived = "received" // inbound
	DeliveryStatusSent     = "sent"
	DeliveryStatusFailed   = "failed"
)

// Message is an immutable log entry for every inbound and outbound message.
// Rows are write-once: the store exposes no update operation for them.
type Message struct {
	gorm.Model

	ConversationID uint   `json:"conversation_id" gorm:"index"`
	Direction      string `json:"direction"`
	Body           string `json:"body"`
	Payload        string `json:"payload"` // raw webhook payload / structured descriptor, JSON
	Status         string `json:"status"`
	ExternalID     string `json:"external_id"` // gateway message SID
	ErrorText      string `json:"error_text"`
}
