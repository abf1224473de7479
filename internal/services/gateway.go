package services

import (
	"log"
	"strings"
)

// SendResult is what the messaging gateway reports back for one send attempt
type SendResult struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

// Button is one quick-reply option on an interactive message
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Gateway is the outbound messaging capability. The workflow treats it as
// opaque: send text, send buttons, get a delivery result back.
type Gateway interface {
	SendTextMessage(to string, text string) SendResult
	SendButtonMessage(to string, body string, buttons []Button, fallbackText string) SendResult
}

// NoopGateway logs sends instead of delivering them. Used when Twilio
// credentials are not configured so the rest of the stack still runs.
type NoopGateway struct{}

func (NoopGateway) SendTextMessage(to string, text string) SendResult {
	log.Printf("📱 [noop] text to %s: %s", to, text)
	return SendResult{Success: true, Status: "skipped"}
}

func (NoopGateway) SendButtonMessage(to string, body string, buttons []Button, fallbackText string) SendResult {
	log.Printf("📱 [noop] buttons to %s: %s (%d options)", to, body, len(buttons))
	return SendResult{Success: true, Status: "skipped"}
}

var _ Gateway = NoopGateway{}

// Outbound message descriptor types
const (
	MessageTypeText        = "text"
	MessageTypeMenuButtons = "menu_buttons"
)

// OutboundMessage describes one reply the workflow wants delivered
type OutboundMessage struct {
	Type     string   `json:"type"`
	Body     string   `json:"body"`
	Buttons  []Button `json:"buttons,omitempty"`
	Fallback string   `json:"fallback,omitempty"`
}

// TextMessage builds a plain-text outbound descriptor
func TextMessage(body string) OutboundMessage {
	return OutboundMessage{Type: MessageTypeText, Body: body}
}

// MenuMessage builds a button-menu descriptor with its plain-text fallback
func MenuMessage(prompt string, buttons []Button) OutboundMessage {
	return OutboundMessage{
		Type:     MessageTypeMenuButtons,
		Body:     prompt,
		Buttons:  buttons,
		Fallback: renderMenuFallback(prompt, buttons),
	}
}

// renderMenuFallback renders a menu as plain text for gateways that cannot
// show buttons: "Prompt A or B." for two options, an Oxford-comma list with
// "or" before the last for three or more.
func renderMenuFallback(prompt string, buttons []Button) string {
	titles := make([]string, 0, len(buttons))
	for _, b := range buttons {
		titles = append(titles, b.Title)
	}
	switch len(titles) {
	case 0:
		return prompt
	case 1:
		return prompt + " " + titles[0] + "."
	case 2:
		return prompt + " " + titles[0] + " or " + titles[1] + "."
	default:
		return prompt + " " + strings.Join(titles[:len(titles)-1], ", ") + ", or " + titles[len(titles)-1] + "."
	}
}
