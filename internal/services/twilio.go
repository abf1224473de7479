package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioGateway delivers WhatsApp messages through the Twilio REST API.
// Implements the Gateway interface consumed by the outbound dispatcher.
type TwilioGateway struct {
	client        *twilio.RestClient
	whatsappFrom  string // Format: "whatsapp:+14155238886"
	quickReplySID string // Content SID of the pre-approved quick-reply template
}

// NewTwilioGateway creates a new Twilio gateway from environment credentials
func NewTwilioGateway() (*TwilioGateway, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_WHATSAPP_FROM")

	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioGateway{
		client:        client,
		whatsappFrom:  from,
		quickReplySID: os.Getenv("TWILIO_QUICK_REPLY_CONTENT_SID"),
	}, nil
}

// SendTextMessage sends a plain WhatsApp text message
func (t *TwilioGateway) SendTextMessage(to string, text string) SendResult {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.whatsappFrom)
	params.SetTo(whatsappAddr(to))
	params.SetBody(text)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp message to %s: %v", to, err)
		return SendResult{Success: false, Status: "failed", Error: err.Error()}
	}

	result := SendResult{Success: true, Status: "sent"}
	if resp.Sid != nil {
		result.MessageID = *resp.Sid
	}
	if resp.Status != nil {
		result.Status = *resp.Status
	}
	log.Printf("✅ WhatsApp message sent to %s! SID: %s", to, result.MessageID)
	return result
}

// SendButtonMessage sends an interactive quick-reply message using the
// configured content template. The template carries the body text and up to
// three button titles as content variables. Without a configured template
// SID the send is reported as failed so the caller can fall back to text.
func (t *TwilioGateway) SendButtonMessage(to string, body string, buttons []Button, fallbackText string) SendResult {
	if t.quickReplySID == "" {
		return SendResult{
			Success: false,
			Status:  "failed",
			Error:   "TWILIO_QUICK_REPLY_CONTENT_SID not configured",
		}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.whatsappFrom)
	params.SetTo(whatsappAddr(to))
	params.SetContentSid(t.quickReplySID)

	// Content variables: body plus one slot per button title
	contentVariables := map[string]string{"body": body}
	for i, b := range buttons {
		contentVariables[fmt.Sprintf("button_%d", i+1)] = b.Title
	}
	variablesJSON, err := json.Marshal(contentVariables)
	if err != nil {
		return SendResult{Success: false, Status: "failed", Error: err.Error()}
	}
	params.SetContentVariables(string(variablesJSON))

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send interactive message to %s: %v", to, err)
		return SendResult{Success: false, Status: "failed", Error: err.Error()}
	}
	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		errText := fmt.Sprintf("twilio error %d", *resp.ErrorCode)
		if resp.ErrorMessage != nil {
			errText = fmt.Sprintf("twilio error %d: %s", *resp.ErrorCode, *resp.ErrorMessage)
		}
		return SendResult{Success: false, Status: "failed", Error: errText}
	}

	result := SendResult{Success: true, Status: "sent"}
	if resp.Sid != nil {
		result.MessageID = *resp.Sid
	}
	if resp.Status != nil {
		result.Status = *resp.Status
	}
	log.Printf("Interactive message sent to %s, SID: %s", to, result.MessageID)
	return result
}

// whatsappAddr prefixes the transport scheme for the Twilio API
func whatsappAddr(to string) string {
	if strings.HasPrefix(to, "whatsapp:") {
		return to
	}
	return "whatsapp:" + to
}

var _ Gateway = (*TwilioGateway)(nil)
