package services

import (
	"fmt"
	"strings"

	"github.com/Rainita-06/hotel-sub001/internal/models"
)

// Fixed reply texts used by the conversation workflow
const (
	MsgDidNotCatch = "Sorry, we didn't catch that. Please choose an option below."
	MsgUnknownGuest = "Sorry, we couldn't find a booking for this number. " +
		"Please contact the front desk if you believe this is a mistake."
	MsgMenuPrompt        = "How can we help you today?"
	MsgDescriptionPrompt = "Please describe your request in a few words and our team will take care of it."
	MsgNeedMoreDetail    = "Could you tell us a little more about what you need?"
	MsgRequestAck        = "Thank you! We are working on your request and will keep you updated. 🙏"
	MsgDidNotUnderstand  = "Sorry, we didn't understand that. Please choose an option below."
	MsgFeedbackInvite    = "Would you like to share feedback about your stay? Please reply Yes or No."
	MsgFeedbackDecline   = "No problem at all. Thank you for staying with us! 😊"
	MsgFeedbackYesNo     = "Please reply Yes or No."
	MsgNoFeedbackAvail   = "There are no feedback questions available right now. Thank you!"
	MsgFeedbackRestart   = "We couldn't find your feedback session. Please send 'feedback' to start again."
	MsgNoActiveRequests  = "You have no active requests at the moment."
	MsgNoGuestForStatus  = "We couldn't find your guest profile, so there are no requests to show."
)

// Menu button ids — the payloads the webhook maps back to selectors
const (
	ButtonIDRaiseRequest = "1"
	ButtonIDCheckStatus  = "2"
	ButtonIDGiveFeedback = "3"
)

// BuildMenu produces the option menu for the guest's current status.
// "Give Feedback" is only offered after checkout.
func BuildMenu(status models.GuestStatus) OutboundMessage {
	buttons := []Button{
		{ID: ButtonIDRaiseRequest, Title: "Raise a Request"},
		{ID: ButtonIDCheckStatus, Title: "Check Request Status"},
	}
	if status == models.GuestStatusCheckedOut {
		buttons = append(buttons, Button{ID: ButtonIDGiveFeedback, Title: "Give Feedback"})
	}
	return MenuMessage(MsgMenuPrompt, buttons)
}

// BuildGreeting picks the greeting line for the resolved guest context
func BuildGreeting(guest *models.Guest, voucher *models.Voucher, status models.GuestStatus, hasFutureBooking bool, hotelName string) string {
	name := greetingName(guest, voucher)
	if hotelName == "" {
		hotelName = "our hotel"
	}

	switch {
	case hasFutureBooking, status == models.GuestStatusPreCheckin, status == models.GuestStatusUnknown:
		return fmt.Sprintf("Hello %s, welcome to %s! 👋 You can raise requests here any time and our team will assist you.", name, hotelName)
	case status == models.GuestStatusCheckedIn:
		return fmt.Sprintf("Welcome back, %s! 🏨 We hope you're enjoying your stay at %s. How can we make it even better?", name, hotelName)
	case status == models.GuestStatusCheckedOut:
		return fmt.Sprintf("Hello %s! We hope you enjoyed your stay at %s. We'd love to hear your feedback. 💙", name, hotelName)
	default:
		return fmt.Sprintf("Hello %s, welcome to %s! 👋 You can raise requests here any time and our team will assist you.", name, hotelName)
	}
}

func greetingName(guest *models.Guest, voucher *models.Voucher) string {
	if guest != nil && guest.Name != "" {
		return guest.Name
	}
	if voucher != nil && voucher.GuestName != "" {
		return voucher.GuestName
	}
	return "Guest"
}

// BuildRequestStatusSummary formats the guest's recent requests as a
// bulleted "request-type name: status" list, newest first
func BuildRequestStatusSummary(requests []*models.GuestRequest, typeNames map[uint]string) string {
	if len(requests) == 0 {
		return MsgNoActiveRequests
	}
	lines := make([]string, 0, len(requests)+1)
	lines = append(lines, "Here are your recent requests:")
	for _, r := range requests {
		name := typeNames[r.RequestTypeID]
		if name == "" {
			name = "Request"
		}
		lines = append(lines, fmt.Sprintf("• %s: %s", name, r.Status))
	}
	return strings.Join(lines, "\n")
}

// BuildFeedbackThankYou personalizes the end-of-feedback message
func BuildFeedbackThankYou(guest *models.Guest, voucher *models.Voucher) string {
	return fmt.Sprintf("Thank you for your feedback, %s! It helps us improve. We hope to welcome you again soon. 🙏", greetingName(guest, voucher))
}
