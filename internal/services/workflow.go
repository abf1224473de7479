package services

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/storage"
	"github.com/Rainita-06/hotel-sub001/internal/utils"
)

// InteractiveReply is the nested reply object inside an interactive payload
type InteractiveReply struct {
	ID      string `json:"id"`
	Payload string `json:"payload"`
	Title   string `json:"title"`
}

// Interactive is the structured interactive field of an inbound payload
type Interactive struct {
	Type        string            `json:"type"` // "button_reply" or "list_reply"
	ButtonReply *InteractiveReply `json:"button_reply,omitempty"`
	ListReply   *InteractiveReply `json:"list_reply,omitempty"`
}

// reply returns whichever nested reply the interactive payload carries
func (i *Interactive) reply() *InteractiveReply {
	if i == nil {
		return nil
	}
	switch i.Type {
	case "button_reply":
		return i.ButtonReply
	case "list_reply":
		return i.ListReply
	}
	if i.ButtonReply != nil {
		return i.ButtonReply
	}
	return i.ListReply
}

// InboundMessage is one parsed webhook turn from the messaging gateway
type InboundMessage struct {
	From          string       `json:"from"`
	Body          string       `json:"body"`
	ButtonPayload string       `json:"button_payload,omitempty"`
	ButtonText    string       `json:"button_text,omitempty"`
	Interactive   *Interactive `json:"interactive,omitempty"`
	RawPayload    string       `json:"-"` // raw form payload, stored on the message log
}

var greetingKeywords = map[string]bool{
	"hi": true, "hello": true, "hey": true, "hola": true, "namaste": true,
	"good morning": true, "good afternoon": true, "good evening": true,
}

var affirmativeKeywords = map[string]bool{
	"yes": true, "yeah": true, "yup": true, "sure": true, "ok": true, "okay": true, "y": true,
}

var negativeKeywords = map[string]bool{
	"no": true, "nope": true, "nah": true, "n": true,
}

// selectorAliases maps known button payloads and button texts onto the
// numeric menu selectors
var selectorAliases = map[string]string{
	"raise a request":      "1",
	"raise request":        "1",
	"check request status": "2",
	"check status":         "2",
	"give feedback":        "3",
}

// ConversationWorkflow is the per-guest conversation state machine. One
// shared instance handles every phone number; turns for the same number are
// serialized with a keyed lock.
type ConversationWorkflow struct {
	store      storage.Store
	resolver   *GuestResolver
	classifier *IntentClassifier
	feedback   *FeedbackDriver
	hotelName  string

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewConversationWorkflow wires the state machine with its collaborators
func NewConversationWorkflow(store storage.Store, resolver *GuestResolver, classifier *IntentClassifier, feedback *FeedbackDriver, hotelName string) *ConversationWorkflow {
	if hotelName == "" {
		hotelName = "our hotel"
	}
	return &ConversationWorkflow{
		store:      store,
		resolver:   resolver,
		classifier: classifier,
		feedback:   feedback,
		hotelName:  hotelName,
		locks:      make(map[string]*sync.Mutex),
	}
}

// phoneLock returns the mutex serializing turns for one phone number
func (w *ConversationWorkflow) phoneLock(phone string) *sync.Mutex {
	w.locksMu.Lock()
	defer w.locksMu.Unlock()
	if mu, ok := w.locks[phone]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	w.locks[phone] = mu
	return mu
}

// HandleInbound processes one webhook turn and returns the outbound replies
// together with the (possibly newly created) conversation. A missing sender
// short-circuits with the unknown-guest message and no conversation.
func (w *ConversationWorkflow) HandleInbound(in InboundMessage) ([]OutboundMessage, *models.Conversation) {
	phone := utils.NormalizePhone(in.From)
	if phone == "" {
		return []OutboundMessage{TextMessage(MsgUnknownGuest)}, nil
	}

	mu := w.phoneLock(phone)
	mu.Lock()
	defer mu.Unlock()

	conv, err := w.store.GetConversationByPhone(phone)
	if err != nil {
		conv, err = w.store.CreateConversation(&models.Conversation{PhoneNumber: phone})
		if err != nil {
			log.Printf("Failed to create conversation for %s: %v", phone, err)
			return []OutboundMessage{TextMessage(MsgUnknownGuest)}, nil
		}
	}

	guest, voucher, status := w.resolver.Resolve(conv)

	now := time.Now()
	conv.LastInboundAt = &now
	w.saveConversation(conv)

	w.logInbound(conv, in)

	text := effectiveText(in)
	if strings.TrimSpace(text) == "" {
		return []OutboundMessage{TextMessage(MsgDidNotCatch), BuildMenu(status)}, conv
	}

	selector := w.resolveSelector(in)

	switch {
	case conv.State == models.StateCollectingFeedback:
		return w.feedback.Progress(conv, guest, voucher, in.Body), conv

	case conv.State == models.StateFeedbackInvited:
		return w.handleFeedbackInvite(conv, guest, voucher, selector), conv

	case greetingKeywords[selector] || (conv.State == models.StateIdle && conv.MenuPresentedAt == nil):
		return w.handleGreeting(conv, guest, voucher, status, in.Body), conv

	case conv.State == models.StateAwaitingMenu:
		return w.handleMenuSelection(conv, guest, voucher, status, selector, in.Body), conv

	case conv.State == models.StateAwaitingDescription:
		return w.handleDescription(conv, guest, status, in.Body), conv

	default:
		return []OutboundMessage{BuildMenu(status)}, conv
	}
}

// effectiveText prefers the body, then the button display text
func effectiveText(in InboundMessage) string {
	if strings.TrimSpace(in.Body) != "" {
		return in.Body
	}
	if r := in.Interactive.reply(); r != nil && r.Title != "" {
		return r.Title
	}
	return in.ButtonText
}

// resolveSelector picks the effective selector for dispatch: button payload,
// else button text, else body — lowercased and alias-mapped
func (w *ConversationWorkflow) resolveSelector(in InboundMessage) string {
	raw := in.ButtonPayload
	if r := in.Interactive.reply(); raw == "" && r != nil {
		raw = r.Payload
		if raw == "" {
			raw = r.ID
		}
	}
	if raw == "" {
		raw = in.ButtonText
	}
	if raw == "" {
		if r := in.Interactive.reply(); r != nil {
			raw = r.Title
		}
	}
	if raw == "" {
		raw = in.Body
	}
	sel := strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := selectorAliases[sel]; ok {
		return mapped
	}
	return sel
}

func (w *ConversationWorkflow) handleFeedbackInvite(conv *models.Conversation, guest *models.Guest, voucher *models.Voucher, selector string) []OutboundMessage {
	switch {
	case affirmativeKeywords[selector]:
		return w.feedback.Start(conv, guest, voucher)
	case negativeKeywords[selector]:
		conv.State = models.StateIdle
		w.saveConversation(conv)
		return []OutboundMessage{TextMessage(MsgFeedbackDecline)}
	default:
		return []OutboundMessage{TextMessage(MsgFeedbackYesNo)}
	}
}

func (w *ConversationWorkflow) handleGreeting(conv *models.Conversation, guest *models.Guest, voucher *models.Voucher, status models.GuestStatus, rawBody string) []OutboundMessage {
	if guest == nil && voucher == nil {
		// Unknown number: log the text for staff review either way
		w.createReviewEntry(conv, nil, w.classifier.Classify(rawBody), rawBody)
		conv.State = models.StateIdle
		w.saveConversation(conv)
		return []OutboundMessage{TextMessage(MsgUnknownGuest)}
	}

	greeting := BuildGreeting(guest, voucher, status, w.resolver.HasFutureBooking(guest, voucher), w.hotelName)

	now := time.Now()
	conv.State = models.StateAwaitingMenu
	conv.MenuPresentedAt = &now
	conv.WelcomeSentAt = &now
	w.saveConversation(conv)

	// Opportunistic classification: a greeting like "Hi, my AC is broken"
	// should still surface the issue for review
	if det := w.classifier.Classify(rawBody); det != nil {
		w.createReviewEntry(conv, guest, det, rawBody)
	}

	return []OutboundMessage{TextMessage(greeting), BuildMenu(status)}
}

func (w *ConversationWorkflow) handleMenuSelection(conv *models.Conversation, guest *models.Guest, voucher *models.Voucher, status models.GuestStatus, selector, rawBody string) []OutboundMessage {
	switch {
	case selector == "1":
		now := time.Now()
		ctx := conv.GetContext()
		ctx.PendingRequestStartedAt = &now
		conv.SetContext(ctx)
		conv.State = models.StateAwaitingDescription
		w.saveConversation(conv)
		return []OutboundMessage{TextMessage(MsgDescriptionPrompt)}

	case selector == "2":
		return []OutboundMessage{TextMessage(w.requestStatusSummary(guest)), BuildMenu(status)}

	case selector == "3" && status == models.GuestStatusCheckedOut:
		now := time.Now()
		conv.State = models.StateFeedbackInvited
		conv.FeedbackPromptAt = &now
		w.saveConversation(conv)
		return []OutboundMessage{TextMessage(MsgFeedbackInvite)}

	default:
		if det := w.classifier.Classify(rawBody); det != nil {
			w.createReviewEntry(conv, guest, det, rawBody)
			conv.State = models.StateIdle
			w.saveConversation(conv)
			return []OutboundMessage{TextMessage(MsgRequestAck)}
		}
		return []OutboundMessage{TextMessage(MsgDidNotUnderstand), BuildMenu(status)}
	}
}

func (w *ConversationWorkflow) handleDescription(conv *models.Conversation, guest *models.Guest, status models.GuestStatus, body string) []OutboundMessage {
	if len(strings.TrimSpace(body)) < 3 {
		return []OutboundMessage{TextMessage(MsgNeedMoreDetail)}
	}

	det := w.classifier.Classify(body)

	err := w.store.Transaction(func(tx storage.Store) error {
		entry := buildReviewEntry(conv, guest, det, body)
		if _, err := tx.CreateUnmatchedRequest(entry); err != nil {
			return err
		}
		ctx := conv.GetContext()
		ctx.PendingRequestStartedAt = nil
		conv.SetContext(ctx)
		conv.State = models.StateIdle
		conv.MenuPresentedAt = nil
		return tx.UpdateConversation(conv)
	})
	if err != nil {
		log.Printf("Failed to record request for %s: %v", conv.PhoneNumber, err)
	}

	return []OutboundMessage{TextMessage(MsgRequestAck)}
}

// requestStatusSummary lists the guest's 5 most recent requests
func (w *ConversationWorkflow) requestStatusSummary(guest *models.Guest) string {
	if guest == nil {
		return MsgNoGuestForStatus
	}
	requests, err := w.store.GetRecentRequestsByGuest(guest.ID, 5)
	if err != nil {
		log.Printf("Failed to load requests for guest %d: %v", guest.ID, err)
		return MsgNoActiveRequests
	}
	typeNames := make(map[uint]string)
	for _, r := range requests {
		if _, ok := typeNames[r.RequestTypeID]; ok {
			continue
		}
		if rt, err := w.store.GetRequestType(r.RequestTypeID); err == nil {
			typeNames[r.RequestTypeID] = rt.Name
		}
	}
	return BuildRequestStatusSummary(requests, typeNames)
}

// createReviewEntry is fire-and-forget: failures are logged only and never
// interrupt the conversational reply
func (w *ConversationWorkflow) createReviewEntry(conv *models.Conversation, guest *models.Guest, det *DetectedRequest, text string) {
	entry := buildReviewEntry(conv, guest, det, text)
	if _, err := w.store.CreateUnmatchedRequest(entry); err != nil {
		log.Printf("Failed to create review entry for %s: %v", conv.PhoneNumber, err)
	}
}

func buildReviewEntry(conv *models.Conversation, guest *models.Guest, det *DetectedRequest, text string) *models.UnmatchedRequest {
	entry := &models.UnmatchedRequest{
		ConversationID: conv.ID,
		MessageText:    strings.TrimSpace(text),
	}
	if guest != nil {
		id := guest.ID
		entry.GuestID = &id
	}
	if det != nil {
		rtID := det.RequestType.ID
		entry.RequestTypeID = &rtID
		entry.DepartmentID = det.RequestType.DepartmentID
		entry.MatchedKeywords = strings.Join(det.MatchedKeywords, ",")
	}
	return entry
}

// NotifyCheckIn is the proactive check-in trigger: attach the guest, move to
// the menu state and return the welcome + menu for dispatch.
func (w *ConversationWorkflow) NotifyCheckIn(guest *models.Guest) (*models.Conversation, []OutboundMessage) {
	conv := w.conversationForGuest(guest)
	if conv == nil {
		return nil, nil
	}

	now := time.Now()
	id := guest.ID
	conv.GuestID = &id
	conv.GuestStatus = models.GuestStatusCheckedIn
	conv.State = models.StateAwaitingMenu
	conv.WelcomeSentAt = &now
	conv.MenuPresentedAt = &now
	w.saveConversation(conv)

	greeting := BuildGreeting(guest, nil, models.GuestStatusCheckedIn, false, w.hotelName)
	return conv, []OutboundMessage{TextMessage(greeting), BuildMenu(models.GuestStatusCheckedIn)}
}

// NotifyCheckOut is the proactive check-out trigger: attach the guest, move
// to the feedback invite and return the thank-you + yes/no prompt.
func (w *ConversationWorkflow) NotifyCheckOut(guest *models.Guest) (*models.Conversation, []OutboundMessage) {
	conv := w.conversationForGuest(guest)
	if conv == nil {
		return nil, nil
	}

	now := time.Now()
	id := guest.ID
	conv.GuestID = &id
	conv.GuestStatus = models.GuestStatusCheckedOut
	conv.State = models.StateFeedbackInvited
	conv.FeedbackPromptAt = &now
	w.saveConversation(conv)

	greeting := BuildGreeting(guest, nil, models.GuestStatusCheckedOut, false, w.hotelName)
	return conv, []OutboundMessage{TextMessage(greeting), TextMessage(MsgFeedbackInvite)}
}

// conversationForGuest resolves or creates the conversation for the guest's
// normalized phone number
func (w *ConversationWorkflow) conversationForGuest(guest *models.Guest) *models.Conversation {
	phone := utils.NormalizePhone(guest.Phone)
	if phone == "" {
		log.Printf("Guest %d has no usable phone number", guest.ID)
		return nil
	}

	mu := w.phoneLock(phone)
	mu.Lock()
	defer mu.Unlock()

	conv, err := w.store.GetConversationByPhone(phone)
	if err != nil {
		conv, err = w.store.CreateConversation(&models.Conversation{PhoneNumber: phone})
		if err != nil {
			log.Printf("Failed to create conversation for guest %d: %v", guest.ID, err)
			return nil
		}
	}
	return conv
}

// logInbound records the inbound message verbatim; failures never interrupt
// the turn
func (w *ConversationWorkflow) logInbound(conv *models.Conversation, in InboundMessage) {
	_, err := w.store.CreateMessage(&models.Message{
		ConversationID: conv.ID,
		Direction:      models.DirectionInbound,
		Body:           in.Body,
		Payload:        in.RawPayload,
		Status:         models.DeliveryStatusReceived,
	})
	if err != nil {
		log.Printf("Failed to log inbound message for %s: %v", conv.PhoneNumber, err)
	}
}

func (w *ConversationWorkflow) saveConversation(conv *models.Conversation) {
	if err := w.store.UpdateConversation(conv); err != nil {
		log.Printf("Failed to update conversation %s: %v", conv.PhoneNumber, err)
	}
}
