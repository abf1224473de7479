package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rainita-06/hotel-sub001/internal/models"
	"github.com/Rainita-06/hotel-sub001/internal/storage"
)

// newTestWorkflow wires a workflow over a fresh memory store
func newTestWorkflow(t *testing.T) (*ConversationWorkflow, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	resolver := NewGuestResolver(store, time.UTC)
	classifier := NewIntentClassifier(store)
	feedback := NewFeedbackDriver(store)
	workflow := NewConversationWorkflow(store, resolver, classifier, feedback, "The Grand Palm")
	return workflow, store
}

func createCheckedInGuest(t *testing.T, store storage.Store, phone string) *models.Guest {
	t.Helper()
	now := time.Now()
	guest, err := store.CreateGuest(&models.Guest{Name: "Ravi", Phone: phone, CheckedInAt: &now})
	require.NoError(t, err)
	return guest
}

func createCheckedOutGuest(t *testing.T, store storage.Store, phone string) *models.Guest {
	t.Helper()
	earlier := time.Now().Add(-48 * time.Hour)
	now := time.Now().Add(-time.Hour)
	guest, err := store.CreateGuest(&models.Guest{Name: "Ravi", Phone: phone, CheckedInAt: &earlier, CheckedOutAt: &now})
	require.NoError(t, err)
	return guest
}

func createPreCheckinGuest(t *testing.T, store storage.Store, phone string) *models.Guest {
	t.Helper()
	in := time.Now().Add(72 * time.Hour)
	out := time.Now().Add(120 * time.Hour)
	guest, err := store.CreateGuest(&models.Guest{Name: "Ravi", Phone: phone, CheckInDate: &in, CheckOutDate: &out})
	require.NoError(t, err)
	return guest
}

func seedFeedbackQuestions(t *testing.T, store storage.Store, prompts ...string) {
	t.Helper()
	for i, p := range prompts {
		_, err := store.CreateFeedbackQuestion(&models.FeedbackQuestion{Prompt: p, Order: i + 1, Active: true})
		require.NoError(t, err)
	}
}

func TestGreetingForNewPreCheckinGuest(t *testing.T) {
	w, store := newTestWorkflow(t)
	createPreCheckinGuest(t, store, "+15550100001")

	replies, conv := w.HandleInbound(InboundMessage{From: "whatsapp:+15550100001", Body: "Hello"})
	require.NotNil(t, conv)
	require.Len(t, replies, 2)

	assert.Contains(t, replies[0].Body, "welcome to The Grand Palm")
	assert.Equal(t, MessageTypeMenuButtons, replies[1].Type)
	assert.Equal(t, models.StateAwaitingMenu, conv.State)
	assert.NotNil(t, conv.MenuPresentedAt)
	assert.NotNil(t, conv.WelcomeSentAt)
}

func TestMenuSelectionRaiseRequest(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedInGuest(t, store, "+15550100002")

	w.HandleInbound(InboundMessage{From: "+15550100002", Body: "Hi"})
	replies, conv := w.HandleInbound(InboundMessage{From: "+15550100002", Body: "1"})

	require.Len(t, replies, 1)
	assert.Equal(t, MsgDescriptionPrompt, replies[0].Body)
	assert.Equal(t, models.StateAwaitingDescription, conv.State)
	assert.NotNil(t, conv.GetContext().PendingRequestStartedAt)
}

func TestDescriptionCreatesReviewEntry(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedInGuest(t, store, "+15550100003")

	maintenance, err := store.CreateRequestType(&models.RequestType{Name: "Maintenance", Active: true})
	require.NoError(t, err)
	_, err = store.CreateRequestKeyword(&models.RequestKeyword{Keyword: "ac", Weight: 10, RequestTypeID: maintenance.ID, Active: true})
	require.NoError(t, err)

	w.HandleInbound(InboundMessage{From: "+15550100003", Body: "Hi"})
	w.HandleInbound(InboundMessage{From: "+15550100003", Body: "1"})
	replies, conv := w.HandleInbound(InboundMessage{From: "+15550100003", Body: "AC not cooling"})

	require.Len(t, replies, 1)
	assert.Equal(t, MsgRequestAck, replies[0].Body)
	assert.Equal(t, models.StateIdle, conv.State)
	assert.Nil(t, conv.GetContext().PendingRequestStartedAt)

	pending, err := store.GetPendingUnmatchedRequests()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "AC not cooling", pending[0].MessageText)
	require.NotNil(t, pending[0].RequestTypeID)
	assert.Equal(t, maintenance.ID, *pending[0].RequestTypeID)
}

func TestDescriptionTooShortAsksForMore(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedInGuest(t, store, "+15550100004")

	w.HandleInbound(InboundMessage{From: "+15550100004", Body: "Hi"})
	w.HandleInbound(InboundMessage{From: "+15550100004", Body: "1"})
	replies, conv := w.HandleInbound(InboundMessage{From: "+15550100004", Body: "ok"})

	require.Len(t, replies, 1)
	assert.Equal(t, MsgNeedMoreDetail, replies[0].Body)
	assert.Equal(t, models.StateAwaitingDescription, conv.State)
}

func TestFeedbackInviteDecline(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedOutGuest(t, store, "+15550100005")

	w.HandleInbound(InboundMessage{From: "+15550100005", Body: "Hi"})
	_, conv := w.HandleInbound(InboundMessage{From: "+15550100005", Body: "3"})
	require.Equal(t, models.StateFeedbackInvited, conv.State)

	replies, conv := w.HandleInbound(InboundMessage{From: "+15550100005", Body: "No"})
	require.Len(t, replies, 1)
	assert.Equal(t, MsgFeedbackDecline, replies[0].Body)
	assert.Equal(t, models.StateIdle, conv.State)
}

func TestFullFeedbackFlow(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedOutGuest(t, store, "+15550100006")
	seedFeedbackQuestions(t, store, "How was your stay overall?", "Would you recommend us?")

	w.HandleInbound(InboundMessage{From: "+15550100006", Body: "Hi"})
	replies, conv := w.HandleInbound(InboundMessage{From: "+15550100006", Body: "3"})
	require.Len(t, replies, 1)
	assert.Equal(t, MsgFeedbackInvite, replies[0].Body)
	require.Equal(t, models.StateFeedbackInvited, conv.State)
	assert.NotNil(t, conv.FeedbackPromptAt)

	replies, conv = w.HandleInbound(InboundMessage{From: "+15550100006", Body: "Yes"})
	require.Len(t, replies, 1)
	assert.Equal(t, "How was your stay overall?", replies[0].Body)
	assert.Equal(t, models.StateCollectingFeedback, conv.State)
	require.NotNil(t, conv.GetContext().FeedbackSessionID)
	sessionID := *conv.GetContext().FeedbackSessionID

	replies, conv = w.HandleInbound(InboundMessage{From: "+15550100006", Body: "It was wonderful"})
	require.Len(t, replies, 1)
	assert.Equal(t, "Would you recommend us?", replies[0].Body)
	assert.Equal(t, models.StateCollectingFeedback, conv.State)

	replies, conv = w.HandleInbound(InboundMessage{From: "+15550100006", Body: "Absolutely"})
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Body, "Thank you for your feedback")
	assert.Equal(t, models.StateIdle, conv.State)
	assert.Nil(t, conv.GetContext().FeedbackSessionID)

	session, err := store.GetFeedbackSession(sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackStatusCompleted, session.Status)
	assert.NotNil(t, session.CompletedAt)

	responses, err := store.GetResponsesBySession(sessionID)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "It was wonderful", responses[0].Answer)
	assert.Equal(t, "Absolutely", responses[1].Answer)
}

func TestFeedbackInviteRequiresYesOrNo(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedOutGuest(t, store, "+15550100007")

	w.HandleInbound(InboundMessage{From: "+15550100007", Body: "Hi"})
	w.HandleInbound(InboundMessage{From: "+15550100007", Body: "3"})
	replies, conv := w.HandleInbound(InboundMessage{From: "+15550100007", Body: "maybe later"})

	require.Len(t, replies, 1)
	assert.Equal(t, MsgFeedbackYesNo, replies[0].Body)
	assert.Equal(t, models.StateFeedbackInvited, conv.State)
}

func TestFeedbackOptionHiddenBeforeCheckout(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedInGuest(t, store, "+15550100008")

	replies, _ := w.HandleInbound(InboundMessage{From: "+15550100008", Body: "Hi"})
	require.Len(t, replies, 2)
	menu := replies[1]
	require.Equal(t, MessageTypeMenuButtons, menu.Type)
	assert.Len(t, menu.Buttons, 2)

	// "3" from a checked-in guest falls through to classification
	replies, conv := w.HandleInbound(InboundMessage{From: "+15550100008", Body: "3"})
	assert.Equal(t, MsgDidNotUnderstand, replies[0].Body)
	assert.Equal(t, models.StateAwaitingMenu, conv.State)
}

func TestFeedbackOptionShownAfterCheckout(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedOutGuest(t, store, "+15550100009")

	replies, _ := w.HandleInbound(InboundMessage{From: "+15550100009", Body: "Hi"})
	require.Len(t, replies, 2)
	menu := replies[1]
	require.Equal(t, MessageTypeMenuButtons, menu.Type)
	require.Len(t, menu.Buttons, 3)
	assert.Equal(t, "Give Feedback", menu.Buttons[2].Title)
}

func TestUnknownNumberGetsReviewEntry(t *testing.T) {
	w, store := newTestWorkflow(t)

	replies, conv := w.HandleInbound(InboundMessage{From: "+19990001111", Body: "My shower is cold"})
	require.NotNil(t, conv)
	require.Len(t, replies, 1)
	assert.Equal(t, MsgUnknownGuest, replies[0].Body)
	assert.Equal(t, models.StateIdle, conv.State)

	pending, err := store.GetPendingUnmatchedRequests()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "My shower is cold", pending[0].MessageText)
	assert.Nil(t, pending[0].GuestID)
}

func TestEmptyBodyDoesNotChangeState(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedInGuest(t, store, "+15550100010")

	w.HandleInbound(InboundMessage{From: "+15550100010", Body: "Hi"})
	w.HandleInbound(InboundMessage{From: "+15550100010", Body: "1"})

	replies, conv := w.HandleInbound(InboundMessage{From: "+15550100010", Body: "   "})
	require.Len(t, replies, 2)
	assert.Equal(t, MsgDidNotCatch, replies[0].Body)
	assert.Equal(t, models.StateAwaitingDescription, conv.State)
}

func TestEmptySenderShortCircuits(t *testing.T) {
	w, _ := newTestWorkflow(t)

	replies, conv := w.HandleInbound(InboundMessage{From: "whatsapp:", Body: "Hello"})
	assert.Nil(t, conv)
	require.Len(t, replies, 1)
	assert.Equal(t, MsgUnknownGuest, replies[0].Body)
}

func TestButtonPayloadBeatsBody(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedInGuest(t, store, "+15550100011")

	w.HandleInbound(InboundMessage{From: "+15550100011", Body: "Hi"})
	replies, conv := w.HandleInbound(InboundMessage{
		From:          "+15550100011",
		Body:          "Raise a Request",
		ButtonPayload: "1",
	})

	require.Len(t, replies, 1)
	assert.Equal(t, MsgDescriptionPrompt, replies[0].Body)
	assert.Equal(t, models.StateAwaitingDescription, conv.State)
}

func TestButtonTitleAliasMapsToSelector(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedInGuest(t, store, "+15550100012")

	w.HandleInbound(InboundMessage{From: "+15550100012", Body: "Hi"})
	replies, conv := w.HandleInbound(InboundMessage{From: "+15550100012", Body: "Raise a Request"})

	require.Len(t, replies, 1)
	assert.Equal(t, MsgDescriptionPrompt, replies[0].Body)
	assert.Equal(t, models.StateAwaitingDescription, conv.State)
}

func TestInteractiveReplySelector(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedInGuest(t, store, "+15550100013")

	w.HandleInbound(InboundMessage{From: "+15550100013", Body: "Hi"})
	replies, conv := w.HandleInbound(InboundMessage{
		From: "+15550100013",
		Body: "Raise a Request",
		Interactive: &Interactive{
			Type:        "button_reply",
			ButtonReply: &InteractiveReply{ID: "1", Title: "Raise a Request"},
		},
	})

	require.Len(t, replies, 1)
	assert.Equal(t, MsgDescriptionPrompt, replies[0].Body)
	assert.Equal(t, models.StateAwaitingDescription, conv.State)
}

func TestCheckStatusKeepsMenuState(t *testing.T) {
	w, store := newTestWorkflow(t)
	guest := createCheckedInGuest(t, store, "+15550100014")

	rt, err := store.CreateRequestType(&models.RequestType{Name: "Housekeeping", Active: true})
	require.NoError(t, err)
	_, err = store.CreateGuestRequest(&models.GuestRequest{GuestID: guest.ID, RequestTypeID: rt.ID, Description: "Fresh towels", Status: models.RequestStatusOpen})
	require.NoError(t, err)

	w.HandleInbound(InboundMessage{From: "+15550100014", Body: "Hi"})
	replies, conv := w.HandleInbound(InboundMessage{From: "+15550100014", Body: "2"})

	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Body, "Housekeeping: open")
	assert.Equal(t, MessageTypeMenuButtons, replies[1].Type)
	assert.Equal(t, models.StateAwaitingMenu, conv.State)
}

func TestGreetingWithIssueCreatesReviewEntry(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedInGuest(t, store, "+15550100015")

	rt, err := store.CreateRequestType(&models.RequestType{Name: "Maintenance", Active: true})
	require.NoError(t, err)
	_, err = store.CreateRequestKeyword(&models.RequestKeyword{Keyword: "broken", Weight: 2, RequestTypeID: rt.ID, Active: true})
	require.NoError(t, err)

	replies, conv := w.HandleInbound(InboundMessage{From: "+15550100015", Body: "Hi, my AC is broken"})
	require.Len(t, replies, 2)
	assert.Equal(t, models.StateAwaitingMenu, conv.State)

	pending, err := store.GetPendingUnmatchedRequests()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotNil(t, pending[0].RequestTypeID)
	assert.Equal(t, rt.ID, *pending[0].RequestTypeID)
}

func TestInboundMessagesAreLogged(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedInGuest(t, store, "+15550100016")

	_, conv := w.HandleInbound(InboundMessage{From: "+15550100016", Body: "Hi", RawPayload: "Body=Hi"})
	require.NotNil(t, conv)

	msgs, err := store.GetMessagesByConversation(conv.ID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.DirectionInbound, msgs[0].Direction)
	assert.Equal(t, "Hi", msgs[0].Body)
	assert.Equal(t, "Body=Hi", msgs[0].Payload)
}

func TestNotifyCheckIn(t *testing.T) {
	w, store := newTestWorkflow(t)
	now := time.Now()
	guest, err := store.CreateGuest(&models.Guest{Name: "Dana", Phone: "+15550100017", CheckedInAt: &now})
	require.NoError(t, err)

	conv, replies := w.NotifyCheckIn(guest)
	require.NotNil(t, conv)
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Body, "Welcome back, Dana")
	assert.Equal(t, MessageTypeMenuButtons, replies[1].Type)
	assert.Equal(t, models.StateAwaitingMenu, conv.State)
	require.NotNil(t, conv.GuestID)
	assert.Equal(t, guest.ID, *conv.GuestID)
}

func TestNotifyCheckOut(t *testing.T) {
	w, store := newTestWorkflow(t)
	guest := createCheckedOutGuest(t, store, "+15550100018")

	conv, replies := w.NotifyCheckOut(guest)
	require.NotNil(t, conv)
	require.Len(t, replies, 2)
	assert.Equal(t, MsgFeedbackInvite, replies[1].Body)
	assert.Equal(t, models.StateFeedbackInvited, conv.State)
	assert.NotNil(t, conv.FeedbackPromptAt)
	assert.Equal(t, models.GuestStatusCheckedOut, conv.GuestStatus)
}

func TestFeedbackWithNoQuestions(t *testing.T) {
	w, store := newTestWorkflow(t)
	createCheckedOutGuest(t, store, "+15550100019")

	w.HandleInbound(InboundMessage{From: "+15550100019", Body: "Hi"})
	w.HandleInbound(InboundMessage{From: "+15550100019", Body: "3"})
	replies, conv := w.HandleInbound(InboundMessage{From: "+15550100019", Body: "Yes"})

	require.Len(t, replies, 1)
	assert.Equal(t, MsgNoFeedbackAvail, replies[0].Body)
	assert.Equal(t, models.StateIdle, conv.State)
}
